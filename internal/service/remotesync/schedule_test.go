package remotesync

import (
	"testing"
	"time"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/remotesync"
	"github.com/stretchr/testify/assert"
)

func scheduleSettings() remotesync.Settings {
	return NormalizeSettings(remotesync.RawSettings{
		Enabled:    true,
		Endpoint:   "https://reports.example.com/sync",
		SchoolCode: "sch-1",
		Time:       "08:00",
	})
}

func at(clock string) time.Time {
	t, _ := time.Parse("2006-01-02 15:04:05", "2026-03-09 "+clock)
	return t
}

func TestComputeScheduledTime(t *testing.T) {
	now := at("06:00:00")

	s := scheduleSettings()
	assert.Equal(t, at("08:00:00"), ComputeScheduledTime(now, s))

	s.Mode = remotesync.ModeCountdown
	s.SchoolStart = "07:30"
	s.CountdownMinutes = 45
	assert.Equal(t, at("08:15:00"), ComputeScheduledTime(now, s))
}

func TestShouldRunNow(t *testing.T) {
	retryFuture := at("09:30:00")
	retryPast := at("07:00:00")
	attemptAt := at("08:00:01")

	tests := []struct {
		name     string
		settings func() remotesync.Settings
		state    remotesync.SyncState
		now      time.Time
		want     bool
	}{
		{
			name:     "due one second past the scheduled time",
			settings: scheduleSettings,
			now:      at("08:00:01"),
			want:     true,
		},
		{
			name:     "not due before the scheduled time",
			settings: scheduleSettings,
			now:      at("07:59:59"),
			want:     false,
		},
		{
			name: "disabled never runs",
			settings: func() remotesync.Settings {
				s := scheduleSettings()
				s.Enabled = false
				return s
			},
			now:  at("09:00:00"),
			want: false,
		},
		{
			name: "missing endpoint never runs",
			settings: func() remotesync.Settings {
				s := scheduleSettings()
				s.Endpoint = ""
				return s
			},
			now:  at("09:00:00"),
			want: false,
		},
		{
			name:     "already succeeded today",
			settings: scheduleSettings,
			state:    remotesync.SyncState{LastSuccessDay: "2026-03-09"},
			now:      at("09:00:00"),
			want:     false,
		},
		{
			name:     "succeeded yesterday runs again",
			settings: scheduleSettings,
			state:    remotesync.SyncState{LastSuccessDay: "2026-03-08"},
			now:      at("09:00:00"),
			want:     true,
		},
		{
			name:     "future retry defers",
			settings: scheduleSettings,
			state:    remotesync.SyncState{PendingRetryAt: &retryFuture},
			now:      at("09:00:00"),
			want:     false,
		},
		{
			name:     "elapsed retry runs",
			settings: scheduleSettings,
			state:    remotesync.SyncState{PendingRetryAt: &retryPast},
			now:      at("09:00:00"),
			want:     true,
		},
		{
			name:     "pending attempt today does not re-run",
			settings: scheduleSettings,
			state: remotesync.SyncState{
				LastAttemptAt:  &attemptAt,
				LastAttemptDay: "2026-03-09",
				LastStatus:     remotesync.StatusPending,
			},
			now:  at("09:00:00"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldRunNow(tt.settings(), tt.state, tt.now))
		})
	}
}

func TestNextDelay(t *testing.T) {
	s := scheduleSettings()

	// Before the scheduled time: wait until it.
	assert.Equal(t, 2*time.Hour, NextDelay(s, remotesync.SyncState{}, at("06:00:00")))

	// Past the scheduled time with no retry: default to an hour.
	assert.Equal(t, DefaultDelay, NextDelay(s, remotesync.SyncState{}, at("09:00:00")))

	// A pending retry earlier than the schedule wins.
	retryAt := at("06:30:00")
	assert.Equal(t, 30*time.Minute, NextDelay(s, remotesync.SyncState{PendingRetryAt: &retryAt}, at("06:00:00")))

	// Floor of 30 seconds.
	soon := at("06:00:05")
	assert.Equal(t, MinDelay, NextDelay(s, remotesync.SyncState{PendingRetryAt: &soon}, at("06:00:00")))
}
