package remotesync

import (
	"testing"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/remotesync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestNormalizeSettingsDefaults(t *testing.T) {
	s := NormalizeSettings(remotesync.RawSettings{})

	assert.False(t, s.Enabled)
	assert.Empty(t, s.Endpoint)
	assert.Equal(t, remotesync.ModeTime, s.Mode)
	assert.Equal(t, DefaultSyncTime, s.Time)
	assert.Equal(t, DefaultSchoolStart, s.SchoolStart)
	assert.Equal(t, DefaultCountdownMin, s.CountdownMinutes)
	assert.Zero(t, s.GraceMinutes)
	assert.Empty(t, s.Supervisors)
}

func TestNormalizeSettingsDegradation(t *testing.T) {
	tests := []struct {
		name  string
		raw   remotesync.RawSettings
		check func(t *testing.T, s remotesync.Settings)
	}{
		{
			name: "invalid endpoint dropped",
			raw:  remotesync.RawSettings{Endpoint: "not a url"},
			check: func(t *testing.T, s remotesync.Settings) {
				assert.Empty(t, s.Endpoint)
			},
		},
		{
			name: "valid endpoint kept",
			raw:  remotesync.RawSettings{Endpoint: "https://reports.example.com/sync"},
			check: func(t *testing.T, s remotesync.Settings) {
				assert.Equal(t, "https://reports.example.com/sync", s.Endpoint)
			},
		},
		{
			name: "unknown mode falls back to time",
			raw:  remotesync.RawSettings{Mode: "weekly"},
			check: func(t *testing.T, s remotesync.Settings) {
				assert.Equal(t, remotesync.ModeTime, s.Mode)
			},
		},
		{
			name: "countdown mode recognized case-insensitively",
			raw:  remotesync.RawSettings{Mode: "Countdown"},
			check: func(t *testing.T, s remotesync.Settings) {
				assert.Equal(t, remotesync.ModeCountdown, s.Mode)
			},
		},
		{
			name: "dotted time separator accepted",
			raw:  remotesync.RawSettings{Time: "7.05"},
			check: func(t *testing.T, s remotesync.Settings) {
				assert.Equal(t, "07:05", s.Time)
			},
		},
		{
			name: "garbage time falls back",
			raw:  remotesync.RawSettings{Time: "25:99"},
			check: func(t *testing.T, s remotesync.Settings) {
				assert.Equal(t, DefaultSyncTime, s.Time)
			},
		},
		{
			name: "negative countdown clamps to zero",
			raw:  remotesync.RawSettings{CountdownMinutes: intPtr(-5)},
			check: func(t *testing.T, s remotesync.Settings) {
				assert.Zero(t, s.CountdownMinutes)
			},
		},
		{
			name: "oversized countdown clamps to max",
			raw:  remotesync.RawSettings{CountdownMinutes: intPtr(100000)},
			check: func(t *testing.T, s remotesync.Settings) {
				assert.Equal(t, MaxCountdownMinutes, s.CountdownMinutes)
			},
		},
		{
			name: "negative grace clamps to zero",
			raw:  remotesync.RawSettings{GraceMinutes: -3},
			check: func(t *testing.T, s remotesync.Settings) {
				assert.Zero(t, s.GraceMinutes)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, NormalizeSettings(tt.raw))
		})
	}
}

func TestNormalizeSettingsCanonicalSupervisorText(t *testing.T) {
	raw := remotesync.RawSettings{
		SupervisorText: "S1|Grade6 Lead|grades=6,6A\n\n|missing\nS2",
	}

	s := NormalizeSettings(raw)

	require.Len(t, s.Supervisors, 2)
	require.Len(t, s.SupervisorErrors, 1)
	assert.Equal(t, "S1|Grade6 Lead|grades=6,6A|scope=custom\nS2|S2|scope=all", s.SupervisorText)

	// Normalizing the canonical text again is a fixed point.
	again := NormalizeSettings(remotesync.RawSettings{SupervisorText: s.SupervisorText})
	assert.Equal(t, s.SupervisorText, again.SupervisorText)
	assert.Empty(t, again.SupervisorErrors)
}
