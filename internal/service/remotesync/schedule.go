package remotesync

import (
	"time"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/remotesync"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/timeutil"
)

// Retry and rearm policy.
const (
	RetryDelay   = 10 * time.Minute
	DefaultDelay = time.Hour
	MinDelay     = 30 * time.Second
)

// ComputeScheduledTime returns today's sync target: the configured wall
// clock in time mode, or school start plus the countdown in countdown mode.
func ComputeScheduledTime(now time.Time, settings remotesync.Settings) time.Time {
	if settings.Mode == remotesync.ModeCountdown {
		start := timeutil.AtClock(now, settings.SchoolStart)
		return start.Add(time.Duration(settings.CountdownMinutes) * time.Minute)
	}
	return timeutil.AtClock(now, settings.Time)
}

// ShouldRunNow decides whether a sync attempt is due. It is false when sync
// is disabled or unconfigured, when a scheduled retry has not come up yet,
// before today's target time, after today already succeeded, and while an
// attempt for today is still pending.
func ShouldRunNow(settings remotesync.Settings, state remotesync.SyncState, now time.Time) bool {
	if !settings.Enabled || settings.Endpoint == "" {
		return false
	}
	if state.PendingRetryAt != nil && state.PendingRetryAt.After(now) {
		return false
	}
	if now.Before(ComputeScheduledTime(now, settings)) {
		return false
	}

	day := timeutil.DayKey(now)
	if state.LastSuccessDay == day {
		return false
	}
	if state.LastAttemptDay == day && state.LastStatus == remotesync.StatusPending {
		return false
	}
	return true
}

// NextDelay computes how long to sleep before the next wake-up: the earlier
// of today's scheduled time and a pending retry, clamped to a 30s floor, or
// an hour when neither yields a usable positive delay.
func NextDelay(settings remotesync.Settings, state remotesync.SyncState, now time.Time) time.Duration {
	target := ComputeScheduledTime(now, settings)
	delay := target.Sub(now)

	if state.PendingRetryAt != nil {
		retryDelay := state.PendingRetryAt.Sub(now)
		if retryDelay >= 0 && (delay < 0 || retryDelay < delay) {
			delay = retryDelay
		}
	}

	if delay < 0 {
		delay = DefaultDelay
	}
	if delay < MinDelay {
		delay = MinDelay
	}
	return delay
}
