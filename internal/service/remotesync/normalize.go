package remotesync

import (
	"strings"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/remotesync"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/timeutil"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/validator"
)

// Normalization defaults. A malformed field never errors, it falls back.
const (
	DefaultSyncTime     = "08:00"
	DefaultSchoolStart  = "07:30"
	DefaultCountdownMin = 30
	MaxCountdownMinutes = 720
)

// NormalizeSettings validates and clamps a raw settings blob into the
// invariant-holding form the rest of the engine relies on. It never fails:
// every malformed field degrades to its documented default.
func NormalizeSettings(raw remotesync.RawSettings) remotesync.Settings {
	s := remotesync.Settings{
		Enabled:    raw.Enabled,
		AuthToken:  strings.TrimSpace(raw.AuthToken),
		SchoolCode: strings.TrimSpace(raw.SchoolCode),
	}

	if validator.IsValidEndpoint(raw.Endpoint) {
		s.Endpoint = strings.TrimSpace(raw.Endpoint)
	}

	switch strings.ToLower(strings.TrimSpace(raw.Mode)) {
	case remotesync.ModeCountdown:
		s.Mode = remotesync.ModeCountdown
	default:
		s.Mode = remotesync.ModeTime
	}

	s.Time = timeutil.SanitizeTimeString(raw.Time, DefaultSyncTime)
	s.SchoolStart = timeutil.SanitizeTimeString(raw.SchoolStart, DefaultSchoolStart)

	s.CountdownMinutes = DefaultCountdownMin
	if raw.CountdownMinutes != nil {
		s.CountdownMinutes = *raw.CountdownMinutes
	}
	if s.CountdownMinutes < 0 {
		s.CountdownMinutes = 0
	}
	if s.CountdownMinutes > MaxCountdownMinutes {
		s.CountdownMinutes = MaxCountdownMinutes
	}

	s.GraceMinutes = raw.GraceMinutes
	if s.GraceMinutes < 0 {
		s.GraceMinutes = 0
	}

	s.Supervisors, s.SupervisorErrors = ParseSupervisorText(raw.SupervisorText)
	s.SupervisorText = FormatSupervisorText(s.Supervisors)

	return s
}
