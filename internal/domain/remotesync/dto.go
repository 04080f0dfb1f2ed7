package remotesync

import (
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/validator"
)

// UpdateSettingsRequest carries a full raw settings blob from the admin UI.
// Validation here is intentionally thin: malformed schedule fields are not
// errors, the normalizer degrades them. Only fields that would make the
// stored blob unusable are rejected.
type UpdateSettingsRequest struct {
	RawSettings
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Enabled && validator.IsEmpty(r.Endpoint) {
		errs = append(errs, validator.ValidationError{
			Field:   "endpoint",
			Message: "endpoint is required when sync is enabled",
		})
	}
	if !validator.IsEmpty(r.Endpoint) && !validator.IsValidEndpoint(r.Endpoint) {
		errs = append(errs, validator.ValidationError{
			Field:   "endpoint",
			Message: "endpoint must be an absolute http(s) url",
		})
	}
	if !validator.IsEmpty(r.SchoolCode) && !validator.IsValidSchoolCode(r.SchoolCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "school_code",
			Message: "school_code may only contain letters, digits, - and _",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SettingsResponse struct {
	Raw        RawSettings            `json:"raw"`
	Normalized NormalizedSettingsView `json:"normalized"`
}

// NormalizedSettingsView is the JSON projection of normalized Settings.
type NormalizedSettingsView struct {
	Enabled          bool                   `json:"enabled"`
	Endpoint         string                 `json:"endpoint"`
	SchoolCode       string                 `json:"school_code"`
	Mode             string                 `json:"mode"`
	Time             string                 `json:"time"`
	CountdownMinutes int                    `json:"countdown_minutes"`
	Supervisors      []SupervisorDescriptor `json:"supervisors"`
	SupervisorText   string                 `json:"supervisor_text"`
	SupervisorErrors []ParseError           `json:"supervisor_errors,omitempty"`
	SchoolStart      string                 `json:"school_start"`
	GraceMinutes     int                    `json:"grace_minutes"`
}

// View projects Settings into its response shape. The auth token is
// deliberately omitted.
func (s Settings) View() NormalizedSettingsView {
	return NormalizedSettingsView{
		Enabled:          s.Enabled,
		Endpoint:         s.Endpoint,
		SchoolCode:       s.SchoolCode,
		Mode:             s.Mode,
		Time:             s.Time,
		CountdownMinutes: s.CountdownMinutes,
		Supervisors:      s.Supervisors,
		SupervisorText:   s.SupervisorText,
		SupervisorErrors: s.SupervisorErrors,
		SchoolStart:      s.SchoolStart,
		GraceMinutes:     s.GraceMinutes,
	}
}
