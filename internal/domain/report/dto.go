package report

import (
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/validator"
)

type FetchRequest struct {
	Day        string `json:"day"`
	Supervisor string `json:"supervisor,omitempty"`
}

func (r *FetchRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Day); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "day",
			Message: "day must be YYYY-MM-DD",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdatePreferencesRequest struct {
	Preferences
}

func (r *UpdatePreferencesRequest) Validate() error {
	var errs validator.ValidationErrors

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

// LeaveSubmission is the guardian/supervisor form posting a leave request
// back to the remote endpoint. Field-level validation happens before any
// network call; a submission failure never touches the sync scheduler's
// state.
type LeaveSubmission struct {
	StudentID string `json:"student_id"`
	Reason    string `json:"reason"`
	Day       string `json:"day,omitempty"`
}

// RowFilter narrows the rendered (and exported) rows of a fetched report.
type RowFilter struct {
	Supervisor string
	Status     string
	Search     string
}
