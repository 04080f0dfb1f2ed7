package attendance

import (
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/validator"
)

type CheckInRequest struct {
	StudentID string `json:"student_id"`
	// ArrivalTime is optional; the kiosk usually omits it and the service
	// stamps the current wall clock.
	ArrivalTime string `json:"arrival_time,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StudentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "student_id",
			Message: "student_id is required",
		})
	}
	if r.ArrivalTime != "" && !validator.IsValidTimeOfDay(r.ArrivalTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "arrival_time",
			Message: "arrival_time must be HH:MM",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ArrivalResponse struct {
	ID          string  `json:"id"`
	StudentID   string  `json:"student_id"`
	StudentName *string `json:"student_name,omitempty"`
	Day         string  `json:"day"`
	ArrivalTime string  `json:"arrival_time"`
	Excused     bool    `json:"excused"`
	ExcuseNote  *string `json:"excuse_note,omitempty"`
}

type DayFilter struct {
	Day string `json:"day"`
}

func (f *DayFilter) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(f.Day); !ok {
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

type DayResponse struct {
	Day      string            `json:"day"`
	Arrivals []ArrivalResponse `json:"arrivals"`
}
