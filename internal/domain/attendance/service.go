package attendance

import (
	"context"
)

// AttendanceService defines business logic for kiosk check-in and day views.
type AttendanceService interface {
	// CheckIn records a student arrival for today. Double check-ins are
	// rejected with ErrAlreadyCheckedIn.
	CheckIn(ctx context.Context, req CheckInRequest) (ArrivalResponse, error)

	// GetDay returns every arrival recorded on a calendar day.
	GetDay(ctx context.Context, filter DayFilter) (DayResponse, error)
}
