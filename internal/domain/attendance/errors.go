package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyCheckedIn = errors.New("student has already checked in today")
	ErrArrivalNotFound  = errors.New("arrival record not found")
)
