package attendance

import (
	"time"
)

// Arrival is one recorded check-in: a student seen at the kiosk on a given
// calendar day. ArrivalTime is the local wall clock (HH:MM) the kiosk
// recorded; classification into present/late happens later, against the
// school start time in effect when a report is built.
type Arrival struct {
	ID          string
	StudentID   string
	SchoolCode  string
	Day         string // YYYY-MM-DD
	ArrivalTime string // HH:MM
	Excused     bool
	ExcuseNote  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// joined
	StudentName *string
}
