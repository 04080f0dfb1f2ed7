package attendance

import (
	"context"
)

// ArrivalRepository defines data access for daily arrival records.
type ArrivalRepository interface {
	Create(ctx context.Context, arrival Arrival) (Arrival, error)

	GetByStudentAndDay(ctx context.Context, studentID, day, schoolCode string) (Arrival, error)

	// ListByDay returns every arrival recorded for one calendar day.
	ListByDay(ctx context.Context, day, schoolCode string) ([]Arrival, error)

	// DayMap returns day -> studentID -> HH:MM for the given days. This is
	// the snapshot shape the payload builder consumes.
	DayMap(ctx context.Context, days []string, schoolCode string) (map[string]map[string]string, error)

	// MarkExcused flags a student's day as excused and records the note.
	// Creates the record when the student never checked in.
	MarkExcused(ctx context.Context, studentID, day, schoolCode string, note string) error

	// DeleteOlderThan removes arrival records before the cutoff day and
	// returns how many were deleted.
	DeleteOlderThan(ctx context.Context, cutoffDay, schoolCode string) (int64, error)
}
