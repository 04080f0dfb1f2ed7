package remotesync

import (
	"context"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/leave"
	"github.com/him1art1-dotcom/had-sub003/internal/domain/student"
)

// Host is the collaborator surface the sync manager needs from the rest of
// the application: current settings, the roster, attendance snapshots and
// (optionally) a way to apply inbound leave requests.
type Host interface {
	Settings(ctx context.Context) (Settings, error)

	Students(ctx context.Context) ([]student.Student, error)

	// Attendance returns day -> studentID -> recorded HH:MM arrival for the
	// requested days.
	Attendance(ctx context.Context, days []string) (map[string]map[string]string, error)

	// LeaveApplier may return nil; the manager then drops inbound leave
	// requests without acknowledging them.
	LeaveApplier() leave.Applier
}
