package checkin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/attendance"
	"github.com/him1art1-dotcom/had-sub003/internal/domain/leave"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/timeutil"
)

// LeaveApplier marks inbound leave requests as excused absences. It is the
// callback the sync manager invokes with requests the remote endpoint
// returned; only the ids it actually applied are acknowledged back.
type LeaveApplier struct {
	arrivalRepo attendance.ArrivalRepository
	schoolCode  string
	now         func() time.Time
}

func NewLeaveApplier(arrivalRepo attendance.ArrivalRepository, schoolCode string) *LeaveApplier {
	return &LeaveApplier{
		arrivalRepo: arrivalRepo,
		schoolCode:  schoolCode,
		now:         time.Now,
	}
}

// SetClock overrides the clock for testing.
func (a *LeaveApplier) SetClock(now func() time.Time) {
	a.now = now
}

// ApplyLeaveRequests implements leave.Applier. A request without an id or
// student id is skipped; a per-request failure skips just that request so
// the rest still get acknowledged.
func (a *LeaveApplier) ApplyLeaveRequests(ctx context.Context, requests []leave.Request) ([]string, error) {
	var applied []string
	for _, req := range requests {
		if req.ID == "" || req.StudentID == "" {
			continue
		}

		day := req.Day
		if day == "" {
			day = timeutil.DayKey(a.now())
		}

		note := req.Reason
		if req.Supervisor != "" {
			note = fmt.Sprintf("%s (via %s)", req.Reason, req.Supervisor)
		}

		if err := a.arrivalRepo.MarkExcused(ctx, req.StudentID, day, a.schoolCode, note); err != nil {
			slog.Error("failed to apply leave request",
				"request_id", req.ID,
				"student_id", req.StudentID,
				"error", err)
			continue
		}
		applied = append(applied, req.ID)
	}
	return applied, nil
}
