package checkin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/attendance"
	"github.com/him1art1-dotcom/had-sub003/internal/domain/leave"
	"github.com/him1art1-dotcom/had-sub003/internal/domain/student"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStudentRepo struct {
	students map[string]student.Student
}

func (r *fakeStudentRepo) Create(ctx context.Context, schoolCode string, s student.Student) (student.Student, error) {
	return s, nil
}

func (r *fakeStudentRepo) GetByID(ctx context.Context, id string, schoolCode string) (student.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return student.Student{}, student.ErrStudentNotFound
	}
	return s, nil
}

func (r *fakeStudentRepo) List(ctx context.Context, filter student.StudentFilter, schoolCode string) ([]student.Student, int64, error) {
	return nil, 0, nil
}

func (r *fakeStudentRepo) ListAll(ctx context.Context, schoolCode string) ([]student.Student, error) {
	return nil, nil
}

func (r *fakeStudentRepo) Update(ctx context.Context, schoolCode string, s student.Student) error {
	return nil
}

func (r *fakeStudentRepo) Delete(ctx context.Context, id string, schoolCode string) error {
	return nil
}

type excusedCall struct {
	studentID string
	day       string
	note      string
}

type fakeArrivalRepo struct {
	arrivals   map[string]attendance.Arrival // key studentID+"/"+day
	excused    []excusedCall
	excusedErr error
}

func newFakeArrivalRepo() *fakeArrivalRepo {
	return &fakeArrivalRepo{arrivals: make(map[string]attendance.Arrival)}
}

func (r *fakeArrivalRepo) Create(ctx context.Context, arrival attendance.Arrival) (attendance.Arrival, error) {
	key := arrival.StudentID + "/" + arrival.Day
	if _, ok := r.arrivals[key]; ok {
		return attendance.Arrival{}, attendance.ErrAlreadyCheckedIn
	}
	r.arrivals[key] = arrival
	return arrival, nil
}

func (r *fakeArrivalRepo) GetByStudentAndDay(ctx context.Context, studentID, day, schoolCode string) (attendance.Arrival, error) {
	a, ok := r.arrivals[studentID+"/"+day]
	if !ok {
		return attendance.Arrival{}, attendance.ErrArrivalNotFound
	}
	return a, nil
}

func (r *fakeArrivalRepo) ListByDay(ctx context.Context, day, schoolCode string) ([]attendance.Arrival, error) {
	var out []attendance.Arrival
	for _, a := range r.arrivals {
		if a.Day == day {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeArrivalRepo) DayMap(ctx context.Context, days []string, schoolCode string) (map[string]map[string]string, error) {
	out := make(map[string]map[string]string)
	for _, day := range days {
		out[day] = make(map[string]string)
	}
	for _, a := range r.arrivals {
		if m, ok := out[a.Day]; ok {
			m[a.StudentID] = a.ArrivalTime
		}
	}
	return out, nil
}

func (r *fakeArrivalRepo) MarkExcused(ctx context.Context, studentID, day, schoolCode string, note string) error {
	if r.excusedErr != nil {
		return r.excusedErr
	}
	r.excused = append(r.excused, excusedCall{studentID: studentID, day: day, note: note})
	return nil
}

func (r *fakeArrivalRepo) DeleteOlderThan(ctx context.Context, cutoffDay, schoolCode string) (int64, error) {
	return 0, nil
}

func checkInFixture() (*CheckInServiceImpl, *fakeArrivalRepo) {
	arrivalRepo := newFakeArrivalRepo()
	studentRepo := &fakeStudentRepo{students: map[string]student.Student{
		"st1": {ID: "st1", Name: "Aya", Grade: "6", Class: "6A"},
	}}

	svc := NewCheckInService(arrivalRepo, studentRepo, "sch-1")
	svc.SetClock(func() time.Time {
		return time.Date(2026, 3, 9, 7, 42, 0, 0, time.UTC)
	})
	return svc, arrivalRepo
}

func TestCheckIn(t *testing.T) {
	t.Run("stamps the wall clock", func(t *testing.T) {
		svc, _ := checkInFixture()

		resp, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{StudentID: "st1"})

		require.NoError(t, err)
		assert.Equal(t, "2026-03-09", resp.Day)
		assert.Equal(t, "07:42", resp.ArrivalTime)
		require.NotNil(t, resp.StudentName)
		assert.Equal(t, "Aya", *resp.StudentName)
	})

	t.Run("assigns an id before storing", func(t *testing.T) {
		svc, arrivalRepo := checkInFixture()

		resp, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{StudentID: "st1"})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.ID)
		stored := arrivalRepo.arrivals["st1/2026-03-09"]
		assert.Equal(t, resp.ID, stored.ID)
	})

	t.Run("rejects a second check-in the same day", func(t *testing.T) {
		svc, _ := checkInFixture()

		_, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{StudentID: "st1"})
		require.NoError(t, err)

		_, err = svc.CheckIn(context.Background(), attendance.CheckInRequest{StudentID: "st1"})
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	})

	t.Run("unknown student", func(t *testing.T) {
		svc, _ := checkInFixture()

		_, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{StudentID: "ghost"})
		assert.ErrorIs(t, err, student.ErrStudentNotFound)
	})

	t.Run("explicit arrival time wins", func(t *testing.T) {
		svc, _ := checkInFixture()

		resp, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{
			StudentID:   "st1",
			ArrivalTime: "06:55",
		})

		require.NoError(t, err)
		assert.Equal(t, "06:55", resp.ArrivalTime)
	})
}

func TestApplyLeaveRequests(t *testing.T) {
	t.Run("marks excused and returns applied ids", func(t *testing.T) {
		arrivalRepo := newFakeArrivalRepo()
		applier := NewLeaveApplier(arrivalRepo, "sch-1")
		applier.SetClock(func() time.Time {
			return time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
		})

		applied, err := applier.ApplyLeaveRequests(context.Background(), []leave.Request{
			{ID: "lr1", StudentID: "st1", Reason: "sick", Supervisor: "Grade6 Lead"},
			{ID: "", StudentID: "st2", Reason: "ignored"},
			{ID: "lr3", StudentID: "", Reason: "ignored"},
			{ID: "lr4", StudentID: "st4", Reason: "dentist", Day: "2026-03-10"},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"lr1", "lr4"}, applied)

		require.Len(t, arrivalRepo.excused, 2)
		assert.Equal(t, "2026-03-09", arrivalRepo.excused[0].day)
		assert.Equal(t, "sick (via Grade6 Lead)", arrivalRepo.excused[0].note)
		assert.Equal(t, "2026-03-10", arrivalRepo.excused[1].day)
	})

	t.Run("storage failure acknowledges nothing", func(t *testing.T) {
		arrivalRepo := newFakeArrivalRepo()
		arrivalRepo.excusedErr = errors.New("db down")
		applier := NewLeaveApplier(arrivalRepo, "sch-1")

		applied, err := applier.ApplyLeaveRequests(context.Background(), []leave.Request{
			{ID: "lr1", StudentID: "st1", Reason: "sick"},
		})

		require.NoError(t, err)
		assert.Empty(t, applied)
	})
}
