package checkin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/him1art1-dotcom/had-sub003/internal/domain/attendance"
	"github.com/him1art1-dotcom/had-sub003/internal/domain/student"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/timeutil"
)

type CheckInServiceImpl struct {
	arrivalRepo attendance.ArrivalRepository
	studentRepo student.StudentRepository
	schoolCode  string
	now         func() time.Time
}

func NewCheckInService(
	arrivalRepo attendance.ArrivalRepository,
	studentRepo student.StudentRepository,
	schoolCode string,
) *CheckInServiceImpl {
	return &CheckInServiceImpl{
		arrivalRepo: arrivalRepo,
		studentRepo: studentRepo,
		schoolCode:  schoolCode,
		now:         time.Now,
	}
}

// SetClock overrides the clock for testing.
func (s *CheckInServiceImpl) SetClock(now func() time.Time) {
	s.now = now
}

// CheckIn implements attendance.AttendanceService. The kiosk sends only a
// student id; the service stamps the wall clock and rejects a second
// check-in for the same day.
func (s *CheckInServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.ArrivalResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ArrivalResponse{}, err
	}

	st, err := s.studentRepo.GetByID(ctx, req.StudentID, s.schoolCode)
	if err != nil {
		if errors.Is(err, student.ErrStudentNotFound) {
			return attendance.ArrivalResponse{}, student.ErrStudentNotFound
		}
		return attendance.ArrivalResponse{}, fmt.Errorf("failed to look up student: %w", err)
	}

	now := s.now()
	day := timeutil.DayKey(now)

	if _, err := s.arrivalRepo.GetByStudentAndDay(ctx, st.ID, day, s.schoolCode); err == nil {
		return attendance.ArrivalResponse{}, attendance.ErrAlreadyCheckedIn
	} else if !errors.Is(err, attendance.ErrArrivalNotFound) {
		return attendance.ArrivalResponse{}, fmt.Errorf("failed to check existing arrival: %w", err)
	}

	arrivalTime := req.ArrivalTime
	if arrivalTime == "" {
		arrivalTime = now.Format("15:04")
	}

	created, err := s.arrivalRepo.Create(ctx, attendance.Arrival{
		ID:          uuid.New().String(),
		StudentID:   st.ID,
		SchoolCode:  s.schoolCode,
		Day:         day,
		ArrivalTime: arrivalTime,
	})
	if err != nil {
		return attendance.ArrivalResponse{}, fmt.Errorf("failed to record arrival: %w", err)
	}

	created.StudentName = &st.Name
	return mapArrivalToResponse(created), nil
}

// GetDay implements attendance.AttendanceService.
func (s *CheckInServiceImpl) GetDay(ctx context.Context, filter attendance.DayFilter) (attendance.DayResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.DayResponse{}, err
	}

	arrivals, err := s.arrivalRepo.ListByDay(ctx, filter.Day, s.schoolCode)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to list arrivals: %w", err)
	}

	responses := make([]attendance.ArrivalResponse, 0, len(arrivals))
	for _, a := range arrivals {
		responses = append(responses, mapArrivalToResponse(a))
	}

	return attendance.DayResponse{
		Day:      filter.Day,
		Arrivals: responses,
	}, nil
}

func mapArrivalToResponse(a attendance.Arrival) attendance.ArrivalResponse {
	return attendance.ArrivalResponse{
		ID:          a.ID,
		StudentID:   a.StudentID,
		StudentName: a.StudentName,
		Day:         a.Day,
		ArrivalTime: a.ArrivalTime,
		Excused:     a.Excused,
		ExcuseNote:  a.ExcuseNote,
	}
}
