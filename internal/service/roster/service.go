package roster

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/student"
)

type RosterServiceImpl struct {
	studentRepo student.StudentRepository
	schoolCode  string
}

func NewRosterService(studentRepo student.StudentRepository, schoolCode string) student.StudentService {
	return &RosterServiceImpl{
		studentRepo: studentRepo,
		schoolCode:  schoolCode,
	}
}

// CreateStudent implements student.StudentService. An explicit id (school
// registry number) is honored; otherwise one is generated.
func (s *RosterServiceImpl) CreateStudent(ctx context.Context, req student.CreateStudentRequest) (student.StudentResponse, error) {
	if err := req.Validate(); err != nil {
		return student.StudentResponse{}, err
	}

	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}

	created, err := s.studentRepo.Create(ctx, s.schoolCode, student.Student{
		ID:    id,
		Name:  req.Name,
		Grade: req.Grade,
		Class: req.Class,
	})
	if err != nil {
		if errors.Is(err, student.ErrStudentIDExists) {
			return student.StudentResponse{}, student.ErrStudentIDExists
		}
		return student.StudentResponse{}, fmt.Errorf("failed to create student: %w", err)
	}

	return mapStudentToResponse(created), nil
}

// GetStudent implements student.StudentService.
func (s *RosterServiceImpl) GetStudent(ctx context.Context, id string) (student.StudentResponse, error) {
	st, err := s.studentRepo.GetByID(ctx, id, s.schoolCode)
	if err != nil {
		if errors.Is(err, student.ErrStudentNotFound) {
			return student.StudentResponse{}, student.ErrStudentNotFound
		}
		return student.StudentResponse{}, fmt.Errorf("failed to get student: %w", err)
	}
	return mapStudentToResponse(st), nil
}

// ListStudents implements student.StudentService.
func (s *RosterServiceImpl) ListStudents(ctx context.Context, filter student.StudentFilter) (student.ListStudentsResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}

	students, total, err := s.studentRepo.List(ctx, filter, s.schoolCode)
	if err != nil {
		return student.ListStudentsResponse{}, fmt.Errorf("failed to list students: %w", err)
	}

	responses := make([]student.StudentResponse, 0, len(students))
	for _, st := range students {
		responses = append(responses, mapStudentToResponse(st))
	}

	return student.ListStudentsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Students:   responses,
	}, nil
}

// UpdateStudent implements student.StudentService.
func (s *RosterServiceImpl) UpdateStudent(ctx context.Context, req student.UpdateStudentRequest) (student.StudentResponse, error) {
	if err := req.Validate(); err != nil {
		return student.StudentResponse{}, err
	}

	st, err := s.studentRepo.GetByID(ctx, req.ID, s.schoolCode)
	if err != nil {
		if errors.Is(err, student.ErrStudentNotFound) {
			return student.StudentResponse{}, student.ErrStudentNotFound
		}
		return student.StudentResponse{}, fmt.Errorf("failed to get student: %w", err)
	}

	if req.Name != nil {
		st.Name = *req.Name
	}
	if req.Grade != nil {
		st.Grade = *req.Grade
	}
	if req.Class != nil {
		st.Class = *req.Class
	}

	if err := s.studentRepo.Update(ctx, s.schoolCode, st); err != nil {
		return student.StudentResponse{}, fmt.Errorf("failed to update student: %w", err)
	}

	updated, err := s.studentRepo.GetByID(ctx, req.ID, s.schoolCode)
	if err != nil {
		return student.StudentResponse{}, fmt.Errorf("failed to get updated student: %w", err)
	}
	return mapStudentToResponse(updated), nil
}

// DeleteStudent implements student.StudentService.
func (s *RosterServiceImpl) DeleteStudent(ctx context.Context, id string) error {
	if err := s.studentRepo.Delete(ctx, id, s.schoolCode); err != nil {
		if errors.Is(err, student.ErrStudentNotFound) {
			return student.ErrStudentNotFound
		}
		return fmt.Errorf("failed to delete student: %w", err)
	}
	return nil
}

func mapStudentToResponse(st student.Student) student.StudentResponse {
	resp := student.StudentResponse{
		ID:    st.ID,
		Name:  st.Name,
		Grade: st.Grade,
		Class: st.Class,
	}
	if !st.CreatedAt.IsZero() {
		resp.CreatedAt = st.CreatedAt.Format("2006-01-02 15:04:05")
	}
	if !st.UpdatedAt.IsZero() {
		resp.UpdatedAt = st.UpdatedAt.Format("2006-01-02 15:04:05")
	}
	return resp
}
