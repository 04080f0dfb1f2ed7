package student

import (
	"context"
)

// StudentService defines business logic for roster management.
type StudentService interface {
	CreateStudent(ctx context.Context, req CreateStudentRequest) (StudentResponse, error)

	GetStudent(ctx context.Context, id string) (StudentResponse, error)

	ListStudents(ctx context.Context, filter StudentFilter) (ListStudentsResponse, error)

	UpdateStudent(ctx context.Context, req UpdateStudentRequest) (StudentResponse, error)

	DeleteStudent(ctx context.Context, id string) error
}
