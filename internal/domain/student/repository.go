package student

import (
	"context"
)

// StudentRepository defines data access methods for the roster.
// All methods include schoolCode to keep schools isolated from each other.
type StudentRepository interface {
	Create(ctx context.Context, schoolCode string, s Student) (Student, error)

	GetByID(ctx context.Context, id string, schoolCode string) (Student, error)

	// List retrieves students with filters and pagination
	List(ctx context.Context, filter StudentFilter, schoolCode string) ([]Student, int64, error)

	// ListAll retrieves the full roster without pagination; the payload
	// builder consumes this.
	ListAll(ctx context.Context, schoolCode string) ([]Student, error)

	Update(ctx context.Context, schoolCode string, s Student) error

	Delete(ctx context.Context, id string, schoolCode string) error
}
