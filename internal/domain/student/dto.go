package student

import (
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/validator"
)

type CreateStudentRequest struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Grade string `json:"grade"`
	Class string `json:"class"`
}

func (r *CreateStudentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if validator.IsEmpty(r.Grade) {
		errs = append(errs, validator.ValidationError{
			Field:   "grade",
			Message: "grade is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateStudentRequest struct {
	ID    string  `json:"-"`
	Name  *string `json:"name,omitempty"`
	Grade *string `json:"grade,omitempty"`
	Class *string `json:"class,omitempty"`
}

func (r *UpdateStudentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type StudentResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Grade     string `json:"grade"`
	Class     string `json:"class"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type StudentFilter struct {
	Grade  *string
	Class  *string
	Search *string
	Page   int
	Limit  int
}

type ListStudentsResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Students   []StudentResponse `json:"students"`
}
