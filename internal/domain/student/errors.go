package student

import "errors"

// Student domain errors
var (
	ErrStudentNotFound = errors.New("student not found")
	ErrStudentIDExists = errors.New("student id already exists")
)
