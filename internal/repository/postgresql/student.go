package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/student"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type studentRepository struct {
	db *database.DB
}

func NewStudentRepository(db *database.DB) student.StudentRepository {
	return &studentRepository{db: db}
}

// Create implements student.StudentRepository.
func (r *studentRepository) Create(ctx context.Context, schoolCode string, s student.Student) (student.Student, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO students (id, school_code, name, grade, class)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query, s.ID, schoolCode, s.Name, s.Grade, s.Class).
		Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return student.Student{}, student.ErrStudentIDExists
		}
		return student.Student{}, fmt.Errorf("failed to create student: %w", err)
	}

	return s, nil
}

// GetByID implements student.StudentRepository.
func (r *studentRepository) GetByID(ctx context.Context, id string, schoolCode string) (student.Student, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, grade, class, created_at, updated_at
		FROM students
		WHERE id = $1 AND school_code = $2
	`

	var s student.Student
	err := q.QueryRow(ctx, query, id, schoolCode).Scan(
		&s.ID, &s.Name, &s.Grade, &s.Class, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return student.Student{}, student.ErrStudentNotFound
		}
		return student.Student{}, fmt.Errorf("failed to get student: %w", err)
	}

	return s, nil
}

// List implements student.StudentRepository.
func (r *studentRepository) List(ctx context.Context, filter student.StudentFilter, schoolCode string) ([]student.Student, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"school_code = $1"}
	args := []interface{}{schoolCode}
	argPos := 2

	if filter.Grade != nil && *filter.Grade != "" {
		conditions = append(conditions, fmt.Sprintf("grade = $%d", argPos))
		args = append(args, *filter.Grade)
		argPos++
	}
	if filter.Class != nil && *filter.Class != "" {
		conditions = append(conditions, fmt.Sprintf("class = $%d", argPos))
		args = append(args, *filter.Class)
		argPos++
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR id ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+*filter.Search+"%")
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM students WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, grade, class, created_at, updated_at
		FROM students
		WHERE %s
		ORDER BY grade, class, name
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []student.Student
	for rows.Next() {
		var s student.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.Grade, &s.Class, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read students: %w", err)
	}

	return students, total, nil
}

// ListAll implements student.StudentRepository.
func (r *studentRepository) ListAll(ctx context.Context, schoolCode string) ([]student.Student, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, grade, class, created_at, updated_at
		FROM students
		WHERE school_code = $1
		ORDER BY grade, class, name
	`

	rows, err := q.Query(ctx, query, schoolCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []student.Student
	for rows.Next() {
		var s student.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.Grade, &s.Class, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read students: %w", err)
	}

	return students, nil
}

// Update implements student.StudentRepository.
func (r *studentRepository) Update(ctx context.Context, schoolCode string, s student.Student) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE students
		SET name = $3, grade = $4, class = $5, updated_at = NOW()
		WHERE id = $1 AND school_code = $2
	`

	tag, err := q.Exec(ctx, query, s.ID, schoolCode, s.Name, s.Grade, s.Class)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return student.ErrStudentNotFound
	}

	return nil
}

// Delete implements student.StudentRepository.
func (r *studentRepository) Delete(ctx context.Context, id string, schoolCode string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM students WHERE id = $1 AND school_code = $2`, id, schoolCode)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return student.ErrStudentNotFound
	}

	return nil
}
