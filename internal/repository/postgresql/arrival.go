package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/attendance"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type arrivalRepository struct {
	db *database.DB
}

func NewArrivalRepository(db *database.DB) attendance.ArrivalRepository {
	return &arrivalRepository{db: db}
}

// Create implements attendance.ArrivalRepository.
func (r *arrivalRepository) Create(ctx context.Context, arrival attendance.Arrival) (attendance.Arrival, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO arrivals (id, student_id, school_code, day, arrival_time, excused, excuse_note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		arrival.ID,
		arrival.StudentID,
		arrival.SchoolCode,
		arrival.Day,
		arrival.ArrivalTime,
		arrival.Excused,
		arrival.ExcuseNote,
	).Scan(&arrival.CreatedAt, &arrival.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Arrival{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Arrival{}, fmt.Errorf("failed to create arrival: %w", err)
	}

	return arrival, nil
}

// GetByStudentAndDay implements attendance.ArrivalRepository.
func (r *arrivalRepository) GetByStudentAndDay(ctx context.Context, studentID, day, schoolCode string) (attendance.Arrival, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.student_id, a.school_code, a.day, a.arrival_time,
		       a.excused, a.excuse_note, a.created_at, a.updated_at
		FROM arrivals a
		WHERE a.student_id = $1 AND a.day = $2 AND a.school_code = $3
	`

	var a attendance.Arrival
	err := q.QueryRow(ctx, query, studentID, day, schoolCode).Scan(
		&a.ID, &a.StudentID, &a.SchoolCode, &a.Day, &a.ArrivalTime,
		&a.Excused, &a.ExcuseNote, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Arrival{}, attendance.ErrArrivalNotFound
		}
		return attendance.Arrival{}, fmt.Errorf("failed to get arrival: %w", err)
	}

	return a, nil
}

// ListByDay implements attendance.ArrivalRepository.
func (r *arrivalRepository) ListByDay(ctx context.Context, day, schoolCode string) ([]attendance.Arrival, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.student_id, a.school_code, a.day, a.arrival_time,
		       a.excused, a.excuse_note, a.created_at, a.updated_at,
		       s.name
		FROM arrivals a
		LEFT JOIN students s ON s.id = a.student_id AND s.school_code = a.school_code
		WHERE a.day = $1 AND a.school_code = $2
		ORDER BY a.arrival_time, a.student_id
	`

	rows, err := q.Query(ctx, query, day, schoolCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list arrivals: %w", err)
	}
	defer rows.Close()

	var arrivals []attendance.Arrival
	for rows.Next() {
		var a attendance.Arrival
		if err := rows.Scan(
			&a.ID, &a.StudentID, &a.SchoolCode, &a.Day, &a.ArrivalTime,
			&a.Excused, &a.ExcuseNote, &a.CreatedAt, &a.UpdatedAt,
			&a.StudentName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan arrival: %w", err)
		}
		arrivals = append(arrivals, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read arrivals: %w", err)
	}

	return arrivals, nil
}

// DayMap implements attendance.ArrivalRepository.
func (r *arrivalRepository) DayMap(ctx context.Context, days []string, schoolCode string) (map[string]map[string]string, error) {
	out := make(map[string]map[string]string, len(days))
	for _, day := range days {
		out[day] = make(map[string]string)
	}
	if len(days) == 0 {
		return out, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT day, student_id, arrival_time
		FROM arrivals
		WHERE day = ANY($1) AND school_code = $2
	`

	rows, err := q.Query(ctx, query, days, schoolCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load arrival snapshot: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var day, studentID, arrivalTime string
		if err := rows.Scan(&day, &studentID, &arrivalTime); err != nil {
			return nil, fmt.Errorf("failed to scan arrival snapshot: %w", err)
		}
		if out[day] == nil {
			out[day] = make(map[string]string)
		}
		out[day][studentID] = arrivalTime
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read arrival snapshot: %w", err)
	}

	return out, nil
}

// MarkExcused implements attendance.ArrivalRepository. Upserts so a leave
// request for a student who never reached the kiosk still lands.
func (r *arrivalRepository) MarkExcused(ctx context.Context, studentID, day, schoolCode string, note string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO arrivals (id, student_id, school_code, day, arrival_time, excused, excuse_note)
		VALUES (gen_random_uuid(), $1, $2, $3, '', TRUE, $4)
		ON CONFLICT (student_id, school_code, day)
		DO UPDATE SET excused = TRUE, excuse_note = $4, updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, studentID, schoolCode, day, note); err != nil {
		return fmt.Errorf("failed to mark excused: %w", err)
	}
	return nil
}

// DeleteOlderThan implements attendance.ArrivalRepository.
func (r *arrivalRepository) DeleteOlderThan(ctx context.Context, cutoffDay, schoolCode string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM arrivals WHERE day < $1 AND school_code = $2`, cutoffDay, schoolCode)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old arrivals: %w", err)
	}
	return tag.RowsAffected(), nil
}
