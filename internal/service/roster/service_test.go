package roster

import (
	"context"
	"testing"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/student"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStudentRepo struct {
	students map[string]student.Student
	order    []string
}

func newMemStudentRepo() *memStudentRepo {
	return &memStudentRepo{students: make(map[string]student.Student)}
}

func (r *memStudentRepo) Create(ctx context.Context, schoolCode string, s student.Student) (student.Student, error) {
	if _, ok := r.students[s.ID]; ok {
		return student.Student{}, student.ErrStudentIDExists
	}
	r.students[s.ID] = s
	r.order = append(r.order, s.ID)
	return s, nil
}

func (r *memStudentRepo) GetByID(ctx context.Context, id string, schoolCode string) (student.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return student.Student{}, student.ErrStudentNotFound
	}
	return s, nil
}

func (r *memStudentRepo) List(ctx context.Context, filter student.StudentFilter, schoolCode string) ([]student.Student, int64, error) {
	var out []student.Student
	for _, id := range r.order {
		s := r.students[id]
		if filter.Grade != nil && s.Grade != *filter.Grade {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r *memStudentRepo) ListAll(ctx context.Context, schoolCode string) ([]student.Student, error) {
	var out []student.Student
	for _, id := range r.order {
		out = append(out, r.students[id])
	}
	return out, nil
}

func (r *memStudentRepo) Update(ctx context.Context, schoolCode string, s student.Student) error {
	if _, ok := r.students[s.ID]; !ok {
		return student.ErrStudentNotFound
	}
	r.students[s.ID] = s
	return nil
}

func (r *memStudentRepo) Delete(ctx context.Context, id string, schoolCode string) error {
	if _, ok := r.students[id]; !ok {
		return student.ErrStudentNotFound
	}
	delete(r.students, id)
	return nil
}

func TestCreateStudent(t *testing.T) {
	t.Run("generates an id when omitted", func(t *testing.T) {
		svc := NewRosterService(newMemStudentRepo(), "sch-1")

		resp, err := svc.CreateStudent(context.Background(), student.CreateStudentRequest{
			Name:  "Aya",
			Grade: "6",
			Class: "6A",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "Aya", resp.Name)
	})

	t.Run("honors a registry id and rejects duplicates", func(t *testing.T) {
		svc := NewRosterService(newMemStudentRepo(), "sch-1")

		resp, err := svc.CreateStudent(context.Background(), student.CreateStudentRequest{
			ID:    "reg-7",
			Name:  "Badr",
			Grade: "6",
		})
		require.NoError(t, err)
		assert.Equal(t, "reg-7", resp.ID)

		_, err = svc.CreateStudent(context.Background(), student.CreateStudentRequest{
			ID:    "reg-7",
			Name:  "Badr Again",
			Grade: "6",
		})
		assert.ErrorIs(t, err, student.ErrStudentIDExists)
	})

	t.Run("validation failure", func(t *testing.T) {
		svc := NewRosterService(newMemStudentRepo(), "sch-1")

		_, err := svc.CreateStudent(context.Background(), student.CreateStudentRequest{Name: "No Grade"})
		assert.Error(t, err)
	})
}

func TestUpdateStudent(t *testing.T) {
	repo := newMemStudentRepo()
	svc := NewRosterService(repo, "sch-1")

	_, err := svc.CreateStudent(context.Background(), student.CreateStudentRequest{
		ID:    "st1",
		Name:  "Aya",
		Grade: "6",
		Class: "6A",
	})
	require.NoError(t, err)

	newClass := "6B"
	resp, err := svc.UpdateStudent(context.Background(), student.UpdateStudentRequest{
		ID:    "st1",
		Class: &newClass,
	})

	require.NoError(t, err)
	assert.Equal(t, "6B", resp.Class)
	assert.Equal(t, "Aya", resp.Name)
}

func TestListStudentsPaginationDefaults(t *testing.T) {
	repo := newMemStudentRepo()
	svc := NewRosterService(repo, "sch-1")

	resp, err := svc.ListStudents(context.Background(), student.StudentFilter{Page: -1, Limit: 9000})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 50, resp.Limit)
}

func TestDeleteStudent(t *testing.T) {
	repo := newMemStudentRepo()
	svc := NewRosterService(repo, "sch-1")

	assert.ErrorIs(t, svc.DeleteStudent(context.Background(), "ghost"), student.ErrStudentNotFound)
}
