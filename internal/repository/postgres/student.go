package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AnkitDhruva08/bookrent/internal/domain"
	"github.com/AnkitDhruva08/bookrent/internal/repository"
)

type studentRepository struct {
	db *sql.DB
}

func NewStudentRepository(db *sql.DB) repository.StudentRepository {
	return &studentRepository{db: db}
}

const studentColumns = `id, stu_id, name, email, created_on`

func (r *studentRepository) GetByID(ctx context.Context, id int32) (*domain.Student, error) {
	s := &domain.Student{}
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.StuID, &s.Name, &s.Email, &s.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: student %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *studentRepository) First(ctx context.Context) (*domain.Student, error) {
	s := &domain.Student{}
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY id LIMIT 1`
	err := r.db.QueryRowContext(ctx, query).Scan(&s.ID, &s.StuID, &s.Name, &s.Email, &s.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no students registered", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
