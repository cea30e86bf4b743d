package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AnkitDhruva08/bookrent/internal/domain"
	"github.com/AnkitDhruva08/bookrent/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (student_id, book_id, start_date, end_date, total_fee_cents, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		rt.StudentID, rt.BookID, rt.StartDate, rt.EndDate, rt.TotalFeeCents, rt.Status, now, now,
	).Scan(&rt.ID)
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	rt := &domain.Rental{}
	query := `SELECT id, student_id, book_id, start_date, end_date, total_fee_cents, status, created_on, updated_on
	          FROM rentals WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rt.ID, &rt.StudentID, &rt.BookID, &rt.StartDate, &rt.EndDate, &rt.TotalFeeCents, &rt.Status, &rt.CreatedOn, &rt.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: rental %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET end_date=$1, total_fee_cents=$2, status=$3, updated_on=$4 WHERE id=$5`
	res, err := r.db.ExecContext(ctx, query, rt.EndDate, rt.TotalFeeCents, rt.Status, time.Now(), rt.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: rental %d", domain.ErrNotFound, rt.ID)
	}
	return nil
}

const rentalWithBookColumns = `r.id, r.student_id, r.book_id, r.start_date, r.end_date, r.total_fee_cents, r.status, r.created_on, r.updated_on,
	       b.id, b.title, b.author, b.pages, b.cover_url, b.olid, b.first_publish_year`

func scanRentalWithBook(rows *sql.Rows, extra ...any) (domain.RentalWithBook, error) {
	var rwb domain.RentalWithBook
	fields := []any{
		&rwb.ID, &rwb.StudentID, &rwb.BookID, &rwb.StartDate, &rwb.EndDate, &rwb.TotalFeeCents, &rwb.Status, &rwb.CreatedOn, &rwb.UpdatedOn,
		&rwb.Book.ID, &rwb.Book.Title, &rwb.Book.Author, &rwb.Book.Pages, &rwb.Book.CoverURL, &rwb.Book.OLID, &rwb.Book.FirstPublishYear,
	}
	fields = append(fields, extra...)
	if err := rows.Scan(fields...); err != nil {
		return domain.RentalWithBook{}, err
	}
	return rwb, nil
}

func (r *rentalRepository) ListByStudent(ctx context.Context, studentID int32) ([]domain.RentalWithBook, error) {
	query := `SELECT ` + rentalWithBookColumns + `
	          FROM rentals r
	          JOIN books b ON b.id = r.book_id
	          WHERE r.student_id = $1
	          ORDER BY r.start_date DESC, r.id DESC`

	rows, err := r.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.RentalWithBook
	for rows.Next() {
		rwb, err := scanRentalWithBook(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, rwb)
	}
	return rentals, rows.Err()
}

func (r *rentalRepository) ListAll(ctx context.Context) ([]domain.RentalWithBook, error) {
	query := `SELECT ` + rentalWithBookColumns + `,
	                 s.id, s.stu_id, s.name, s.email
	          FROM rentals r
	          JOIN books b ON b.id = r.book_id
	          LEFT JOIN students s ON s.id = r.student_id
	          ORDER BY r.start_date DESC, r.id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.RentalWithBook
	for rows.Next() {
		var sid sql.NullInt32
		var stuID, name, email sql.NullString
		rwb, err := scanRentalWithBook(rows, &sid, &stuID, &name, &email)
		if err != nil {
			return nil, err
		}
		if sid.Valid {
			rwb.Student = &domain.Student{
				ID:    sid.Int32,
				StuID: stuID.String,
				Name:  name.String,
				Email: email.String,
			}
		}
		rentals = append(rentals, rwb)
	}
	return rentals, rows.Err()
}

func (r *rentalRepository) ListOpenIDs(ctx context.Context) ([]int32, error) {
	query := `SELECT id FROM rentals WHERE status <> $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, domain.RentalStatusReturned)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
