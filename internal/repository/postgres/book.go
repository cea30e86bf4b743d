package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AnkitDhruva08/bookrent/internal/domain"
	"github.com/AnkitDhruva08/bookrent/internal/repository"
)

type bookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) repository.BookRepository {
	return &bookRepository{db: db}
}

const bookColumns = `id, title, author, pages, cover_url, olid, first_publish_year`

func (r *bookRepository) Create(ctx context.Context, b *domain.Book) error {
	query := `INSERT INTO books (title, author, pages, cover_url, olid, first_publish_year)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		b.Title, b.Author, b.Pages, b.CoverURL, b.OLID, b.FirstPublishYear,
	).Scan(&b.ID)
}

func (r *bookRepository) GetByID(ctx context.Context, id int32) (*domain.Book, error) {
	b := &domain.Book{}
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.Title, &b.Author, &b.Pages, &b.CoverURL, &b.OLID, &b.FirstPublishYear)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: book %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookRepository) GetByTitle(ctx context.Context, title string) (*domain.Book, error) {
	b := &domain.Book{}
	query := `SELECT ` + bookColumns + ` FROM books WHERE lower(title) = lower($1) LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, title).Scan(
		&b.ID, &b.Title, &b.Author, &b.Pages, &b.CoverURL, &b.OLID, &b.FirstPublishYear)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: book %q", domain.ErrNotFound, title)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookRepository) SearchByTitle(ctx context.Context, title string) ([]domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE title ILIKE '%' || $1 || '%' ORDER BY title`

	rows, err := r.db.QueryContext(ctx, query, title)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Pages, &b.CoverURL, &b.OLID, &b.FirstPublishYear); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}
