package repository

import (
	"context"

	"github.com/AnkitDhruva08/bookrent/internal/domain"
)

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	// Update persists end_date, total_fee_cents and status in one statement.
	Update(ctx context.Context, rental *domain.Rental) error
	ListByStudent(ctx context.Context, studentID int32) ([]domain.RentalWithBook, error)
	ListAll(ctx context.Context) ([]domain.RentalWithBook, error)
	// ListOpenIDs returns ids of rentals not yet returned, for the nightly
	// fee/status refresh.
	ListOpenIDs(ctx context.Context) ([]int32, error)
}

type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	GetByID(ctx context.Context, id int32) (*domain.Book, error)
	// GetByTitle does an exact case-insensitive match.
	GetByTitle(ctx context.Context, title string) (*domain.Book, error)
	// SearchByTitle does a substring case-insensitive match.
	SearchByTitle(ctx context.Context, title string) ([]domain.Book, error)
}

type StudentRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Student, error)
	// First returns the earliest-registered student, used as the fallback
	// renter when a rental request names none.
	First(ctx context.Context) (*domain.Student, error)
}
