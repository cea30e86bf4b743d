package service

import (
	"context"

	"github.com/AnkitDhruva08/bookrent/internal/domain"
)

type CatalogService interface {
	// Search returns local matches for a title, falling back to a
	// best-effort remote lookup when the local catalog has none.
	Search(ctx context.Context, title string) ([]BookResult, error)
	// FindOrFetch resolves a title to a local book, fetching and creating
	// it from the remote catalog when missing.
	FindOrFetch(ctx context.Context, title string) (*domain.Book, error)
}

type RentalService interface {
	CreateRental(ctx context.Context, title string, studentID *int32) (*RentalSummary, error)
	ExtendRental(ctx context.Context, rentalID, months int32) (*RentalSummary, error)
	ReturnRental(ctx context.Context, rentalID int32) (*RentalSummary, error)
	// RefreshRental re-derives status and fee from elapsed time and persists
	// the result if it changed. Used by the nightly maintenance job.
	RefreshRental(ctx context.Context, rentalID int32) error
	ListByStudent(ctx context.Context, studentID int32) (*StudentRentalList, error)
	ListAll(ctx context.Context) (*RentalList, error)
}

// RemoteCatalog is the outbound book database. A (nil, nil) result is a
// clean miss; errors are recovered by the catalog service and reported to
// callers as not found.
type RemoteCatalog interface {
	FetchByTitle(ctx context.Context, title string) (*domain.BookInfo, error)
}

// BookLookupCache is a best-effort cache in front of the remote catalog.
type BookLookupCache interface {
	Get(ctx context.Context, title string) (*domain.BookInfo, bool)
	Set(ctx context.Context, title string, info *domain.BookInfo)
}

type BookResult struct {
	Title            string `json:"title"`
	Author           string `json:"author"`
	Pages            int32  `json:"pages"`
	CoverURL         string `json:"cover_url"`
	OLID             string `json:"olid"`
	FirstPublishYear *int32 `json:"first_publish_year,omitempty"`
}

type BookSummary struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Pages    int32  `json:"pages"`
	CoverURL string `json:"cover_url"`
}

type StudentSummary struct {
	ID    int32  `json:"id"`
	StuID string `json:"student_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RentalSummary is the client-facing projection of a rental. Currency fields
// are preformatted dollar strings; dates are yyyy-mm-dd.
type RentalSummary struct {
	ID            int32           `json:"id"`
	Book          BookSummary     `json:"book"`
	Student       *StudentSummary `json:"student,omitempty"`
	StartDate     string          `json:"start_date"`
	EndDate       *string         `json:"end_date"`
	FreeMonthEnds string          `json:"free_month_ends"`
	Status        string          `json:"status"`
	TotalFee      string          `json:"total_fee"`
	MonthlyFee    string          `json:"monthly_fee"`
}

type StudentRentalList struct {
	Student      StudentSummary  `json:"student"`
	Rentals      []RentalSummary `json:"rentals"`
	TotalRentals int             `json:"total_rentals"`
	TotalFees    string          `json:"total_fees"`
}

type RentalList struct {
	TotalRentals int             `json:"total_rentals"`
	TotalFees    string          `json:"total_fees_collected"`
	Rentals      []RentalSummary `json:"rentals"`
}
