package domain

import "time"

type RentalStatus string

const (
	RentalStatusActive   RentalStatus = "active"
	RentalStatusExtended RentalStatus = "extended"
	RentalStatusReturned RentalStatus = "returned"
)

// Rental represents a student renting a book. The first 30 days are free;
// after that a monthly fee accrues based on the book's page count.
// TotalFeeCents is a cache of the fee formula, never authoritative: it is
// recomputed from the dates and page count on every persisted write.
type Rental struct {
	ID            int32        `json:"id"`
	StudentID     int32        `json:"student_id"`
	BookID        int32        `json:"book_id"`
	StartDate     time.Time    `json:"start_date"`
	EndDate       *time.Time   `json:"end_date,omitempty"`
	TotalFeeCents int64        `json:"total_fee_cents"`
	Status        RentalStatus `json:"status"`
	CreatedOn     time.Time    `json:"created_on"`
	UpdatedOn     time.Time    `json:"updated_on"`
}

// RentalWithBook is a read-model row for listings: the rental joined with
// its book and, when resolvable, the student. Never written back.
type RentalWithBook struct {
	Rental
	Book    Book     `json:"book"`
	Student *Student `json:"student,omitempty"`
}
