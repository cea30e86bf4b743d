package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AnkitDhruva08/bookrent/internal/domain"
	"github.com/AnkitDhruva08/bookrent/internal/locking"
	"github.com/AnkitDhruva08/bookrent/internal/logger"
	"github.com/AnkitDhruva08/bookrent/internal/metrics"
	"github.com/AnkitDhruva08/bookrent/internal/repository"
	"github.com/AnkitDhruva08/bookrent/internal/utils"
)

type rentalService struct {
	rentalRepo  repository.RentalRepository
	bookRepo    repository.BookRepository
	studentRepo repository.StudentRepository
	catalog     CatalogService
	locks       *locking.Keyed
	now         func() time.Time
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	bookRepo repository.BookRepository,
	studentRepo repository.StudentRepository,
	catalog CatalogService,
	locks *locking.Keyed,
) RentalService {
	return &rentalService{
		rentalRepo:  rentalRepo,
		bookRepo:    bookRepo,
		studentRepo: studentRepo,
		catalog:     catalog,
		locks:       locks,
		now:         time.Now,
	}
}

func (s *rentalService) CreateRental(ctx context.Context, title string, studentID *int32) (*RentalSummary, error) {
	book, err := s.catalog.FindOrFetch(ctx, title)
	if err != nil {
		return nil, err
	}

	var student *domain.Student
	if studentID != nil {
		student, err = s.studentRepo.GetByID(ctx, *studentID)
	} else {
		// No renter named: fall back to the earliest-registered student.
		student, err = s.studentRepo.First(ctx)
	}
	if err != nil {
		return nil, err
	}

	rental := &domain.Rental{
		StudentID: student.ID,
		BookID:    book.ID,
		StartDate: utils.DateOnly(s.now()),
		Status:    domain.RentalStatusActive,
	}
	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		return nil, err
	}

	metrics.RentalsCreatedTotal.Inc()
	logger.Info("Rental created", "rental_id", rental.ID, "book_id", book.ID, "student_id", student.ID)

	summary := s.summarize(rental, book, student)
	return &summary, nil
}

func (s *rentalService) ExtendRental(ctx context.Context, rentalID, months int32) (*RentalSummary, error) {
	if months < 0 {
		return nil, fmt.Errorf("%w: extension months must not be negative", domain.ErrValidation)
	}

	rental, book, err := s.mutate(ctx, rentalID, func(rt *domain.Rental, bk *domain.Book) error {
		return rt.Extend(months, bk.Pages, s.now())
	})
	if err != nil {
		return nil, err
	}

	metrics.RentalTransitionsTotal.WithLabelValues("extend").Inc()
	logger.Info("Rental extended", "rental_id", rental.ID, "months", months, "total_fee_cents", rental.TotalFeeCents)

	summary := s.summarize(rental, book, nil)
	return &summary, nil
}

func (s *rentalService) ReturnRental(ctx context.Context, rentalID int32) (*RentalSummary, error) {
	rental, book, err := s.mutate(ctx, rentalID, func(rt *domain.Rental, bk *domain.Book) error {
		return rt.MarkReturned(bk.Pages, s.now())
	})
	if err != nil {
		return nil, err
	}

	metrics.RentalTransitionsTotal.WithLabelValues("return").Inc()
	logger.Info("Rental returned", "rental_id", rental.ID, "total_fee_cents", rental.TotalFeeCents)

	summary := s.summarize(rental, book, nil)
	return &summary, nil
}

func (s *rentalService) RefreshRental(ctx context.Context, rentalID int32) error {
	var changed bool
	_, _, err := s.mutateIf(ctx, rentalID, func(rt *domain.Rental, bk *domain.Book) (bool, error) {
		before := *rt
		rt.ApplyDerivation(bk.Pages, s.now())
		changed = rt.Status != before.Status || rt.TotalFeeCents != before.TotalFeeCents
		return changed, nil
	})
	if err != nil {
		return err
	}
	if changed {
		metrics.RentalTransitionsTotal.WithLabelValues("refresh").Inc()
	}
	return nil
}

// mutate runs a transition under the per-rental lock: load the rental and its
// book, apply the transition, re-derive status and fee, and persist the
// end date, fee and status in one write. Lock contention is retried once.
func (s *rentalService) mutate(ctx context.Context, rentalID int32, transition func(*domain.Rental, *domain.Book) error) (*domain.Rental, *domain.Book, error) {
	return s.mutateIf(ctx, rentalID, func(rt *domain.Rental, bk *domain.Book) (bool, error) {
		if err := transition(rt, bk); err != nil {
			return false, err
		}
		rt.ApplyDerivation(bk.Pages, s.now())
		return true, nil
	})
}

func (s *rentalService) mutateIf(ctx context.Context, rentalID int32, transition func(*domain.Rental, *domain.Book) (bool, error)) (*domain.Rental, *domain.Book, error) {
	var rental *domain.Rental
	var book *domain.Book

	op := func() error {
		var err error
		rental, err = s.rentalRepo.GetByID(ctx, rentalID)
		if err != nil {
			return err
		}
		book, err = s.bookRepo.GetByID(ctx, rental.BookID)
		if err != nil {
			return err
		}
		persist, err := transition(rental, book)
		if err != nil {
			return err
		}
		if !persist {
			return nil
		}
		return s.rentalRepo.Update(ctx, rental)
	}

	err := s.locks.WithLock(ctx, rentalID, op)
	if errors.Is(err, domain.ErrConcurrencyConflict) {
		metrics.ConcurrencyConflictsTotal.Inc()
		logger.Warn("Rental lock contention, retrying once", "rental_id", rentalID)
		err = s.locks.WithLock(ctx, rentalID, op)
	}
	if err != nil {
		return nil, nil, err
	}
	return rental, book, nil
}

func (s *rentalService) ListByStudent(ctx context.Context, studentID int32) (*StudentRentalList, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	rows, err := s.rentalRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	summaries := make([]RentalSummary, 0, len(rows))
	var totalCents int64
	for _, row := range rows {
		summary, feeCents := s.summarizeRow(row, today)
		summaries = append(summaries, summary)
		totalCents += feeCents
	}

	return &StudentRentalList{
		Student:      studentSummary(student),
		Rentals:      summaries,
		TotalRentals: len(summaries),
		TotalFees:    utils.FormatCents(totalCents),
	}, nil
}

func (s *rentalService) ListAll(ctx context.Context) (*RentalList, error) {
	rows, err := s.rentalRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now()
	summaries := make([]RentalSummary, 0, len(rows))
	var totalCents int64
	for _, row := range rows {
		summary, feeCents := s.summarizeRow(row, today)
		if row.Student != nil {
			ss := studentSummary(row.Student)
			summary.Student = &ss
		}
		summaries = append(summaries, summary)
		totalCents += feeCents
	}

	return &RentalList{
		TotalRentals: len(summaries),
		TotalFees:    utils.FormatCents(totalCents),
		Rentals:      summaries,
	}, nil
}

const dateLayout = "2006-01-02"

// summarize builds the projection of a rental that was just written, so the
// stored status and fee are current by construction.
func (s *rentalService) summarize(rt *domain.Rental, bk *domain.Book, student *domain.Student) RentalSummary {
	summary := RentalSummary{
		ID: rt.ID,
		Book: BookSummary{
			Title:    bk.Title,
			Author:   bk.Author,
			Pages:    bk.Pages,
			CoverURL: bk.CoverURL,
		},
		StartDate:     rt.StartDate.Format(dateLayout),
		FreeMonthEnds: utils.FreeWindowEnd(rt.StartDate).Format(dateLayout),
		Status:        string(rt.Status),
		TotalFee:      utils.FormatCents(rt.TotalFeeCents),
		MonthlyFee:    utils.FormatCents(utils.MonthlyRateCents(bk.Pages)),
	}
	if rt.EndDate != nil {
		end := rt.EndDate.Format(dateLayout)
		summary.EndDate = &end
	}
	if student != nil {
		ss := studentSummary(student)
		summary.Student = &ss
	}
	return summary
}

// summarizeRow builds a listing entry. Status and fee are derived live from
// today's date; the stored record may lag until its next write and is left
// untouched here.
func (s *rentalService) summarizeRow(row domain.RentalWithBook, today time.Time) (RentalSummary, int64) {
	derived := row.Rental
	derived.ApplyDerivation(row.Book.Pages, today)
	return s.summarize(&derived, &row.Book, nil), derived.TotalFeeCents
}

func studentSummary(st *domain.Student) StudentSummary {
	return StudentSummary{
		ID:    st.ID,
		StuID: st.StuID,
		Name:  st.Name,
		Email: st.Email,
	}
}
