package domain

import (
	"fmt"
	"time"

	"github.com/AnkitDhruva08/bookrent/internal/utils"
)

// EffectiveEnd returns the end point the fee formula uses: the recorded end
// date if set, otherwise today.
func (r *Rental) EffectiveEnd(today time.Time) time.Time {
	if r.EndDate != nil {
		return *r.EndDate
	}
	return utils.DateOnly(today)
}

// DeriveStatus computes the lifecycle state from the stored dates and today.
// Pure: it never mutates the rental, and repeated calls never regress a
// rental from extended or returned back toward active.
func (r *Rental) DeriveStatus(today time.Time) RentalStatus {
	if r.Status == RentalStatusReturned {
		return RentalStatusReturned
	}

	day := utils.DateOnly(today)

	if r.EndDate != nil {
		if !utils.DateOnly(*r.EndDate).After(day) {
			return RentalStatusReturned
		}
		return RentalStatusExtended
	}

	if day.After(utils.FreeWindowEnd(r.StartDate)) {
		return RentalStatusExtended
	}
	return RentalStatusActive
}

// ApplyDerivation refreshes Status and TotalFeeCents from the stored dates.
// The write path applies this before every save, so a rental's fee can grow
// between explicit operations purely from elapsed time.
func (r *Rental) ApplyDerivation(pages int32, today time.Time) {
	r.Status = r.DeriveStatus(today)
	r.TotalFeeCents = utils.CalculateFeeCents(r.StartDate, r.EffectiveEnd(today), pages)
}

// Extend pushes the end date out by months 30-day blocks from the current
// effective end and recomputes the fee. Extension is a status signal on its
// own: the rental becomes extended even while the fee is still zero.
func (r *Rental) Extend(months, pages int32, today time.Time) error {
	if r.Status == RentalStatusReturned {
		return fmt.Errorf("%w: cannot extend a returned rental", ErrInvalidTransition)
	}

	newEnd := utils.DateOnly(r.EffectiveEnd(today)).AddDate(0, 0, int(months)*utils.DaysPerBillingMonth)
	r.EndDate = &newEnd
	r.TotalFeeCents = utils.CalculateFeeCents(r.StartDate, newEnd, pages)
	r.Status = RentalStatusExtended
	return nil
}

// MarkReturned closes the rental at its recorded end date, or today if none
// is set, and recomputes the final fee. Returned is terminal; returning a
// rental twice is an error, not a no-op.
func (r *Rental) MarkReturned(pages int32, today time.Time) error {
	if r.Status == RentalStatusReturned {
		return fmt.Errorf("%w: rental already returned", ErrInvalidTransition)
	}

	if r.EndDate == nil {
		end := utils.DateOnly(today)
		r.EndDate = &end
	}
	r.TotalFeeCents = utils.CalculateFeeCents(r.StartDate, *r.EndDate, pages)
	r.Status = RentalStatusReturned
	return nil
}
