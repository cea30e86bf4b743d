package jobs

import (
	"context"
	"errors"

	"github.com/AnkitDhruva08/bookrent/internal/domain"
	"github.com/AnkitDhruva08/bookrent/internal/logger"
)

// RefreshOpenRentals re-derives status and fee for every rental that is not
// yet returned. Fees accrue from elapsed time alone, so without this job a
// rental left untouched would keep a stale fee until its next explicit
// extend or return.
func (jr *JobRunner) RefreshOpenRentals() {
	jr.runWithRecovery("RefreshOpenRentals", func() {
		ctx := context.Background()

		ids, err := jr.store.RentalRepository.ListOpenIDs(ctx)
		if err != nil {
			logger.Error("Failed to list open rentals", "error", err)
			return
		}

		refreshed := 0
		failed := 0
		for _, id := range ids {
			if err := jr.rentals.RefreshRental(ctx, id); err != nil {
				// A rental returned concurrently is fine; anything else counts.
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				logger.Error("Failed to refresh rental", "rental_id", id, "error", err)
				failed++
				continue
			}
			refreshed++
		}

		logger.Info("Refreshed open rentals", "total", len(ids), "refreshed", refreshed, "failed", failed)
	})
}
