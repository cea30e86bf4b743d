package jobs

import (
	"github.com/AnkitDhruva08/bookrent/internal/config"
	"github.com/AnkitDhruva08/bookrent/internal/logger"
	"github.com/AnkitDhruva08/bookrent/internal/repository/postgres"
	"github.com/AnkitDhruva08/bookrent/internal/service"
)

// JobRunner coordinates all scheduled maintenance jobs.
type JobRunner struct {
	store   *postgres.Store
	rentals service.RentalService
	config  *config.Config
}

func NewJobRunner(store *postgres.Store, rentals service.RentalService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:   store,
		rentals: rentals,
		config:  cfg,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution).
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.RefreshOpenRentals()
}
