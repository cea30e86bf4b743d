package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/AnkitDhruva08/bookrent/internal/cache"
	"github.com/AnkitDhruva08/bookrent/internal/config"
	"github.com/AnkitDhruva08/bookrent/internal/jobs"
	"github.com/AnkitDhruva08/bookrent/internal/locking"
	"github.com/AnkitDhruva08/bookrent/internal/logger"
	"github.com/AnkitDhruva08/bookrent/internal/openlibrary"
	"github.com/AnkitDhruva08/bookrent/internal/repository/postgres"
	"github.com/AnkitDhruva08/bookrent/internal/scheduler"
	"github.com/AnkitDhruva08/bookrent/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'refresh-open-rentals', 'all-nightly')")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting bookrent cronjob runner...", "log_level", cfg.Log.Level)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	bookCache := cache.NewBookCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.CatalogCacheTTL())
	defer bookCache.Close()

	remoteCatalog := openlibrary.NewClient(
		cfg.OpenLibrary.BaseURL,
		cfg.OpenLibrary.CoversURL,
		cfg.OpenLibraryTimeout(),
		cfg.OpenLibrary.MaxRPS,
	)

	catalogSvc := service.NewCatalogService(store.BookRepository, bookCache, remoteCatalog)
	rentalSvc := service.NewRentalService(
		store.RentalRepository,
		store.BookRepository,
		store.StudentRepository,
		catalogSvc,
		locking.NewKeyed(cfg.LockAcquireTimeout()),
	)

	jobRunner := jobs.NewJobRunner(store, rentalSvc, cfg)

	if *runOnce != "" {
		runJobOnce(jobRunner, *runOnce)
		return
	}

	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	logger.Info("Scheduler running, waiting for signals...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sched.Stop()
	// Give in-flight logging a moment to flush.
	time.Sleep(100 * time.Millisecond)
}

func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	logger.Info("Running job once", "job", jobName)

	switch jobName {
	case "refresh-open-rentals":
		jobRunner.RefreshOpenRentals()
	case "all-nightly":
		jobRunner.RunAllNightlyJobs()
	default:
		logger.Error("Unknown job", "job", jobName)
		os.Exit(1)
	}
}
