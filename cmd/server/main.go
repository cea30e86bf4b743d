package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "github.com/AnkitDhruva08/bookrent/internal/api/http"
	"github.com/AnkitDhruva08/bookrent/internal/cache"
	"github.com/AnkitDhruva08/bookrent/internal/config"
	"github.com/AnkitDhruva08/bookrent/internal/database"
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
	skipMigrations := flag.Bool("skip-migrations", false, "Do not run schema migrations at startup")
	flag.Parse()

	// Optional .env for local development; the real environment wins.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting bookrent server...", "address", cfg.GetServerAddress(), "log_level", cfg.Log.Level)

	if !*skipMigrations {
		if err := database.RunMigrations(cfg.GetDatabaseURL()); err != nil {
			logger.Error("Failed to run migrations", "error", err)
			log.Fatalf("Failed to run migrations: %v", err)
		}
		logger.Info("Schema migrations applied")
	}

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

	locks := locking.NewKeyed(cfg.LockAcquireTimeout())

	catalogSvc := service.NewCatalogService(store.BookRepository, bookCache, remoteCatalog)
	rentalSvc := service.NewRentalService(
		store.RentalRepository,
		store.BookRepository,
		store.StudentRepository,
		catalogSvc,
		locks,
	)

	jobRunner := jobs.NewJobRunner(store, rentalSvc, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	handler := httpapi.NewRentalHandler(rentalSvc, catalogSvc)
	router := httpapi.NewRouter(handler, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
