package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookrent_http_requests_total",
		Help: "HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookrent_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	RentalsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookrent_rentals_created_total",
		Help: "Rentals created",
	})

	RentalTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookrent_rental_transitions_total",
		Help: "Explicit rental transitions by kind (extend, return, refresh)",
	}, []string{"transition"})

	ConcurrencyConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookrent_rental_lock_conflicts_total",
		Help: "Per-rental lock acquisitions that timed out",
	})

	CatalogRemoteLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookrent_catalog_remote_lookups_total",
		Help: "OpenLibrary lookups by outcome (hit, miss, error)",
	}, []string{"outcome"})
)
