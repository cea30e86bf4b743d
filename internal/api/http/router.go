package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// NewRouter wires the rental API. CORS is open to the configured origins
// because the browser frontend is served from a different host.
func NewRouter(h *RentalHandler, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()

	r.Use(RecoveryMiddleware, RequestLogMiddleware, MetricsMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/books/search", h.SearchBooks).Methods(http.MethodGet)
	api.HandleFunc("/rentals", h.CreateRental).Methods(http.MethodPost)
	api.HandleFunc("/rentals", h.AllRentals).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}/extend", h.ExtendRental).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/return", h.ReturnRental).Methods(http.MethodPut)
	api.HandleFunc("/students/{id:[0-9]+}/rentals", h.StudentRentals).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
	})
	return c.Handler(r)
}
