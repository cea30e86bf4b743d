package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/AnkitDhruva08/bookrent/internal/domain"
	"github.com/AnkitDhruva08/bookrent/internal/service"
)

type RentalHandler struct {
	rentals service.RentalService
	catalog service.CatalogService
}

func NewRentalHandler(rentals service.RentalService, catalog service.CatalogService) *RentalHandler {
	return &RentalHandler{rentals: rentals, catalog: catalog}
}

type createRentalRequest struct {
	Title     string `json:"title"`
	StudentID *int32 `json:"student_id,omitempty"`
}

type extendRentalRequest struct {
	ExtensionMonths *int32 `json:"extension_months"`
}

func (h *RentalHandler) CreateRental(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}
	if req.Title == "" {
		writeError(w, r, fmt.Errorf("%w: book title is required", domain.ErrValidation))
		return
	}

	summary, err := h.rentals.CreateRental(r.Context(), req.Title, req.StudentID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": fmt.Sprintf("Book %q rented successfully!", summary.Book.Title),
		"rental":  summary,
	})
}

func (h *RentalHandler) ExtendRental(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	// An empty body means the default one-month extension.
	var req extendRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}
	months := int32(1)
	if req.ExtensionMonths != nil {
		months = *req.ExtensionMonths
	}

	summary, err := h.rentals.ExtendRental(r.Context(), rentalID, months)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Rental extended successfully by %d month(s)!", months),
		"rental":  summary,
	})
}

func (h *RentalHandler) ReturnRental(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := h.rentals.ReturnRental(r.Context(), rentalID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("%q returned successfully!", summary.Book.Title),
		"rental":  summary,
	})
}

func (h *RentalHandler) StudentRentals(w http.ResponseWriter, r *http.Request) {
	studentID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	list, err := h.rentals.ListByStudent(r.Context(), studentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *RentalHandler) AllRentals(w http.ResponseWriter, r *http.Request) {
	list, err := h.rentals.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *RentalHandler) SearchBooks(w http.ResponseWriter, r *http.Request) {
	results, err := h.catalog.Search(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", domain.ErrValidation, name, raw)
	}
	return int32(id), nil
}
