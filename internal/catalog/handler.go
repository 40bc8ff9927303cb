package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atelierbeauty/salon-platform/internal/identity"
	"github.com/atelierbeauty/salon-platform/pkg/logging"
)

// Handler handles HTTP requests for the service catalog
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new catalog handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListPublic handles GET /services requests; only active services are shown.
func (h *Handler) ListPublic(w http.ResponseWriter, r *http.Request) {
	services, err := h.repo.List(r.Context(), true)
	if err != nil {
		h.logger.Error("failed to list services", "error", err)
		http.Error(w, "failed to list services", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(services)
}

// ListAll handles GET /admin/services requests
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}

	services, err := h.repo.List(r.Context(), false)
	if err != nil {
		h.logger.Error("failed to list services", "error", err)
		http.Error(w, "failed to list services", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(services)
}

// Create handles POST /admin/services requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}

	var req UpsertServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	svc, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Info("service created", "id", svc.ID, "title", svc.Title)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(svc)
}

// Update handles PUT /admin/services/{id} requests
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}

	var req UpsertServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	svc, err := h.repo.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(svc)
}

// Delete handles DELETE /admin/services/{id} requests
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}

	if err := h.repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidService):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrServiceNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.logger.Error("catalog request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func requireStaff(w http.ResponseWriter, r *http.Request) bool {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok || !actor.IsStaff() {
		http.Error(w, "staff access required", http.StatusForbidden)
		return false
	}
	return true
}
