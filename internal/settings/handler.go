package settings

import (
	"encoding/json"
	"net/http"

	"github.com/atelierbeauty/salon-platform/internal/identity"
	"github.com/atelierbeauty/salon-platform/pkg/logging"
)

// Handler handles HTTP requests for salon settings
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a new settings handler
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// GetContact handles GET /settings/contact requests (public).
func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	cs, err := h.store.GetContact(r.Context())
	if err != nil {
		h.logger.Error("failed to load contact settings", "error", err)
		http.Error(w, "failed to load settings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cs)
}

// PutContact handles PUT /admin/settings/contact requests
func (h *Handler) PutContact(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok || !actor.IsStaff() {
		http.Error(w, "staff access required", http.StatusForbidden)
		return
	}

	var cs ContactSettings
	if err := json.NewDecoder(r.Body).Decode(&cs); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.SetContact(r.Context(), &cs); err != nil {
		h.logger.Error("failed to save contact settings", "error", err)
		http.Error(w, "failed to save settings", http.StatusInternalServerError)
		return
	}

	h.logger.Info("contact settings updated", "by", actor.Subject)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&cs)
}
