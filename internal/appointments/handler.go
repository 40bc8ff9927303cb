package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/atelierbeauty/salon-platform/pkg/logging"
)

// Handler handles HTTP requests for appointments
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new appointments handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Submit handles POST /appointments requests from the public booking form
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	dec := json.NewDecoder(r.Body)
	// The booking form has a fixed field set; anything extra is a client bug.
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Info("appointment submitted",
		"id", appt.ID,
		"date", appt.AppointmentDate,
		"time", appt.AppointmentTime,
		"service", appt.ServiceName,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(appt)
}

// ListResponse is the response for listing appointments
type ListResponse struct {
	Appointments []*Appointment `json:"appointments"`
	Count        int            `json:"count"`
	Offset       int            `json:"offset"`
	Limit        int            `json:"limit"`
}

// List handles GET /admin/appointments requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Limit:  50,
		Offset: 0,
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 200 {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}
	if status := r.URL.Query().Get("status"); status != "" {
		if !Status(status).Valid() {
			http.Error(w, "unknown status filter", http.StatusBadRequest)
			return
		}
		filter.Status = Status(status)
	}
	filter.DateFrom = r.URL.Query().Get("from")
	filter.DateTo = r.URL.Query().Get("to")

	appts, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response := ListResponse{
		Appointments: appts,
		Count:        len(appts),
		Offset:       filter.Offset,
		Limit:        filter.Limit,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// UpdateStatusRequest is the staff payload for status changes
type UpdateStatusRequest struct {
	Status             Status `json:"status"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
}

// UpdateStatus handles PATCH /admin/appointments/{id}/status requests
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.service.UpdateStatus(r.Context(), id, req.Status, req.CancellationReason)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Info("appointment status updated", "id", appt.ID, "status", appt.Status)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appt)
}

// Delete handles DELETE /admin/appointments/{id} requests
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Info("appointment deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrSlotUnavailable):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrStaffRequired):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		h.logger.Error("appointment request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
