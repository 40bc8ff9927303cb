package schedule

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/atelierbeauty/salon-platform/internal/identity"
	"github.com/atelierbeauty/salon-platform/internal/observability/metrics"
	"github.com/atelierbeauty/salon-platform/pkg/logging"
)

// Handler handles HTTP requests for working hours and slot availability
type Handler struct {
	rules    RuleRepository
	calendar *Calendar
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

// NewHandler creates a new schedule handler
func NewHandler(rules RuleRepository, calendar *Calendar, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		rules:    rules,
		calendar: calendar,
		logger:   logger,
	}
}

// WithMetrics enables slot query latency instrumentation.
func (h *Handler) WithMetrics(m *metrics.BookingMetrics) *Handler {
	h.metrics = m
	return h
}

// ListSlotsResponse is the response for listing a day's slots
type ListSlotsResponse struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}

// ListSlots handles GET /slots?date=YYYY-MM-DD requests
func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "missing date parameter", http.StatusBadRequest)
		return
	}

	start := time.Now()
	slots, err := h.calendar.ListSlots(r.Context(), date)
	h.metrics.ObserveSlotQuery(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, ErrInvalidSlotQuery) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to list slots", "error", err, "date", date)
		http.Error(w, "failed to list slots", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListSlotsResponse{Date: date, Slots: slots})
}

// ListRules handles GET /admin/working-hours requests
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}

	rules, err := h.rules.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list working hours", "error", err)
		http.Error(w, "failed to list working hours", http.StatusInternalServerError)
		return
	}
	if rules == nil {
		rules = []*WorkingHoursRule{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rules)
}

// UpsertRule handles PUT /admin/working-hours/{day} requests
func (h *Handler) UpsertRule(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}

	var req UpsertRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.DayOfWeek = Weekday(chi.URLParam(r, "day"))

	rule, err := h.rules.Upsert(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidRule) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrDuplicateRule) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		h.logger.Error("failed to upsert working hours", "error", err, "day", req.DayOfWeek)
		http.Error(w, "failed to save working hours", http.StatusInternalServerError)
		return
	}

	h.logger.Info("working hours updated", "day", rule.DayOfWeek, "closed", rule.IsClosed)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rule)
}

// DeleteRule handles DELETE /admin/working-hours/{day} requests
func (h *Handler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}

	day := Weekday(chi.URLParam(r, "day"))
	if err := h.rules.Delete(r.Context(), day); err != nil {
		if errors.Is(err, ErrRuleNotFound) {
			http.Error(w, "working hours rule not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete working hours", "error", err, "day", day)
		http.Error(w, "failed to delete working hours", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func requireStaff(w http.ResponseWriter, r *http.Request) bool {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok || !actor.IsStaff() {
		http.Error(w, "staff access required", http.StatusForbidden)
		return false
	}
	return true
}
