package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/atelierbeauty/salon-platform/internal/identity"
)

func newTestHandler(t *testing.T) (*Handler, *InMemoryRuleRepository) {
	t.Helper()
	rules := NewInMemoryRuleRepository()
	_, err := rules.Upsert(context.Background(), &UpsertRuleRequest{
		DayOfWeek:       Tuesday,
		OpeningTime:     "09:00",
		ClosingTime:     "12:00",
		IntervalMinutes: 30,
		MaxPerSlot:      1,
	})
	if err != nil {
		t.Fatalf("seed rule: %v", err)
	}
	calendar := NewCalendar(rules, &stubCounter{}, nil)
	return NewHandler(rules, calendar, nil), rules
}

func staffContext(ctx context.Context) context.Context {
	return identity.WithActor(ctx, identity.Actor{Subject: "staff-test", Role: identity.RoleStaff})
}

func TestListSlotsHandler(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/slots?date="+tuesday, nil)
	rec := httptest.NewRecorder()
	handler.ListSlots(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp ListSlotsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Date != tuesday {
		t.Errorf("expected date %s, got %s", tuesday, resp.Date)
	}
	if len(resp.Slots) != 6 {
		t.Errorf("expected 6 slots, got %d", len(resp.Slots))
	}
}

func TestListSlotsHandlerMissingDate(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/slots", nil)
	rec := httptest.NewRecorder()
	handler.ListSlots(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestListSlotsHandlerBadDate(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/slots?date=yesterday", nil)
	rec := httptest.NewRecorder()
	handler.ListSlots(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestUpsertRuleHandler(t *testing.T) {
	handler, rules := newTestHandler(t)

	body, _ := json.Marshal(UpsertRuleRequest{
		OpeningTime:     "10:00",
		ClosingTime:     "16:00",
		IntervalMinutes: 60,
		MaxPerSlot:      3,
	})

	req := httptest.NewRequest(http.MethodPut, "/admin/working-hours/friday", bytes.NewReader(body))
	req = withURLParam(req, "day", "friday")
	req = req.WithContext(staffContext(req.Context()))
	rec := httptest.NewRecorder()
	handler.UpsertRule(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	rule, err := rules.GetByWeekday(context.Background(), Friday)
	if err != nil {
		t.Fatalf("rule not stored: %v", err)
	}
	if rule.OpeningTime != "10:00" || rule.MaxPerSlot != 3 {
		t.Errorf("unexpected stored rule: %+v", rule)
	}
}

func TestUpsertRuleHandlerInvalid(t *testing.T) {
	handler, _ := newTestHandler(t)

	body, _ := json.Marshal(UpsertRuleRequest{
		OpeningTime:     "16:00",
		ClosingTime:     "10:00",
		IntervalMinutes: 30,
		MaxPerSlot:      1,
	})

	req := httptest.NewRequest(http.MethodPut, "/admin/working-hours/friday", bytes.NewReader(body))
	req = withURLParam(req, "day", "friday")
	req = req.WithContext(staffContext(req.Context()))
	rec := httptest.NewRecorder()
	handler.UpsertRule(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestUpsertRuleHandlerRequiresStaff(t *testing.T) {
	handler, _ := newTestHandler(t)

	body, _ := json.Marshal(UpsertRuleRequest{
		OpeningTime:     "10:00",
		ClosingTime:     "16:00",
		IntervalMinutes: 60,
		MaxPerSlot:      3,
	})

	req := httptest.NewRequest(http.MethodPut, "/admin/working-hours/friday", bytes.NewReader(body))
	req = withURLParam(req, "day", "friday")
	rec := httptest.NewRecorder()
	handler.UpsertRule(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestDeleteRuleHandler(t *testing.T) {
	handler, rules := newTestHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/admin/working-hours/tuesday", nil)
	req = withURLParam(req, "day", "tuesday")
	req = req.WithContext(staffContext(req.Context()))
	rec := httptest.NewRecorder()
	handler.DeleteRule(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
	if _, err := rules.GetByWeekday(context.Background(), Tuesday); err == nil {
		t.Fatalf("expected rule to be deleted")
	}
}

func TestDeleteRuleHandlerNotFound(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/admin/working-hours/sunday", nil)
	req = withURLParam(req, "day", "sunday")
	req = req.WithContext(staffContext(req.Context()))
	rec := httptest.NewRecorder()
	handler.DeleteRule(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestListRulesHandler(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/working-hours", nil)
	req = req.WithContext(staffContext(req.Context()))
	rec := httptest.NewRecorder()
	handler.ListRules(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var rules []*WorkingHoursRule
	if err := json.NewDecoder(rec.Body).Decode(&rules); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(rules) != 1 || rules[0].DayOfWeek != Tuesday {
		t.Errorf("unexpected rules: %+v", rules)
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
