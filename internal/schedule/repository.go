package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RuleRepository defines the interface for working-hours rule storage
type RuleRepository interface {
	Upsert(ctx context.Context, req *UpsertRuleRequest) (*WorkingHoursRule, error)
	GetByWeekday(ctx context.Context, day Weekday) (*WorkingHoursRule, error)
	List(ctx context.Context) ([]*WorkingHoursRule, error)
	Delete(ctx context.Context, day Weekday) error
}

// InMemoryRuleRepository keeps rules in a map, one per weekday.
type InMemoryRuleRepository struct {
	mu    sync.RWMutex
	rules map[Weekday]*WorkingHoursRule
}

// NewInMemoryRuleRepository creates a new in-memory repository
func NewInMemoryRuleRepository() *InMemoryRuleRepository {
	return &InMemoryRuleRepository{
		rules: make(map[Weekday]*WorkingHoursRule),
	}
}

// Upsert replaces the rule for the request's weekday.
func (r *InMemoryRuleRepository) Upsert(ctx context.Context, req *UpsertRuleRequest) (*WorkingHoursRule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	rule, ok := r.rules[req.DayOfWeek]
	if !ok {
		rule = &WorkingHoursRule{
			ID:        uuid.NewString(),
			DayOfWeek: req.DayOfWeek,
			CreatedAt: now,
		}
		r.rules[req.DayOfWeek] = rule
	}
	rule.OpeningTime = req.OpeningTime
	rule.ClosingTime = req.ClosingTime
	rule.IsClosed = req.IsClosed
	rule.IntervalMinutes = req.IntervalMinutes
	rule.MaxPerSlot = req.MaxPerSlot
	rule.UpdatedAt = now

	out := *rule
	return &out, nil
}

// GetByWeekday returns the rule for a weekday.
func (r *InMemoryRuleRepository) GetByWeekday(ctx context.Context, day Weekday) (*WorkingHoursRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.rules[day]
	if !ok {
		return nil, ErrRuleNotFound
	}
	out := *rule
	return &out, nil
}

// List returns all configured rules in calendar order.
func (r *InMemoryRuleRepository) List(ctx context.Context) ([]*WorkingHoursRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*WorkingHoursRule, 0, len(r.rules))
	for _, day := range Weekdays {
		if rule, ok := r.rules[day]; ok {
			cp := *rule
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Delete removes the rule for a weekday.
func (r *InMemoryRuleRepository) Delete(ctx context.Context, day Weekday) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rules[day]; !ok {
		return ErrRuleNotFound
	}
	delete(r.rules, day)
	return nil
}
