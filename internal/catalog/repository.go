package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidService is returned when a service payload fails validation.
	ErrInvalidService = errors.New("invalid service")

	// ErrServiceNotFound is returned when no service has the given id.
	ErrServiceNotFound = errors.New("service not found")
)

// Repository defines the interface for service catalog storage
type Repository interface {
	Create(ctx context.Context, req *UpsertServiceRequest) (*Service, error)
	Update(ctx context.Context, id string, req *UpsertServiceRequest) (*Service, error)
	GetByID(ctx context.Context, id string) (*Service, error)
	List(ctx context.Context, activeOnly bool) ([]*Service, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is a stub implementation of Repository using in-memory storage
type InMemoryRepository struct {
	mu       sync.RWMutex
	services map[string]*Service
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		services: make(map[string]*Service),
	}
}

// Create inserts a new service.
func (r *InMemoryRepository) Create(ctx context.Context, req *UpsertServiceRequest) (*Service, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	svc := &Service{
		ID:               uuid.NewString(),
		Title:            req.Title,
		Slug:             req.Slug,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		PriceCents:       req.PriceCents,
		DurationMinutes:  req.DurationMinutes,
		Category:         req.Category,
		IsActive:         req.IsActive,
		DisplayOrder:     req.DisplayOrder,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	r.mu.Lock()
	r.services[svc.ID] = svc
	r.mu.Unlock()

	out := *svc
	return &out, nil
}

// Update replaces the stored fields of an existing service.
func (r *InMemoryRepository) Update(ctx context.Context, id string, req *UpsertServiceRequest) (*Service, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	svc, ok := r.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	svc.Title = req.Title
	svc.Slug = req.Slug
	svc.Description = req.Description
	svc.ShortDescription = req.ShortDescription
	svc.PriceCents = req.PriceCents
	svc.DurationMinutes = req.DurationMinutes
	svc.Category = req.Category
	svc.IsActive = req.IsActive
	svc.DisplayOrder = req.DisplayOrder
	svc.UpdatedAt = time.Now().UTC()

	out := *svc
	return &out, nil
}

// GetByID retrieves a service by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	svc, ok := r.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	out := *svc
	return &out, nil
}

// List returns services in display order.
func (r *InMemoryRepository) List(ctx context.Context, activeOnly bool) ([]*Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Service, 0, len(r.services))
	for _, svc := range r.services {
		if activeOnly && !svc.IsActive {
			continue
		}
		cp := *svc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

// Delete removes a service.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.services[id]; !ok {
		return ErrServiceNotFound
	}
	delete(r.services, id)
	return nil
}
