package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Service is one treatment the salon offers. Active services feed the public
// booking form's service selector.
type Service struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description,omitempty"`
	ShortDescription string    `json:"short_description,omitempty"`
	PriceCents       int       `json:"price_cents,omitempty"`
	DurationMinutes  int       `json:"duration_minutes,omitempty"`
	Category         string    `json:"category"`
	IsActive         bool      `json:"is_active"`
	DisplayOrder     int       `json:"display_order"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// UpsertServiceRequest is the staff payload for creating or updating a service.
type UpsertServiceRequest struct {
	Title            string `json:"title"`
	Slug             string `json:"slug,omitempty"`
	Description      string `json:"description,omitempty"`
	ShortDescription string `json:"short_description,omitempty"`
	PriceCents       int    `json:"price_cents,omitempty"`
	DurationMinutes  int    `json:"duration_minutes,omitempty"`
	Category         string `json:"category"`
	IsActive         bool   `json:"is_active"`
	DisplayOrder     int    `json:"display_order"`
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Validate checks required fields and derives a slug from the title when none
// is supplied.
func (r *UpsertServiceRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidService)
	}
	if strings.TrimSpace(r.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidService)
	}
	if r.PriceCents < 0 {
		return fmt.Errorf("%w: price_cents must not be negative", ErrInvalidService)
	}
	if r.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration_minutes must not be negative", ErrInvalidService)
	}
	if r.Slug == "" {
		r.Slug = Slugify(r.Title)
	}
	return nil
}

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
