package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ContactSettings is the salon's public contact block shown next to the
// booking form.
type ContactSettings struct {
	ContactTitle         string `json:"contact_title"`
	ContactDescription   string `json:"contact_description"`
	PhoneNumbers         string `json:"phone_numbers"`  // newline separated
	EmailAddresses       string `json:"email_addresses"` // newline separated
	Address              string `json:"address"`
	WorkingHoursWeekdays string `json:"working_hours_weekdays"`
	WorkingHoursSunday   string `json:"working_hours_sunday"`
}

// DefaultContactSettings returns the fallback shown before staff have saved
// anything.
func DefaultContactSettings() *ContactSettings {
	return &ContactSettings{
		ContactTitle:         "Start Your Beauty Journey",
		ContactDescription:   "Fill in the form and we will get back to you shortly to arrange your appointment.",
		WorkingHoursWeekdays: "Monday - Saturday: 09:00 - 20:00",
		WorkingHoursSunday:   "Sunday: closed",
	}
}

const contactKey = "salon:settings:contact"

// Store provides persistence for salon settings.
type Store struct {
	redis *redis.Client
}

// NewStore creates a new settings store.
func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient}
}

// GetContact retrieves contact settings, returning defaults if not found.
func (s *Store) GetContact(ctx context.Context) (*ContactSettings, error) {
	data, err := s.redis.Get(ctx, contactKey).Bytes()
	if err == redis.Nil {
		return DefaultContactSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings: get contact: %w", err)
	}

	var cs ContactSettings
	if err := json.Unmarshal(data, &cs); err != nil {
		return nil, fmt.Errorf("settings: unmarshal contact: %w", err)
	}
	return &cs, nil
}

// SetContact saves contact settings.
func (s *Store) SetContact(ctx context.Context, cs *ContactSettings) error {
	data, err := json.Marshal(cs)
	if err != nil {
		return fmt.Errorf("settings: marshal contact: %w", err)
	}
	if err := s.redis.Set(ctx, contactKey, data, 0).Err(); err != nil {
		return fmt.Errorf("settings: set contact: %w", err)
	}
	return nil
}
