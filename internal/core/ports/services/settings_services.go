package services

import (
	"context"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
	"github.com/CoWorkHub/coworking_booking_app/internal/dto"
)

// SettingsSvcFacade defines the admin-configurable settings service.
type SettingsSvcFacade interface {
	// EnsureDefaults seeds the well-known settings that do not exist yet.
	// Called once at startup.
	EnsureDefaults(ctx context.Context) error

	// GetSetting retrieves a setting by key.
	GetSetting(ctx context.Context, key string) (*domain.Setting, error)

	// ListSettings retrieves all settings.
	ListSettings(ctx context.Context) ([]domain.Setting, error)

	// UpdateSetting replaces the JSON document stored under a key. The value
	// must be valid JSON.
	UpdateSetting(ctx context.Context, adminID string, key string, req dto.UpdateSettingRequest) (*domain.Setting, error)

	// BookingRules returns the current booking limits, falling back to the
	// defaults when the stored document is missing or malformed.
	BookingRules(ctx context.Context) domain.BookingRules
}
