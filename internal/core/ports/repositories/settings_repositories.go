package repositories

import (
	"context"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
)

// SettingsRepositoryFacade defines persistence for admin-configurable settings.
type SettingsRepositoryFacade interface {
	// FindSettingByKey retrieves a setting by its key.
	FindSettingByKey(ctx context.Context, key string) (*domain.Setting, error)

	// FindSettings retrieves all settings.
	FindSettings(ctx context.Context) ([]domain.Setting, error)

	// UpsertSetting creates or replaces the setting for a key.
	UpsertSetting(ctx context.Context, setting domain.Setting) error

	// SaveSettingIfAbsent persists a setting only when the key does not exist
	// yet. Used to seed defaults on startup without clobbering admin edits.
	SaveSettingIfAbsent(ctx context.Context, setting domain.Setting) error
}
