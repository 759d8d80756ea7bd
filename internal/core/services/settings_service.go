package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/CoWorkHub/coworking_booking_app/internal/apperrors"
	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
	portsrepo "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/repositories"
	portssvc "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/services"
	"github.com/CoWorkHub/coworking_booking_app/internal/dto"
	"github.com/CoWorkHub/coworking_booking_app/internal/middleware"
)

type settingsService struct {
	settingsRepo portsrepo.SettingsRepositoryFacade
	activity     portssvc.ActivitySvcFacade
}

// NewSettingsService creates the settings service.
func NewSettingsService(settingsRepo portsrepo.SettingsRepositoryFacade, activity portssvc.ActivitySvcFacade) portssvc.SettingsSvcFacade {
	return &settingsService{settingsRepo: settingsRepo, activity: activity}
}

var _ portssvc.SettingsSvcFacade = (*settingsService)(nil)

// defaultWorkingHours is the seed document for the workingHours key.
var defaultWorkingHours = map[string]string{
	"monday":    "08:00-20:00",
	"tuesday":   "08:00-20:00",
	"wednesday": "08:00-20:00",
	"thursday":  "08:00-20:00",
	"friday":    "08:00-20:00",
	"saturday":  "09:00-17:00",
	"sunday":    "closed",
}

// defaultNotifications is the seed document for the notifications key.
var defaultNotifications = map[string]bool{
	"bookingConfirmations": true,
	"bookingReminders":     true,
	"paymentReceipts":      true,
}

func (s *settingsService) EnsureDefaults(ctx context.Context) error {
	now := time.Now().UTC()

	defaults := []struct {
		key         string
		value       any
		description string
	}{
		{domain.SettingWorkingHours, defaultWorkingHours, "Opening hours per weekday"},
		{domain.SettingBookingRules, domain.DefaultBookingRules(), "Limits applied when creating bookings"},
		{domain.SettingNotifications, defaultNotifications, "Which notification emails the platform sends"},
	}

	for _, d := range defaults {
		raw, err := json.Marshal(d.value)
		if err != nil {
			return fmt.Errorf("failed to marshal default setting %q: %w", d.key, err)
		}
		setting := domain.Setting{
			Key:           d.key,
			Value:         string(raw),
			Description:   d.description,
			LastUpdatedAt: now,
			LastUpdatedBy: "system",
		}
		if err := s.settingsRepo.SaveSettingIfAbsent(ctx, setting); err != nil {
			return err
		}
	}
	return nil
}

func (s *settingsService) GetSetting(ctx context.Context, key string) (*domain.Setting, error) {
	return s.settingsRepo.FindSettingByKey(ctx, key)
}

func (s *settingsService) ListSettings(ctx context.Context) ([]domain.Setting, error) {
	return s.settingsRepo.FindSettings(ctx)
}

func (s *settingsService) UpdateSetting(ctx context.Context, adminID string, key string, req dto.UpdateSettingRequest) (*domain.Setting, error) {
	if !json.Valid([]byte(req.Value)) {
		return nil, fmt.Errorf("%w: setting value must be valid JSON", apperrors.ErrValidation)
	}

	setting := domain.Setting{
		Key:           key,
		Value:         req.Value,
		Description:   req.Description,
		LastUpdatedAt: time.Now().UTC(),
		LastUpdatedBy: adminID,
	}
	if err := s.settingsRepo.UpsertSetting(ctx, setting); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, adminID, domain.ActivitySettings,
		fmt.Sprintf("Updated setting %q", key), map[string]any{"key": key})

	return &setting, nil
}

// BookingRules returns the stored booking limits, falling back to the defaults
// when the document is missing or malformed.
func (s *settingsService) BookingRules(ctx context.Context) domain.BookingRules {
	rules := domain.DefaultBookingRules()

	setting, err := s.settingsRepo.FindSettingByKey(ctx, domain.SettingBookingRules)
	if err != nil {
		return rules
	}
	if err := json.Unmarshal([]byte(setting.Value), &rules); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("malformed bookingRules setting, using defaults", "error", err)
		return domain.DefaultBookingRules()
	}
	if rules.MaxDurationHours <= 0 || rules.MaxAdvanceDays <= 0 {
		return domain.DefaultBookingRules()
	}
	return rules
}
