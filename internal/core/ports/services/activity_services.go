package services

import (
	"context"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
	"github.com/CoWorkHub/coworking_booking_app/internal/dto"
)

// ActivitySvcFacade defines the append-only user activity log service.
type ActivitySvcFacade interface {
	// Record appends an entry to the user's activity log. Failures are logged
	// by the implementation and never propagated; the log must not break the
	// operation it describes.
	Record(ctx context.Context, userID string, activityType domain.ActivityType, description string, metadata map[string]any)

	// ListUserActivities retrieves a user's log entries, newest first.
	ListUserActivities(ctx context.Context, userID string, params dto.ListActivitiesParams) ([]domain.Activity, int, error)
}
