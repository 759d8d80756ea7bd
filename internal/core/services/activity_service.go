package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
	portsrepo "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/repositories"
	portssvc "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/services"
	"github.com/CoWorkHub/coworking_booking_app/internal/dto"
	"github.com/CoWorkHub/coworking_booking_app/internal/middleware"
)

type activityService struct {
	activityRepo portsrepo.ActivityRepositoryFacade
}

// NewActivityService creates the activity log service.
func NewActivityService(activityRepo portsrepo.ActivityRepositoryFacade) portssvc.ActivitySvcFacade {
	return &activityService{activityRepo: activityRepo}
}

var _ portssvc.ActivitySvcFacade = (*activityService)(nil)

// Record appends a log entry. Persistence failures are logged and swallowed;
// the activity log must never break the operation it describes.
func (s *activityService) Record(ctx context.Context, userID string, activityType domain.ActivityType, description string, metadata map[string]any) {
	activity := domain.Activity{
		ActivityID:  uuid.NewString(),
		UserID:      userID,
		Type:        activityType,
		Description: description,
		Metadata:    metadata,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.activityRepo.SaveActivity(ctx, activity); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("failed to record activity",
			"user_id", userID, "type", string(activityType), "error", err)
	}
}

func (s *activityService) ListUserActivities(ctx context.Context, userID string, params dto.ListActivitiesParams) ([]domain.Activity, int, error) {
	filter := portsrepo.ListActivitiesFilter{
		UserID: userID,
		Type:   params.Type,
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	activities, err := s.activityRepo.FindActivities(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}
	total, err := s.activityRepo.CountActivities(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return activities, total, nil
}
