package repositories

import (
	"context"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
)

// ListActivitiesFilter narrows an activity log listing.
type ListActivitiesFilter struct {
	UserID string
	Type   string
	Limit  int
	Offset int
}

// ActivityRepositoryFacade defines persistence for the append-only activity log.
type ActivityRepositoryFacade interface {
	// SaveActivity appends a new log entry.
	SaveActivity(ctx context.Context, activity domain.Activity) error

	// FindActivities retrieves a filtered, paginated list of entries, newest first.
	FindActivities(ctx context.Context, filter ListActivitiesFilter) ([]domain.Activity, error)

	// CountActivities counts the entries matching the filter, ignoring pagination.
	CountActivities(ctx context.Context, filter ListActivitiesFilter) (int, error)
}
