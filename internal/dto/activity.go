package dto

import (
	"time"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
)

// ActivityResponse defines the activity log data returned by the API.
type ActivityResponse struct {
	ActivityID  string         `json:"activityID"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	OccurredAt  time.Time      `json:"occurredAt"`
}

// ToActivityResponse converts a domain.Activity to ActivityResponse DTO.
func ToActivityResponse(a *domain.Activity) ActivityResponse {
	return ActivityResponse{
		ActivityID:  a.ActivityID,
		Type:        string(a.Type),
		Description: a.Description,
		Metadata:    a.Metadata,
		OccurredAt:  a.OccurredAt,
	}
}

// ListActivitiesParams defines query parameters for listing activity entries.
type ListActivitiesParams struct {
	Type   string `form:"type" binding:"omitempty,oneof=login security payment booking profile_update account settings"`
	Limit  int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset int    `form:"offset,default=0" binding:"omitempty,min=0"`
}

// ListActivitiesResponse wraps the list of activity entries.
type ListActivitiesResponse struct {
	Activities []ActivityResponse `json:"activities"`
	Total      int                `json:"total"`
}

// ToListActivitiesResponse converts a slice of domain.Activity to ListActivitiesResponse DTO.
func ToListActivitiesResponse(activities []domain.Activity, total int) ListActivitiesResponse {
	responses := make([]ActivityResponse, len(activities))
	for i := range activities {
		responses[i] = ToActivityResponse(&activities[i])
	}
	return ListActivitiesResponse{Activities: responses, Total: total}
}
