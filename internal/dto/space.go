package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
)

// CreateSpaceRequest defines the data needed to create a space.
type CreateSpaceRequest struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Type        string          `json:"type" binding:"required,oneof=desk office meeting_room conference_room"`
	Capacity    int             `json:"capacity" binding:"required,min=1"`
	HourlyRate  decimal.Decimal `json:"hourlyRate" binding:"required"`
	Amenities   []string        `json:"amenities"`
	Description string          `json:"description" binding:"omitempty,max=1000"`
	Location    string          `json:"location" binding:"omitempty,max=200"`
}

// UpdateSpaceRequest defines the data allowed for updating a space.
type UpdateSpaceRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=100"`
	Type        *string          `json:"type" binding:"omitempty,oneof=desk office meeting_room conference_room"`
	Capacity    *int             `json:"capacity" binding:"omitempty,min=1"`
	HourlyRate  *decimal.Decimal `json:"hourlyRate"`
	Amenities   *[]string        `json:"amenities"`
	Description *string          `json:"description" binding:"omitempty,max=1000"`
	Location    *string          `json:"location" binding:"omitempty,max=200"`
	IsAvailable *bool            `json:"isAvailable"`
	Status      *string          `json:"status" binding:"omitempty,oneof=available occupied maintenance"`
}

// SpaceResponse defines the space data returned by the API.
type SpaceResponse struct {
	SpaceID     string          `json:"spaceID"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Capacity    int             `json:"capacity"`
	HourlyRate  decimal.Decimal `json:"hourlyRate"`
	Amenities   []string        `json:"amenities"`
	Description string          `json:"description,omitempty"`
	Location    string          `json:"location,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	IsAvailable bool            `json:"isAvailable"`
	Status      string          `json:"status"`
}

// ToSpaceResponse converts a domain.Space to SpaceResponse DTO.
func ToSpaceResponse(s *domain.Space) SpaceResponse {
	return SpaceResponse{
		SpaceID:     s.SpaceID,
		Name:        s.Name,
		Type:        string(s.Type),
		Capacity:    s.Capacity,
		HourlyRate:  s.HourlyRate,
		Amenities:   s.Amenities,
		Description: s.Description,
		Location:    s.Location,
		ImageURL:    s.ImageURL,
		IsAvailable: s.IsAvailable,
		Status:      string(s.Status),
	}
}

// ToSpaceResponses converts a slice of domain.Space to []SpaceResponse.
func ToSpaceResponses(spaces []domain.Space) []SpaceResponse {
	responses := make([]SpaceResponse, len(spaces))
	for i := range spaces {
		responses[i] = ToSpaceResponse(&spaces[i])
	}
	return responses
}

// ListSpacesParams defines query parameters for filtering the space catalog.
type ListSpacesParams struct {
	Type        string           `form:"type" binding:"omitempty,oneof=desk office meeting_room conference_room"`
	Status      string           `form:"status" binding:"omitempty,oneof=available occupied maintenance"`
	MinCapacity int              `form:"minCapacity" binding:"omitempty,min=1"`
	MaxRate     *decimal.Decimal `form:"maxRate"`
	Limit       int              `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset      int              `form:"offset,default=0" binding:"omitempty,min=0"`
}

// ListSpacesResponse wraps the list of spaces.
type ListSpacesResponse struct {
	Spaces []SpaceResponse `json:"spaces"`
	Total  int             `json:"total"`
}

// AvailabilityParams asks whether a space is free over a window.
type AvailabilityParams struct {
	StartTime time.Time `form:"startTime" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	EndTime   time.Time `form:"endTime" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

// AvailabilityResponse reports whether a space is free over the queried window.
type AvailabilityResponse struct {
	SpaceID   string    `json:"spaceID"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Available bool      `json:"available"`
}
