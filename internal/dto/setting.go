package dto

import (
	"time"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
)

// SettingResponse defines a single setting returned by the API. Value is the
// raw JSON document stored for the key.
type SettingResponse struct {
	Key           string    `json:"key"`
	Value         string    `json:"value"`
	Description   string    `json:"description,omitempty"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToSettingResponse converts a domain.Setting to SettingResponse DTO.
func ToSettingResponse(s *domain.Setting) SettingResponse {
	return SettingResponse{
		Key:           s.Key,
		Value:         s.Value,
		Description:   s.Description,
		LastUpdatedAt: s.LastUpdatedAt,
	}
}

// ToSettingResponses converts a slice of domain.Setting to []SettingResponse.
func ToSettingResponses(settings []domain.Setting) []SettingResponse {
	responses := make([]SettingResponse, len(settings))
	for i := range settings {
		responses[i] = ToSettingResponse(&settings[i])
	}
	return responses
}

// UpdateSettingRequest replaces the JSON document stored under a key.
type UpdateSettingRequest struct {
	Value       string `json:"value" binding:"required"`
	Description string `json:"description" binding:"omitempty,max=500"`
}
