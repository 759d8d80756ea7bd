package domain

import "github.com/shopspring/decimal"

// SpaceType enumerates the kinds of bookable units.
type SpaceType string

const (
	SpaceDesk           SpaceType = "desk"
	SpaceOffice         SpaceType = "office"
	SpaceMeetingRoom    SpaceType = "meeting_room"
	SpaceConferenceRoom SpaceType = "conference_room"
)

// SpaceStatus enumerates the operational state of a space.
type SpaceStatus string

const (
	SpaceAvailable   SpaceStatus = "available"
	SpaceOccupied    SpaceStatus = "occupied"
	SpaceMaintenance SpaceStatus = "maintenance"
)

// Space represents a bookable physical unit (desk, office, room).
type Space struct {
	SpaceID     string          `json:"spaceID"`
	Name        string          `json:"name"`
	Type        SpaceType       `json:"type"`
	Capacity    int             `json:"capacity"`
	HourlyRate  decimal.Decimal `json:"hourlyRate"`
	Amenities   []string        `json:"amenities"`
	Description string          `json:"description,omitempty"`
	Location    string          `json:"location,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	IsAvailable bool            `json:"isAvailable"`
	Status      SpaceStatus     `json:"status"`
	AuditFields
}

// Bookable reports whether new bookings may target this space.
func (s Space) Bookable() bool {
	return s.IsAvailable && s.Status == SpaceAvailable
}
