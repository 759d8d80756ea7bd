package domain

import "time"

// Setting is an admin-configurable key/value pair.
type Setting struct {
	Key           string    `json:"key"`
	Value         string    `json:"value"`
	Description   string    `json:"description,omitempty"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy,omitempty"`
}

// Well-known setting keys read by booking-rule enforcement and the UI.
const (
	SettingWorkingHours  = "workingHours"
	SettingBookingRules  = "bookingRules"
	SettingNotifications = "notifications"
)

// BookingRules are the admin-tunable limits applied when creating bookings.
type BookingRules struct {
	MaxDurationHours int `json:"maxDurationHours"`
	MinAdvanceHours  int `json:"minAdvanceHours"`
	MaxAdvanceDays   int `json:"maxAdvanceDays"`
}

// DefaultBookingRules returns the rules seeded on first start.
func DefaultBookingRules() BookingRules {
	return BookingRules{
		MaxDurationHours: 8,
		MinAdvanceHours:  1,
		MaxAdvanceDays:   30,
	}
}
