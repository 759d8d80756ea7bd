package domain

import "time"

// ActivityType categorizes audit log entries.
type ActivityType string

const (
	ActivityLogin         ActivityType = "login"
	ActivitySecurity      ActivityType = "security"
	ActivityPayment       ActivityType = "payment"
	ActivityBooking       ActivityType = "booking"
	ActivityProfileUpdate ActivityType = "profile_update"
	ActivityAccount       ActivityType = "account"
	ActivitySettings      ActivityType = "settings"
)

// Activity is an append-only audit log entry tied to a user. Entries are never
// mutated or deleted by normal flow.
type Activity struct {
	ActivityID  string         `json:"activityID"`
	UserID      string         `json:"userID"`
	Type        ActivityType   `json:"type"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	OccurredAt  time.Time      `json:"occurredAt"`
}
