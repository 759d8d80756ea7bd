package models

import "time"

// Activity is the database representation of an audit log entry.
// Metadata maps to a JSONB column.
type Activity struct {
	ActivityID  string    `db:"activity_id"`
	UserID      string    `db:"user_id"`
	Type        string    `db:"type"`
	Description string    `db:"description"`
	Metadata    []byte    `db:"metadata"`
	OccurredAt  time.Time `db:"occurred_at"`
}
