package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Booking is the database representation of a reservation.
type Booking struct {
	BookingID     string          `db:"booking_id"`
	UserID        string          `db:"user_id"`
	SpaceID       string          `db:"space_id"`
	StartTime     time.Time       `db:"start_time"`
	EndTime       time.Time       `db:"end_time"`
	Status        string          `db:"status"`
	PaymentStatus string          `db:"payment_status"`
	PaymentMethod string          `db:"payment_method"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	Notes         sql.NullString  `db:"notes"`

	RecurringGroupID sql.NullString `db:"recurring_group_id"`

	CancellationReason sql.NullString `db:"cancellation_reason"`
	CancelledAt        sql.NullTime   `db:"cancelled_at"`
	ReminderSentAt     sql.NullTime   `db:"reminder_sent_at"`

	AuditFields
}
