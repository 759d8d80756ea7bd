package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus enumerates booking lifecycle states. Transitions are
// one-directional: pending -> confirmed -> completed, with cancelled reachable
// from pending or confirmed.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// PaymentState tracks the payment progress of a booking.
type PaymentState string

const (
	PaymentStatePending  PaymentState = "pending"
	PaymentStatePaid     PaymentState = "paid"
	PaymentStateFailed   PaymentState = "failed"
	PaymentStateRefunded PaymentState = "refunded"
)

// Booking represents a reservation of one Space by one User for the half-open
// interval [StartTime, EndTime).
type Booking struct {
	BookingID     string          `json:"bookingID"`
	UserID        string          `json:"userID"`
	SpaceID       string          `json:"spaceID"`
	StartTime     time.Time       `json:"startTime"`
	EndTime       time.Time       `json:"endTime"`
	Status        BookingStatus   `json:"status"`
	PaymentStatus PaymentState    `json:"paymentStatus"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Notes         string          `json:"notes,omitempty"`

	// RecurringGroupID links sibling bookings generated from one recurrence rule.
	RecurringGroupID *string `json:"recurringGroupID,omitempty"`

	CancellationReason string     `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`

	// ReminderSentAt records when the upcoming-booking reminder email went out,
	// so the reminder worker never sends twice.
	ReminderSentAt *time.Time `json:"-"`

	AuditFields
}

// Blocking reports whether this booking reserves its time slot against other
// bookings. Both pending and confirmed bookings block, so two payment flows
// can never race for the same slot.
func (b Booking) Blocking() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// CanTransitionTo reports whether moving to the target status is a legal
// lifecycle transition.
func (b Booking) CanTransitionTo(target BookingStatus) bool {
	switch b.Status {
	case BookingPending:
		return target == BookingConfirmed || target == BookingCancelled
	case BookingConfirmed:
		return target == BookingCompleted || target == BookingCancelled
	default:
		return false
	}
}
