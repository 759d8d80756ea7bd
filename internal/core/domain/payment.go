package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates how a booking is paid.
type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodCash PaymentMethod = "cash"
)

// PaymentStatus enumerates payment record states.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment represents a payment attached to a booking. Payments are never
// deleted; refunds mutate status and record the refunded amount.
type Payment struct {
	PaymentID string          `json:"paymentID"`
	BookingID string          `json:"bookingID"`
	UserID    string          `json:"userID"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Status    PaymentStatus   `json:"status"`
	Method    PaymentMethod   `json:"paymentMethod"`

	ProviderPaymentID string `json:"-"`
	ProviderRefundID  string `json:"-"`

	RefundAmount *decimal.Decimal `json:"refundAmount,omitempty"`
	RefundReason string           `json:"refundReason,omitempty"`

	Description string     `json:"description,omitempty"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	RefundedAt  *time.Time `json:"refundedAt,omitempty"`

	AuditFields
}
