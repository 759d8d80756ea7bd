package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Payment is the database representation of a payment record.
type Payment struct {
	PaymentID string          `db:"payment_id"`
	BookingID string          `db:"booking_id"`
	UserID    string          `db:"user_id"`
	Amount    decimal.Decimal `db:"amount"`
	Currency  string          `db:"currency"`
	Status    string          `db:"status"`
	Method    string          `db:"payment_method"`

	ProviderPaymentID sql.NullString `db:"provider_payment_id"`
	ProviderRefundID  sql.NullString `db:"provider_refund_id"`

	RefundAmount decimal.NullDecimal `db:"refund_amount"`
	RefundReason sql.NullString      `db:"refund_reason"`

	Description sql.NullString `db:"description"`
	PaidAt      sql.NullTime   `db:"paid_at"`
	RefundedAt  sql.NullTime   `db:"refunded_at"`

	AuditFields
}
