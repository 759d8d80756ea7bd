package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
	"github.com/CoWorkHub/coworking_booking_app/internal/dto"
)

// ProviderEvent is a normalized payment-provider webhook event.
type ProviderEvent struct {
	Type              string
	ProviderPaymentID string
	FailureMessage    string
}

// Provider event types the payment service reacts to.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// PaymentReaderSvc defines read operations for payments
type PaymentReaderSvc interface {
	// GetPaymentByID retrieves a payment. Non-admin callers may only read
	// their own payments.
	GetPaymentByID(ctx context.Context, paymentID string, requestingUserID string, isAdmin bool) (*domain.Payment, error)

	// ListUserPayments retrieves the caller's own payments.
	ListUserPayments(ctx context.Context, userID string, params dto.ListPaymentsParams) ([]domain.Payment, int, error)

	// ListAllPayments retrieves payments across all users. Admin only.
	ListAllPayments(ctx context.Context, params dto.ListPaymentsParams) ([]domain.Payment, int, error)
}

// PaymentWriterSvc defines the payment flow operations
type PaymentWriterSvc interface {
	// CreatePaymentIntent starts a card payment for the caller's pending
	// booking and returns the provider client secret.
	CreatePaymentIntent(ctx context.Context, userID string, bookingID string) (*dto.CreatePaymentIntentResponse, error)

	// HandleProviderEvent applies a verified webhook event: succeeded confirms
	// the booking and marks it paid, failed records the failure. Events for
	// unknown payments are ignored.
	HandleProviderEvent(ctx context.Context, event ProviderEvent) error

	// MarkBookingPaid records an offline cash payment against a booking and
	// confirms it. Admin only.
	MarkBookingPaid(ctx context.Context, adminID string, bookingID string, notes string) (*domain.Payment, error)

	// RefundPayment refunds a succeeded payment, partially when amount is set.
	// Admin only.
	RefundPayment(ctx context.Context, adminID string, paymentID string, amount *decimal.Decimal, reason string) (*domain.Payment, error)
}

// PaymentSvcFacade combines all payment-related service interfaces
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
}
