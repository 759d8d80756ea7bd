package repositories

import (
	"context"
	"time"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
)

// ListPaymentsFilter narrows a payment listing.
type ListPaymentsFilter struct {
	UserID string
	Status string
	Method string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// PaymentReader defines read operations for payment data
type PaymentReader interface {
	// FindPaymentByID retrieves a specific payment by its ID.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// FindPaymentByProviderID retrieves a payment by the provider's payment
	// intent identifier. Used when correlating webhook events.
	FindPaymentByProviderID(ctx context.Context, providerPaymentID string) (*domain.Payment, error)

	// FindPaymentsByBookingID retrieves all payments attached to a booking.
	FindPaymentsByBookingID(ctx context.Context, bookingID string) ([]domain.Payment, error)

	// FindPayments retrieves a filtered, paginated list of payments.
	FindPayments(ctx context.Context, filter ListPaymentsFilter) ([]domain.Payment, error)

	// CountPayments counts the payments matching the filter, ignoring pagination.
	CountPayments(ctx context.Context, filter ListPaymentsFilter) (int, error)
}

// PaymentWriter defines write operations for payment data
type PaymentWriter interface {
	// SavePayment persists a new payment record.
	SavePayment(ctx context.Context, payment domain.Payment) error

	// UpdatePayment updates an existing payment record.
	UpdatePayment(ctx context.Context, payment domain.Payment) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
