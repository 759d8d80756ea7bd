package services

import "context"

// PaymentIntent is the provider-side handle for a card payment in progress.
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// PaymentProvider abstracts the external card payment gateway. Amounts are in
// minor currency units (cents), the way the provider's API counts money.
type PaymentProvider interface {
	// CreateCustomer registers a customer with the provider and returns its ID.
	CreateCustomer(ctx context.Context, email, name string) (string, error)

	// CreatePaymentIntent opens a payment of amountMinor for the customer.
	CreatePaymentIntent(ctx context.Context, amountMinor int64, currency string, customerID string, metadata map[string]string) (*PaymentIntent, error)

	// CreateRefund refunds amountMinor from the payment intent and returns the
	// provider refund ID. A zero amountMinor refunds the full charge.
	CreateRefund(ctx context.Context, paymentIntentID string, amountMinor int64, reason string) (string, error)
}

// EmailSender abstracts outbound transactional email.
type EmailSender interface {
	// Send delivers a single HTML email.
	Send(ctx context.Context, to string, subject string, htmlBody string) error
}
