package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
)

// CreatePaymentIntentRequest starts a card payment for a booking.
type CreatePaymentIntentRequest struct {
	BookingID string `json:"bookingID" binding:"required"`
}

// CreatePaymentIntentResponse carries the provider client secret the frontend
// needs to complete the card flow.
type CreatePaymentIntentResponse struct {
	PaymentID    string          `json:"paymentID"`
	ClientSecret string          `json:"clientSecret"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
}

// PaymentResponse defines the payment data returned by the API.
type PaymentResponse struct {
	PaymentID     string           `json:"paymentID"`
	BookingID     string           `json:"bookingID"`
	UserID        string           `json:"userID"`
	Amount        decimal.Decimal  `json:"amount"`
	Currency      string           `json:"currency"`
	Status        string           `json:"status"`
	PaymentMethod string           `json:"paymentMethod"`
	RefundAmount  *decimal.Decimal `json:"refundAmount,omitempty"`
	RefundReason  string           `json:"refundReason,omitempty"`
	Description   string           `json:"description,omitempty"`
	PaidAt        *time.Time       `json:"paidAt,omitempty"`
	RefundedAt    *time.Time       `json:"refundedAt,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:     p.PaymentID,
		BookingID:     p.BookingID,
		UserID:        p.UserID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        string(p.Status),
		PaymentMethod: string(p.Method),
		RefundAmount:  p.RefundAmount,
		RefundReason:  p.RefundReason,
		Description:   p.Description,
		PaidAt:        p.PaidAt,
		RefundedAt:    p.RefundedAt,
		CreatedAt:     p.CreatedAt,
	}
}

// ToPaymentResponses converts a slice of domain.Payment to []PaymentResponse.
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses
}

// RefundPaymentRequest defines an admin-initiated refund. Amount is optional;
// omitted means a full refund.
type RefundPaymentRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Reason string           `json:"reason" binding:"omitempty,max=500"`
}

// MarkPaidRequest records an offline (cash) payment against a booking.
type MarkPaidRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=500"`
}

// ListPaymentsParams defines query parameters for listing payments.
type ListPaymentsParams struct {
	Status string     `form:"status" binding:"omitempty,oneof=pending succeeded failed refunded"`
	Method string     `form:"method" binding:"omitempty,oneof=card cash"`
	UserID string     `form:"userID"`
	From   *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To     *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit  int        `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset int        `form:"offset,default=0" binding:"omitempty,min=0"`
}

// ListPaymentsResponse wraps the list of payments.
type ListPaymentsResponse struct {
	Payments []PaymentResponse `json:"payments"`
	Total    int               `json:"total"`
}
