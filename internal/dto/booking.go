package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
)

// RecurrenceRequest describes an optional weekly repetition for a booking.
// DaysOfWeek uses 0=Sunday through 6=Saturday.
type RecurrenceRequest struct {
	DaysOfWeek []int     `json:"daysOfWeek" binding:"required,min=1,dive,min=0,max=6"`
	EndDate    time.Time `json:"endDate" binding:"required"`
}

// CreateBookingRequest defines the data needed to create a booking.
type CreateBookingRequest struct {
	SpaceID       string             `json:"spaceID" binding:"required"`
	StartTime     time.Time          `json:"startTime" binding:"required"`
	EndTime       time.Time          `json:"endTime" binding:"required"`
	PaymentMethod string             `json:"paymentMethod" binding:"required,oneof=card cash"`
	Notes         string             `json:"notes" binding:"omitempty,max=500"`
	Recurrence    *RecurrenceRequest `json:"recurrence"`
}

// UpdateBookingRequest defines the data allowed for modifying a booking.
// Recurrence replaces the series' future instances with a fresh expansion of
// the new rule.
type UpdateBookingRequest struct {
	StartTime  *time.Time         `json:"startTime"`
	EndTime    *time.Time         `json:"endTime"`
	Notes      *string            `json:"notes" binding:"omitempty,max=500"`
	Recurrence *RecurrenceRequest `json:"recurrence"`
}

// CancelBookingRequest carries the optional cancellation reason.
type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// UpdateBookingStatusRequest lets an admin move a booking through its lifecycle.
type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled completed"`
}

// BookingResponse defines the booking data returned by the API.
type BookingResponse struct {
	BookingID          string          `json:"bookingID"`
	UserID             string          `json:"userID"`
	SpaceID            string          `json:"spaceID"`
	StartTime          time.Time       `json:"startTime"`
	EndTime            time.Time       `json:"endTime"`
	Status             string          `json:"status"`
	PaymentStatus      string          `json:"paymentStatus"`
	PaymentMethod      string          `json:"paymentMethod"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	Notes              string          `json:"notes,omitempty"`
	RecurringGroupID   *string         `json:"recurringGroupID,omitempty"`
	CancellationReason string          `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time      `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// ToBookingResponse converts a domain.Booking to BookingResponse DTO.
func ToBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		BookingID:          b.BookingID,
		UserID:             b.UserID,
		SpaceID:            b.SpaceID,
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		PaymentMethod:      string(b.PaymentMethod),
		TotalAmount:        b.TotalAmount,
		Notes:              b.Notes,
		RecurringGroupID:   b.RecurringGroupID,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
	}
}

// ToBookingResponses converts a slice of domain.Booking to []BookingResponse.
func ToBookingResponses(bookings []domain.Booking) []BookingResponse {
	responses := make([]BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = ToBookingResponse(&bookings[i])
	}
	return responses
}

// CreateBookingResponse wraps the initial booking plus any recurring siblings
// that were created, and the siblings that were skipped because their slot was
// already taken. ClientSecret completes the card payment on the client when
// the booking was opened with a card.
type CreateBookingResponse struct {
	Booking          BookingResponse   `json:"booking"`
	ClientSecret     string            `json:"clientSecret,omitempty"`
	RecurringCreated []BookingResponse `json:"recurringCreated,omitempty"`
	RecurringSkipped []time.Time       `json:"recurringSkipped,omitempty"`
}

// UpdateBookingResponse reports a reschedule. PriceDelta is the signed price
// change; ClientSecret is set when the increase on a paid card booking needs
// an additional payment, RefundAmount when the decrease was refunded.
type UpdateBookingResponse struct {
	Booking          BookingResponse   `json:"booking"`
	PriceDelta       decimal.Decimal   `json:"priceDelta"`
	ClientSecret     string            `json:"clientSecret,omitempty"`
	RefundAmount     decimal.Decimal   `json:"refundAmount"`
	RecurringCreated []BookingResponse `json:"recurringCreated,omitempty"`
	RecurringSkipped []time.Time       `json:"recurringSkipped,omitempty"`
}

// CancelBookingResponse reports the outcome of a cancellation, including the
// refund issued under the tiered policy.
type CancelBookingResponse struct {
	Booking          BookingResponse `json:"booking"`
	RefundAmount     decimal.Decimal `json:"refundAmount"`
	CancelledFutures int             `json:"cancelledFutures,omitempty"`
}

// ListBookingsParams defines query parameters for listing bookings.
type ListBookingsParams struct {
	Status  string     `form:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
	SpaceID string     `form:"spaceID"`
	UserID  string     `form:"userID"`
	From    *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To      *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit   int        `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset  int        `form:"offset,default=0" binding:"omitempty,min=0"`
}

// ListBookingsResponse wraps the list of bookings.
type ListBookingsResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}
