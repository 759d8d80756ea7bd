package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
	"github.com/CoWorkHub/coworking_booking_app/internal/dto"
)

// CreateBookingResult is the outcome of a booking creation, including any
// recurring siblings that were created or skipped over conflicts. ClientSecret
// is set when a card payment intent was opened for the booking.
type CreateBookingResult struct {
	Booking          domain.Booking
	ClientSecret     string
	RecurringCreated []domain.Booking
	RecurringSkipped []time.Time
}

// ModifyBookingResult is the outcome of a reschedule. PriceDelta is the signed
// difference against the previous total; on a paid card booking a positive
// delta opens a new payment intent (ClientSecret) and a negative one issues a
// partial provider refund (RefundAmount). The recurring fields report the
// regenerated siblings when the recurrence rule was changed.
type ModifyBookingResult struct {
	Booking          domain.Booking
	PriceDelta       decimal.Decimal
	ClientSecret     string
	RefundAmount     decimal.Decimal
	RecurringCreated []domain.Booking
	RecurringSkipped []time.Time
}

// CancelBookingResult is the outcome of a cancellation under the tiered
// refund policy.
type CancelBookingResult struct {
	Booking          domain.Booking
	RefundAmount     decimal.Decimal
	CancelledFutures int
}

// BookingReaderSvc defines read operations for bookings
type BookingReaderSvc interface {
	// GetBookingByID retrieves a booking. Non-admin callers may only read
	// their own bookings.
	GetBookingByID(ctx context.Context, bookingID string, requestingUserID string, isAdmin bool) (*domain.Booking, error)

	// ListUserBookings retrieves the caller's own bookings.
	ListUserBookings(ctx context.Context, userID string, params dto.ListBookingsParams) ([]domain.Booking, int, error)

	// ListAllBookings retrieves bookings across all users. Admin only.
	ListAllBookings(ctx context.Context, params dto.ListBookingsParams) ([]domain.Booking, int, error)
}

// BookingWriterSvc defines the booking lifecycle operations
type BookingWriterSvc interface {
	// CreateBooking prices and creates a booking for the caller, expanding an
	// optional recurrence rule. Conflicting recurring instances are skipped,
	// not fatal.
	CreateBooking(ctx context.Context, userID string, req dto.CreateBookingRequest) (*CreateBookingResult, error)

	// ModifyBooking reschedules a not-yet-started booking, re-pricing and
	// re-checking the slot. On a paid booking the price difference is charged
	// or refunded; a changed recurrence rule regenerates the future siblings.
	ModifyBooking(ctx context.Context, bookingID string, requestingUserID string, isAdmin bool, req dto.UpdateBookingRequest) (*ModifyBookingResult, error)

	// CancelBooking cancels a booking, issues the tiered refund, and cascades
	// to future recurring siblings. Cancelling an already cancelled booking is
	// a no-op returning the current state.
	CancelBooking(ctx context.Context, bookingID string, requestingUserID string, isAdmin bool, req dto.CancelBookingRequest) (*CancelBookingResult, error)

	// AdminUpdateStatus moves a booking through its lifecycle on behalf of an
	// admin, enforcing legal transitions.
	AdminUpdateStatus(ctx context.Context, adminID string, bookingID string, status domain.BookingStatus) (*domain.Booking, error)
}

// BookingMaintenanceSvc defines the periodic jobs run by the background worker.
type BookingMaintenanceSvc interface {
	// SendDueReminders emails users whose confirmed bookings start within the
	// reminder window and marks them reminded. Returns how many went out.
	SendDueReminders(ctx context.Context) (int, error)

	// CompleteElapsed marks confirmed bookings whose end time has passed as
	// completed. Returns how many rows changed.
	CompleteElapsed(ctx context.Context) (int, error)
}

// BookingSvcFacade combines all booking-related service interfaces
type BookingSvcFacade interface {
	BookingReaderSvc
	BookingWriterSvc
	BookingMaintenanceSvc
}
