package repositories

import (
	"context"
	"time"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
)

// ListBookingsFilter narrows a booking listing.
type ListBookingsFilter struct {
	UserID  string
	SpaceID string
	Status  string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// BookingReader defines read operations for booking data
type BookingReader interface {
	// FindBookingByID retrieves a specific booking by its ID.
	FindBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error)

	// FindBookings retrieves a filtered, paginated list of bookings.
	FindBookings(ctx context.Context, filter ListBookingsFilter) ([]domain.Booking, error)

	// CountBookings counts the bookings matching the filter, ignoring pagination.
	CountBookings(ctx context.Context, filter ListBookingsFilter) (int, error)

	// HasOverlap reports whether any blocking booking on the space intersects
	// the half-open window [start, end). excludeBookingID is skipped, so a
	// booking being rescheduled does not conflict with itself.
	HasOverlap(ctx context.Context, spaceID string, start, end time.Time, excludeBookingID string) (bool, error)
}

// BookingWriter defines write operations for booking data
type BookingWriter interface {
	// CreateBookingChecked atomically verifies that no blocking booking
	// overlaps the requested slot and inserts the booking. It locks the space
	// row for the duration of the check so concurrent requests serialize.
	// Returns apperrors.ErrConflict when the slot is taken.
	CreateBookingChecked(ctx context.Context, booking domain.Booking) error

	// UpdateBookingChecked atomically re-verifies the (possibly changed) slot
	// against other bookings and updates the row. Returns apperrors.ErrConflict
	// when the new slot is taken.
	UpdateBookingChecked(ctx context.Context, booking domain.Booking) error

	// UpdateBooking updates a booking without overlap re-verification. Used
	// for status and payment-state transitions that do not move the slot.
	UpdateBooking(ctx context.Context, booking domain.Booking) error

	// CancelFutureSiblings cancels every not-yet-started blocking booking in
	// the recurring group, excluding excludeBookingID, and returns how many
	// rows changed.
	CancelFutureSiblings(ctx context.Context, groupID string, excludeBookingID string, after time.Time, reason string, cancelledBy string) (int, error)

	// CancelBookingAtomic persists a cancellation in a single transaction: the
	// booking row, the refunded payment when one is given, and the cascade
	// over the booking's not-yet-started recurring siblings. Returns how many
	// siblings were cancelled. The caller settles provider refunds after this
	// commits.
	CancelBookingAtomic(ctx context.Context, booking domain.Booking, refundedPayment *domain.Payment) (int, error)
}

// BookingMaintenance defines the bulk operations run by background workers.
type BookingMaintenance interface {
	// FindDueReminders lists confirmed bookings starting within [from, to)
	// that have not had their reminder sent yet.
	FindDueReminders(ctx context.Context, from, to time.Time) ([]domain.Booking, error)

	// MarkReminderSent records that the reminder for a booking went out.
	MarkReminderSent(ctx context.Context, bookingID string, sentAt time.Time) error

	// CompleteElapsed marks confirmed bookings whose end time has passed as
	// completed and returns how many rows changed.
	CompleteElapsed(ctx context.Context, now time.Time) (int, error)
}

// BookingRepositoryFacade combines all booking-related repository interfaces
type BookingRepositoryFacade interface {
	BookingReader
	BookingWriter
	BookingMaintenance
}
