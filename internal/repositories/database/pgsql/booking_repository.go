package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CoWorkHub/coworking_booking_app/internal/apperrors"
	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
	portsrepo "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/repositories"
	"github.com/CoWorkHub/coworking_booking_app/internal/models"
)

type PgxBookingRepository struct {
	BaseRepository
}

func newPgxBookingRepository(db *pgxpool.Pool) portsrepo.BookingRepositoryFacade {
	return &PgxBookingRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.BookingRepositoryFacade = (*PgxBookingRepository)(nil)

// Helper to convert domain.Booking to models.Booking
func toModelBooking(d domain.Booking) models.Booking {
	m := models.Booking{
		BookingID:          d.BookingID,
		UserID:             d.UserID,
		SpaceID:            d.SpaceID,
		StartTime:          d.StartTime,
		EndTime:            d.EndTime,
		Status:             string(d.Status),
		PaymentStatus:      string(d.PaymentStatus),
		PaymentMethod:      string(d.PaymentMethod),
		TotalAmount:        d.TotalAmount,
		Notes:              nullString(d.Notes),
		CancellationReason: nullString(d.CancellationReason),
		CancelledAt:        nullTime(d.CancelledAt),
		ReminderSentAt:     nullTime(d.ReminderSentAt),
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
	if d.RecurringGroupID != nil {
		m.RecurringGroupID = nullString(*d.RecurringGroupID)
	}
	return m
}

// Helper to convert models.Booking to domain.Booking
func toDomainBooking(m models.Booking) domain.Booking {
	d := domain.Booking{
		BookingID:          m.BookingID,
		UserID:             m.UserID,
		SpaceID:            m.SpaceID,
		StartTime:          m.StartTime,
		EndTime:            m.EndTime,
		Status:             domain.BookingStatus(m.Status),
		PaymentStatus:      domain.PaymentState(m.PaymentStatus),
		PaymentMethod:      domain.PaymentMethod(m.PaymentMethod),
		TotalAmount:        m.TotalAmount,
		Notes:              m.Notes.String,
		CancellationReason: m.CancellationReason.String,
		CancelledAt:        timePtr(m.CancelledAt),
		ReminderSentAt:     timePtr(m.ReminderSentAt),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.RecurringGroupID.Valid {
		groupID := m.RecurringGroupID.String
		d.RecurringGroupID = &groupID
	}
	return d
}

const bookingColumns = `booking_id, user_id, space_id, start_time, end_time, status, payment_status,
		payment_method, total_amount, notes, recurring_group_id, cancellation_reason, cancelled_at,
		reminder_sent_at, created_at, created_by, last_updated_at, last_updated_by`

func scanBooking(row pgx.Row) (models.Booking, error) {
	var m models.Booking
	err := row.Scan(
		&m.BookingID, &m.UserID, &m.SpaceID, &m.StartTime, &m.EndTime, &m.Status, &m.PaymentStatus,
		&m.PaymentMethod, &m.TotalAmount, &m.Notes, &m.RecurringGroupID, &m.CancellationReason, &m.CancelledAt,
		&m.ReminderSentAt, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// overlapExistsQuery checks for a blocking booking intersecting the half-open
// window [$2, $3) on space $1, ignoring booking $4.
const overlapExistsQuery = `
	SELECT EXISTS (
		SELECT 1 FROM bookings
		WHERE space_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND start_time < $3
		  AND $2 < end_time
		  AND booking_id <> $4
	);
`

func (r *PgxBookingRepository) HasOverlap(ctx context.Context, spaceID string, start, end time.Time, excludeBookingID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, overlapExistsQuery, spaceID, start, end, excludeBookingID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check booking overlap: %w", err)
	}
	return exists, nil
}

func insertBooking(ctx context.Context, tx pgx.Tx, m models.Booking) error {
	query := `
		INSERT INTO bookings (booking_id, user_id, space_id, start_time, end_time, status, payment_status,
			payment_method, total_amount, notes, recurring_group_id,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := tx.Exec(ctx, query,
		m.BookingID, m.UserID, m.SpaceID, m.StartTime, m.EndTime, m.Status, m.PaymentStatus,
		m.PaymentMethod, m.TotalAmount, m.Notes, m.RecurringGroupID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return err
}

// lockSpaceRow serializes concurrent booking attempts against one space. The
// overlap check and insert then run atomically under the lock; the table's
// exclusion constraint is the backstop.
func lockSpaceRow(ctx context.Context, tx pgx.Tx, spaceID string) error {
	var id string
	err := tx.QueryRow(ctx, `SELECT space_id FROM spaces WHERE space_id = $1 FOR UPDATE;`, spaceID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock space %s: %w", spaceID, err)
	}
	return nil
}

func (r *PgxBookingRepository) CreateBookingChecked(ctx context.Context, booking domain.Booking) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := lockSpaceRow(ctx, tx, booking.SpaceID); err != nil {
		return err
	}

	var exists bool
	err = tx.QueryRow(ctx, overlapExistsQuery, booking.SpaceID, booking.StartTime, booking.EndTime, booking.BookingID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check booking overlap: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: space is already booked for this time slot", apperrors.ErrConflict)
	}

	if err := insertBooking(ctx, tx, toModelBooking(booking)); err != nil {
		if isExclusionViolation(err) {
			return fmt.Errorf("%w: space is already booked for this time slot", apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxBookingRepository) UpdateBookingChecked(ctx context.Context, booking domain.Booking) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := lockSpaceRow(ctx, tx, booking.SpaceID); err != nil {
		return err
	}

	var exists bool
	err = tx.QueryRow(ctx, overlapExistsQuery, booking.SpaceID, booking.StartTime, booking.EndTime, booking.BookingID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check booking overlap: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: space is already booked for this time slot", apperrors.ErrConflict)
	}

	if err := updateBookingRow(ctx, tx, toModelBooking(booking)); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func updateBookingRow(ctx context.Context, tx pgx.Tx, m models.Booking) error {
	query := `
		UPDATE bookings SET
			start_time = $2, end_time = $3, status = $4, payment_status = $5,
			total_amount = $6, notes = $7, cancellation_reason = $8, cancelled_at = $9,
			reminder_sent_at = $10, last_updated_at = $11, last_updated_by = $12
		WHERE booking_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		m.BookingID,
		m.StartTime, m.EndTime, m.Status, m.PaymentStatus,
		m.TotalAmount, m.Notes, m.CancellationReason, m.CancelledAt,
		m.ReminderSentAt, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isExclusionViolation(err) {
			return fmt.Errorf("%w: space is already booked for this time slot", apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to update booking %s: %w", m.BookingID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxBookingRepository) UpdateBooking(ctx context.Context, booking domain.Booking) error {
	m := toModelBooking(booking)
	query := `
		UPDATE bookings SET
			start_time = $2, end_time = $3, status = $4, payment_status = $5,
			total_amount = $6, notes = $7, cancellation_reason = $8, cancelled_at = $9,
			reminder_sent_at = $10, last_updated_at = $11, last_updated_by = $12
		WHERE booking_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.BookingID,
		m.StartTime, m.EndTime, m.Status, m.PaymentStatus,
		m.TotalAmount, m.Notes, m.CancellationReason, m.CancelledAt,
		m.ReminderSentAt, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking %s: %w", booking.BookingID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxBookingRepository) FindBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_id = $1;`
	m, err := scanBooking(r.Pool.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking by ID %s: %w", bookingID, err)
	}
	domainBooking := toDomainBooking(m)
	return &domainBooking, nil
}

func bookingFilterWhere(filter portsrepo.ListBookingsFilter) (string, []any) {
	where := `WHERE TRUE`
	args := []any{}
	idx := 1
	if filter.UserID != "" {
		where += fmt.Sprintf(" AND user_id = $%d", idx)
		args = append(args, filter.UserID)
		idx++
	}
	if filter.SpaceID != "" {
		where += fmt.Sprintf(" AND space_id = $%d", idx)
		args = append(args, filter.SpaceID)
		idx++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.From != nil {
		where += fmt.Sprintf(" AND end_time > $%d", idx)
		args = append(args, *filter.From)
		idx++
	}
	if filter.To != nil {
		where += fmt.Sprintf(" AND start_time < $%d", idx)
		args = append(args, *filter.To)
		idx++
	}
	return where, args
}

func (r *PgxBookingRepository) FindBookings(ctx context.Context, filter portsrepo.ListBookingsFilter) ([]domain.Booking, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	where, args := bookingFilterWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM bookings %s ORDER BY start_time DESC LIMIT $%d OFFSET $%d;`,
		bookingColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		m, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking row: %w", err)
		}
		bookings = append(bookings, toDomainBooking(m))
	}
	return bookings, rows.Err()
}

func (r *PgxBookingRepository) CountBookings(ctx context.Context, filter portsrepo.ListBookingsFilter) (int, error) {
	where, args := bookingFilterWhere(filter)
	var count int
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM bookings `+where+`;`, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func cancelFutureSiblingRows(ctx context.Context, db execQuerier, groupID string, excludeBookingID string, after time.Time, reason string, cancelledBy string) (int, error) {
	query := `
		UPDATE bookings SET
			status = 'cancelled',
			cancellation_reason = $4,
			cancelled_at = $3,
			last_updated_at = $3,
			last_updated_by = $5
		WHERE recurring_group_id = $1
		  AND booking_id <> $2
		  AND start_time > $3
		  AND status IN ('pending', 'confirmed');
	`
	tag, err := db.Exec(ctx, query, groupID, excludeBookingID, after, nullString(reason), cancelledBy)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel recurring siblings for group %s: %w", groupID, err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *PgxBookingRepository) CancelFutureSiblings(ctx context.Context, groupID string, excludeBookingID string, after time.Time, reason string, cancelledBy string) (int, error) {
	return cancelFutureSiblingRows(ctx, r.Pool, groupID, excludeBookingID, after, reason, cancelledBy)
}

// CancelBookingAtomic commits the booking row, the refunded payment and the
// recurring cascade together, so a crash mid-cancellation cannot leave a
// refund recorded against a still-confirmed booking.
func (r *PgxBookingRepository) CancelBookingAtomic(ctx context.Context, booking domain.Booking, refundedPayment *domain.Payment) (int, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := updateBookingRow(ctx, tx, toModelBooking(booking)); err != nil {
		return 0, err
	}
	if refundedPayment != nil {
		if err := updatePaymentRow(ctx, tx, toModelPayment(*refundedPayment)); err != nil {
			return 0, err
		}
	}

	cancelled := 0
	if booking.RecurringGroupID != nil && booking.CancelledAt != nil {
		cancelled, err = cancelFutureSiblingRows(ctx, tx, *booking.RecurringGroupID, booking.BookingID,
			*booking.CancelledAt, booking.CancellationReason, booking.LastUpdatedBy)
		if err != nil {
			return 0, err
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return cancelled, nil
}

func (r *PgxBookingRepository) FindDueReminders(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'confirmed'
		  AND reminder_sent_at IS NULL
		  AND start_time >= $1 AND start_time < $2
		ORDER BY start_time ASC;`
	rows, err := r.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		m, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking row: %w", err)
		}
		bookings = append(bookings, toDomainBooking(m))
	}
	return bookings, rows.Err()
}

func (r *PgxBookingRepository) MarkReminderSent(ctx context.Context, bookingID string, sentAt time.Time) error {
	query := `UPDATE bookings SET reminder_sent_at = $2 WHERE booking_id = $1 AND reminder_sent_at IS NULL;`
	_, err := r.Pool.Exec(ctx, query, bookingID, sentAt)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent for booking %s: %w", bookingID, err)
	}
	return nil
}

func (r *PgxBookingRepository) CompleteElapsed(ctx context.Context, now time.Time) (int, error) {
	query := `
		UPDATE bookings SET status = 'completed', last_updated_at = $1, last_updated_by = 'system'
		WHERE status = 'confirmed' AND end_time <= $1;
	`
	tag, err := r.Pool.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to complete elapsed bookings: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
