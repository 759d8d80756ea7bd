package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/CoWorkHub/coworking_booking_app/internal/apperrors"
	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
	portsrepo "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/repositories"
	"github.com/CoWorkHub/coworking_booking_app/internal/models"
)

type PgxPaymentRepository struct {
	db *pgxpool.Pool
}

func newPgxPaymentRepository(db *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{db: db}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

// Helper to convert domain.Payment to models.Payment
func toModelPayment(d domain.Payment) models.Payment {
	m := models.Payment{
		PaymentID:         d.PaymentID,
		BookingID:         d.BookingID,
		UserID:            d.UserID,
		Amount:            d.Amount,
		Currency:          d.Currency,
		Status:            string(d.Status),
		Method:            string(d.Method),
		ProviderPaymentID: nullString(d.ProviderPaymentID),
		ProviderRefundID:  nullString(d.ProviderRefundID),
		RefundReason:      nullString(d.RefundReason),
		Description:       nullString(d.Description),
		PaidAt:            nullTime(d.PaidAt),
		RefundedAt:        nullTime(d.RefundedAt),
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
	if d.RefundAmount != nil {
		m.RefundAmount = decimal.NewNullDecimal(*d.RefundAmount)
	}
	return m
}

// Helper to convert models.Payment to domain.Payment
func toDomainPayment(m models.Payment) domain.Payment {
	d := domain.Payment{
		PaymentID:         m.PaymentID,
		BookingID:         m.BookingID,
		UserID:            m.UserID,
		Amount:            m.Amount,
		Currency:          m.Currency,
		Status:            domain.PaymentStatus(m.Status),
		Method:            domain.PaymentMethod(m.Method),
		ProviderPaymentID: m.ProviderPaymentID.String,
		ProviderRefundID:  m.ProviderRefundID.String,
		RefundReason:      m.RefundReason.String,
		Description:       m.Description.String,
		PaidAt:            timePtr(m.PaidAt),
		RefundedAt:        timePtr(m.RefundedAt),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.RefundAmount.Valid {
		amount := m.RefundAmount.Decimal
		d.RefundAmount = &amount
	}
	return d
}

const paymentColumns = `payment_id, booking_id, user_id, amount, currency, status, payment_method,
		provider_payment_id, provider_refund_id, refund_amount, refund_reason, description,
		paid_at, refunded_at, created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID, &m.BookingID, &m.UserID, &m.Amount, &m.Currency, &m.Status, &m.Method,
		&m.ProviderPaymentID, &m.ProviderRefundID, &m.RefundAmount, &m.RefundReason, &m.Description,
		&m.PaidAt, &m.RefundedAt, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	m := toModelPayment(payment)
	query := `
		INSERT INTO payments (payment_id, booking_id, user_id, amount, currency, status, payment_method,
			provider_payment_id, description, paid_at,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.db.Exec(ctx, query,
		m.PaymentID, m.BookingID, m.UserID, m.Amount, m.Currency, m.Status, m.Method,
		m.ProviderPaymentID, m.Description, m.PaidAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payment %s already exists", apperrors.ErrDuplicate, payment.PaymentID)
		}
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return nil
}

// updatePaymentRow runs the payment UPDATE either on the pool or inside a
// transaction, so a cancellation can adjust the payment atomically with its
// booking.
func updatePaymentRow(ctx context.Context, db execQuerier, m models.Payment) error {
	query := `
		UPDATE payments SET
			status = $2, provider_payment_id = $3, provider_refund_id = $4,
			refund_amount = $5, refund_reason = $6, description = $7,
			paid_at = $8, refunded_at = $9,
			last_updated_at = $10, last_updated_by = $11
		WHERE payment_id = $1;
	`
	tag, err := db.Exec(ctx, query,
		m.PaymentID,
		m.Status, m.ProviderPaymentID, m.ProviderRefundID,
		m.RefundAmount, m.RefundReason, m.Description,
		m.PaidAt, m.RefundedAt,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment %s: %w", m.PaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPaymentRepository) UpdatePayment(ctx context.Context, payment domain.Payment) error {
	return updatePaymentRow(ctx, r.db, toModelPayment(payment))
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	m, err := scanPayment(r.db.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment by ID %s: %w", paymentID, err)
	}
	domainPayment := toDomainPayment(m)
	return &domainPayment, nil
}

func (r *PgxPaymentRepository) FindPaymentByProviderID(ctx context.Context, providerPaymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE provider_payment_id = $1;`
	m, err := scanPayment(r.db.QueryRow(ctx, query, providerPaymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment by provider ID: %w", err)
	}
	domainPayment := toDomainPayment(m)
	return &domainPayment, nil
}

func (r *PgxPaymentRepository) FindPaymentsByBookingID(ctx context.Context, bookingID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1 ORDER BY created_at DESC;`
	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for booking %s: %w", bookingID, err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, toDomainPayment(m))
	}
	return payments, rows.Err()
}

func paymentFilterWhere(filter portsrepo.ListPaymentsFilter) (string, []any) {
	where := `WHERE TRUE`
	args := []any{}
	idx := 1
	if filter.UserID != "" {
		where += fmt.Sprintf(" AND user_id = $%d", idx)
		args = append(args, filter.UserID)
		idx++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.Method != "" {
		where += fmt.Sprintf(" AND payment_method = $%d", idx)
		args = append(args, filter.Method)
		idx++
	}
	if filter.From != nil {
		where += fmt.Sprintf(" AND created_at >= $%d", idx)
		args = append(args, *filter.From)
		idx++
	}
	if filter.To != nil {
		where += fmt.Sprintf(" AND created_at < $%d", idx)
		args = append(args, *filter.To)
		idx++
	}
	return where, args
}

func (r *PgxPaymentRepository) FindPayments(ctx context.Context, filter portsrepo.ListPaymentsFilter) ([]domain.Payment, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	where, args := paymentFilterWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM payments %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d;`,
		paymentColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, toDomainPayment(m))
	}
	return payments, rows.Err()
}

func (r *PgxPaymentRepository) CountPayments(ctx context.Context, filter portsrepo.ListPaymentsFilter) (int, error) {
	where, args := paymentFilterWhere(filter)
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM payments `+where+`;`, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count payments: %w", err)
	}
	return count, nil
}
