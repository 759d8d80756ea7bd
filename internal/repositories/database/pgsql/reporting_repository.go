package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
	portsrepo "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/repositories"
)

type ReportingRepository struct {
	db *pgxpool.Pool
}

func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepositoryFacade {
	return &ReportingRepository{db: db}
}

var _ portsrepo.ReportingRepositoryFacade = (*ReportingRepository)(nil)

func (r *ReportingRepository) RevenueByDay(ctx context.Context, from, to time.Time) ([]domain.RevenuePoint, error) {
	query := `
		SELECT DATE(paid_at) AS day, COALESCE(SUM(amount), 0)
		FROM payments
		WHERE status = 'succeeded'
		  AND paid_at >= $1 AND paid_at < $2 + INTERVAL '1 day'
		GROUP BY DATE(paid_at)
		ORDER BY day ASC;
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue by day: %w", err)
	}
	defer rows.Close()

	var points []domain.RevenuePoint
	for rows.Next() {
		var p domain.RevenuePoint
		if err := rows.Scan(&p.Date, &p.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan revenue row: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (r *ReportingRepository) BookingsByDay(ctx context.Context, from, to time.Time) ([]domain.BookingCountPoint, error) {
	query := `
		SELECT DATE(created_at) AS day, COUNT(*)
		FROM bookings
		WHERE created_at >= $1 AND created_at < $2 + INTERVAL '1 day'
		GROUP BY DATE(created_at)
		ORDER BY day ASC;
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings by day: %w", err)
	}
	defer rows.Close()

	var points []domain.BookingCountPoint
	for rows.Next() {
		var p domain.BookingCountPoint
		if err := rows.Scan(&p.Date, &p.Count); err != nil {
			return nil, fmt.Errorf("failed to scan booking count row: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// occupiedHoursPerDay assumes a 12 hour bookable day per space when turning
// booked hours into a percentage.
const bookableHoursPerDay = 12

func (r *ReportingRepository) OccupancyByDay(ctx context.Context, from, to time.Time) ([]domain.OccupancyPoint, error) {
	query := `
		WITH days AS (
			SELECT generate_series($1::date, $2::date, '1 day')::date AS day
		),
		space_count AS (
			SELECT GREATEST(COUNT(*), 1) AS n FROM spaces
		),
		booked AS (
			SELECT d.day,
				COALESCE(SUM(
					EXTRACT(EPOCH FROM (
						LEAST(b.end_time, d.day + INTERVAL '1 day') -
						GREATEST(b.start_time, d.day::timestamptz)
					)) / 3600.0
				), 0) AS hours
			FROM days d
			LEFT JOIN bookings b
				ON b.status IN ('confirmed', 'completed')
				AND b.start_time < d.day + INTERVAL '1 day'
				AND b.end_time > d.day::timestamptz
			GROUP BY d.day
		)
		SELECT booked.day,
			LEAST(ROUND((booked.hours / (space_count.n * $3))::numeric * 100, 2), 100)
		FROM booked, space_count
		ORDER BY booked.day ASC;
	`
	rows, err := r.db.Query(ctx, query, from, to, bookableHoursPerDay)
	if err != nil {
		return nil, fmt.Errorf("failed to query occupancy by day: %w", err)
	}
	defer rows.Close()

	var points []domain.OccupancyPoint
	for rows.Next() {
		var p domain.OccupancyPoint
		if err := rows.Scan(&p.Date, &p.Rate); err != nil {
			return nil, fmt.Errorf("failed to scan occupancy row: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (r *ReportingRepository) PaymentMethodStats(ctx context.Context, from, to time.Time) ([]domain.PaymentMethodStat, error) {
	query := `
		SELECT payment_method, COUNT(*), COALESCE(SUM(amount), 0)
		FROM payments
		WHERE status = 'succeeded'
		  AND paid_at >= $1 AND paid_at < $2 + INTERVAL '1 day'
		GROUP BY payment_method
		ORDER BY payment_method ASC;
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment method stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.PaymentMethodStat
	for rows.Next() {
		var s domain.PaymentMethodStat
		var method string
		if err := rows.Scan(&method, &s.Count, &s.Total); err != nil {
			return nil, fmt.Errorf("failed to scan payment method row: %w", err)
		}
		s.Method = domain.PaymentMethod(method)
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *ReportingRepository) PopularSpaces(ctx context.Context, from, to time.Time, limit int) ([]domain.PopularSpace, error) {
	if limit <= 0 {
		limit = 5
	}
	query := `
		SELECT s.space_id, s.name, s.type, COUNT(b.booking_id) AS booking_count
		FROM spaces s
		JOIN bookings b ON b.space_id = s.space_id
			AND b.status <> 'cancelled'
			AND b.start_time >= $1 AND b.start_time < $2 + INTERVAL '1 day'
		GROUP BY s.space_id, s.name, s.type
		ORDER BY booking_count DESC, s.name ASC
		LIMIT $3;
	`
	rows, err := r.db.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query popular spaces: %w", err)
	}
	defer rows.Close()

	var result []domain.PopularSpace
	for rows.Next() {
		var p domain.PopularSpace
		var spaceType string
		if err := rows.Scan(&p.SpaceID, &p.Name, &spaceType, &p.BookingCount); err != nil {
			return nil, fmt.Errorf("failed to scan popular space row: %w", err)
		}
		p.Type = domain.SpaceType(spaceType)
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *ReportingRepository) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL),
			(SELECT COUNT(*) FROM spaces),
			(SELECT COUNT(*) FROM bookings WHERE status IN ('pending', 'confirmed')),
			(SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'succeeded');
	`
	var stats domain.DashboardStats
	var revenue decimal.Decimal
	err := r.db.QueryRow(ctx, query).Scan(&stats.TotalUsers, &stats.TotalSpaces, &stats.ActiveBookings, &revenue)
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard stats: %w", err)
	}
	stats.TotalRevenue = revenue
	return &stats, nil
}

func (r *ReportingRepository) MemberStats(ctx context.Context, userID string) (*domain.MemberStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM bookings
				WHERE user_id = $1 AND status IN ('pending', 'confirmed') AND start_time > NOW()),
			(SELECT COUNT(*) FROM bookings
				WHERE user_id = $1 AND status = 'completed'),
			(SELECT COALESCE(SUM(EXTRACT(EPOCH FROM (end_time - start_time)) / 3600.0), 0) FROM bookings
				WHERE user_id = $1 AND status IN ('confirmed', 'completed')),
			(SELECT COALESCE(SUM(amount), 0) FROM payments
				WHERE user_id = $1 AND status = 'succeeded');
	`
	var stats domain.MemberStats
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&stats.UpcomingBookings, &stats.CompletedBookings, &stats.HoursBooked, &stats.TotalSpent,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query member stats: %w", err)
	}
	return &stats, nil
}

func (r *ReportingRepository) UserStats(ctx context.Context) (*domain.UserStats, error) {
	stats := &domain.UserStats{
		UsersByRole:       make(map[domain.UserRole]int),
		UsersByMembership: make(map[domain.MembershipType]int),
	}

	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'active')
		FROM users WHERE deleted_at IS NULL;
	`).Scan(&stats.TotalUsers, &stats.ActiveUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to query user totals: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT role, COUNT(*) FROM users WHERE deleted_at IS NULL GROUP BY role;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users by role: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("failed to scan role row: %w", err)
		}
		stats.UsersByRole[domain.UserRole(role)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	memRows, err := r.db.Query(ctx, `
		SELECT membership_type, COUNT(*) FROM users WHERE deleted_at IS NULL GROUP BY membership_type;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users by membership: %w", err)
	}
	defer memRows.Close()
	for memRows.Next() {
		var membership string
		var n int
		if err := memRows.Scan(&membership, &n); err != nil {
			return nil, fmt.Errorf("failed to scan membership row: %w", err)
		}
		stats.UsersByMembership[domain.MembershipType(membership)] = n
	}
	return stats, memRows.Err()
}
