package repositories

import (
	"context"
	"time"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
)

// ReportingRepositoryFacade defines the read-only aggregation queries behind
// the admin dashboard and analytics routes.
type ReportingRepositoryFacade interface {
	// RevenueByDay sums succeeded payment amounts per day over [from, to].
	RevenueByDay(ctx context.Context, from, to time.Time) ([]domain.RevenuePoint, error)

	// BookingsByDay counts bookings created per day over [from, to].
	BookingsByDay(ctx context.Context, from, to time.Time) ([]domain.BookingCountPoint, error)

	// OccupancyByDay computes the percentage of bookable capacity consumed per
	// day over [from, to], capped at 100.
	OccupancyByDay(ctx context.Context, from, to time.Time) ([]domain.OccupancyPoint, error)

	// PaymentMethodStats aggregates succeeded payments per method over [from, to].
	PaymentMethodStats(ctx context.Context, from, to time.Time) ([]domain.PaymentMethodStat, error)

	// PopularSpaces ranks spaces by booking count over [from, to].
	PopularSpaces(ctx context.Context, from, to time.Time, limit int) ([]domain.PopularSpace, error)

	// DashboardStats returns the headline totals for the admin dashboard.
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)

	// UserStats breaks the user base down by role, membership and status.
	UserStats(ctx context.Context) (*domain.UserStats, error)

	// MemberStats returns one member's booking and spend totals.
	MemberStats(ctx context.Context, userID string) (*domain.MemberStats, error)
}
