package services

import (
	"context"
	"time"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
)

// ReportingSvcFacade defines the admin analytics queries.
type ReportingSvcFacade interface {
	RevenueByDay(ctx context.Context, from, to time.Time) ([]domain.RevenuePoint, error)
	BookingsByDay(ctx context.Context, from, to time.Time) ([]domain.BookingCountPoint, error)
	OccupancyByDay(ctx context.Context, from, to time.Time) ([]domain.OccupancyPoint, error)
	PaymentMethodStats(ctx context.Context, from, to time.Time) ([]domain.PaymentMethodStat, error)
	PopularSpaces(ctx context.Context, from, to time.Time, limit int) ([]domain.PopularSpace, error)
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
	UserStats(ctx context.Context) (*domain.UserStats, error)
	MemberStats(ctx context.Context, userID string) (*domain.MemberStats, error)
}
