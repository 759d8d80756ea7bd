package services

import (
	"context"
	"fmt"
	"time"

	"github.com/CoWorkHub/coworking_booking_app/internal/apperrors"
	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
	portsrepo "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/repositories"
	portssvc "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/services"
)

type reportingService struct {
	reportingRepo portsrepo.ReportingRepositoryFacade
}

// NewReportingService creates the analytics service.
func NewReportingService(reportingRepo portsrepo.ReportingRepositoryFacade) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// maxReportRange bounds analytics queries to keep the aggregation SQL cheap.
const maxReportRange = 366 * 24 * time.Hour

func validateRange(from, to time.Time) error {
	if to.Before(from) {
		return fmt.Errorf("%w: 'to' must not be before 'from'", apperrors.ErrValidation)
	}
	if to.Sub(from) > maxReportRange {
		return fmt.Errorf("%w: date range must not exceed one year", apperrors.ErrValidation)
	}
	return nil
}

func (s *reportingService) RevenueByDay(ctx context.Context, from, to time.Time) ([]domain.RevenuePoint, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	return s.reportingRepo.RevenueByDay(ctx, from, to)
}

func (s *reportingService) BookingsByDay(ctx context.Context, from, to time.Time) ([]domain.BookingCountPoint, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	return s.reportingRepo.BookingsByDay(ctx, from, to)
}

func (s *reportingService) OccupancyByDay(ctx context.Context, from, to time.Time) ([]domain.OccupancyPoint, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	return s.reportingRepo.OccupancyByDay(ctx, from, to)
}

func (s *reportingService) PaymentMethodStats(ctx context.Context, from, to time.Time) ([]domain.PaymentMethodStat, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	return s.reportingRepo.PaymentMethodStats(ctx, from, to)
}

func (s *reportingService) PopularSpaces(ctx context.Context, from, to time.Time, limit int) ([]domain.PopularSpace, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	return s.reportingRepo.PopularSpaces(ctx, from, to, limit)
}

func (s *reportingService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	return s.reportingRepo.DashboardStats(ctx)
}

func (s *reportingService) UserStats(ctx context.Context) (*domain.UserStats, error) {
	return s.reportingRepo.UserStats(ctx)
}

func (s *reportingService) MemberStats(ctx context.Context, userID string) (*domain.MemberStats, error) {
	return s.reportingRepo.MemberStats(ctx, userID)
}
