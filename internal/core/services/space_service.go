package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/CoWorkHub/coworking_booking_app/internal/apperrors"
	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
	portsrepo "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/repositories"
	portssvc "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/services"
	"github.com/CoWorkHub/coworking_booking_app/internal/dto"
)

type spaceService struct {
	spaceRepo   portsrepo.SpaceRepositoryFacade
	bookingRepo portsrepo.BookingRepositoryFacade
	activity    portssvc.ActivitySvcFacade
}

// NewSpaceService creates the space catalog service.
func NewSpaceService(spaceRepo portsrepo.SpaceRepositoryFacade, bookingRepo portsrepo.BookingRepositoryFacade, activity portssvc.ActivitySvcFacade) portssvc.SpaceSvcFacade {
	return &spaceService{spaceRepo: spaceRepo, bookingRepo: bookingRepo, activity: activity}
}

var _ portssvc.SpaceSvcFacade = (*spaceService)(nil)

func (s *spaceService) GetSpaceByID(ctx context.Context, spaceID string) (*domain.Space, error) {
	return s.spaceRepo.FindSpaceByID(ctx, spaceID)
}

func (s *spaceService) ListSpaces(ctx context.Context, params dto.ListSpacesParams) ([]domain.Space, int, error) {
	filter := portsrepo.ListSpacesFilter{
		Type:        params.Type,
		Status:      params.Status,
		MinCapacity: params.MinCapacity,
		MaxRate:     params.MaxRate,
		Limit:       params.Limit,
		Offset:      params.Offset,
	}
	spaces, err := s.spaceRepo.FindSpaces(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list spaces: %w", err)
	}
	total, err := s.spaceRepo.CountSpaces(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count spaces: %w", err)
	}
	return spaces, total, nil
}

func (s *spaceService) CheckAvailability(ctx context.Context, spaceID string, start, end time.Time) (bool, error) {
	if !end.After(start) {
		return false, fmt.Errorf("%w: end time must be after start time", apperrors.ErrValidation)
	}
	space, err := s.spaceRepo.FindSpaceByID(ctx, spaceID)
	if err != nil {
		return false, err
	}
	if !space.Bookable() {
		return false, nil
	}
	overlaps, err := s.bookingRepo.HasOverlap(ctx, spaceID, start, end, "")
	if err != nil {
		return false, err
	}
	return !overlaps, nil
}

func (s *spaceService) CreateSpace(ctx context.Context, adminID string, req dto.CreateSpaceRequest) (*domain.Space, error) {
	if req.HourlyRate.IsNegative() {
		return nil, fmt.Errorf("%w: hourly rate must not be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	space := domain.Space{
		SpaceID:     uuid.NewString(),
		Name:        req.Name,
		Type:        domain.SpaceType(req.Type),
		Capacity:    req.Capacity,
		HourlyRate:  req.HourlyRate,
		Amenities:   req.Amenities,
		Description: req.Description,
		Location:    req.Location,
		IsAvailable: true,
		Status:      domain.SpaceAvailable,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     adminID,
			LastUpdatedAt: now,
			LastUpdatedBy: adminID,
		},
	}
	if space.Amenities == nil {
		space.Amenities = []string{}
	}

	if err := s.spaceRepo.SaveSpace(ctx, space); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, adminID, domain.ActivitySettings,
		fmt.Sprintf("Created space %q", space.Name), map[string]any{"spaceID": space.SpaceID})

	return &space, nil
}

func (s *spaceService) UpdateSpace(ctx context.Context, adminID string, spaceID string, req dto.UpdateSpaceRequest) (*domain.Space, error) {
	space, err := s.spaceRepo.FindSpaceByID(ctx, spaceID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		space.Name = *req.Name
	}
	if req.Type != nil {
		space.Type = domain.SpaceType(*req.Type)
	}
	if req.Capacity != nil {
		space.Capacity = *req.Capacity
	}
	if req.HourlyRate != nil {
		if req.HourlyRate.IsNegative() {
			return nil, fmt.Errorf("%w: hourly rate must not be negative", apperrors.ErrValidation)
		}
		space.HourlyRate = *req.HourlyRate
	}
	if req.Amenities != nil {
		space.Amenities = *req.Amenities
	}
	if req.Description != nil {
		space.Description = *req.Description
	}
	if req.Location != nil {
		space.Location = *req.Location
	}
	if req.IsAvailable != nil {
		space.IsAvailable = *req.IsAvailable
	}
	if req.Status != nil {
		space.Status = domain.SpaceStatus(*req.Status)
	}

	space.LastUpdatedAt = time.Now().UTC()
	space.LastUpdatedBy = adminID

	if err := s.spaceRepo.UpdateSpace(ctx, *space); err != nil {
		return nil, err
	}
	return space, nil
}

func (s *spaceService) SetSpaceImage(ctx context.Context, adminID string, spaceID string, imageURL string) (*domain.Space, error) {
	space, err := s.spaceRepo.FindSpaceByID(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	space.ImageURL = imageURL
	space.LastUpdatedAt = time.Now().UTC()
	space.LastUpdatedBy = adminID

	if err := s.spaceRepo.UpdateSpace(ctx, *space); err != nil {
		return nil, err
	}
	return space, nil
}

func (s *spaceService) DeleteSpace(ctx context.Context, adminID string, spaceID string) error {
	space, err := s.spaceRepo.FindSpaceByID(ctx, spaceID)
	if err != nil {
		return err
	}

	// Refuse while upcoming bookings still hold the space.
	now := time.Now().UTC()
	for _, status := range []string{string(domain.BookingPending), string(domain.BookingConfirmed)} {
		count, err := s.bookingRepo.CountBookings(ctx, portsrepo.ListBookingsFilter{
			SpaceID: spaceID,
			Status:  status,
			From:    &now,
		})
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: space has upcoming bookings", apperrors.ErrConflict)
		}
	}

	if err := s.spaceRepo.DeleteSpace(ctx, spaceID); err != nil {
		return err
	}

	s.activity.Record(ctx, adminID, domain.ActivitySettings,
		fmt.Sprintf("Deleted space %q", space.Name), map[string]any{"spaceID": spaceID})

	return nil
}
