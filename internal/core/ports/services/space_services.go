package services

import (
	"context"
	"time"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
	"github.com/CoWorkHub/coworking_booking_app/internal/dto"
)

// SpaceReaderSvc defines read operations for the space catalog
type SpaceReaderSvc interface {
	// GetSpaceByID retrieves a space by ID.
	GetSpaceByID(ctx context.Context, spaceID string) (*domain.Space, error)

	// ListSpaces retrieves a filtered, paginated list of spaces with a total count.
	ListSpaces(ctx context.Context, params dto.ListSpacesParams) ([]domain.Space, int, error)

	// CheckAvailability reports whether the space is free over [start, end).
	CheckAvailability(ctx context.Context, spaceID string, start, end time.Time) (bool, error)
}

// SpaceWriterSvc defines admin write operations for the space catalog
type SpaceWriterSvc interface {
	// CreateSpace adds a new space to the catalog.
	CreateSpace(ctx context.Context, adminID string, req dto.CreateSpaceRequest) (*domain.Space, error)

	// UpdateSpace applies partial changes to a space.
	UpdateSpace(ctx context.Context, adminID string, spaceID string, req dto.UpdateSpaceRequest) (*domain.Space, error)

	// SetSpaceImage records the stored image URL for a space.
	SetSpaceImage(ctx context.Context, adminID string, spaceID string, imageURL string) (*domain.Space, error)

	// DeleteSpace removes a space. Fails with ErrConflict while the space still
	// has upcoming blocking bookings.
	DeleteSpace(ctx context.Context, adminID string, spaceID string) error
}

// SpaceSvcFacade combines all space-related service interfaces
type SpaceSvcFacade interface {
	SpaceReaderSvc
	SpaceWriterSvc
}
