package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
)

// ListSpacesFilter narrows a space catalog listing.
type ListSpacesFilter struct {
	Type        string
	Status      string
	MinCapacity int
	MaxRate     *decimal.Decimal
	Limit       int
	Offset      int
}

// SpaceReader defines read operations for space data
type SpaceReader interface {
	// FindSpaceByID retrieves a specific space by its ID.
	FindSpaceByID(ctx context.Context, spaceID string) (*domain.Space, error)

	// FindSpaces retrieves a filtered, paginated list of spaces.
	FindSpaces(ctx context.Context, filter ListSpacesFilter) ([]domain.Space, error)

	// CountSpaces counts the spaces matching the filter, ignoring pagination.
	CountSpaces(ctx context.Context, filter ListSpacesFilter) (int, error)
}

// SpaceWriter defines write operations for space data
type SpaceWriter interface {
	// SaveSpace persists a new space.
	SaveSpace(ctx context.Context, space domain.Space) error

	// UpdateSpace updates an existing space's details.
	UpdateSpace(ctx context.Context, space domain.Space) error

	// DeleteSpace removes a space from the catalog.
	DeleteSpace(ctx context.Context, spaceID string) error
}

// SpaceRepositoryFacade combines all space-related repository interfaces
type SpaceRepositoryFacade interface {
	SpaceReader
	SpaceWriter
}
