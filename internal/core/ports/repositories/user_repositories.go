package repositories

import (
	"context"
	"time"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
)

// ListUsersFilter narrows a user listing.
type ListUsersFilter struct {
	Role   string
	Status string
	// Search matches username or email, case-insensitively.
	Search string
	Limit  int
	Offset int
}

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email address.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUsers retrieves a filtered, paginated list of users.
	FindUsers(ctx context.Context, filter ListUsersFilter) ([]domain.User, error)

	// CountUsers counts the users matching the filter, ignoring pagination.
	CountUsers(ctx context.Context, filter ListUsersFilter) (int, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates an existing user's details.
	UpdateUser(ctx context.Context, user domain.User) error
}

// UserLifecycleManager defines operations for managing user lifecycle
type UserLifecycleManager interface {
	// MarkUserDeleted marks a user as deleted (soft delete).
	MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserLifecycleManager
}
