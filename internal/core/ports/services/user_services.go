package services

import (
	"context"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
	"github.com/CoWorkHub/coworking_booking_app/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers retrieves a filtered, paginated list of users with a total count.
	ListUsers(ctx context.Context, params dto.ListUsersParams) ([]domain.User, int, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// RegisterUser creates a new member account.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// UpdateProfile applies profile changes to the caller's own account.
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error)

	// ChangePassword verifies the current password and sets a new one.
	ChangePassword(ctx context.Context, userID string, req dto.ChangePasswordRequest) error

	// AdminUpdateUser lets an admin change role, membership or status of any user.
	AdminUpdateUser(ctx context.Context, adminID string, userID string, req dto.AdminUpdateUserRequest) (*domain.User, error)

	// SetProfilePicture records the stored profile picture URL for a user.
	SetProfilePicture(ctx context.Context, userID string, imageURL string) (*domain.User, error)
}

// UserAuthSvc defines operations for user authentication
type UserAuthSvc interface {
	// AuthenticateUser checks email, password and, when enabled, the TOTP code.
	// On success it records the login and returns the user.
	AuthenticateUser(ctx context.Context, req dto.LoginRequest) (*domain.User, error)
}

// UserTwoFactorSvc defines operations for TOTP two-factor authentication.
type UserTwoFactorSvc interface {
	// SetupTwoFactor generates and stores a pending TOTP secret for the user.
	SetupTwoFactor(ctx context.Context, userID string) (*dto.TwoFactorSetupResponse, error)

	// EnableTwoFactor confirms the pending secret with a valid code.
	EnableTwoFactor(ctx context.Context, userID string, code string) error

	// DisableTwoFactor turns 2FA off after verifying a valid code.
	DisableTwoFactor(ctx context.Context, userID string, code string) error
}

// UserLifecycleSvc defines operations for managing user lifecycle
type UserLifecycleSvc interface {
	// RequestDeletion verifies the password, marks the account for deletion and
	// deactivates it.
	RequestDeletion(ctx context.Context, userID string, req dto.DeleteAccountRequest) error

	// AdminDeleteUser soft-deletes a user account. Admin only; admins cannot
	// delete themselves.
	AdminDeleteUser(ctx context.Context, adminID string, userID string) error
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
	UserTwoFactorSvc
	UserLifecycleSvc
}
