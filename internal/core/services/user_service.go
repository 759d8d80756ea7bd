package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"

	"github.com/CoWorkHub/coworking_booking_app/internal/apperrors"
	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
	portsrepo "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/repositories"
	portssvc "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/services"
	"github.com/CoWorkHub/coworking_booking_app/internal/dto"
	"github.com/CoWorkHub/coworking_booking_app/internal/middleware"
	"github.com/CoWorkHub/coworking_booking_app/internal/utils"
)

// totpIssuer is the issuer name shown in authenticator apps.
const totpIssuer = "CoWorkHub"

type userService struct {
	users    portsrepo.UserRepositoryFacade
	activity portssvc.ActivitySvcFacade
	mailer   portssvc.EmailSender
	posthog  *utils.PosthogClientWrapper
}

// NewUserService creates the user account service.
func NewUserService(users portsrepo.UserRepositoryFacade, activity portssvc.ActivitySvcFacade, mailer portssvc.EmailSender, posthog *utils.PosthogClientWrapper) portssvc.UserSvcFacade {
	return &userService{users: users, activity: activity, mailer: mailer, posthog: posthog}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	userID := uuid.NewString()
	user := domain.User{
		UserID:                  userID,
		Username:                req.Username,
		Email:                   req.Email,
		PasswordHash:            hash,
		Role:                    domain.RoleMember,
		MembershipType:          domain.MembershipBasic,
		Status:                  domain.UserActive,
		PhoneNumber:             req.Phone,
		Company:                 req.Company,
		NotificationPreferences: domain.DefaultNotificationPreferences(),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, userID, domain.ActivityAccount, "Account registered", nil)
	s.posthog.Enqueue(userID, "user_registered", map[string]any{"membership": string(user.MembershipType)})
	s.sendAsync(ctx, user.Email, "Welcome to CoWorkHub",
		fmt.Sprintf("<p>Hi %s,</p><p>Your CoWorkHub account is ready. Browse our spaces and book your first desk.</p>", user.Username))

	return &user, nil
}

func (s *userService) AuthenticateUser(ctx context.Context, req dto.LoginRequest) (*domain.User, error) {
	user, err := s.users.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}

	if user.Status != domain.UserActive {
		return nil, fmt.Errorf("%w: account is %s", apperrors.ErrForbidden, user.Status)
	}

	if user.TwoFactorEnabled {
		if req.TOTPCode == "" {
			return nil, fmt.Errorf("%w: two-factor code required", apperrors.ErrUnauthorized)
		}
		if !totp.Validate(req.TOTPCode, user.TwoFactorSecret) {
			return nil, fmt.Errorf("%w: invalid two-factor code", apperrors.ErrUnauthorized)
		}
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	user.LastUpdatedAt = now
	user.LastUpdatedBy = user.UserID
	if err := s.users.UpdateUser(ctx, *user); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("failed to record last login", "user_id", user.UserID, "error", err)
	}

	s.activity.Record(ctx, user.UserID, domain.ActivityLogin, "Signed in", nil)
	s.posthog.Enqueue(user.UserID, "user_login", nil)

	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindUserByID(ctx, userID)
}

func (s *userService) ListUsers(ctx context.Context, params dto.ListUsersParams) ([]domain.User, int, error) {
	filter := portsrepo.ListUsersFilter{
		Role:   params.Role,
		Status: params.Status,
		Search: params.Search,
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	users, err := s.users.FindUsers(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	total, err := s.users.CountUsers(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}
	return users, total, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.Company != nil {
		user.Company = *req.Company
	}
	if req.BillingAddress != nil {
		user.BillingAddress = req.BillingAddress
	}
	if req.NotificationPreferences != nil {
		user.NotificationPreferences = *req.NotificationPreferences
	}

	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = userID

	if err := s.users.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, userID, domain.ActivityProfileUpdate, "Profile updated", nil)
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID string, req dto.ChangePasswordRequest) error {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return fmt.Errorf("%w: current password is incorrect", apperrors.ErrUnauthorized)
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = userID

	if err := s.users.UpdateUser(ctx, *user); err != nil {
		return err
	}

	s.activity.Record(ctx, userID, domain.ActivitySecurity, "Password changed", nil)
	s.sendAsync(ctx, user.Email, "Your password was changed",
		"<p>Your CoWorkHub password was just changed. If this wasn't you, contact support immediately.</p>")
	return nil
}

func (s *userService) AdminUpdateUser(ctx context.Context, adminID string, userID string, req dto.AdminUpdateUserRequest) (*domain.User, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		user.Role = domain.UserRole(*req.Role)
	}
	if req.MembershipType != nil {
		user.MembershipType = domain.MembershipType(*req.MembershipType)
	}
	if req.Status != nil {
		user.Status = domain.UserStatus(*req.Status)
	}

	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = adminID

	if err := s.users.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, userID, domain.ActivityAccount, "Account updated by admin",
		map[string]any{"adminID": adminID})
	return user, nil
}

func (s *userService) SetProfilePicture(ctx context.Context, userID string, imageURL string) (*domain.User, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.ProfilePicture = imageURL
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = userID

	if err := s.users.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) SetupTwoFactor(ctx context.Context, userID string) (*dto.TwoFactorSetupResponse, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TwoFactorEnabled {
		return nil, fmt.Errorf("%w: two-factor authentication is already enabled", apperrors.ErrConflict)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate TOTP secret: %w", err)
	}

	// The secret stays pending until EnableTwoFactor confirms it with a code.
	user.TwoFactorSecret = key.Secret()
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = userID
	if err := s.users.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}

	return &dto.TwoFactorSetupResponse{
		Secret:     key.Secret(),
		OTPAuthURL: key.URL(),
	}, nil
}

func (s *userService) EnableTwoFactor(ctx context.Context, userID string, code string) error {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.TwoFactorSecret == "" {
		return fmt.Errorf("%w: two-factor setup has not been started", apperrors.ErrValidation)
	}
	if !totp.Validate(code, user.TwoFactorSecret) {
		return fmt.Errorf("%w: invalid two-factor code", apperrors.ErrUnauthorized)
	}

	user.TwoFactorEnabled = true
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = userID
	if err := s.users.UpdateUser(ctx, *user); err != nil {
		return err
	}

	s.activity.Record(ctx, userID, domain.ActivitySecurity, "Two-factor authentication enabled", nil)
	return nil
}

func (s *userService) DisableTwoFactor(ctx context.Context, userID string, code string) error {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.TwoFactorEnabled {
		return fmt.Errorf("%w: two-factor authentication is not enabled", apperrors.ErrValidation)
	}
	if !totp.Validate(code, user.TwoFactorSecret) {
		return fmt.Errorf("%w: invalid two-factor code", apperrors.ErrUnauthorized)
	}

	user.TwoFactorEnabled = false
	user.TwoFactorSecret = ""
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = userID
	if err := s.users.UpdateUser(ctx, *user); err != nil {
		return err
	}

	s.activity.Record(ctx, userID, domain.ActivitySecurity, "Two-factor authentication disabled", nil)
	return nil
}

func (s *userService) RequestDeletion(ctx context.Context, userID string, req dto.DeleteAccountRequest) error {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return fmt.Errorf("%w: password is incorrect", apperrors.ErrUnauthorized)
	}
	if user.DeletionRequestedAt != nil {
		return fmt.Errorf("%w: account deletion already requested", apperrors.ErrConflict)
	}

	now := time.Now().UTC()
	user.DeletionRequestedAt = &now
	user.Status = domain.UserInactive
	user.LastUpdatedAt = now
	user.LastUpdatedBy = userID
	if err := s.users.UpdateUser(ctx, *user); err != nil {
		return err
	}

	s.activity.Record(ctx, userID, domain.ActivityAccount, "Account deletion requested",
		map[string]any{"reason": req.Reason})
	s.sendAsync(ctx, user.Email, "Account deletion requested",
		"<p>We received your account deletion request. Your account has been deactivated and will be removed after the retention period.</p>")
	return nil
}

func (s *userService) AdminDeleteUser(ctx context.Context, adminID string, userID string) error {
	if adminID == userID {
		return fmt.Errorf("%w: admins cannot delete their own account", apperrors.ErrValidation)
	}
	if _, err := s.users.FindUserByID(ctx, userID); err != nil {
		return err
	}

	if err := s.users.MarkUserDeleted(ctx, userID, time.Now().UTC(), adminID); err != nil {
		return err
	}

	s.activity.Record(ctx, userID, domain.ActivityAccount, "Account deleted by admin",
		map[string]any{"adminID": adminID})
	return nil
}

// sendAsync delivers an email off the request path. Failures are logged, never
// propagated.
func (s *userService) sendAsync(ctx context.Context, to, subject, body string) {
	logger := middleware.GetLoggerFromCtx(ctx)
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.Send(sendCtx, to, subject, body); err != nil {
			logger.Error("failed to send email", "to", to, "subject", subject, "error", err)
		}
	}()
}
