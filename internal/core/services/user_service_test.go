package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/CoWorkHub/coworking_booking_app/internal/apperrors"
	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
	portssvc "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/services"
	"github.com/CoWorkHub/coworking_booking_app/internal/core/services"
	"github.com/CoWorkHub/coworking_booking_app/internal/dto"
	"github.com/CoWorkHub/coworking_booking_app/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	mockMailer   *MockEmailSender
	stubActivity *StubActivityService
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockMailer = new(MockEmailSender)
	suite.stubActivity = &StubActivityService{}
	suite.service = services.NewUserService(suite.mockUserRepo, suite.stubActivity, suite.mockMailer, nil)
}

// activeUser returns an active member with the given password hashed for real,
// so authentication paths exercise the bcrypt comparison.
func (suite *UserServiceTestSuite) activeUser(password string) *domain.User {
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	now := time.Now().UTC()
	return &domain.User{
		UserID:                  uuid.NewString(),
		Username:                "casey",
		Email:                   "casey@example.com",
		PasswordHash:            hash,
		Role:                    domain.RoleMember,
		MembershipType:          domain.MembershipBasic,
		Status:                  domain.UserActive,
		NotificationPreferences: domain.DefaultNotificationPreferences(),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "system",
			LastUpdatedAt: now,
			LastUpdatedBy: "system",
		},
	}
}

func (suite *UserServiceTestSuite) TestRegisterUser_Success() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		Username: "newmember",
		Email:    "new@example.com",
		Password: "supersecret1",
		Company:  "Acme",
	}

	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == "newmember" &&
			u.Role == domain.RoleMember &&
			u.MembershipType == domain.MembershipBasic &&
			u.Status == domain.UserActive &&
			utils.CheckPasswordHash("supersecret1", u.PasswordHash)
	})).Return(nil).Once()
	suite.mockMailer.On("Send", mock.Anything, "new@example.com", mock.Anything, mock.Anything).Return(nil).Maybe()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().NoError(err)
	suite.NotEmpty(user.UserID)
	suite.Equal("new@example.com", user.Email)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_DuplicateEmail() {
	ctx := context.Background()
	suite.mockUserRepo.On("SaveUser", ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.RegisterUser(ctx, dto.RegisterUserRequest{
		Username: "dupe",
		Email:    "taken@example.com",
		Password: "supersecret1",
	})

	suite.Require().ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	user := suite.activeUser("correct-horse")

	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.LastLoginAt != nil
	})).Return(nil).Once()

	got, err := suite.service.AuthenticateUser(ctx, dto.LoginRequest{
		Email:    user.Email,
		Password: "correct-horse",
	})

	suite.Require().NoError(err)
	suite.Equal(user.UserID, got.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	user := suite.activeUser("correct-horse")
	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	_, err := suite.service.AuthenticateUser(ctx, dto.LoginRequest{
		Email:    user.Email,
		Password: "battery-staple",
	})

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownEmailMapsToUnauthorized() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "ghost@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AuthenticateUser(ctx, dto.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever1",
	})

	// Unknown accounts look exactly like bad passwords to the caller.
	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_SuspendedRejected() {
	ctx := context.Background()
	user := suite.activeUser("correct-horse")
	user.Status = domain.UserSuspended
	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	_, err := suite.service.AuthenticateUser(ctx, dto.LoginRequest{
		Email:    user.Email,
		Password: "correct-horse",
	})

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_RequiresTOTPWhenEnabled() {
	ctx := context.Background()
	user := suite.activeUser("correct-horse")
	user.TwoFactorEnabled = true
	user.TwoFactorSecret = "JBSWY3DPEHPK3PXP"
	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	_, err := suite.service.AuthenticateUser(ctx, dto.LoginRequest{
		Email:    user.Email,
		Password: "correct-horse",
	})

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WithValidTOTP() {
	ctx := context.Background()
	key, err := totp.Generate(totp.GenerateOpts{Issuer: "test", AccountName: "casey@example.com"})
	suite.Require().NoError(err)
	code, err := totp.GenerateCode(key.Secret(), time.Now())
	suite.Require().NoError(err)

	user := suite.activeUser("correct-horse")
	user.TwoFactorEnabled = true
	user.TwoFactorSecret = key.Secret()

	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.Anything).Return(nil).Once()

	got, err := suite.service.AuthenticateUser(ctx, dto.LoginRequest{
		Email:    user.Email,
		Password: "correct-horse",
		TOTPCode: code,
	})

	suite.Require().NoError(err)
	suite.Equal(user.UserID, got.UserID)
}

func (suite *UserServiceTestSuite) TestChangePassword_Success() {
	ctx := context.Background()
	user := suite.activeUser("old-password1")

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return utils.CheckPasswordHash("new-password1", u.PasswordHash)
	})).Return(nil).Once()
	suite.mockMailer.On("Send", mock.Anything, user.Email, mock.Anything, mock.Anything).Return(nil).Maybe()

	err := suite.service.ChangePassword(ctx, user.UserID, dto.ChangePasswordRequest{
		CurrentPassword: "old-password1",
		NewPassword:     "new-password1",
	})

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestChangePassword_WrongCurrentPassword() {
	ctx := context.Background()
	user := suite.activeUser("old-password1")
	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()

	err := suite.service.ChangePassword(ctx, user.UserID, dto.ChangePasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "new-password1",
	})

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestSetupTwoFactor_AlreadyEnabled() {
	ctx := context.Background()
	user := suite.activeUser("correct-horse")
	user.TwoFactorEnabled = true
	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()

	_, err := suite.service.SetupTwoFactor(ctx, user.UserID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
}

func (suite *UserServiceTestSuite) TestEnableTwoFactor_RoundTrip() {
	ctx := context.Background()
	user := suite.activeUser("correct-horse")

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil)
	suite.mockUserRepo.On("UpdateUser", ctx, mock.Anything).Return(nil)

	setup, err := suite.service.SetupTwoFactor(ctx, user.UserID)
	suite.Require().NoError(err)
	suite.NotEmpty(setup.Secret)
	suite.Contains(setup.OTPAuthURL, "otpauth://")

	// SetupTwoFactor stored the pending secret on the user.
	suite.Equal(setup.Secret, user.TwoFactorSecret)

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	suite.Require().NoError(err)

	err = suite.service.EnableTwoFactor(ctx, user.UserID, code)
	suite.Require().NoError(err)
	suite.True(user.TwoFactorEnabled)
}

func (suite *UserServiceTestSuite) TestEnableTwoFactor_InvalidCode() {
	ctx := context.Background()
	user := suite.activeUser("correct-horse")
	user.TwoFactorSecret = "JBSWY3DPEHPK3PXP"
	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()

	err := suite.service.EnableTwoFactor(ctx, user.UserID, "000000")

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestEnableTwoFactor_WithoutSetup() {
	ctx := context.Background()
	user := suite.activeUser("correct-horse")
	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()

	err := suite.service.EnableTwoFactor(ctx, user.UserID, "123456")

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *UserServiceTestSuite) TestAdminUpdateUser_ChangesRoleAndStatus() {
	ctx := context.Background()
	adminID := uuid.NewString()
	user := suite.activeUser("correct-horse")
	role := "staff"
	status := "suspended"

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleStaff && u.Status == domain.UserSuspended && u.LastUpdatedBy == adminID
	})).Return(nil).Once()

	got, err := suite.service.AdminUpdateUser(ctx, adminID, user.UserID, dto.AdminUpdateUserRequest{
		Role:   &role,
		Status: &status,
	})

	suite.Require().NoError(err)
	suite.Equal(domain.RoleStaff, got.Role)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRequestDeletion_Success() {
	ctx := context.Background()
	user := suite.activeUser("correct-horse")

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.DeletionRequestedAt != nil && u.Status == domain.UserInactive
	})).Return(nil).Once()
	suite.mockMailer.On("Send", mock.Anything, user.Email, mock.Anything, mock.Anything).Return(nil).Maybe()

	err := suite.service.RequestDeletion(ctx, user.UserID, dto.DeleteAccountRequest{
		Password: "correct-horse",
		Reason:   "no longer needed",
	})

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRequestDeletion_AlreadyRequested() {
	ctx := context.Background()
	user := suite.activeUser("correct-horse")
	requested := time.Now().UTC().Add(-time.Hour)
	user.DeletionRequestedAt = &requested
	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()

	err := suite.service.RequestDeletion(ctx, user.UserID, dto.DeleteAccountRequest{
		Password: "correct-horse",
	})

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
}

func (suite *UserServiceTestSuite) TestAdminDeleteUser_SoftDeletes() {
	ctx := context.Background()
	adminID := uuid.NewString()
	user := suite.activeUser("correct-horse")

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.mockUserRepo.On("MarkUserDeleted", ctx, user.UserID, mock.AnythingOfType("time.Time"), adminID).Return(nil).Once()

	err := suite.service.AdminDeleteUser(ctx, adminID, user.UserID)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAdminDeleteUser_RejectsSelfDelete() {
	ctx := context.Background()
	adminID := uuid.NewString()

	err := suite.service.AdminDeleteUser(ctx, adminID, adminID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "MarkUserDeleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
