package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/CoWorkHub/coworking_booking_app/internal/apperrors"
	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
	portsrepo "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/repositories"
	portssvc "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/services"
	"github.com/CoWorkHub/coworking_booking_app/internal/core/services"
	"github.com/CoWorkHub/coworking_booking_app/internal/dto"
)

// --- Mock BookingRepository ---
type MockBookingRepository struct {
	mock.Mock
	CreateBookingCheckedFn func(ctx context.Context, booking domain.Booking) error
}

func (m *MockBookingRepository) FindBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	var booking *domain.Booking
	if args.Get(0) != nil {
		booking = args.Get(0).(*domain.Booking)
	}
	return booking, args.Error(1)
}

func (m *MockBookingRepository) FindBookings(ctx context.Context, filter portsrepo.ListBookingsFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, filter)
	var bookings []domain.Booking
	if args.Get(0) != nil {
		bookings = args.Get(0).([]domain.Booking)
	}
	return bookings, args.Error(1)
}

func (m *MockBookingRepository) CountBookings(ctx context.Context, filter portsrepo.ListBookingsFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepository) HasOverlap(ctx context.Context, spaceID string, start, end time.Time, excludeBookingID string) (bool, error) {
	args := m.Called(ctx, spaceID, start, end, excludeBookingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) CreateBookingChecked(ctx context.Context, booking domain.Booking) error {
	if m.CreateBookingCheckedFn != nil {
		return m.CreateBookingCheckedFn(ctx, booking)
	}
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) UpdateBookingChecked(ctx context.Context, booking domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) UpdateBooking(ctx context.Context, booking domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) CancelFutureSiblings(ctx context.Context, groupID string, excludeBookingID string, after time.Time, reason string, cancelledBy string) (int, error) {
	args := m.Called(ctx, groupID, excludeBookingID, after, reason, cancelledBy)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepository) CancelBookingAtomic(ctx context.Context, booking domain.Booking, refundedPayment *domain.Payment) (int, error) {
	args := m.Called(ctx, booking, refundedPayment)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepository) FindDueReminders(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, from, to)
	var bookings []domain.Booking
	if args.Get(0) != nil {
		bookings = args.Get(0).([]domain.Booking)
	}
	return bookings, args.Error(1)
}

func (m *MockBookingRepository) MarkReminderSent(ctx context.Context, bookingID string, sentAt time.Time) error {
	args := m.Called(ctx, bookingID, sentAt)
	return args.Error(0)
}

func (m *MockBookingRepository) CompleteElapsed(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

// --- Mock SpaceRepository ---
type MockSpaceRepository struct {
	mock.Mock
}

func (m *MockSpaceRepository) FindSpaceByID(ctx context.Context, spaceID string) (*domain.Space, error) {
	args := m.Called(ctx, spaceID)
	var space *domain.Space
	if args.Get(0) != nil {
		space = args.Get(0).(*domain.Space)
	}
	return space, args.Error(1)
}

func (m *MockSpaceRepository) FindSpaces(ctx context.Context, filter portsrepo.ListSpacesFilter) ([]domain.Space, error) {
	args := m.Called(ctx, filter)
	var spaces []domain.Space
	if args.Get(0) != nil {
		spaces = args.Get(0).([]domain.Space)
	}
	return spaces, args.Error(1)
}

func (m *MockSpaceRepository) CountSpaces(ctx context.Context, filter portsrepo.ListSpacesFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockSpaceRepository) SaveSpace(ctx context.Context, space domain.Space) error {
	args := m.Called(ctx, space)
	return args.Error(0)
}

func (m *MockSpaceRepository) UpdateSpace(ctx context.Context, space domain.Space) error {
	args := m.Called(ctx, space)
	return args.Error(0)
}

func (m *MockSpaceRepository) DeleteSpace(ctx context.Context, spaceID string) error {
	args := m.Called(ctx, spaceID)
	return args.Error(0)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, filter portsrepo.ListUsersFilter) ([]domain.User, error) {
	args := m.Called(ctx, filter)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) CountUsers(ctx context.Context, filter portsrepo.ListUsersFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

// --- Mock PaymentRepository ---
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	var payment *domain.Payment
	if args.Get(0) != nil {
		payment = args.Get(0).(*domain.Payment)
	}
	return payment, args.Error(1)
}

func (m *MockPaymentRepository) FindPaymentByProviderID(ctx context.Context, providerPaymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, providerPaymentID)
	var payment *domain.Payment
	if args.Get(0) != nil {
		payment = args.Get(0).(*domain.Payment)
	}
	return payment, args.Error(1)
}

func (m *MockPaymentRepository) FindPaymentsByBookingID(ctx context.Context, bookingID string) ([]domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	var payments []domain.Payment
	if args.Get(0) != nil {
		payments = args.Get(0).([]domain.Payment)
	}
	return payments, args.Error(1)
}

func (m *MockPaymentRepository) FindPayments(ctx context.Context, filter portsrepo.ListPaymentsFilter) ([]domain.Payment, error) {
	args := m.Called(ctx, filter)
	var payments []domain.Payment
	if args.Get(0) != nil {
		payments = args.Get(0).([]domain.Payment)
	}
	return payments, args.Error(1)
}

func (m *MockPaymentRepository) CountPayments(ctx context.Context, filter portsrepo.ListPaymentsFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) UpdatePayment(ctx context.Context, payment domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

// --- Mock PaymentProvider ---
type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	args := m.Called(ctx, email, name)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentProvider) CreatePaymentIntent(ctx context.Context, amountMinor int64, currency string, customerID string, metadata map[string]string) (*portssvc.PaymentIntent, error) {
	args := m.Called(ctx, amountMinor, currency, customerID, metadata)
	var intent *portssvc.PaymentIntent
	if args.Get(0) != nil {
		intent = args.Get(0).(*portssvc.PaymentIntent)
	}
	return intent, args.Error(1)
}

func (m *MockPaymentProvider) CreateRefund(ctx context.Context, paymentIntentID string, amountMinor int64, reason string) (string, error) {
	args := m.Called(ctx, paymentIntentID, amountMinor, reason)
	return args.String(0), args.Error(1)
}

// --- Mock SettingsService ---
type MockSettingsService struct {
	mock.Mock
	rules domain.BookingRules
}

func (m *MockSettingsService) EnsureDefaults(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSettingsService) GetSetting(ctx context.Context, key string) (*domain.Setting, error) {
	args := m.Called(ctx, key)
	var setting *domain.Setting
	if args.Get(0) != nil {
		setting = args.Get(0).(*domain.Setting)
	}
	return setting, args.Error(1)
}

func (m *MockSettingsService) ListSettings(ctx context.Context) ([]domain.Setting, error) {
	args := m.Called(ctx)
	var settings []domain.Setting
	if args.Get(0) != nil {
		settings = args.Get(0).([]domain.Setting)
	}
	return settings, args.Error(1)
}

func (m *MockSettingsService) UpdateSetting(ctx context.Context, adminID string, key string, req dto.UpdateSettingRequest) (*domain.Setting, error) {
	args := m.Called(ctx, adminID, key, req)
	var setting *domain.Setting
	if args.Get(0) != nil {
		setting = args.Get(0).(*domain.Setting)
	}
	return setting, args.Error(1)
}

func (m *MockSettingsService) BookingRules(ctx context.Context) domain.BookingRules {
	return m.rules
}

// --- Stub ActivityService ---
// Records without expectations so lifecycle tests need no activity setup.
type StubActivityService struct {
	recorded []domain.ActivityType
}

func (s *StubActivityService) Record(ctx context.Context, userID string, activityType domain.ActivityType, description string, metadata map[string]any) {
	s.recorded = append(s.recorded, activityType)
}

func (s *StubActivityService) ListUserActivities(ctx context.Context, userID string, params dto.ListActivitiesParams) ([]domain.Activity, int, error) {
	return nil, 0, nil
}

// --- Mock EmailSender ---
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}

// --- Test Suite ---
type BookingServiceTestSuite struct {
	suite.Suite
	mockBookingRepo *MockBookingRepository
	mockSpaceRepo   *MockSpaceRepository
	mockUserRepo    *MockUserRepository
	mockPaymentRepo *MockPaymentRepository
	mockProvider    *MockPaymentProvider
	mockSettings    *MockSettingsService
	stubActivity    *StubActivityService
	mockMailer      *MockEmailSender
	service         portssvc.BookingSvcFacade
}

func (suite *BookingServiceTestSuite) SetupTest() {
	suite.mockBookingRepo = new(MockBookingRepository)
	suite.mockSpaceRepo = new(MockSpaceRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockProvider = new(MockPaymentProvider)
	suite.mockSettings = &MockSettingsService{rules: domain.DefaultBookingRules()}
	suite.stubActivity = new(StubActivityService)
	suite.mockMailer = new(MockEmailSender)
	suite.service = services.NewBookingService(
		suite.mockBookingRepo,
		suite.mockSpaceRepo,
		suite.mockUserRepo,
		suite.mockPaymentRepo,
		suite.mockProvider,
		suite.mockSettings,
		suite.stubActivity,
		suite.mockMailer,
		nil,
	)
}

// quietUser keeps every notification off so tests stay synchronous.
func quietUser(userID string) *domain.User {
	return &domain.User{
		UserID:   userID,
		Username: "tester",
		Email:    "tester@example.com",
		NotificationPreferences: domain.NotificationPreferences{
			EmailNotifications: false,
			BookingReminders:   false,
			PaymentReminders:   false,
		},
	}
}

func testSpace(spaceID string, rate string) *domain.Space {
	return &domain.Space{
		SpaceID:     spaceID,
		Name:        "Desk 4",
		Type:        domain.SpaceDesk,
		HourlyRate:  decimal.RequireFromString(rate),
		IsAvailable: true,
		Status:      domain.SpaceAvailable,
	}
}

// --- CreateBooking Tests ---

func (suite *BookingServiceTestSuite) TestCreateBooking_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	spaceID := uuid.NewString()
	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	end := start.Add(2 * time.Hour)

	user := quietUser(userID)
	user.StripeCustomerID = "cus_123"

	suite.mockSpaceRepo.On("FindSpaceByID", ctx, spaceID).Return(testSpace(spaceID, "10.00"), nil)
	suite.mockBookingRepo.On("CreateBookingChecked", ctx, mock.MatchedBy(func(b domain.Booking) bool {
		return b.UserID == userID &&
			b.SpaceID == spaceID &&
			b.Status == domain.BookingPending &&
			b.PaymentStatus == domain.PaymentStatePending &&
			b.TotalAmount.Equal(decimal.RequireFromString("20.00"))
	})).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(user, nil)
	suite.mockProvider.On("CreatePaymentIntent", ctx, int64(2000), "usd", "cus_123", mock.Anything).
		Return(&portssvc.PaymentIntent{ID: "pi_new", ClientSecret: "pi_new_secret"}, nil).Once()
	suite.mockPaymentRepo.On("SavePayment", ctx, mock.MatchedBy(func(p domain.Payment) bool {
		return p.Status == domain.PaymentPending &&
			p.Method == domain.PaymentMethodCard &&
			p.ProviderPaymentID == "pi_new" &&
			p.Amount.Equal(decimal.RequireFromString("20.00"))
	})).Return(nil).Once()

	result, err := suite.service.CreateBooking(ctx, userID, dto.CreateBookingRequest{
		SpaceID:       spaceID,
		StartTime:     start,
		EndTime:       end,
		PaymentMethod: "card",
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.NotEmpty(result.Booking.BookingID)
	suite.Equal(domain.BookingPending, result.Booking.Status)
	suite.Equal("pi_new_secret", result.ClientSecret)
	suite.Empty(result.RecurringCreated)
	suite.Empty(result.RecurringSkipped)
	suite.mockBookingRepo.AssertExpectations(suite.T())
	suite.mockProvider.AssertExpectations(suite.T())
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *BookingServiceTestSuite) TestCreateBooking_CashSkipsProvider() {
	ctx := context.Background()
	userID := uuid.NewString()
	spaceID := uuid.NewString()
	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)

	suite.mockSpaceRepo.On("FindSpaceByID", ctx, spaceID).Return(testSpace(spaceID, "10.00"), nil)
	suite.mockBookingRepo.On("CreateBookingChecked", ctx, mock.AnythingOfType("domain.Booking")).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(quietUser(userID), nil).Maybe()

	result, err := suite.service.CreateBooking(ctx, userID, dto.CreateBookingRequest{
		SpaceID:       spaceID,
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		PaymentMethod: "cash",
	})

	suite.Require().NoError(err)
	suite.Empty(result.ClientSecret)
	suite.mockProvider.AssertNotCalled(suite.T(), "CreatePaymentIntent")
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SavePayment")
}

func (suite *BookingServiceTestSuite) TestCreateBooking_SlotTaken() {
	ctx := context.Background()
	userID := uuid.NewString()
	spaceID := uuid.NewString()
	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)

	suite.mockSpaceRepo.On("FindSpaceByID", ctx, spaceID).Return(testSpace(spaceID, "10.00"), nil)
	suite.mockBookingRepo.On("CreateBookingChecked", ctx, mock.AnythingOfType("domain.Booking")).Return(apperrors.ErrConflict).Once()

	result, err := suite.service.CreateBooking(ctx, userID, dto.CreateBookingRequest{
		SpaceID:       spaceID,
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		PaymentMethod: "card",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(result)
}

func (suite *BookingServiceTestSuite) TestCreateBooking_ExceedsMaxDuration() {
	ctx := context.Background()
	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)

	result, err := suite.service.CreateBooking(ctx, uuid.NewString(), dto.CreateBookingRequest{
		SpaceID:       uuid.NewString(),
		StartTime:     start,
		EndTime:       start.Add(10 * time.Hour),
		PaymentMethod: "card",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(result)
	suite.mockSpaceRepo.AssertNotCalled(suite.T(), "FindSpaceByID")
}

func (suite *BookingServiceTestSuite) TestCreateBooking_UnavailableSpace() {
	ctx := context.Background()
	spaceID := uuid.NewString()
	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)

	space := testSpace(spaceID, "10.00")
	space.Status = domain.SpaceMaintenance
	suite.mockSpaceRepo.On("FindSpaceByID", ctx, spaceID).Return(space, nil)

	result, err := suite.service.CreateBooking(ctx, uuid.NewString(), dto.CreateBookingRequest{
		SpaceID:       spaceID,
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		PaymentMethod: "cash",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(result)
	suite.mockBookingRepo.AssertNotCalled(suite.T(), "CreateBookingChecked")
}

func (suite *BookingServiceTestSuite) TestCreateBooking_RecurringSkipsTakenSlots() {
	ctx := context.Background()
	userID := uuid.NewString()
	spaceID := uuid.NewString()
	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	end := start.Add(2 * time.Hour)
	takenStart := start.AddDate(0, 0, 7)

	suite.mockSpaceRepo.On("FindSpaceByID", ctx, spaceID).Return(testSpace(spaceID, "10.00"), nil)
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(quietUser(userID), nil).Maybe()

	var created []domain.Booking
	suite.mockBookingRepo.CreateBookingCheckedFn = func(ctx context.Context, booking domain.Booking) error {
		if booking.StartTime.Equal(takenStart) {
			return apperrors.ErrConflict
		}
		created = append(created, booking)
		return nil
	}

	// Weekly on the first occurrence's weekday for two more weeks: siblings at
	// +7d and +14d, with the +7d slot already taken.
	result, err := suite.service.CreateBooking(ctx, userID, dto.CreateBookingRequest{
		SpaceID:       spaceID,
		StartTime:     start,
		EndTime:       end,
		PaymentMethod: "cash",
		Recurrence: &dto.RecurrenceRequest{
			DaysOfWeek: []int{int(start.Weekday())},
			EndDate:    start.AddDate(0, 0, 14),
		},
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Require().NotNil(result.Booking.RecurringGroupID)
	suite.Len(result.RecurringCreated, 1)
	suite.Len(result.RecurringSkipped, 1)
	suite.True(result.RecurringSkipped[0].Equal(takenStart))
	suite.True(result.RecurringCreated[0].StartTime.Equal(start.AddDate(0, 0, 14)))
	suite.Equal(result.Booking.RecurringGroupID, result.RecurringCreated[0].RecurringGroupID)
	suite.Len(created, 2)
}

// --- CancelBooking Tests ---

func (suite *BookingServiceTestSuite) paidBooking(userID string, startsIn time.Duration, amount string) *domain.Booking {
	start := time.Now().UTC().Add(startsIn)
	return &domain.Booking{
		BookingID:     uuid.NewString(),
		UserID:        userID,
		SpaceID:       uuid.NewString(),
		StartTime:     start,
		EndTime:       start.Add(2 * time.Hour),
		Status:        domain.BookingConfirmed,
		PaymentStatus: domain.PaymentStatePaid,
		PaymentMethod: domain.PaymentMethodCard,
		TotalAmount:   decimal.RequireFromString(amount),
	}
}

func (suite *BookingServiceTestSuite) TestCancelBooking_FullRefund() {
	ctx := context.Background()
	userID := uuid.NewString()
	booking := suite.paidBooking(userID, 48*time.Hour, "40.00")
	payment := domain.Payment{
		PaymentID:         uuid.NewString(),
		BookingID:         booking.BookingID,
		UserID:            userID,
		Amount:            booking.TotalAmount,
		Status:            domain.PaymentSucceeded,
		Method:            domain.PaymentMethodCard,
		ProviderPaymentID: "pi_123",
	}

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)
	suite.mockPaymentRepo.On("FindPaymentsByBookingID", ctx, booking.BookingID).Return([]domain.Payment{payment}, nil)
	// The cancellation and the refunded payment persist in one transaction,
	// before any provider call.
	suite.mockBookingRepo.On("CancelBookingAtomic", ctx, mock.MatchedBy(func(b domain.Booking) bool {
		return b.Status == domain.BookingCancelled && b.PaymentStatus == domain.PaymentStateRefunded && b.CancelledAt != nil
	}), mock.MatchedBy(func(p *domain.Payment) bool {
		return p != nil && p.Status == domain.PaymentRefunded &&
			p.RefundAmount != nil && p.RefundAmount.Equal(decimal.RequireFromString("40.00"))
	})).Return(0, nil).Once()
	suite.mockProvider.On("CreateRefund", ctx, "pi_123", int64(4000), "plans changed").Return("re_123", nil).Once()
	suite.mockPaymentRepo.On("UpdatePayment", ctx, mock.MatchedBy(func(p domain.Payment) bool {
		return p.ProviderRefundID == "re_123"
	})).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(quietUser(userID), nil).Maybe()

	result, err := suite.service.CancelBooking(ctx, booking.BookingID, userID, false, dto.CancelBookingRequest{Reason: "plans changed"})

	suite.Require().NoError(err)
	suite.True(result.RefundAmount.Equal(decimal.RequireFromString("40.00")))
	suite.mockProvider.AssertExpectations(suite.T())
	suite.mockPaymentRepo.AssertExpectations(suite.T())
	suite.mockBookingRepo.AssertExpectations(suite.T())
	suite.mockBookingRepo.AssertNotCalled(suite.T(), "UpdateBooking")
}

func (suite *BookingServiceTestSuite) TestCancelBooking_ProviderFailureKeepsCancellation() {
	ctx := context.Background()
	userID := uuid.NewString()
	booking := suite.paidBooking(userID, 48*time.Hour, "40.00")
	payment := domain.Payment{
		PaymentID:         uuid.NewString(),
		BookingID:         booking.BookingID,
		UserID:            userID,
		Amount:            booking.TotalAmount,
		Status:            domain.PaymentSucceeded,
		Method:            domain.PaymentMethodCard,
		ProviderPaymentID: "pi_789",
	}

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)
	suite.mockPaymentRepo.On("FindPaymentsByBookingID", ctx, booking.BookingID).Return([]domain.Payment{payment}, nil)
	suite.mockBookingRepo.On("CancelBookingAtomic", ctx, mock.AnythingOfType("domain.Booking"), mock.Anything).Return(0, nil).Once()
	suite.mockProvider.On("CreateRefund", ctx, "pi_789", int64(4000), "").Return("", errors.New("provider unavailable")).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(quietUser(userID), nil).Maybe()

	// A failed provider call is logged for support; the committed cancellation
	// stands.
	result, err := suite.service.CancelBooking(ctx, booking.BookingID, userID, false, dto.CancelBookingRequest{})

	suite.Require().NoError(err)
	suite.Equal(domain.BookingCancelled, result.Booking.Status)
	suite.True(result.RefundAmount.Equal(decimal.RequireFromString("40.00")))
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "UpdatePayment")
}

func (suite *BookingServiceTestSuite) TestCancelBooking_HalfRefund() {
	ctx := context.Background()
	userID := uuid.NewString()
	booking := suite.paidBooking(userID, 18*time.Hour, "40.00")
	payment := domain.Payment{
		PaymentID:         uuid.NewString(),
		BookingID:         booking.BookingID,
		UserID:            userID,
		Amount:            booking.TotalAmount,
		Status:            domain.PaymentSucceeded,
		Method:            domain.PaymentMethodCard,
		ProviderPaymentID: "pi_456",
	}

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)
	suite.mockPaymentRepo.On("FindPaymentsByBookingID", ctx, booking.BookingID).Return([]domain.Payment{payment}, nil)
	suite.mockBookingRepo.On("CancelBookingAtomic", ctx, mock.AnythingOfType("domain.Booking"), mock.Anything).Return(0, nil).Once()
	suite.mockProvider.On("CreateRefund", ctx, "pi_456", int64(2000), "").Return("re_456", nil).Once()
	suite.mockPaymentRepo.On("UpdatePayment", ctx, mock.AnythingOfType("domain.Payment")).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(quietUser(userID), nil).Maybe()

	result, err := suite.service.CancelBooking(ctx, booking.BookingID, userID, false, dto.CancelBookingRequest{})

	suite.Require().NoError(err)
	suite.True(result.RefundAmount.Equal(decimal.RequireFromString("20.00")))
	suite.mockProvider.AssertExpectations(suite.T())
}

func (suite *BookingServiceTestSuite) TestCancelBooking_NoRefundInsideWindow() {
	ctx := context.Background()
	userID := uuid.NewString()
	booking := suite.paidBooking(userID, 2*time.Hour, "40.00")

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)
	suite.mockBookingRepo.On("CancelBookingAtomic", ctx, mock.MatchedBy(func(b domain.Booking) bool {
		// The payment stays paid; nothing is refunded this close to the start.
		return b.Status == domain.BookingCancelled && b.PaymentStatus == domain.PaymentStatePaid
	}), (*domain.Payment)(nil)).Return(0, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(quietUser(userID), nil).Maybe()

	result, err := suite.service.CancelBooking(ctx, booking.BookingID, userID, false, dto.CancelBookingRequest{})

	suite.Require().NoError(err)
	suite.True(result.RefundAmount.IsZero())
	suite.mockProvider.AssertNotCalled(suite.T(), "CreateRefund")
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "UpdatePayment")
}

func (suite *BookingServiceTestSuite) TestCancelBooking_AlreadyCancelledIsNoOp() {
	ctx := context.Background()
	userID := uuid.NewString()
	booking := suite.paidBooking(userID, 48*time.Hour, "40.00")
	booking.Status = domain.BookingCancelled

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)

	result, err := suite.service.CancelBooking(ctx, booking.BookingID, userID, false, dto.CancelBookingRequest{})

	suite.Require().NoError(err)
	suite.True(result.RefundAmount.IsZero())
	suite.mockBookingRepo.AssertNotCalled(suite.T(), "CancelBookingAtomic")
}

func (suite *BookingServiceTestSuite) TestCancelBooking_CompletedRejected() {
	ctx := context.Background()
	userID := uuid.NewString()
	booking := suite.paidBooking(userID, -72*time.Hour, "40.00")
	booking.Status = domain.BookingCompleted

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)

	result, err := suite.service.CancelBooking(ctx, booking.BookingID, userID, false, dto.CancelBookingRequest{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(result)
}

func (suite *BookingServiceTestSuite) TestCancelBooking_ForbiddenForOtherUser() {
	ctx := context.Background()
	booking := suite.paidBooking(uuid.NewString(), 48*time.Hour, "40.00")

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)

	result, err := suite.service.CancelBooking(ctx, booking.BookingID, uuid.NewString(), false, dto.CancelBookingRequest{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(result)
}

func (suite *BookingServiceTestSuite) TestCancelBooking_CascadesToFutureSiblings() {
	ctx := context.Background()
	userID := uuid.NewString()
	booking := suite.paidBooking(userID, 48*time.Hour, "40.00")
	booking.PaymentStatus = domain.PaymentStatePending
	groupID := uuid.NewString()
	booking.RecurringGroupID = &groupID

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)
	// The cascade runs inside the same transaction as the cancellation.
	suite.mockBookingRepo.On("CancelBookingAtomic", ctx, mock.MatchedBy(func(b domain.Booking) bool {
		return b.Status == domain.BookingCancelled &&
			b.RecurringGroupID != nil && *b.RecurringGroupID == groupID &&
			b.CancellationReason == "done with these"
	}), (*domain.Payment)(nil)).Return(3, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(quietUser(userID), nil).Maybe()

	result, err := suite.service.CancelBooking(ctx, booking.BookingID, userID, false, dto.CancelBookingRequest{Reason: "done with these"})

	suite.Require().NoError(err)
	suite.Equal(3, result.CancelledFutures)
	suite.mockBookingRepo.AssertExpectations(suite.T())
	suite.mockBookingRepo.AssertNotCalled(suite.T(), "CancelFutureSiblings")
}

// --- ModifyBooking Tests ---

func (suite *BookingServiceTestSuite) TestModifyBooking_RepricesOnSlotChange() {
	ctx := context.Background()
	userID := uuid.NewString()
	booking := suite.paidBooking(userID, 48*time.Hour, "20.00")
	booking.PaymentStatus = domain.PaymentStatePending
	newEnd := booking.StartTime.Add(4 * time.Hour)

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)
	suite.mockSpaceRepo.On("FindSpaceByID", ctx, booking.SpaceID).Return(testSpace(booking.SpaceID, "10.00"), nil)
	suite.mockBookingRepo.On("UpdateBookingChecked", ctx, mock.MatchedBy(func(b domain.Booking) bool {
		return b.EndTime.Equal(newEnd) && b.TotalAmount.Equal(decimal.RequireFromString("40.00"))
	})).Return(nil).Once()

	result, err := suite.service.ModifyBooking(ctx, booking.BookingID, userID, false, dto.UpdateBookingRequest{EndTime: &newEnd})

	suite.Require().NoError(err)
	suite.True(result.Booking.TotalAmount.Equal(decimal.RequireFromString("40.00")))
	suite.True(result.PriceDelta.Equal(decimal.RequireFromString("20.00")))
	suite.mockBookingRepo.AssertExpectations(suite.T())
	// Nothing was paid yet, so a price change settles nothing.
	suite.mockProvider.AssertNotCalled(suite.T(), "CreatePaymentIntent")
	suite.mockProvider.AssertNotCalled(suite.T(), "CreateRefund")
}

func (suite *BookingServiceTestSuite) TestModifyBooking_PaidIncreaseChargesDifference() {
	ctx := context.Background()
	userID := uuid.NewString()
	booking := suite.paidBooking(userID, 48*time.Hour, "20.00")
	newEnd := booking.StartTime.Add(4 * time.Hour)
	user := quietUser(userID)
	user.StripeCustomerID = "cus_123"

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)
	suite.mockSpaceRepo.On("FindSpaceByID", ctx, booking.SpaceID).Return(testSpace(booking.SpaceID, "10.00"), nil)
	suite.mockBookingRepo.On("UpdateBookingChecked", ctx, mock.MatchedBy(func(b domain.Booking) bool {
		return b.TotalAmount.Equal(decimal.RequireFromString("40.00"))
	})).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(user, nil)
	// Only the 20.00 difference is charged, not the new total.
	suite.mockProvider.On("CreatePaymentIntent", ctx, int64(2000), "usd", "cus_123", mock.Anything).
		Return(&portssvc.PaymentIntent{ID: "pi_delta", ClientSecret: "pi_delta_secret"}, nil).Once()
	suite.mockPaymentRepo.On("SavePayment", ctx, mock.MatchedBy(func(p domain.Payment) bool {
		return p.BookingID == booking.BookingID &&
			p.Status == domain.PaymentPending &&
			p.ProviderPaymentID == "pi_delta" &&
			p.Amount.Equal(decimal.RequireFromString("20.00"))
	})).Return(nil).Once()

	result, err := suite.service.ModifyBooking(ctx, booking.BookingID, userID, false, dto.UpdateBookingRequest{EndTime: &newEnd})

	suite.Require().NoError(err)
	suite.True(result.PriceDelta.Equal(decimal.RequireFromString("20.00")))
	suite.Equal("pi_delta_secret", result.ClientSecret)
	suite.mockProvider.AssertExpectations(suite.T())
	suite.mockPaymentRepo.AssertExpectations(suite.T())
	suite.mockProvider.AssertNotCalled(suite.T(), "CreateRefund")
}

func (suite *BookingServiceTestSuite) TestModifyBooking_PaidDecreaseRefundsDifference() {
	ctx := context.Background()
	userID := uuid.NewString()
	booking := suite.paidBooking(userID, 48*time.Hour, "40.00")
	booking.EndTime = booking.StartTime.Add(4 * time.Hour)
	newEnd := booking.StartTime.Add(2 * time.Hour)
	payment := domain.Payment{
		PaymentID:         uuid.NewString(),
		BookingID:         booking.BookingID,
		UserID:            userID,
		Amount:            booking.TotalAmount,
		Status:            domain.PaymentSucceeded,
		Method:            domain.PaymentMethodCard,
		ProviderPaymentID: "pi_123",
	}

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)
	suite.mockSpaceRepo.On("FindSpaceByID", ctx, booking.SpaceID).Return(testSpace(booking.SpaceID, "10.00"), nil)
	suite.mockBookingRepo.On("UpdateBookingChecked", ctx, mock.MatchedBy(func(b domain.Booking) bool {
		return b.TotalAmount.Equal(decimal.RequireFromString("20.00"))
	})).Return(nil).Once()
	suite.mockPaymentRepo.On("FindPaymentsByBookingID", ctx, booking.BookingID).Return([]domain.Payment{payment}, nil)
	suite.mockProvider.On("CreateRefund", ctx, "pi_123", int64(2000), mock.AnythingOfType("string")).Return("re_123", nil).Once()
	suite.mockPaymentRepo.On("UpdatePayment", ctx, mock.MatchedBy(func(p domain.Payment) bool {
		return p.ProviderRefundID == "re_123" &&
			p.RefundAmount != nil && p.RefundAmount.Equal(decimal.RequireFromString("20.00"))
	})).Return(nil).Once()

	result, err := suite.service.ModifyBooking(ctx, booking.BookingID, userID, false, dto.UpdateBookingRequest{EndTime: &newEnd})

	suite.Require().NoError(err)
	suite.True(result.PriceDelta.Equal(decimal.RequireFromString("-20.00")))
	suite.True(result.RefundAmount.Equal(decimal.RequireFromString("20.00")))
	suite.mockProvider.AssertExpectations(suite.T())
	suite.mockPaymentRepo.AssertExpectations(suite.T())
	suite.mockProvider.AssertNotCalled(suite.T(), "CreatePaymentIntent")
}

func (suite *BookingServiceTestSuite) TestModifyBooking_RegeneratesRecurringSiblings() {
	ctx := context.Background()
	userID := uuid.NewString()
	booking := suite.paidBooking(userID, 48*time.Hour, "20.00")
	booking.PaymentStatus = domain.PaymentStatePending
	groupID := uuid.NewString()
	booking.RecurringGroupID = &groupID

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)
	suite.mockBookingRepo.On("UpdateBooking", ctx, mock.AnythingOfType("domain.Booking")).Return(nil).Once()
	suite.mockBookingRepo.On("CancelFutureSiblings", ctx, groupID, booking.BookingID,
		mock.AnythingOfType("time.Time"), "recurrence updated", userID).Return(2, nil).Once()

	var regenerated []domain.Booking
	suite.mockBookingRepo.CreateBookingCheckedFn = func(ctx context.Context, b domain.Booking) error {
		regenerated = append(regenerated, b)
		return nil
	}

	// Weekly on the base weekday for two more weeks: fresh siblings at +7d and
	// +14d replace the old ones.
	result, err := suite.service.ModifyBooking(ctx, booking.BookingID, userID, false, dto.UpdateBookingRequest{
		Recurrence: &dto.RecurrenceRequest{
			DaysOfWeek: []int{int(booking.StartTime.Weekday())},
			EndDate:    booking.StartTime.AddDate(0, 0, 14),
		},
	})

	suite.Require().NoError(err)
	suite.Len(result.RecurringCreated, 2)
	suite.Len(regenerated, 2)
	for _, sibling := range regenerated {
		suite.Equal(domain.BookingPending, sibling.Status)
		suite.Equal(domain.PaymentStatePending, sibling.PaymentStatus)
		suite.Require().NotNil(sibling.RecurringGroupID)
		suite.Equal(groupID, *sibling.RecurringGroupID)
	}
	suite.True(regenerated[0].StartTime.Equal(booking.StartTime.AddDate(0, 0, 7)))
	suite.True(regenerated[1].StartTime.Equal(booking.StartTime.AddDate(0, 0, 14)))
	suite.mockBookingRepo.AssertExpectations(suite.T())
}

func (suite *BookingServiceTestSuite) TestModifyBooking_RecurrenceRejectedOnSingleBooking() {
	ctx := context.Background()
	userID := uuid.NewString()
	booking := suite.paidBooking(userID, 48*time.Hour, "20.00")

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)

	_, err := suite.service.ModifyBooking(ctx, booking.BookingID, userID, false, dto.UpdateBookingRequest{
		Recurrence: &dto.RecurrenceRequest{
			DaysOfWeek: []int{1},
			EndDate:    booking.StartTime.AddDate(0, 0, 14),
		},
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBookingRepo.AssertNotCalled(suite.T(), "CancelFutureSiblings")
}

func (suite *BookingServiceTestSuite) TestModifyBooking_NotesOnlySkipsOverlapCheck() {
	ctx := context.Background()
	userID := uuid.NewString()
	booking := suite.paidBooking(userID, 48*time.Hour, "20.00")
	notes := "need a standing desk"

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)
	suite.mockBookingRepo.On("UpdateBooking", ctx, mock.MatchedBy(func(b domain.Booking) bool {
		return b.Notes == notes
	})).Return(nil).Once()

	_, err := suite.service.ModifyBooking(ctx, booking.BookingID, userID, false, dto.UpdateBookingRequest{Notes: &notes})

	suite.Require().NoError(err)
	suite.mockBookingRepo.AssertNotCalled(suite.T(), "UpdateBookingChecked")
}

func (suite *BookingServiceTestSuite) TestModifyBooking_RejectsStartedBooking() {
	ctx := context.Background()
	userID := uuid.NewString()
	booking := suite.paidBooking(userID, -time.Hour, "20.00")

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)

	_, err := suite.service.ModifyBooking(ctx, booking.BookingID, userID, false, dto.UpdateBookingRequest{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- AdminUpdateStatus Tests ---

func (suite *BookingServiceTestSuite) TestAdminUpdateStatus_ConfirmPending() {
	ctx := context.Background()
	adminID := uuid.NewString()
	booking := suite.paidBooking(uuid.NewString(), 48*time.Hour, "20.00")
	booking.Status = domain.BookingPending

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)
	suite.mockBookingRepo.On("UpdateBooking", ctx, mock.MatchedBy(func(b domain.Booking) bool {
		return b.Status == domain.BookingConfirmed && b.LastUpdatedBy == adminID
	})).Return(nil).Once()

	updated, err := suite.service.AdminUpdateStatus(ctx, adminID, booking.BookingID, domain.BookingConfirmed)

	suite.Require().NoError(err)
	suite.Equal(domain.BookingConfirmed, updated.Status)
	suite.mockBookingRepo.AssertExpectations(suite.T())
}

func (suite *BookingServiceTestSuite) TestAdminUpdateStatus_IllegalTransition() {
	ctx := context.Background()
	booking := suite.paidBooking(uuid.NewString(), 48*time.Hour, "20.00")
	booking.Status = domain.BookingPending

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)

	_, err := suite.service.AdminUpdateStatus(ctx, uuid.NewString(), booking.BookingID, domain.BookingCompleted)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBookingRepo.AssertNotCalled(suite.T(), "UpdateBooking")
}

// --- Reminder worker Tests ---

func (suite *BookingServiceTestSuite) TestSendDueReminders() {
	ctx := context.Background()
	wantsReminder := quietUser(uuid.NewString())
	wantsReminder.NotificationPreferences.BookingReminders = true
	optedOut := quietUser(uuid.NewString())

	first := suite.paidBooking(wantsReminder.UserID, 6*time.Hour, "20.00")
	second := suite.paidBooking(optedOut.UserID, 8*time.Hour, "20.00")

	suite.mockBookingRepo.On("FindDueReminders", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]domain.Booking{*first, *second}, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, wantsReminder.UserID).Return(wantsReminder, nil)
	suite.mockUserRepo.On("FindUserByID", ctx, optedOut.UserID).Return(optedOut, nil)
	suite.mockSpaceRepo.On("FindSpaceByID", ctx, mock.AnythingOfType("string")).Return(testSpace(first.SpaceID, "10.00"), nil)
	suite.mockMailer.On("Send", ctx, wantsReminder.Email, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil).Once()
	suite.mockBookingRepo.On("MarkReminderSent", ctx, first.BookingID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockBookingRepo.On("MarkReminderSent", ctx, second.BookingID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	sent, err := suite.service.SendDueReminders(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, sent)
	suite.mockMailer.AssertExpectations(suite.T())
	suite.mockBookingRepo.AssertExpectations(suite.T())
}

func TestBookingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BookingServiceTestSuite))
}
