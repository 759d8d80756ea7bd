package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/CoWorkHub/coworking_booking_app/internal/apperrors"
	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
	portssvc "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/services"
	"github.com/CoWorkHub/coworking_booking_app/internal/core/services"
)

type PaymentServiceTestSuite struct {
	suite.Suite
	mockPaymentRepo *MockPaymentRepository
	mockBookingRepo *MockBookingRepository
	mockUserRepo    *MockUserRepository
	mockSpaceRepo   *MockSpaceRepository
	mockProvider    *MockPaymentProvider
	stubActivity    *StubActivityService
	mockMailer      *MockEmailSender
	service         portssvc.PaymentSvcFacade
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockBookingRepo = new(MockBookingRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockSpaceRepo = new(MockSpaceRepository)
	suite.mockProvider = new(MockPaymentProvider)
	suite.stubActivity = new(StubActivityService)
	suite.mockMailer = new(MockEmailSender)
	suite.service = services.NewPaymentService(
		suite.mockPaymentRepo,
		suite.mockBookingRepo,
		suite.mockUserRepo,
		suite.mockSpaceRepo,
		suite.mockProvider,
		suite.stubActivity,
		suite.mockMailer,
		nil,
	)
}

func pendingCardBooking(userID string) *domain.Booking {
	start := time.Now().UTC().Add(48 * time.Hour)
	return &domain.Booking{
		BookingID:     uuid.NewString(),
		UserID:        userID,
		SpaceID:       uuid.NewString(),
		StartTime:     start,
		EndTime:       start.Add(2 * time.Hour),
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentStatePending,
		PaymentMethod: domain.PaymentMethodCard,
		TotalAmount:   decimal.RequireFromString("25.50"),
	}
}

// --- CreatePaymentIntent Tests ---

func (suite *PaymentServiceTestSuite) TestCreatePaymentIntent_RegistersCustomerOnFirstPayment() {
	ctx := context.Background()
	userID := uuid.NewString()
	booking := pendingCardBooking(userID)
	user := quietUser(userID)

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(user, nil)
	suite.mockProvider.On("CreateCustomer", ctx, user.Email, user.Username).Return("cus_42", nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.StripeCustomerID == "cus_42"
	})).Return(nil).Once()
	suite.mockProvider.On("CreatePaymentIntent", ctx, int64(2550), "usd", "cus_42", map[string]string{
		"bookingID": booking.BookingID,
		"userID":    userID,
	}).Return(&portssvc.PaymentIntent{ID: "pi_789", ClientSecret: "pi_789_secret"}, nil).Once()
	suite.mockPaymentRepo.On("SavePayment", ctx, mock.MatchedBy(func(p domain.Payment) bool {
		return p.BookingID == booking.BookingID &&
			p.Status == domain.PaymentPending &&
			p.ProviderPaymentID == "pi_789" &&
			p.Amount.Equal(booking.TotalAmount)
	})).Return(nil).Once()

	resp, err := suite.service.CreatePaymentIntent(ctx, userID, booking.BookingID)

	suite.Require().NoError(err)
	suite.Equal("pi_789_secret", resp.ClientSecret)
	suite.True(resp.Amount.Equal(decimal.RequireFromString("25.50")))
	suite.mockProvider.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestCreatePaymentIntent_ReusesExistingCustomer() {
	ctx := context.Background()
	userID := uuid.NewString()
	booking := pendingCardBooking(userID)
	user := quietUser(userID)
	user.StripeCustomerID = "cus_existing"

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(user, nil)
	suite.mockProvider.On("CreatePaymentIntent", ctx, int64(2550), "usd", "cus_existing", mock.Anything).
		Return(&portssvc.PaymentIntent{ID: "pi_1", ClientSecret: "sec_1"}, nil).Once()
	suite.mockPaymentRepo.On("SavePayment", ctx, mock.AnythingOfType("domain.Payment")).Return(nil).Once()

	_, err := suite.service.CreatePaymentIntent(ctx, userID, booking.BookingID)

	suite.Require().NoError(err)
	suite.mockProvider.AssertNotCalled(suite.T(), "CreateCustomer")
}

func (suite *PaymentServiceTestSuite) TestCreatePaymentIntent_RejectsCashBooking() {
	ctx := context.Background()
	userID := uuid.NewString()
	booking := pendingCardBooking(userID)
	booking.PaymentMethod = domain.PaymentMethodCash

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)

	_, err := suite.service.CreatePaymentIntent(ctx, userID, booking.BookingID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PaymentServiceTestSuite) TestCreatePaymentIntent_RejectsOtherUsersBooking() {
	ctx := context.Background()
	booking := pendingCardBooking(uuid.NewString())

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)

	_, err := suite.service.CreatePaymentIntent(ctx, uuid.NewString(), booking.BookingID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

// --- HandleProviderEvent Tests ---

func (suite *PaymentServiceTestSuite) TestHandleProviderEvent_SucceededConfirmsBooking() {
	ctx := context.Background()
	userID := uuid.NewString()
	booking := pendingCardBooking(userID)
	payment := &domain.Payment{
		PaymentID:         uuid.NewString(),
		BookingID:         booking.BookingID,
		UserID:            userID,
		Amount:            booking.TotalAmount,
		Status:            domain.PaymentPending,
		Method:            domain.PaymentMethodCard,
		ProviderPaymentID: "pi_ok",
	}

	suite.mockPaymentRepo.On("FindPaymentByProviderID", ctx, "pi_ok").Return(payment, nil)
	suite.mockPaymentRepo.On("UpdatePayment", ctx, mock.MatchedBy(func(p domain.Payment) bool {
		return p.Status == domain.PaymentSucceeded && p.PaidAt != nil
	})).Return(nil).Once()
	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)
	suite.mockBookingRepo.On("UpdateBooking", ctx, mock.MatchedBy(func(b domain.Booking) bool {
		return b.Status == domain.BookingConfirmed && b.PaymentStatus == domain.PaymentStatePaid
	})).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(quietUser(userID), nil).Maybe()

	err := suite.service.HandleProviderEvent(ctx, portssvc.ProviderEvent{
		Type:              portssvc.EventPaymentSucceeded,
		ProviderPaymentID: "pi_ok",
	})

	suite.Require().NoError(err)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
	suite.mockBookingRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestHandleProviderEvent_ReplayIsIdempotent() {
	ctx := context.Background()
	paidAt := time.Now().UTC()
	payment := &domain.Payment{
		PaymentID:         uuid.NewString(),
		BookingID:         uuid.NewString(),
		UserID:            uuid.NewString(),
		Status:            domain.PaymentSucceeded,
		ProviderPaymentID: "pi_replay",
		PaidAt:            &paidAt,
	}

	suite.mockPaymentRepo.On("FindPaymentByProviderID", ctx, "pi_replay").Return(payment, nil)

	err := suite.service.HandleProviderEvent(ctx, portssvc.ProviderEvent{
		Type:              portssvc.EventPaymentSucceeded,
		ProviderPaymentID: "pi_replay",
	})

	suite.Require().NoError(err)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "UpdatePayment")
	suite.mockBookingRepo.AssertNotCalled(suite.T(), "UpdateBooking")
}

func (suite *PaymentServiceTestSuite) TestHandleProviderEvent_UnknownPaymentIgnored() {
	ctx := context.Background()

	suite.mockPaymentRepo.On("FindPaymentByProviderID", ctx, "pi_mystery").Return(nil, apperrors.ErrNotFound)

	err := suite.service.HandleProviderEvent(ctx, portssvc.ProviderEvent{
		Type:              portssvc.EventPaymentSucceeded,
		ProviderPaymentID: "pi_mystery",
	})

	suite.Require().NoError(err)
}

func (suite *PaymentServiceTestSuite) TestHandleProviderEvent_FailureRecorded() {
	ctx := context.Background()
	userID := uuid.NewString()
	booking := pendingCardBooking(userID)
	payment := &domain.Payment{
		PaymentID:         uuid.NewString(),
		BookingID:         booking.BookingID,
		UserID:            userID,
		Status:            domain.PaymentPending,
		Method:            domain.PaymentMethodCard,
		ProviderPaymentID: "pi_bad",
	}

	suite.mockPaymentRepo.On("FindPaymentByProviderID", ctx, "pi_bad").Return(payment, nil)
	suite.mockPaymentRepo.On("UpdatePayment", ctx, mock.MatchedBy(func(p domain.Payment) bool {
		return p.Status == domain.PaymentFailed && p.Description == "card declined"
	})).Return(nil).Once()
	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)
	suite.mockBookingRepo.On("UpdateBooking", ctx, mock.MatchedBy(func(b domain.Booking) bool {
		return b.Status == domain.BookingPending && b.PaymentStatus == domain.PaymentStateFailed
	})).Return(nil).Once()

	err := suite.service.HandleProviderEvent(ctx, portssvc.ProviderEvent{
		Type:              portssvc.EventPaymentFailed,
		ProviderPaymentID: "pi_bad",
		FailureMessage:    "card declined",
	})

	suite.Require().NoError(err)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

// --- MarkBookingPaid Tests ---

func (suite *PaymentServiceTestSuite) TestMarkBookingPaid_RecordsCashPayment() {
	ctx := context.Background()
	adminID := uuid.NewString()
	userID := uuid.NewString()
	booking := pendingCardBooking(userID)
	booking.PaymentMethod = domain.PaymentMethodCash

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)
	suite.mockPaymentRepo.On("SavePayment", ctx, mock.MatchedBy(func(p domain.Payment) bool {
		return p.Method == domain.PaymentMethodCash &&
			p.Status == domain.PaymentSucceeded &&
			p.CreatedBy == adminID
	})).Return(nil).Once()
	suite.mockBookingRepo.On("UpdateBooking", ctx, mock.MatchedBy(func(b domain.Booking) bool {
		return b.Status == domain.BookingConfirmed && b.PaymentStatus == domain.PaymentStatePaid
	})).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(quietUser(userID), nil).Maybe()

	payment, err := suite.service.MarkBookingPaid(ctx, adminID, booking.BookingID, "paid at front desk")

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentSucceeded, payment.Status)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestMarkBookingPaid_AlreadyPaid() {
	ctx := context.Background()
	booking := pendingCardBooking(uuid.NewString())
	booking.PaymentStatus = domain.PaymentStatePaid

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil)

	_, err := suite.service.MarkBookingPaid(ctx, uuid.NewString(), booking.BookingID, "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

// --- RefundPayment Tests ---

func (suite *PaymentServiceTestSuite) TestRefundPayment_PartialCardRefund() {
	ctx := context.Background()
	adminID := uuid.NewString()
	payment := &domain.Payment{
		PaymentID:         uuid.NewString(),
		BookingID:         uuid.NewString(),
		UserID:            uuid.NewString(),
		Amount:            decimal.RequireFromString("50.00"),
		Status:            domain.PaymentSucceeded,
		Method:            domain.PaymentMethodCard,
		ProviderPaymentID: "pi_part",
	}
	partial := decimal.RequireFromString("12.50")

	suite.mockPaymentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil)
	suite.mockProvider.On("CreateRefund", ctx, "pi_part", int64(1250), "goodwill").Return("re_part", nil).Once()
	suite.mockPaymentRepo.On("UpdatePayment", ctx, mock.MatchedBy(func(p domain.Payment) bool {
		return p.Status == domain.PaymentRefunded &&
			p.RefundAmount != nil && p.RefundAmount.Equal(partial) &&
			p.ProviderRefundID == "re_part"
	})).Return(nil).Once()

	refunded, err := suite.service.RefundPayment(ctx, adminID, payment.PaymentID, &partial, "goodwill")

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentRefunded, refunded.Status)
	// A partial refund leaves the booking's payment state untouched.
	suite.mockBookingRepo.AssertNotCalled(suite.T(), "UpdateBooking")
	suite.mockProvider.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestRefundPayment_RejectsOverRefund() {
	ctx := context.Background()
	payment := &domain.Payment{
		PaymentID: uuid.NewString(),
		Amount:    decimal.RequireFromString("10.00"),
		Status:    domain.PaymentSucceeded,
		Method:    domain.PaymentMethodCard,
	}
	tooMuch := decimal.RequireFromString("10.01")

	suite.mockPaymentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil)

	_, err := suite.service.RefundPayment(ctx, uuid.NewString(), payment.PaymentID, &tooMuch, "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProvider.AssertNotCalled(suite.T(), "CreateRefund")
}

func (suite *PaymentServiceTestSuite) TestRefundPayment_RejectsPendingPayment() {
	ctx := context.Background()
	payment := &domain.Payment{
		PaymentID: uuid.NewString(),
		Amount:    decimal.RequireFromString("10.00"),
		Status:    domain.PaymentPending,
	}

	suite.mockPaymentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil)

	_, err := suite.service.RefundPayment(ctx, uuid.NewString(), payment.PaymentID, nil, "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
