package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/CoWorkHub/coworking_booking_app/internal/apperrors"
	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
	portsrepo "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/repositories"
	portssvc "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/services"
	"github.com/CoWorkHub/coworking_booking_app/internal/dto"
	"github.com/CoWorkHub/coworking_booking_app/internal/middleware"
	"github.com/CoWorkHub/coworking_booking_app/internal/utils"
)

// paymentCurrency is the platform's charging currency.
const paymentCurrency = "usd"

type paymentService struct {
	payments portsrepo.PaymentRepositoryFacade
	bookings portsrepo.BookingRepositoryFacade
	users    portsrepo.UserRepositoryFacade
	spaces   portsrepo.SpaceRepositoryFacade
	provider portssvc.PaymentProvider
	activity portssvc.ActivitySvcFacade
	mailer   portssvc.EmailSender
	posthog  *utils.PosthogClientWrapper

	now func() time.Time
}

// NewPaymentService creates the payment flow service.
func NewPaymentService(
	payments portsrepo.PaymentRepositoryFacade,
	bookings portsrepo.BookingRepositoryFacade,
	users portsrepo.UserRepositoryFacade,
	spaces portsrepo.SpaceRepositoryFacade,
	provider portssvc.PaymentProvider,
	activity portssvc.ActivitySvcFacade,
	mailer portssvc.EmailSender,
	posthog *utils.PosthogClientWrapper,
) portssvc.PaymentSvcFacade {
	return &paymentService{
		payments: payments,
		bookings: bookings,
		users:    users,
		spaces:   spaces,
		provider: provider,
		activity: activity,
		mailer:   mailer,
		posthog:  posthog,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

func (s *paymentService) GetPaymentByID(ctx context.Context, paymentID string, requestingUserID string, isAdmin bool) (*domain.Payment, error) {
	payment, err := s.payments.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && payment.UserID != requestingUserID {
		return nil, apperrors.ErrForbidden
	}
	return payment, nil
}

func (s *paymentService) ListUserPayments(ctx context.Context, userID string, params dto.ListPaymentsParams) ([]domain.Payment, int, error) {
	filter := portsrepo.ListPaymentsFilter{
		UserID: userID,
		Status: params.Status,
		Method: params.Method,
		From:   params.From,
		To:     params.To,
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	return s.findAndCount(ctx, filter)
}

func (s *paymentService) ListAllPayments(ctx context.Context, params dto.ListPaymentsParams) ([]domain.Payment, int, error) {
	filter := portsrepo.ListPaymentsFilter{
		UserID: params.UserID,
		Status: params.Status,
		Method: params.Method,
		From:   params.From,
		To:     params.To,
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	return s.findAndCount(ctx, filter)
}

func (s *paymentService) findAndCount(ctx context.Context, filter portsrepo.ListPaymentsFilter) ([]domain.Payment, int, error) {
	payments, err := s.payments.FindPayments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	total, err := s.payments.CountPayments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}
	return payments, total, nil
}

func (s *paymentService) CreatePaymentIntent(ctx context.Context, userID string, bookingID string) (*dto.CreatePaymentIntentResponse, error) {
	booking, err := s.bookings.FindBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	if booking.PaymentMethod != domain.PaymentMethodCard {
		return nil, fmt.Errorf("%w: booking is not payable by card", apperrors.ErrValidation)
	}
	if booking.PaymentStatus != domain.PaymentStatePending {
		return nil, fmt.Errorf("%w: booking payment is already %s", apperrors.ErrConflict, booking.PaymentStatus)
	}

	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Lazily register the Stripe customer on first card payment.
	if user.StripeCustomerID == "" {
		customerID, err := s.provider.CreateCustomer(ctx, user.Email, user.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to create provider customer: %w", err)
		}
		user.StripeCustomerID = customerID
		user.LastUpdatedAt = s.now()
		user.LastUpdatedBy = userID
		if err := s.users.UpdateUser(ctx, *user); err != nil {
			return nil, err
		}
	}

	intent, err := s.provider.CreatePaymentIntent(ctx, toMinorUnits(booking.TotalAmount), paymentCurrency, user.StripeCustomerID, map[string]string{
		"bookingID": booking.BookingID,
		"userID":    userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	now := s.now()
	payment := domain.Payment{
		PaymentID:         uuid.NewString(),
		BookingID:         booking.BookingID,
		UserID:            userID,
		Amount:            booking.TotalAmount,
		Currency:          paymentCurrency,
		Status:            domain.PaymentPending,
		Method:            domain.PaymentMethodCard,
		ProviderPaymentID: intent.ID,
		Description:       fmt.Sprintf("Booking %s", booking.BookingID),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.payments.SavePayment(ctx, payment); err != nil {
		return nil, err
	}

	return &dto.CreatePaymentIntentResponse{
		PaymentID:    payment.PaymentID,
		ClientSecret: intent.ClientSecret,
		Amount:       payment.Amount,
		Currency:     payment.Currency,
	}, nil
}

func (s *paymentService) HandleProviderEvent(ctx context.Context, event portssvc.ProviderEvent) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.payments.FindPaymentByProviderID(ctx, event.ProviderPaymentID)
	if err != nil {
		// Events for payments this service never created are acknowledged and
		// dropped, so the provider stops retrying.
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("webhook for unknown payment", "provider_payment_id", event.ProviderPaymentID)
			return nil
		}
		return err
	}

	switch event.Type {
	case portssvc.EventPaymentSucceeded:
		return s.applyPaymentSucceeded(ctx, payment)
	case portssvc.EventPaymentFailed:
		return s.applyPaymentFailed(ctx, payment, event.FailureMessage)
	default:
		logger.Info("ignoring webhook event", "type", event.Type)
		return nil
	}
}

func (s *paymentService) applyPaymentSucceeded(ctx context.Context, payment *domain.Payment) error {
	// Replayed webhooks must not double-apply.
	if payment.Status == domain.PaymentSucceeded {
		return nil
	}

	now := s.now()
	payment.Status = domain.PaymentSucceeded
	payment.PaidAt = &now
	payment.LastUpdatedAt = now
	payment.LastUpdatedBy = "system"
	if err := s.payments.UpdatePayment(ctx, *payment); err != nil {
		return err
	}

	booking, err := s.bookings.FindBookingByID(ctx, payment.BookingID)
	if err != nil {
		return err
	}
	if booking.Status == domain.BookingPending {
		booking.Status = domain.BookingConfirmed
	}
	booking.PaymentStatus = domain.PaymentStatePaid
	booking.LastUpdatedAt = now
	booking.LastUpdatedBy = "system"
	if err := s.bookings.UpdateBooking(ctx, *booking); err != nil {
		return err
	}

	s.activity.Record(ctx, payment.UserID, domain.ActivityPayment, "Payment succeeded",
		map[string]any{"paymentID": payment.PaymentID, "amount": payment.Amount.String()})
	s.posthog.Enqueue(payment.UserID, "payment_succeeded", map[string]any{"amount": payment.Amount.InexactFloat64()})
	s.sendReceipt(ctx, payment, booking)
	return nil
}

func (s *paymentService) applyPaymentFailed(ctx context.Context, payment *domain.Payment, failureMessage string) error {
	if payment.Status == domain.PaymentFailed {
		return nil
	}

	now := s.now()
	payment.Status = domain.PaymentFailed
	if failureMessage != "" {
		payment.Description = failureMessage
	}
	payment.LastUpdatedAt = now
	payment.LastUpdatedBy = "system"
	if err := s.payments.UpdatePayment(ctx, *payment); err != nil {
		return err
	}

	booking, err := s.bookings.FindBookingByID(ctx, payment.BookingID)
	if err != nil {
		return err
	}
	booking.PaymentStatus = domain.PaymentStateFailed
	booking.LastUpdatedAt = now
	booking.LastUpdatedBy = "system"
	if err := s.bookings.UpdateBooking(ctx, *booking); err != nil {
		return err
	}

	s.activity.Record(ctx, payment.UserID, domain.ActivityPayment, "Payment failed",
		map[string]any{"paymentID": payment.PaymentID, "reason": failureMessage})
	return nil
}

func (s *paymentService) MarkBookingPaid(ctx context.Context, adminID string, bookingID string, notes string) (*domain.Payment, error) {
	booking, err := s.bookings.FindBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.PaymentStatus == domain.PaymentStatePaid {
		return nil, fmt.Errorf("%w: booking is already paid", apperrors.ErrConflict)
	}
	if booking.Status == domain.BookingCancelled {
		return nil, fmt.Errorf("%w: cancelled bookings cannot be marked paid", apperrors.ErrValidation)
	}

	now := s.now()
	payment := domain.Payment{
		PaymentID:   uuid.NewString(),
		BookingID:   booking.BookingID,
		UserID:      booking.UserID,
		Amount:      booking.TotalAmount,
		Currency:    paymentCurrency,
		Status:      domain.PaymentSucceeded,
		Method:      domain.PaymentMethodCash,
		Description: notes,
		PaidAt:      &now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     adminID,
			LastUpdatedAt: now,
			LastUpdatedBy: adminID,
		},
	}
	if err := s.payments.SavePayment(ctx, payment); err != nil {
		return nil, err
	}

	if booking.Status == domain.BookingPending {
		booking.Status = domain.BookingConfirmed
	}
	booking.PaymentStatus = domain.PaymentStatePaid
	booking.LastUpdatedAt = now
	booking.LastUpdatedBy = adminID
	if err := s.bookings.UpdateBooking(ctx, *booking); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, booking.UserID, domain.ActivityPayment, "Cash payment recorded",
		map[string]any{"paymentID": payment.PaymentID, "adminID": adminID})
	s.sendReceipt(ctx, &payment, booking)
	return &payment, nil
}

func (s *paymentService) RefundPayment(ctx context.Context, adminID string, paymentID string, amount *decimal.Decimal, reason string) (*domain.Payment, error) {
	payment, err := s.payments.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.PaymentSucceeded {
		return nil, fmt.Errorf("%w: only succeeded payments can be refunded", apperrors.ErrValidation)
	}

	refund := payment.Amount
	if amount != nil {
		if !amount.IsPositive() || amount.GreaterThan(payment.Amount) {
			return nil, fmt.Errorf("%w: refund amount must be positive and at most the paid amount", apperrors.ErrValidation)
		}
		refund = *amount
	}

	if payment.Method == domain.PaymentMethodCard && payment.ProviderPaymentID != "" {
		refundID, err := s.provider.CreateRefund(ctx, payment.ProviderPaymentID, toMinorUnits(refund), reason)
		if err != nil {
			return nil, fmt.Errorf("provider refund failed: %w", err)
		}
		payment.ProviderRefundID = refundID
	}

	now := s.now()
	payment.Status = domain.PaymentRefunded
	payment.RefundAmount = &refund
	payment.RefundReason = reason
	payment.RefundedAt = &now
	payment.LastUpdatedAt = now
	payment.LastUpdatedBy = adminID
	if err := s.payments.UpdatePayment(ctx, *payment); err != nil {
		return nil, err
	}

	// A full refund also flips the booking's payment state.
	if refund.Equal(payment.Amount) {
		if booking, err := s.bookings.FindBookingByID(ctx, payment.BookingID); err == nil {
			booking.PaymentStatus = domain.PaymentStateRefunded
			booking.LastUpdatedAt = now
			booking.LastUpdatedBy = adminID
			if err := s.bookings.UpdateBooking(ctx, *booking); err != nil {
				middleware.GetLoggerFromCtx(ctx).Error("failed to update booking after refund",
					"booking_id", booking.BookingID, "error", err)
			}
		}
	}

	s.activity.Record(ctx, payment.UserID, domain.ActivityPayment, "Payment refunded",
		map[string]any{"paymentID": payment.PaymentID, "amount": refund.String(), "adminID": adminID})
	return payment, nil
}

// sendReceipt emails a payment receipt off the request path, honoring the
// user's payment notification preference.
func (s *paymentService) sendReceipt(ctx context.Context, payment *domain.Payment, booking *domain.Booking) {
	logger := middleware.GetLoggerFromCtx(ctx)
	user, err := s.users.FindUserByID(ctx, payment.UserID)
	if err != nil {
		logger.Warn("skipping receipt, user lookup failed", "user_id", payment.UserID, "error", err)
		return
	}
	if !user.NotificationPreferences.PaymentReminders {
		return
	}

	spaceName := booking.SpaceID
	if space, err := s.spaces.FindSpaceByID(ctx, booking.SpaceID); err == nil {
		spaceName = space.Name
	}
	body := fmt.Sprintf("<p>Payment of %s %s received for your booking of %s starting %s.</p>",
		payment.Amount.StringFixed(2), payment.Currency, spaceName,
		booking.StartTime.Format("Mon, 02 Jan 2006 15:04"))

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.Send(sendCtx, user.Email, "Payment receipt", body); err != nil {
			logger.Error("failed to send receipt", "to", user.Email, "error", err)
		}
	}()
}
