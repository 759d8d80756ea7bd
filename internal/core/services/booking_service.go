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
	"github.com/CoWorkHub/coworking_booking_app/internal/utils/schedule"
)

// reminderWindow is how far ahead of a booking's start the reminder email is
// sent.
const reminderWindow = 24 * time.Hour

type bookingService struct {
	bookings portsrepo.BookingRepositoryFacade
	spaces   portsrepo.SpaceRepositoryFacade
	users    portsrepo.UserRepositoryFacade
	payments portsrepo.PaymentRepositoryFacade
	provider portssvc.PaymentProvider
	settings portssvc.SettingsSvcFacade
	activity portssvc.ActivitySvcFacade
	mailer   portssvc.EmailSender
	posthog  *utils.PosthogClientWrapper

	// now is swappable in tests.
	now func() time.Time
}

// NewBookingService creates the booking lifecycle service.
func NewBookingService(
	bookings portsrepo.BookingRepositoryFacade,
	spaces portsrepo.SpaceRepositoryFacade,
	users portsrepo.UserRepositoryFacade,
	payments portsrepo.PaymentRepositoryFacade,
	provider portssvc.PaymentProvider,
	settings portssvc.SettingsSvcFacade,
	activity portssvc.ActivitySvcFacade,
	mailer portssvc.EmailSender,
	posthog *utils.PosthogClientWrapper,
) portssvc.BookingSvcFacade {
	return &bookingService{
		bookings: bookings,
		spaces:   spaces,
		users:    users,
		payments: payments,
		provider: provider,
		settings: settings,
		activity: activity,
		mailer:   mailer,
		posthog:  posthog,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.BookingSvcFacade = (*bookingService)(nil)

// validateSlot enforces the admin-configured booking rules against a slot.
func (s *bookingService) validateSlot(ctx context.Context, start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("%w: end time must be after start time", apperrors.ErrValidation)
	}

	rules := s.settings.BookingRules(ctx)
	now := s.now()

	if start.Before(now.Add(time.Duration(rules.MinAdvanceHours) * time.Hour)) {
		return fmt.Errorf("%w: bookings require at least %d hour(s) notice", apperrors.ErrValidation, rules.MinAdvanceHours)
	}
	if start.After(now.AddDate(0, 0, rules.MaxAdvanceDays)) {
		return fmt.Errorf("%w: bookings may be made at most %d days in advance", apperrors.ErrValidation, rules.MaxAdvanceDays)
	}
	if end.Sub(start) > time.Duration(rules.MaxDurationHours)*time.Hour {
		return fmt.Errorf("%w: bookings may last at most %d hours", apperrors.ErrValidation, rules.MaxDurationHours)
	}
	return nil
}

func (s *bookingService) CreateBooking(ctx context.Context, userID string, req dto.CreateBookingRequest) (*portssvc.CreateBookingResult, error) {
	if err := s.validateSlot(ctx, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	space, err := s.spaces.FindSpaceByID(ctx, req.SpaceID)
	if err != nil {
		return nil, err
	}
	if !space.Bookable() {
		return nil, fmt.Errorf("%w: space is not available for booking", apperrors.ErrConflict)
	}

	now := s.now()
	booking := domain.Booking{
		BookingID:     uuid.NewString(),
		UserID:        userID,
		SpaceID:       space.SpaceID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentStatePending,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		TotalAmount:   schedule.Price(space.HourlyRate, req.StartTime, req.EndTime),
		Notes:         req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	var groupID string
	if req.Recurrence != nil {
		if req.Recurrence.EndDate.Before(req.StartTime) {
			return nil, fmt.Errorf("%w: recurrence end date must not be before the first occurrence", apperrors.ErrValidation)
		}
		groupID = uuid.NewString()
		booking.RecurringGroupID = &groupID
	}

	if err := s.bookings.CreateBookingChecked(ctx, booking); err != nil {
		return nil, err
	}

	result := &portssvc.CreateBookingResult{Booking: booking}

	if booking.PaymentMethod == domain.PaymentMethodCard {
		intent, err := s.openCardPayment(ctx, &booking, booking.TotalAmount,
			fmt.Sprintf("Booking %s", booking.BookingID), userID)
		if err != nil {
			// The booking holds the slot either way; the client can retry the
			// payment through the payment intent endpoint.
			middleware.GetLoggerFromCtx(ctx).Error("failed to open card payment for booking",
				"booking_id", booking.BookingID, "error", err)
		} else {
			result.ClientSecret = intent.ClientSecret
		}
	}

	if req.Recurrence != nil {
		days := make([]time.Weekday, len(req.Recurrence.DaysOfWeek))
		for i, d := range req.Recurrence.DaysOfWeek {
			days[i] = time.Weekday(d)
		}
		occurrences := schedule.ExpandRecurrence(req.StartTime, req.EndTime, days, req.Recurrence.EndDate)

		for _, occ := range occurrences {
			sibling := booking
			sibling.BookingID = uuid.NewString()
			sibling.StartTime = occ.Start
			sibling.EndTime = occ.End

			err := s.bookings.CreateBookingChecked(ctx, sibling)
			if err != nil {
				// Taken slots are skipped; the rest of the series goes ahead.
				if errors.Is(err, apperrors.ErrConflict) {
					result.RecurringSkipped = append(result.RecurringSkipped, occ.Start)
					continue
				}
				return nil, err
			}
			result.RecurringCreated = append(result.RecurringCreated, sibling)
		}
	}

	s.activity.Record(ctx, userID, domain.ActivityBooking,
		fmt.Sprintf("Booked %q", space.Name),
		map[string]any{"bookingID": booking.BookingID, "spaceID": space.SpaceID})
	s.posthog.Enqueue(userID, "booking_created", map[string]any{
		"space_type": string(space.Type),
		"recurring":  req.Recurrence != nil,
	})
	s.notifyBooking(ctx, userID, "Booking received",
		fmt.Sprintf("<p>Your booking for %s on %s is in. We'll confirm it as soon as payment completes.</p>",
			space.Name, booking.StartTime.Format("Mon, 02 Jan 2006 15:04")))

	return result, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string, requestingUserID string, isAdmin bool) (*domain.Booking, error) {
	booking, err := s.bookings.FindBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != requestingUserID {
		return nil, apperrors.ErrForbidden
	}
	return booking, nil
}

func (s *bookingService) ListUserBookings(ctx context.Context, userID string, params dto.ListBookingsParams) ([]domain.Booking, int, error) {
	filter := portsrepo.ListBookingsFilter{
		UserID:  userID,
		SpaceID: params.SpaceID,
		Status:  params.Status,
		From:    params.From,
		To:      params.To,
		Limit:   params.Limit,
		Offset:  params.Offset,
	}
	return s.findAndCount(ctx, filter)
}

func (s *bookingService) ListAllBookings(ctx context.Context, params dto.ListBookingsParams) ([]domain.Booking, int, error) {
	filter := portsrepo.ListBookingsFilter{
		UserID:  params.UserID,
		SpaceID: params.SpaceID,
		Status:  params.Status,
		From:    params.From,
		To:      params.To,
		Limit:   params.Limit,
		Offset:  params.Offset,
	}
	return s.findAndCount(ctx, filter)
}

func (s *bookingService) findAndCount(ctx context.Context, filter portsrepo.ListBookingsFilter) ([]domain.Booking, int, error) {
	bookings, err := s.bookings.FindBookings(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	total, err := s.bookings.CountBookings(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return bookings, total, nil
}

func (s *bookingService) ModifyBooking(ctx context.Context, bookingID string, requestingUserID string, isAdmin bool, req dto.UpdateBookingRequest) (*portssvc.ModifyBookingResult, error) {
	booking, err := s.bookings.FindBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != requestingUserID {
		return nil, apperrors.ErrForbidden
	}
	if !booking.Blocking() {
		return nil, fmt.Errorf("%w: only pending or confirmed bookings can be modified", apperrors.ErrValidation)
	}
	if booking.StartTime.Before(s.now()) {
		return nil, fmt.Errorf("%w: booking has already started", apperrors.ErrValidation)
	}
	if req.Recurrence != nil && booking.RecurringGroupID == nil {
		return nil, fmt.Errorf("%w: booking is not part of a recurring series", apperrors.ErrValidation)
	}

	oldTotal := booking.TotalAmount
	slotChanged := false
	if req.StartTime != nil {
		booking.StartTime = *req.StartTime
		slotChanged = true
	}
	if req.EndTime != nil {
		booking.EndTime = *req.EndTime
		slotChanged = true
	}
	if req.Notes != nil {
		booking.Notes = *req.Notes
	}
	if req.Recurrence != nil && req.Recurrence.EndDate.Before(booking.StartTime) {
		return nil, fmt.Errorf("%w: recurrence end date must not be before the first occurrence", apperrors.ErrValidation)
	}

	booking.LastUpdatedAt = s.now()
	booking.LastUpdatedBy = requestingUserID

	if slotChanged {
		if err := s.validateSlot(ctx, booking.StartTime, booking.EndTime); err != nil {
			return nil, err
		}
		space, err := s.spaces.FindSpaceByID(ctx, booking.SpaceID)
		if err != nil {
			return nil, err
		}
		booking.TotalAmount = schedule.Price(space.HourlyRate, booking.StartTime, booking.EndTime)

		if err := s.bookings.UpdateBookingChecked(ctx, *booking); err != nil {
			return nil, err
		}
	} else {
		if err := s.bookings.UpdateBooking(ctx, *booking); err != nil {
			return nil, err
		}
	}

	result := &portssvc.ModifyBookingResult{Booking: *booking, PriceDelta: booking.TotalAmount.Sub(oldTotal)}

	if slotChanged && booking.PaymentStatus == domain.PaymentStatePaid {
		if err := s.settlePriceDelta(ctx, booking, result.PriceDelta, requestingUserID, result); err != nil {
			return nil, err
		}
	}

	if req.Recurrence != nil {
		if err := s.regenerateSiblings(ctx, booking, req.Recurrence, requestingUserID, result); err != nil {
			return nil, err
		}
	}

	s.activity.Record(ctx, booking.UserID, domain.ActivityBooking, "Booking rescheduled",
		map[string]any{"bookingID": booking.BookingID, "priceDelta": result.PriceDelta.String()})
	return result, nil
}

// settlePriceDelta charges or refunds the difference when a paid booking is
// moved to a slot with a different price. Growth on a card booking opens a new
// payment intent for just the difference; shrinkage refunds it against the
// original charge. Cash differences settle on site.
func (s *bookingService) settlePriceDelta(ctx context.Context, booking *domain.Booking, delta decimal.Decimal, actorID string, result *portssvc.ModifyBookingResult) error {
	if delta.IsZero() {
		return nil
	}

	if delta.IsPositive() {
		if booking.PaymentMethod != domain.PaymentMethodCard {
			return nil
		}
		intent, err := s.openCardPayment(ctx, booking, delta,
			fmt.Sprintf("Reschedule difference for booking %s", booking.BookingID), actorID)
		if err != nil {
			return err
		}
		result.ClientSecret = intent.ClientSecret
		return nil
	}

	refund := delta.Neg()
	if err := s.issueRefund(ctx, booking, refund, "booking rescheduled to a cheaper slot", actorID, s.now()); err != nil {
		return err
	}
	result.RefundAmount = refund
	return nil
}

// regenerateSiblings replaces the not-yet-started instances of a recurring
// series with a fresh expansion of the new rule. Conflicting instances are
// skipped, as on creation.
func (s *bookingService) regenerateSiblings(ctx context.Context, booking *domain.Booking, rec *dto.RecurrenceRequest, actorID string, result *portssvc.ModifyBookingResult) error {
	now := s.now()
	if _, err := s.bookings.CancelFutureSiblings(ctx, *booking.RecurringGroupID, booking.BookingID, now, "recurrence updated", actorID); err != nil {
		return err
	}

	days := make([]time.Weekday, len(rec.DaysOfWeek))
	for i, d := range rec.DaysOfWeek {
		days[i] = time.Weekday(d)
	}
	for _, occ := range schedule.ExpandRecurrence(booking.StartTime, booking.EndTime, days, rec.EndDate) {
		sibling := *booking
		sibling.BookingID = uuid.NewString()
		sibling.StartTime = occ.Start
		sibling.EndTime = occ.End
		sibling.Status = domain.BookingPending
		sibling.PaymentStatus = domain.PaymentStatePending
		sibling.CancellationReason = ""
		sibling.CancelledAt = nil
		sibling.ReminderSentAt = nil
		sibling.AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		}

		if err := s.bookings.CreateBookingChecked(ctx, sibling); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				result.RecurringSkipped = append(result.RecurringSkipped, occ.Start)
				continue
			}
			return err
		}
		result.RecurringCreated = append(result.RecurringCreated, sibling)
	}
	return nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID string, requestingUserID string, isAdmin bool, req dto.CancelBookingRequest) (*portssvc.CancelBookingResult, error) {
	booking, err := s.bookings.FindBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != requestingUserID {
		return nil, apperrors.ErrForbidden
	}

	// Cancelling twice is a no-op, not an error.
	if booking.Status == domain.BookingCancelled {
		return &portssvc.CancelBookingResult{Booking: *booking, RefundAmount: decimal.Zero}, nil
	}
	if booking.Status == domain.BookingCompleted {
		return nil, fmt.Errorf("%w: completed bookings cannot be cancelled", apperrors.ErrValidation)
	}

	now := s.now()
	refund := decimal.Zero
	var refundedPayment *domain.Payment
	if booking.PaymentStatus == domain.PaymentStatePaid {
		refund = schedule.RefundAmount(booking.TotalAmount, now, booking.StartTime)
		if refund.IsPositive() {
			refundedPayment, err = s.succeededPayment(ctx, booking.BookingID)
			if err != nil {
				return nil, err
			}
			refundedPayment.Status = domain.PaymentRefunded
			refundedPayment.RefundAmount = &refund
			refundedPayment.RefundReason = req.Reason
			refundedPayment.RefundedAt = &now
			refundedPayment.LastUpdatedAt = now
			refundedPayment.LastUpdatedBy = requestingUserID
			booking.PaymentStatus = domain.PaymentStateRefunded
		}
	}

	booking.Status = domain.BookingCancelled
	booking.CancellationReason = req.Reason
	booking.CancelledAt = &now
	booking.LastUpdatedAt = now
	booking.LastUpdatedBy = requestingUserID

	// The booking, its refunded payment and the recurring cascade commit
	// together; the provider refund runs only once that commit holds.
	cancelledFutures, err := s.bookings.CancelBookingAtomic(ctx, *booking, refundedPayment)
	if err != nil {
		return nil, err
	}

	result := &portssvc.CancelBookingResult{Booking: *booking, RefundAmount: refund, CancelledFutures: cancelledFutures}

	if refundedPayment != nil && refundedPayment.Method == domain.PaymentMethodCard && refundedPayment.ProviderPaymentID != "" {
		logger := middleware.GetLoggerFromCtx(ctx)
		refundID, err := s.provider.CreateRefund(ctx, refundedPayment.ProviderPaymentID, toMinorUnits(refund), req.Reason)
		if err != nil {
			logger.Error("provider refund failed after cancellation",
				"booking_id", booking.BookingID, "payment_id", refundedPayment.PaymentID, "error", err)
		} else {
			refundedPayment.ProviderRefundID = refundID
			if err := s.payments.UpdatePayment(ctx, *refundedPayment); err != nil {
				logger.Error("failed to record provider refund id",
					"payment_id", refundedPayment.PaymentID, "refund_id", refundID, "error", err)
			}
		}
	}

	s.activity.Record(ctx, booking.UserID, domain.ActivityBooking, "Booking cancelled",
		map[string]any{"bookingID": booking.BookingID, "refund": refund.String()})
	s.notifyBooking(ctx, booking.UserID, "Booking cancelled",
		fmt.Sprintf("<p>Your booking was cancelled. Refund issued: %s.</p>", refund.StringFixed(2)))

	return result, nil
}

// succeededPayment finds the succeeded payment behind a booking.
func (s *bookingService) succeededPayment(ctx context.Context, bookingID string) (*domain.Payment, error) {
	payments, err := s.payments.FindPaymentsByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	for i := range payments {
		if payments[i].Status == domain.PaymentSucceeded {
			return &payments[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no succeeded payment found for booking", apperrors.ErrConflict)
}

// issueRefund refunds part of the succeeded payment behind a booking. Card
// refunds go through the provider; cash refunds are recorded only.
func (s *bookingService) issueRefund(ctx context.Context, booking *domain.Booking, amount decimal.Decimal, reason string, actorID string, now time.Time) error {
	payment, err := s.succeededPayment(ctx, booking.BookingID)
	if err != nil {
		return err
	}

	if payment.Method == domain.PaymentMethodCard && payment.ProviderPaymentID != "" {
		refundID, err := s.provider.CreateRefund(ctx, payment.ProviderPaymentID, toMinorUnits(amount), reason)
		if err != nil {
			return fmt.Errorf("provider refund failed: %w", err)
		}
		payment.ProviderRefundID = refundID
	}

	payment.Status = domain.PaymentRefunded
	payment.RefundAmount = &amount
	payment.RefundReason = reason
	payment.RefundedAt = &now
	payment.LastUpdatedAt = now
	payment.LastUpdatedBy = actorID

	return s.payments.UpdatePayment(ctx, *payment)
}

// openCardPayment lazily registers the Stripe customer, opens a payment
// intent for amount keyed to the booking, and records the pending payment row.
func (s *bookingService) openCardPayment(ctx context.Context, booking *domain.Booking, amount decimal.Decimal, description string, actorID string) (*portssvc.PaymentIntent, error) {
	user, err := s.users.FindUserByID(ctx, booking.UserID)
	if err != nil {
		return nil, err
	}
	if user.StripeCustomerID == "" {
		customerID, err := s.provider.CreateCustomer(ctx, user.Email, user.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to create provider customer: %w", err)
		}
		user.StripeCustomerID = customerID
		user.LastUpdatedAt = s.now()
		user.LastUpdatedBy = actorID
		if err := s.users.UpdateUser(ctx, *user); err != nil {
			return nil, err
		}
	}

	intent, err := s.provider.CreatePaymentIntent(ctx, toMinorUnits(amount), paymentCurrency, user.StripeCustomerID, map[string]string{
		"bookingID": booking.BookingID,
		"userID":    booking.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	now := s.now()
	payment := domain.Payment{
		PaymentID:         uuid.NewString(),
		BookingID:         booking.BookingID,
		UserID:            booking.UserID,
		Amount:            amount,
		Currency:          paymentCurrency,
		Status:            domain.PaymentPending,
		Method:            domain.PaymentMethodCard,
		ProviderPaymentID: intent.ID,
		Description:       description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := s.payments.SavePayment(ctx, payment); err != nil {
		return nil, err
	}
	return intent, nil
}

func (s *bookingService) AdminUpdateStatus(ctx context.Context, adminID string, bookingID string, status domain.BookingStatus) (*domain.Booking, error) {
	booking, err := s.bookings.FindBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == status {
		return booking, nil
	}
	if !booking.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: cannot move booking from %s to %s", apperrors.ErrValidation, booking.Status, status)
	}

	now := s.now()
	booking.Status = status
	if status == domain.BookingCancelled {
		booking.CancelledAt = &now
	}
	booking.LastUpdatedAt = now
	booking.LastUpdatedBy = adminID

	if err := s.bookings.UpdateBooking(ctx, *booking); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, booking.UserID, domain.ActivityBooking,
		fmt.Sprintf("Booking marked %s by admin", status),
		map[string]any{"bookingID": booking.BookingID, "adminID": adminID})
	return booking, nil
}

func (s *bookingService) SendDueReminders(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.bookings.FindDueReminders(ctx, now, now.Add(reminderWindow))
	if err != nil {
		return 0, err
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	sent := 0
	for _, booking := range due {
		user, err := s.users.FindUserByID(ctx, booking.UserID)
		if err != nil {
			logger.Warn("skipping reminder, user lookup failed", "booking_id", booking.BookingID, "error", err)
			continue
		}
		if !user.NotificationPreferences.BookingReminders {
			// Respect the opt-out but do not retry forever.
			_ = s.bookings.MarkReminderSent(ctx, booking.BookingID, now)
			continue
		}

		spaceName := booking.SpaceID
		if space, err := s.spaces.FindSpaceByID(ctx, booking.SpaceID); err == nil {
			spaceName = space.Name
		}

		body := fmt.Sprintf("<p>Reminder: your booking for %s starts at %s.</p>",
			spaceName, booking.StartTime.Format("Mon, 02 Jan 2006 15:04"))
		if err := s.mailer.Send(ctx, user.Email, "Upcoming booking reminder", body); err != nil {
			logger.Error("failed to send reminder", "booking_id", booking.BookingID, "error", err)
			continue
		}
		if err := s.bookings.MarkReminderSent(ctx, booking.BookingID, now); err != nil {
			logger.Error("failed to mark reminder sent", "booking_id", booking.BookingID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *bookingService) CompleteElapsed(ctx context.Context) (int, error) {
	return s.bookings.CompleteElapsed(ctx, s.now())
}

// notifyBooking sends a booking email off the request path when the user has
// email notifications on.
func (s *bookingService) notifyBooking(ctx context.Context, userID, subject, body string) {
	logger := middleware.GetLoggerFromCtx(ctx)
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		logger.Warn("skipping booking email, user lookup failed", "user_id", userID, "error", err)
		return
	}
	if !user.NotificationPreferences.EmailNotifications {
		return
	}
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.Send(sendCtx, user.Email, subject, body); err != nil {
			logger.Error("failed to send booking email", "to", user.Email, "error", err)
		}
	}()
}

// toMinorUnits converts a decimal money amount to integer cents.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
