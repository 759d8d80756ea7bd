package services

import (
	portsrepo "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/repositories"
	portssvc "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/services"
	"github.com/CoWorkHub/coworking_booking_app/internal/utils"
)

// NewServiceContainer wires every application service with its dependencies.
// Construction order matters: activity and settings have no service
// dependencies and feed the rest.
func NewServiceContainer(
	repos *portsrepo.RepositoryProvider,
	reportingRepo portsrepo.ReportingRepositoryFacade,
	provider portssvc.PaymentProvider,
	mailer portssvc.EmailSender,
	posthog *utils.PosthogClientWrapper,
) *portssvc.ServiceContainer {
	activitySvc := NewActivityService(repos.ActivityRepo)
	settingsSvc := NewSettingsService(repos.SettingsRepo, activitySvc)
	userSvc := NewUserService(repos.UserRepo, activitySvc, mailer, posthog)
	spaceSvc := NewSpaceService(repos.SpaceRepo, repos.BookingRepo, activitySvc)
	bookingSvc := NewBookingService(
		repos.BookingRepo,
		repos.SpaceRepo,
		repos.UserRepo,
		repos.PaymentRepo,
		provider,
		settingsSvc,
		activitySvc,
		mailer,
		posthog,
	)
	paymentSvc := NewPaymentService(
		repos.PaymentRepo,
		repos.BookingRepo,
		repos.UserRepo,
		repos.SpaceRepo,
		provider,
		activitySvc,
		mailer,
		posthog,
	)
	reportingSvc := NewReportingService(reportingRepo)

	return &portssvc.ServiceContainer{
		User:      userSvc,
		Space:     spaceSvc,
		Booking:   bookingSvc,
		Payment:   paymentSvc,
		Activity:  activitySvc,
		Settings:  settingsSvc,
		Reporting: reportingSvc,
	}
}
