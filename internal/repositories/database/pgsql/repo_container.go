package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository against one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:     newPgxUserRepository(dbPool),
		SpaceRepo:    newPgxSpaceRepository(dbPool),
		BookingRepo:  newPgxBookingRepository(dbPool),
		PaymentRepo:  newPgxPaymentRepository(dbPool),
		ActivityRepo: newPgxActivityRepository(dbPool),
		SettingsRepo: newPgxSettingsRepository(dbPool),
	}
}

// NewReportingRepository builds the read-only analytics repository.
func NewReportingRepository(dbPool *pgxpool.Pool) portsrepo.ReportingRepositoryFacade {
	return newReportingRepository(dbPool)
}
