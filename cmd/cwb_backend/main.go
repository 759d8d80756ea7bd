package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	_ "github.com/CoWorkHub/coworking_booking_app/cmd/docs"
	portssvc "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/services"
	"github.com/CoWorkHub/coworking_booking_app/internal/core/services"
	"github.com/CoWorkHub/coworking_booking_app/internal/dto"
	"github.com/CoWorkHub/coworking_booking_app/internal/handlers"
	"github.com/CoWorkHub/coworking_booking_app/internal/middleware"
	"github.com/CoWorkHub/coworking_booking_app/internal/platform/mailer"
	"github.com/CoWorkHub/coworking_booking_app/internal/platform/stripegw"
	"github.com/CoWorkHub/coworking_booking_app/internal/repositories/database/pgsql"
	"github.com/CoWorkHub/coworking_booking_app/internal/utils"
	"github.com/CoWorkHub/coworking_booking_app/pkg/config"
	"github.com/CoWorkHub/coworking_booking_app/pkg/database"
)

// @title CoWorkHub Booking API
// @version 1.0
// @description Coworking space booking and payments backend.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	dto.RegisterValidations()

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendBaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wire repositories, external providers and services.
	repos := pgsql.NewRepositoryProvider(dbPool)
	reportingRepo := pgsql.NewReportingRepository(dbPool)
	provider := stripegw.NewClient(cfg.StripeSecretKey)
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom, logger)
	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	container := services.NewServiceContainer(&repos, reportingRepo, provider, smtpMailer, posthogClient)

	// Seed the well-known settings rows so admin reads never miss.
	if err := container.Settings.EnsureDefaults(ctx); err != nil {
		logger.Error("Failed to seed default settings", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Brute-force protection on login: 10 attempts per minute per client IP.
	loginLimiter := middleware.RateLimit(limiter.New(memory.NewStore(), limiter.Rate{
		Period: time.Minute,
		Limit:  10,
	}))

	handlers.RegisterRoutes(r, cfg, container, loginLimiter)

	go runBookingWorker(ctx, container.Booking, cfg.ReminderPollInterval, logger)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations using a temporary
// database/sql connection via the pgx stdlib driver.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	if err := migrationDB.Ping(); err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// runBookingWorker periodically sends booking reminders and completes
// bookings whose end time has passed. Runs until the root context is
// cancelled.
func runBookingWorker(ctx context.Context, bookings portssvc.BookingSvcFacade, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Booking worker stopping")
			return
		case <-ticker.C:
			sent, err := bookings.SendDueReminders(ctx)
			if err != nil {
				logger.Error("Reminder sweep failed", slog.String("error", err.Error()))
			} else if sent > 0 {
				logger.Info("Booking reminders sent", slog.Int("count", sent))
			}

			completed, err := bookings.CompleteElapsed(ctx)
			if err != nil {
				logger.Error("Booking completion sweep failed", slog.String("error", err.Error()))
			} else if completed > 0 {
				logger.Info("Elapsed bookings completed", slog.Int("count", completed))
			}
		}
	}
}
