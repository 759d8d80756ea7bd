package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/CoWorkHub/coworking_booking_app/cmd/docs"
	portssvc "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/services"
	"github.com/CoWorkHub/coworking_booking_app/internal/middleware"
	"github.com/CoWorkHub/coworking_booking_app/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	loginLimiter gin.HandlerFunc,
) {
	// Health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	// Uploaded images (profile pictures, space photos) are served statically.
	r.Static("/uploads", cfg.UploadDir)

	// Public routes: registration/login and the read-only space catalog.
	registerAuthRoutes(r, cfg, services.User, loginLimiter)
	registerPublicRoutes(r, services)

	// Provider webhooks authenticate by signature, not bearer token.
	registerWebhookRoutes(r, services.Payment, cfg.StripeWebhookSecret)

	// Authenticated member routes and the admin back-office.
	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// registerPublicRoutes configures the unauthenticated /api/v1 routes.
func registerPublicRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	public := r.Group("/api/v1")
	registerSpaceRoutes(public, services.Space)
}

// setupAPIV1Routes configures the authenticated /api/v1 group and delegates to
// specific entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerUserRoutes(v1, services.User, services.Activity, services.Reporting, cfg.UploadDir)
	registerBookingRoutes(v1, services.Booking)
	registerPaymentRoutes(v1, services.Payment)

	// The back-office lives under /api/v1/admin and requires the admin role.
	admin := v1.Group("/admin", middleware.RequireAdmin())
	registerAdminUserRoutes(admin, services.User)
	registerAdminSpaceRoutes(admin, services.Space, cfg.UploadDir)
	registerAdminBookingRoutes(admin, services.Booking)
	registerAdminPaymentRoutes(admin, services.Payment)
	registerAdminReportingRoutes(admin, services.Reporting, services.Settings)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
