package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
	portssvc "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/services"
	"github.com/CoWorkHub/coworking_booking_app/internal/dto"
	"github.com/CoWorkHub/coworking_booking_app/internal/middleware"
)

// bookingHandler handles HTTP requests for the booking lifecycle.
type bookingHandler struct {
	bookingService portssvc.BookingSvcFacade
}

func newBookingHandler(bs portssvc.BookingSvcFacade) *bookingHandler {
	return &bookingHandler{
		bookingService: bs,
	}
}

// registerBookingRoutes registers the member-facing booking routes.
func registerBookingRoutes(rg *gin.RouterGroup, bookingService portssvc.BookingSvcFacade) {
	h := newBookingHandler(bookingService)

	bookings := rg.Group("/bookings")
	{
		bookings.POST("", h.createBooking)
		bookings.GET("", h.listOwnBookings)
		bookings.GET("/:id", h.getBooking)
		bookings.PUT("/:id", h.modifyBooking)
		bookings.POST("/:id/cancel", h.cancelBooking)
	}
}

// registerAdminBookingRoutes registers the back-office booking routes.
func registerAdminBookingRoutes(rg *gin.RouterGroup, bookingService portssvc.BookingSvcFacade) {
	h := newBookingHandler(bookingService)

	bookings := rg.Group("/bookings")
	{
		bookings.GET("", h.listAllBookings)
		bookings.PUT("/:id/status", h.updateBookingStatus)
	}
}

// createBooking godoc
// @Summary Create a booking
// @Description Prices and creates a booking, expanding an optional weekly recurrence rule. Recurring instances whose slot is taken are skipped and reported.
// @Tags bookings
// @Accept  json
// @Produce  json
// @Param   booking body dto.CreateBookingRequest true "Booking details"
// @Success 201 {object} dto.CreateBookingResponse
// @Failure 400 {object} map[string]string "Invalid input or booking rules violated"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Slot already taken"
// @Failure 500 {object} map[string]string "Failed to create booking"
// @Security BearerAuth
// @Router /bookings [post]
func (h *bookingHandler) createBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create booking", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.bookingService.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create booking")
		return
	}

	logger.Info("Booking created",
		slog.String("booking_id", result.Booking.BookingID),
		slog.Int("recurring_created", len(result.RecurringCreated)),
		slog.Int("recurring_skipped", len(result.RecurringSkipped)))
	c.JSON(http.StatusCreated, dto.CreateBookingResponse{
		Booking:          dto.ToBookingResponse(&result.Booking),
		ClientSecret:     result.ClientSecret,
		RecurringCreated: dto.ToBookingResponses(result.RecurringCreated),
		RecurringSkipped: result.RecurringSkipped,
	})
}

// listOwnBookings godoc
// @Summary List own bookings
// @Description Retrieves the authenticated user's bookings
// @Tags bookings
// @Produce  json
// @Param   status query string false "Filter by status"
// @Param   spaceID query string false "Filter by space"
// @Param   from query string false "Only bookings ending after this time (RFC3339)"
// @Param   to query string false "Only bookings starting before this time (RFC3339)"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListBookingsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list bookings"
// @Security BearerAuth
// @Router /bookings [get]
func (h *bookingHandler) listOwnBookings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListBookingsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for list bookings", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	bookings, total, err := h.bookingService.ListUserBookings(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list bookings")
		return
	}
	c.JSON(http.StatusOK, dto.ListBookingsResponse{Bookings: dto.ToBookingResponses(bookings), Total: total})
}

// getBooking godoc
// @Summary Get a booking by ID
// @Description Retrieves a booking. Members may only read their own bookings.
// @Tags bookings
// @Produce  json
// @Param   id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Booking not found"
// @Failure 500 {object} map[string]string "Failed to retrieve booking"
// @Security BearerAuth
// @Router /bookings/{id} [get]
func (h *bookingHandler) getBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	booking, err := h.bookingService.GetBookingByID(c.Request.Context(), c.Param("id"), userID, middleware.IsAdminFromContext(c))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve booking")
		return
	}
	c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

// modifyBooking godoc
// @Summary Reschedule a booking
// @Description Moves a not-yet-started booking to a new slot, re-pricing and re-checking conflicts. On a paid booking the price difference is charged or refunded; a changed recurrence rule regenerates the future instances.
// @Tags bookings
// @Accept  json
// @Produce  json
// @Param   id path string true "Booking ID"
// @Param   booking body dto.UpdateBookingRequest true "Fields to update"
// @Success 200 {object} dto.UpdateBookingResponse
// @Failure 400 {object} map[string]string "Invalid input or booking already started"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Booking not found"
// @Failure 409 {object} map[string]string "New slot already taken"
// @Failure 500 {object} map[string]string "Failed to modify booking"
// @Security BearerAuth
// @Router /bookings/{id} [put]
func (h *bookingHandler) modifyBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for modify booking", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.bookingService.ModifyBooking(c.Request.Context(), c.Param("id"), userID, middleware.IsAdminFromContext(c), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to modify booking")
		return
	}

	logger.Info("Booking rescheduled",
		slog.String("booking_id", result.Booking.BookingID),
		slog.String("price_delta", result.PriceDelta.String()))
	c.JSON(http.StatusOK, dto.UpdateBookingResponse{
		Booking:          dto.ToBookingResponse(&result.Booking),
		PriceDelta:       result.PriceDelta,
		ClientSecret:     result.ClientSecret,
		RefundAmount:     result.RefundAmount,
		RecurringCreated: dto.ToBookingResponses(result.RecurringCreated),
		RecurringSkipped: result.RecurringSkipped,
	})
}

// cancelBooking godoc
// @Summary Cancel a booking
// @Description Cancels a booking, issues the tiered refund and cancels future recurring siblings. Cancelling twice is a no-op.
// @Tags bookings
// @Accept  json
// @Produce  json
// @Param   id path string true "Booking ID"
// @Param   cancellation body dto.CancelBookingRequest false "Cancellation reason"
// @Success 200 {object} dto.CancelBookingResponse
// @Failure 400 {object} map[string]string "Completed bookings cannot be cancelled"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Booking not found"
// @Failure 500 {object} map[string]string "Failed to cancel booking"
// @Security BearerAuth
// @Router /bookings/{id}/cancel [post]
func (h *bookingHandler) cancelBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		logger.Warn("Failed to bind JSON for cancel booking", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.bookingService.CancelBooking(c.Request.Context(), c.Param("id"), userID, middleware.IsAdminFromContext(c), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to cancel booking")
		return
	}

	logger.Info("Booking cancelled",
		slog.String("booking_id", result.Booking.BookingID),
		slog.String("refund", result.RefundAmount.String()),
		slog.Int("cancelled_futures", result.CancelledFutures))
	c.JSON(http.StatusOK, dto.CancelBookingResponse{
		Booking:          dto.ToBookingResponse(&result.Booking),
		RefundAmount:     result.RefundAmount,
		CancelledFutures: result.CancelledFutures,
	})
}

// listAllBookings godoc
// @Summary List all bookings
// @Description Retrieves bookings across all users. Admin only.
// @Tags admin
// @Produce  json
// @Param   status query string false "Filter by status"
// @Param   spaceID query string false "Filter by space"
// @Param   userID query string false "Filter by user"
// @Param   from query string false "Only bookings ending after this time (RFC3339)"
// @Param   to query string false "Only bookings starting before this time (RFC3339)"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListBookingsResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to list bookings"
// @Security BearerAuth
// @Router /admin/bookings [get]
func (h *bookingHandler) listAllBookings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListBookingsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for list all bookings", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	bookings, total, err := h.bookingService.ListAllBookings(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list bookings")
		return
	}
	c.JSON(http.StatusOK, dto.ListBookingsResponse{Bookings: dto.ToBookingResponses(bookings), Total: total})
}

// updateBookingStatus godoc
// @Summary Update a booking's status
// @Description Moves a booking through its lifecycle, enforcing legal transitions. Admin only.
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   id path string true "Booking ID"
// @Param   status body dto.UpdateBookingStatusRequest true "Target status"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} map[string]string "Illegal transition"
// @Failure 404 {object} map[string]string "Booking not found"
// @Failure 500 {object} map[string]string "Failed to update booking status"
// @Security BearerAuth
// @Router /admin/bookings/{id}/status [put]
func (h *bookingHandler) updateBookingStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for booking status update", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	booking, err := h.bookingService.AdminUpdateStatus(c.Request.Context(), adminID, c.Param("id"), domain.BookingStatus(req.Status))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update booking status")
		return
	}
	c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}
