package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/services"
	"github.com/CoWorkHub/coworking_booking_app/internal/dto"
	"github.com/CoWorkHub/coworking_booking_app/internal/middleware"
	"github.com/CoWorkHub/coworking_booking_app/internal/platform/stripegw"
)

// maxWebhookBody bounds webhook payload reads.
const maxWebhookBody = 1 << 20

// paymentHandler handles HTTP requests for payments and provider webhooks.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
	webhookSecret  string
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade, webhookSecret string) *paymentHandler {
	return &paymentHandler{
		paymentService: ps,
		webhookSecret:  webhookSecret,
	}
}

// registerPaymentRoutes registers the member-facing payment routes.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService, "")

	payments := rg.Group("/payments")
	{
		payments.POST("/intent", h.createPaymentIntent)
		payments.GET("", h.listOwnPayments)
		payments.GET("/:id", h.getPayment)
	}
}

// registerAdminPaymentRoutes registers the back-office payment routes.
func registerAdminPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService, "")

	payments := rg.Group("/payments")
	{
		payments.GET("", h.listAllPayments)
		payments.POST("/:id/refund", h.refundPayment)
	}
	rg.POST("/bookings/:id/mark-paid", h.markBookingPaid)
}

// registerWebhookRoutes registers the unauthenticated provider webhook route.
// Authenticity comes from signature verification, not from a bearer token.
func registerWebhookRoutes(r *gin.Engine, paymentService portssvc.PaymentSvcFacade, webhookSecret string) {
	h := newPaymentHandler(paymentService, webhookSecret)
	r.POST("/api/v1/webhooks/stripe", h.handleStripeWebhook)
}

// createPaymentIntent godoc
// @Summary Start a card payment
// @Description Creates a provider payment intent for the caller's pending booking and returns the client secret
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   intent body dto.CreatePaymentIntentRequest true "Booking to pay for"
// @Success 201 {object} dto.CreatePaymentIntentResponse
// @Failure 400 {object} map[string]string "Booking not payable by card"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Booking not found"
// @Failure 409 {object} map[string]string "Booking already paid"
// @Failure 500 {object} map[string]string "Failed to create payment intent"
// @Security BearerAuth
// @Router /payments/intent [post]
func (h *paymentHandler) createPaymentIntent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for payment intent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.paymentService.CreatePaymentIntent(c.Request.Context(), userID, req.BookingID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create payment intent")
		return
	}

	logger.Info("Payment intent created", slog.String("payment_id", resp.PaymentID))
	c.JSON(http.StatusCreated, resp)
}

// listOwnPayments godoc
// @Summary List own payments
// @Description Retrieves the authenticated user's payments
// @Tags payments
// @Produce  json
// @Param   status query string false "Filter by status"
// @Param   method query string false "Filter by method"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list payments"
// @Security BearerAuth
// @Router /payments [get]
func (h *paymentHandler) listOwnPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for list payments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	payments, total, err := h.paymentService.ListUserPayments(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, dto.ListPaymentsResponse{Payments: dto.ToPaymentResponses(payments), Total: total})
}

// getPayment godoc
// @Summary Get a payment by ID
// @Description Retrieves a payment. Members may only read their own payments.
// @Tags payments
// @Produce  json
// @Param   id path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 500 {object} map[string]string "Failed to retrieve payment"
// @Security BearerAuth
// @Router /payments/{id} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payment, err := h.paymentService.GetPaymentByID(c.Request.Context(), c.Param("id"), userID, middleware.IsAdminFromContext(c))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// handleStripeWebhook godoc
// @Summary Stripe webhook endpoint
// @Description Verifies the Stripe-Signature header and applies the payment event
// @Tags payments
// @Accept  json
// @Produce  json
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid signature or payload"
// @Failure 500 {object} map[string]string "Failed to process event"
// @Router /webhooks/stripe [post]
func (h *paymentHandler) handleStripeWebhook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		logger.Warn("Failed to read webhook body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	event, err := stripegw.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		logger.Warn("Webhook signature verification failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	err = h.paymentService.HandleProviderEvent(c.Request.Context(), portssvc.ProviderEvent{
		Type:              event.Type,
		ProviderPaymentID: event.Data.Object.ID,
		FailureMessage:    event.Data.Object.LastPaymentError.Message,
	})
	if err != nil {
		// Non-2xx makes the provider retry, which is what we want for
		// transient failures.
		logger.Error("Failed to process webhook event", slog.String("event_id", event.ID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": "true"})
}

// listAllPayments godoc
// @Summary List all payments
// @Description Retrieves payments across all users. Admin only.
// @Tags admin
// @Produce  json
// @Param   status query string false "Filter by status"
// @Param   method query string false "Filter by method"
// @Param   userID query string false "Filter by user"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to list payments"
// @Security BearerAuth
// @Router /admin/payments [get]
func (h *paymentHandler) listAllPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for list all payments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	payments, total, err := h.paymentService.ListAllPayments(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, dto.ListPaymentsResponse{Payments: dto.ToPaymentResponses(payments), Total: total})
}

// markBookingPaid godoc
// @Summary Record a cash payment
// @Description Records an offline cash payment against a booking and confirms it. Admin only.
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   id path string true "Booking ID"
// @Param   payment body dto.MarkPaidRequest false "Notes"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Cancelled booking"
// @Failure 404 {object} map[string]string "Booking not found"
// @Failure 409 {object} map[string]string "Booking already paid"
// @Failure 500 {object} map[string]string "Failed to record payment"
// @Security BearerAuth
// @Router /admin/bookings/{id}/mark-paid [post]
func (h *paymentHandler) markBookingPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		logger.Warn("Failed to bind JSON for mark paid", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	payment, err := h.paymentService.MarkBookingPaid(c.Request.Context(), adminID, c.Param("id"), req.Notes)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record payment")
		return
	}

	logger.Info("Cash payment recorded", slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// refundPayment godoc
// @Summary Refund a payment
// @Description Refunds a succeeded payment, partially when an amount is given. Admin only.
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   id path string true "Payment ID"
// @Param   refund body dto.RefundPaymentRequest false "Amount and reason"
// @Success 200 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Payment not refundable or amount invalid"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 500 {object} map[string]string "Failed to refund payment"
// @Security BearerAuth
// @Router /admin/payments/{id}/refund [post]
func (h *paymentHandler) refundPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.RefundPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		logger.Warn("Failed to bind JSON for refund", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	payment, err := h.paymentService.RefundPayment(c.Request.Context(), adminID, c.Param("id"), req.Amount, req.Reason)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to refund payment")
		return
	}

	logger.Info("Payment refunded", slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}
