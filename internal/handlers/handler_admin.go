package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/services"
	"github.com/CoWorkHub/coworking_booking_app/internal/dto"
	"github.com/CoWorkHub/coworking_booking_app/internal/middleware"
)

// adminHandler handles the analytics and settings back-office routes.
type adminHandler struct {
	reportingService portssvc.ReportingSvcFacade
	settingsService  portssvc.SettingsSvcFacade
}

func newAdminHandler(rs portssvc.ReportingSvcFacade, ss portssvc.SettingsSvcFacade) *adminHandler {
	return &adminHandler{
		reportingService: rs,
		settingsService:  ss,
	}
}

// registerAdminReportingRoutes registers the analytics and settings routes.
func registerAdminReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade, settingsService portssvc.SettingsSvcFacade) {
	h := newAdminHandler(reportingService, settingsService)

	analytics := rg.Group("/analytics")
	{
		analytics.GET("/revenue", h.revenueByDay)
		analytics.GET("/bookings", h.bookingsByDay)
		analytics.GET("/occupancy", h.occupancyByDay)
		analytics.GET("/payment-methods", h.paymentMethodStats)
		analytics.GET("/popular-spaces", h.popularSpaces)
	}
	rg.GET("/dashboard", h.dashboardStats)
	rg.GET("/user-stats", h.userStats)

	settings := rg.Group("/settings")
	{
		settings.GET("", h.listSettings)
		settings.GET("/:key", h.getSetting)
		settings.PUT("/:key", h.updateSetting)
	}
}

func (h *adminHandler) bindAnalyticsParams(c *gin.Context) (dto.AnalyticsParams, bool) {
	var params dto.AnalyticsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind analytics params", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return params, false
	}
	return params, true
}

// revenueByDay godoc
// @Summary Revenue per day
// @Description Sums succeeded payments per day over the date range. Admin only.
// @Tags admin
// @Produce  json
// @Param   from query string true "Range start (YYYY-MM-DD)"
// @Param   to query string true "Range end (YYYY-MM-DD), inclusive"
// @Success 200 {array} dto.RevenuePointResponse
// @Failure 400 {object} map[string]string "Invalid range"
// @Failure 500 {object} map[string]string "Failed to compute revenue"
// @Security BearerAuth
// @Router /admin/analytics/revenue [get]
func (h *adminHandler) revenueByDay(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	params, ok := h.bindAnalyticsParams(c)
	if !ok {
		return
	}

	points, err := h.reportingService.RevenueByDay(c.Request.Context(), params.From, params.To)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute revenue")
		return
	}
	c.JSON(http.StatusOK, dto.ToRevenueResponses(points))
}

// bookingsByDay godoc
// @Summary Bookings per day
// @Description Counts created bookings per day over the date range. Admin only.
// @Tags admin
// @Produce  json
// @Param   from query string true "Range start (YYYY-MM-DD)"
// @Param   to query string true "Range end (YYYY-MM-DD), inclusive"
// @Success 200 {array} dto.BookingCountResponse
// @Failure 400 {object} map[string]string "Invalid range"
// @Failure 500 {object} map[string]string "Failed to compute booking counts"
// @Security BearerAuth
// @Router /admin/analytics/bookings [get]
func (h *adminHandler) bookingsByDay(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	params, ok := h.bindAnalyticsParams(c)
	if !ok {
		return
	}

	points, err := h.reportingService.BookingsByDay(c.Request.Context(), params.From, params.To)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute booking counts")
		return
	}
	c.JSON(http.StatusOK, dto.ToBookingCountResponses(points))
}

// occupancyByDay godoc
// @Summary Occupancy rate per day
// @Description Computes the booked share of total bookable hours per day. Admin only.
// @Tags admin
// @Produce  json
// @Param   from query string true "Range start (YYYY-MM-DD)"
// @Param   to query string true "Range end (YYYY-MM-DD), inclusive"
// @Success 200 {array} dto.OccupancyResponse
// @Failure 400 {object} map[string]string "Invalid range"
// @Failure 500 {object} map[string]string "Failed to compute occupancy"
// @Security BearerAuth
// @Router /admin/analytics/occupancy [get]
func (h *adminHandler) occupancyByDay(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	params, ok := h.bindAnalyticsParams(c)
	if !ok {
		return
	}

	points, err := h.reportingService.OccupancyByDay(c.Request.Context(), params.From, params.To)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute occupancy")
		return
	}
	c.JSON(http.StatusOK, dto.ToOccupancyResponses(points))
}

// paymentMethodStats godoc
// @Summary Payment method breakdown
// @Description Aggregates succeeded payments per method over the date range. Admin only.
// @Tags admin
// @Produce  json
// @Param   from query string true "Range start (YYYY-MM-DD)"
// @Param   to query string true "Range end (YYYY-MM-DD), inclusive"
// @Success 200 {array} dto.PaymentMethodStatResponse
// @Failure 400 {object} map[string]string "Invalid range"
// @Failure 500 {object} map[string]string "Failed to compute payment stats"
// @Security BearerAuth
// @Router /admin/analytics/payment-methods [get]
func (h *adminHandler) paymentMethodStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	params, ok := h.bindAnalyticsParams(c)
	if !ok {
		return
	}

	stats, err := h.reportingService.PaymentMethodStats(c.Request.Context(), params.From, params.To)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute payment stats")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentMethodStatResponses(stats))
}

// popularSpaces godoc
// @Summary Most booked spaces
// @Description Ranks spaces by non-cancelled bookings over the date range. Admin only.
// @Tags admin
// @Produce  json
// @Param   from query string true "Range start (YYYY-MM-DD)"
// @Param   to query string true "Range end (YYYY-MM-DD), inclusive"
// @Param   limit query int false "Number of spaces to return" default(5)
// @Success 200 {array} dto.PopularSpaceResponse
// @Failure 400 {object} map[string]string "Invalid range"
// @Failure 500 {object} map[string]string "Failed to rank spaces"
// @Security BearerAuth
// @Router /admin/analytics/popular-spaces [get]
func (h *adminHandler) popularSpaces(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	params, ok := h.bindAnalyticsParams(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	rows, err := h.reportingService.PopularSpaces(c.Request.Context(), params.From, params.To, limit)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to rank spaces")
		return
	}
	c.JSON(http.StatusOK, dto.ToPopularSpaceResponses(rows))
}

// dashboardStats godoc
// @Summary Dashboard headline numbers
// @Description Returns total users, spaces, active bookings and lifetime revenue. Admin only.
// @Tags admin
// @Produce  json
// @Success 200 {object} dto.DashboardStatsResponse
// @Failure 500 {object} map[string]string "Failed to compute dashboard stats"
// @Security BearerAuth
// @Router /admin/dashboard [get]
func (h *adminHandler) dashboardStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stats, err := h.reportingService.DashboardStats(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute dashboard stats")
		return
	}
	c.JSON(http.StatusOK, dto.ToDashboardStatsResponse(*stats))
}

// userStats godoc
// @Summary User base breakdown
// @Description Breaks the user base down by role and membership. Admin only.
// @Tags admin
// @Produce  json
// @Success 200 {object} dto.UserStatsResponse
// @Failure 500 {object} map[string]string "Failed to compute user stats"
// @Security BearerAuth
// @Router /admin/user-stats [get]
func (h *adminHandler) userStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stats, err := h.reportingService.UserStats(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute user stats")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserStatsResponse(*stats))
}

// listSettings godoc
// @Summary List settings
// @Description Retrieves all admin-configurable settings. Admin only.
// @Tags admin
// @Produce  json
// @Success 200 {array} dto.SettingResponse
// @Failure 500 {object} map[string]string "Failed to list settings"
// @Security BearerAuth
// @Router /admin/settings [get]
func (h *adminHandler) listSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	settings, err := h.settingsService.ListSettings(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list settings")
		return
	}
	c.JSON(http.StatusOK, dto.ToSettingResponses(settings))
}

// getSetting godoc
// @Summary Get a setting
// @Description Retrieves one setting by key. Admin only.
// @Tags admin
// @Produce  json
// @Param   key path string true "Setting key"
// @Success 200 {object} dto.SettingResponse
// @Failure 404 {object} map[string]string "Setting not found"
// @Failure 500 {object} map[string]string "Failed to retrieve setting"
// @Security BearerAuth
// @Router /admin/settings/{key} [get]
func (h *adminHandler) getSetting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	setting, err := h.settingsService.GetSetting(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve setting")
		return
	}
	c.JSON(http.StatusOK, dto.ToSettingResponse(setting))
}

// updateSetting godoc
// @Summary Update a setting
// @Description Replaces the JSON document stored under a key. Admin only.
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   key path string true "Setting key"
// @Param   setting body dto.UpdateSettingRequest true "New value"
// @Success 200 {object} dto.SettingResponse
// @Failure 400 {object} map[string]string "Value is not valid JSON"
// @Failure 500 {object} map[string]string "Failed to update setting"
// @Security BearerAuth
// @Router /admin/settings/{key} [put]
func (h *adminHandler) updateSetting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for setting update", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	setting, err := h.settingsService.UpdateSetting(c.Request.Context(), adminID, c.Param("key"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update setting")
		return
	}
	c.JSON(http.StatusOK, dto.ToSettingResponse(setting))
}
