package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/services"
	"github.com/CoWorkHub/coworking_booking_app/internal/dto"
	"github.com/CoWorkHub/coworking_booking_app/internal/middleware"
)

// userHandler handles HTTP requests for the caller's own account.
type userHandler struct {
	userService      portssvc.UserSvcFacade
	activityService  portssvc.ActivitySvcFacade
	reportingService portssvc.ReportingSvcFacade
	uploadDir        string
}

func newUserHandler(us portssvc.UserSvcFacade, as portssvc.ActivitySvcFacade, rs portssvc.ReportingSvcFacade, uploadDir string) *userHandler {
	return &userHandler{
		userService:      us,
		activityService:  as,
		reportingService: rs,
		uploadDir:        uploadDir,
	}
}

// registerUserRoutes registers the self-service account routes.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade, activityService portssvc.ActivitySvcFacade, reportingService portssvc.ReportingSvcFacade, uploadDir string) {
	h := newUserHandler(userService, activityService, reportingService, uploadDir)

	users := rg.Group("/users")
	{
		users.GET("/me", h.getProfile)
		users.PUT("/me", h.updateProfile)
		users.DELETE("/me", h.requestDeletion)
		users.POST("/me/password", h.changePassword)
		users.POST("/me/picture", h.uploadProfilePicture)
		users.GET("/me/activities", h.listActivities)
		users.GET("/me/stats", h.getMemberStats)
		users.POST("/me/2fa/setup", h.setupTwoFactor)
		users.POST("/me/2fa/enable", h.enableTwoFactor)
		users.POST("/me/2fa/disable", h.disableTwoFactor)
	}
}

// registerAdminUserRoutes registers the back-office user management routes.
func registerAdminUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService, nil, nil, "")

	users := rg.Group("/users")
	{
		users.GET("", h.listUsers)
		users.GET("/:id", h.getUser)
		users.PUT("/:id", h.adminUpdateUser)
		users.DELETE("/:id", h.adminDeleteUser)
	}
}

// getProfile godoc
// @Summary Get own profile
// @Description Retrieves the authenticated user's profile
// @Tags users
// @Produce  json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve profile"
// @Security BearerAuth
// @Router /users/me [get]
func (h *userHandler) getProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// updateProfile godoc
// @Summary Update own profile
// @Description Applies partial changes to the authenticated user's profile
// @Tags users
// @Accept  json
// @Produce  json
// @Param   profile body dto.UpdateProfileRequest true "Profile fields to update"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to update profile"
// @Security BearerAuth
// @Router /users/me [put]
func (h *userHandler) updateProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for update profile", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// changePassword godoc
// @Summary Change own password
// @Description Verifies the current password and sets a new one
// @Tags users
// @Accept  json
// @Produce  json
// @Param   passwords body dto.ChangePasswordRequest true "Current and new password"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Current password incorrect"
// @Failure 500 {object} map[string]string "Failed to change password"
// @Security BearerAuth
// @Router /users/me/password [post]
func (h *userHandler) changePassword(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for change password", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, req); err != nil {
		respondServiceError(c, logger, err, "Failed to change password")
		return
	}
	c.Status(http.StatusNoContent)
}

// uploadProfilePicture godoc
// @Summary Upload own profile picture
// @Description Stores a profile picture (jpg, jpeg, png or webp, max 5MB)
// @Tags users
// @Accept  multipart/form-data
// @Produce  json
// @Param   picture formData file true "Image file"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} map[string]string "Invalid file"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to store picture"
// @Security BearerAuth
// @Router /users/me/picture [post]
func (h *userHandler) uploadProfilePicture(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	imageURL, err := saveUploadedImage(c, "picture", h.uploadDir)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to store picture")
		return
	}

	user, err := h.userService.SetProfilePicture(c.Request.Context(), userID, imageURL)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to store picture")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// requestDeletion godoc
// @Summary Request account deletion
// @Description Verifies the password, marks the account for deletion and deactivates it
// @Tags users
// @Accept  json
// @Produce  json
// @Param   confirmation body dto.DeleteAccountRequest true "Password confirmation"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Password incorrect"
// @Failure 409 {object} map[string]string "Deletion already requested"
// @Failure 500 {object} map[string]string "Failed to request deletion"
// @Security BearerAuth
// @Router /users/me [delete]
func (h *userHandler) requestDeletion(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for account deletion", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.userService.RequestDeletion(c.Request.Context(), userID, req); err != nil {
		respondServiceError(c, logger, err, "Failed to request deletion")
		return
	}
	c.Status(http.StatusNoContent)
}

// listActivities godoc
// @Summary List own activity log
// @Description Retrieves the authenticated user's activity log, newest first
// @Tags users
// @Produce  json
// @Param   type query string false "Filter by activity type"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListActivitiesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list activities"
// @Security BearerAuth
// @Router /users/me/activities [get]
func (h *userHandler) listActivities(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListActivitiesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for activities", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	activities, total, err := h.activityService.ListUserActivities(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list activities")
		return
	}
	c.JSON(http.StatusOK, dto.ToListActivitiesResponse(activities, total))
}

// getMemberStats godoc
// @Summary Get own dashboard stats
// @Description Retrieves the authenticated user's booking and spend totals
// @Tags users
// @Produce  json
// @Success 200 {object} dto.MemberStatsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve stats"
// @Security BearerAuth
// @Router /users/me/stats [get]
func (h *userHandler) getMemberStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	stats, err := h.reportingService.MemberStats(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve stats")
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberStatsResponse(*stats))
}

// setupTwoFactor godoc
// @Summary Begin 2FA setup
// @Description Generates a TOTP secret and provisioning URL for the authenticator app
// @Tags users
// @Produce  json
// @Success 200 {object} dto.TwoFactorSetupResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "2FA already enabled"
// @Failure 500 {object} map[string]string "Failed to set up 2FA"
// @Security BearerAuth
// @Router /users/me/2fa/setup [post]
func (h *userHandler) setupTwoFactor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.userService.SetupTwoFactor(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to set up 2FA")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// enableTwoFactor godoc
// @Summary Confirm 2FA setup
// @Description Confirms the pending TOTP secret with a valid code and enables 2FA
// @Tags users
// @Accept  json
// @Produce  json
// @Param   code body dto.TwoFactorVerifyRequest true "TOTP code"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "No pending setup"
// @Failure 401 {object} map[string]string "Invalid code"
// @Failure 500 {object} map[string]string "Failed to enable 2FA"
// @Security BearerAuth
// @Router /users/me/2fa/enable [post]
func (h *userHandler) enableTwoFactor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.TwoFactorVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.userService.EnableTwoFactor(c.Request.Context(), userID, req.Code); err != nil {
		respondServiceError(c, logger, err, "Failed to enable 2FA")
		return
	}
	c.Status(http.StatusNoContent)
}

// disableTwoFactor godoc
// @Summary Disable 2FA
// @Description Turns 2FA off after verifying a valid TOTP code
// @Tags users
// @Accept  json
// @Produce  json
// @Param   code body dto.TwoFactorVerifyRequest true "TOTP code"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "2FA not enabled"
// @Failure 401 {object} map[string]string "Invalid code"
// @Failure 500 {object} map[string]string "Failed to disable 2FA"
// @Security BearerAuth
// @Router /users/me/2fa/disable [post]
func (h *userHandler) disableTwoFactor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.TwoFactorVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.userService.DisableTwoFactor(c.Request.Context(), userID, req.Code); err != nil {
		respondServiceError(c, logger, err, "Failed to disable 2FA")
		return
	}
	c.Status(http.StatusNoContent)
}

// listUsers godoc
// @Summary List users
// @Description Retrieves a filtered, paginated list of users. Admin only.
// @Tags admin
// @Produce  json
// @Param   role query string false "Filter by role"
// @Param   status query string false "Filter by status"
// @Param   search query string false "Match username or email"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListUsersResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to list users"
// @Security BearerAuth
// @Router /admin/users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for list users", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	users, total, err := h.userService.ListUsers(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, dto.ToListUsersResponse(users, total))
}

// getUser godoc
// @Summary Get a user by ID
// @Description Retrieves any user's profile. Admin only.
// @Tags admin
// @Produce  json
// @Param   id path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Failed to retrieve user"
// @Security BearerAuth
// @Router /admin/users/{id} [get]
func (h *userHandler) getUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	user, err := h.userService.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// adminUpdateUser godoc
// @Summary Update a user's role, membership or status
// @Description Changes administrative fields on any user. Admin only.
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   id path string true "User ID"
// @Param   user body dto.AdminUpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Failed to update user"
// @Security BearerAuth
// @Router /admin/users/{id} [put]
func (h *userHandler) adminUpdateUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for admin user update", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userService.AdminUpdateUser(c.Request.Context(), adminID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// adminDeleteUser godoc
// @Summary Delete a user
// @Description Soft-deletes a user account. Admin only; admins cannot delete themselves.
// @Tags admin
// @Produce  json
// @Param   id path string true "User ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Cannot delete own account"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Failed to delete user"
// @Security BearerAuth
// @Router /admin/users/{id} [delete]
func (h *userHandler) adminDeleteUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.userService.AdminDeleteUser(c.Request.Context(), adminID, c.Param("id")); err != nil {
		respondServiceError(c, logger, err, "Failed to delete user")
		return
	}
	c.Status(http.StatusNoContent)
}
