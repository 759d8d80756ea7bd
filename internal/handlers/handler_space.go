package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/services"
	"github.com/CoWorkHub/coworking_booking_app/internal/dto"
	"github.com/CoWorkHub/coworking_booking_app/internal/middleware"
)

// spaceHandler handles HTTP requests for the space catalog.
type spaceHandler struct {
	spaceService portssvc.SpaceSvcFacade
	uploadDir    string
}

func newSpaceHandler(ss portssvc.SpaceSvcFacade, uploadDir string) *spaceHandler {
	return &spaceHandler{
		spaceService: ss,
		uploadDir:    uploadDir,
	}
}

// registerSpaceRoutes registers the public, read-only catalog routes.
func registerSpaceRoutes(rg *gin.RouterGroup, spaceService portssvc.SpaceSvcFacade) {
	h := newSpaceHandler(spaceService, "")

	spaces := rg.Group("/spaces")
	{
		spaces.GET("", h.listSpaces)
		spaces.GET("/:id", h.getSpace)
		spaces.GET("/:id/availability", h.checkAvailability)
	}
}

// registerAdminSpaceRoutes registers the back-office catalog management routes.
func registerAdminSpaceRoutes(rg *gin.RouterGroup, spaceService portssvc.SpaceSvcFacade, uploadDir string) {
	h := newSpaceHandler(spaceService, uploadDir)

	spaces := rg.Group("/spaces")
	{
		spaces.POST("", h.createSpace)
		spaces.PUT("/:id", h.updateSpace)
		spaces.POST("/:id/image", h.uploadSpaceImage)
		spaces.DELETE("/:id", h.deleteSpace)
	}
}

// listSpaces godoc
// @Summary List spaces
// @Description Retrieves a filtered, paginated list of spaces
// @Tags spaces
// @Produce  json
// @Param   type query string false "Filter by space type"
// @Param   status query string false "Filter by status"
// @Param   minCapacity query int false "Minimum capacity"
// @Param   maxRate query number false "Maximum hourly rate"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListSpacesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list spaces"
// @Router /spaces [get]
func (h *spaceHandler) listSpaces(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListSpacesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for list spaces", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	spaces, total, err := h.spaceService.ListSpaces(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list spaces")
		return
	}
	c.JSON(http.StatusOK, dto.ListSpacesResponse{Spaces: dto.ToSpaceResponses(spaces), Total: total})
}

// getSpace godoc
// @Summary Get a space by ID
// @Description Retrieves a single space from the catalog
// @Tags spaces
// @Produce  json
// @Param   id path string true "Space ID"
// @Success 200 {object} dto.SpaceResponse
// @Failure 404 {object} map[string]string "Space not found"
// @Failure 500 {object} map[string]string "Failed to retrieve space"
// @Router /spaces/{id} [get]
func (h *spaceHandler) getSpace(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	space, err := h.spaceService.GetSpaceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve space")
		return
	}
	c.JSON(http.StatusOK, dto.ToSpaceResponse(space))
}

// checkAvailability godoc
// @Summary Check space availability
// @Description Reports whether the space is free over the queried window
// @Tags spaces
// @Produce  json
// @Param   id path string true "Space ID"
// @Param   startTime query string true "Window start (RFC3339)"
// @Param   endTime query string true "Window end (RFC3339)"
// @Success 200 {object} dto.AvailabilityResponse
// @Failure 400 {object} map[string]string "Invalid window"
// @Failure 404 {object} map[string]string "Space not found"
// @Failure 500 {object} map[string]string "Failed to check availability"
// @Router /spaces/{id}/availability [get]
func (h *spaceHandler) checkAvailability(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	spaceID := c.Param("id")

	var params dto.AvailabilityParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for availability", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	available, err := h.spaceService.CheckAvailability(c.Request.Context(), spaceID, params.StartTime, params.EndTime)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to check availability")
		return
	}
	c.JSON(http.StatusOK, dto.AvailabilityResponse{
		SpaceID:   spaceID,
		StartTime: params.StartTime,
		EndTime:   params.EndTime,
		Available: available,
	})
}

// createSpace godoc
// @Summary Create a space
// @Description Adds a new space to the catalog. Admin only.
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   space body dto.CreateSpaceRequest true "Space details"
// @Success 201 {object} dto.SpaceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to create space"
// @Security BearerAuth
// @Router /admin/spaces [post]
func (h *spaceHandler) createSpace(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create space", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	space, err := h.spaceService.CreateSpace(c.Request.Context(), adminID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create space")
		return
	}

	logger.Info("Space created", slog.String("space_id", space.SpaceID))
	c.JSON(http.StatusCreated, dto.ToSpaceResponse(space))
}

// updateSpace godoc
// @Summary Update a space
// @Description Applies partial changes to a space. Admin only.
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   id path string true "Space ID"
// @Param   space body dto.UpdateSpaceRequest true "Fields to update"
// @Success 200 {object} dto.SpaceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Space not found"
// @Failure 500 {object} map[string]string "Failed to update space"
// @Security BearerAuth
// @Router /admin/spaces/{id} [put]
func (h *spaceHandler) updateSpace(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for update space", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	space, err := h.spaceService.UpdateSpace(c.Request.Context(), adminID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update space")
		return
	}
	c.JSON(http.StatusOK, dto.ToSpaceResponse(space))
}

// uploadSpaceImage godoc
// @Summary Upload a space image
// @Description Stores an image for a space (jpg, jpeg, png or webp, max 5MB). Admin only.
// @Tags admin
// @Accept  multipart/form-data
// @Produce  json
// @Param   id path string true "Space ID"
// @Param   image formData file true "Image file"
// @Success 200 {object} dto.SpaceResponse
// @Failure 400 {object} map[string]string "Invalid file"
// @Failure 404 {object} map[string]string "Space not found"
// @Failure 500 {object} map[string]string "Failed to store image"
// @Security BearerAuth
// @Router /admin/spaces/{id}/image [post]
func (h *spaceHandler) uploadSpaceImage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	imageURL, err := saveUploadedImage(c, "image", h.uploadDir)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to store image")
		return
	}

	space, err := h.spaceService.SetSpaceImage(c.Request.Context(), adminID, c.Param("id"), imageURL)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to store image")
		return
	}
	c.JSON(http.StatusOK, dto.ToSpaceResponse(space))
}

// deleteSpace godoc
// @Summary Delete a space
// @Description Removes a space that has no upcoming bookings. Admin only.
// @Tags admin
// @Produce  json
// @Param   id path string true "Space ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Space not found"
// @Failure 409 {object} map[string]string "Space has upcoming bookings"
// @Failure 500 {object} map[string]string "Failed to delete space"
// @Security BearerAuth
// @Router /admin/spaces/{id} [delete]
func (h *spaceHandler) deleteSpace(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.spaceService.DeleteSpace(c.Request.Context(), adminID, c.Param("id")); err != nil {
		respondServiceError(c, logger, err, "Failed to delete space")
		return
	}
	c.Status(http.StatusNoContent)
}
