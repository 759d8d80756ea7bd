package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/CoWorkHub/coworking_booking_app/internal/apperrors"
)

// respondServiceError translates service-layer errors into HTTP responses.
// fallbackMsg is used for unclassified errors so internals never leak.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "Resource already exists"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}

// maxUploadSize bounds profile picture and space image uploads.
const maxUploadSize = 5 << 20

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// saveUploadedImage stores a multipart image under uploadDir with a generated
// name and returns the public URL path it will be served from.
func saveUploadedImage(c *gin.Context, formField string, uploadDir string) (string, error) {
	file, err := c.FormFile(formField)
	if err != nil {
		return "", fmt.Errorf("%w: missing %s file", apperrors.ErrValidation, formField)
	}
	if file.Size > maxUploadSize {
		return "", fmt.Errorf("%w: file exceeds 5MB limit", apperrors.ErrValidation)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("%w: unsupported image type %q", apperrors.ErrValidation, ext)
	}

	name := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(uploadDir, name)); err != nil {
		return "", fmt.Errorf("failed to store uploaded file: %w", err)
	}
	return "/uploads/" + name, nil
}
