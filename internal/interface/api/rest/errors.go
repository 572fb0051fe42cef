package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xeyame/sharry/internal/domain/share"
)

// respondError maps domain errors onto the HTTP surface. Ownership
// failures and missing records share a 404 so callers cannot probe for
// existence; everything unmapped is a 500 and gets logged.
func respondError(c *gin.Context, logger *zap.Logger, op string, err error) {
	var qerr *share.QuotaExceededError

	switch {
	case errors.Is(err, share.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "share not found"})
	case errors.Is(err, share.ErrPasswordMissing):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "share password required"})
	case errors.Is(err, share.ErrPasswordMismatch):
		c.JSON(http.StatusForbidden, gin.H{"error": "share password mismatch"})
	case errors.Is(err, share.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &qerr):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":    err.Error(),
			"max_size": qerr.MaxSize,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		logger.Error(op+" error", zap.Error(err))
	}
}
