package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
)

// writeError maps domain errors onto HTTP status codes: unknown entities are
// 404, rejected parameters are 400, everything else is a 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrEntityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidParameter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "details": err.Error()})
	}
}
