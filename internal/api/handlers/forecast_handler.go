package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stockpilot/backend-go/internal/service"
)

type ForecastHandler struct {
	service *service.ForecastService
}

func NewForecastHandler(service *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

// Forecast projects demand for a store's catalog over the requested horizon.
func (h *ForecastHandler) Forecast(c *gin.Context) {
	var req service.ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	resp, err := h.service.ForecastStore(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetEvents lists the demand-affecting calendar events of a market. The range
// defaults to the next 30 days.
func (h *ForecastHandler) GetEvents(c *gin.Context) {
	market := strings.TrimSpace(c.Query("market"))
	if market == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "market is required"})
		return
	}

	now := time.Now().UTC()
	from, ok := parseDate(c.DefaultQuery("from", now.Format("2006-01-02")))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
		return
	}
	to, ok := parseDate(c.DefaultQuery("to", now.AddDate(0, 0, 30).Format("2006-01-02")))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected YYYY-MM-DD"})
		return
	}

	events, err := h.service.Events(c.Request.Context(), market, from, to)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"market": market, "events": events})
}

func parseDate(value string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
