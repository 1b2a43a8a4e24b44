package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stockpilot/backend-go/internal/service"
)

type OptimizationHandler struct {
	service *service.OptimizationService
}

func NewOptimizationHandler(service *service.OptimizationService) *OptimizationHandler {
	return &OptimizationHandler{service: service}
}

// OptimizeStore runs the optimization batch for one store. Lead time and
// service level come from query parameters with working defaults.
func (h *OptimizationHandler) OptimizeStore(c *gin.Context) {
	storeID, err := strconv.ParseInt(c.Param("store_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid store id"})
		return
	}

	leadTimeDays, err := strconv.Atoi(c.DefaultQuery("lead_time_days", "7"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead_time_days"})
		return
	}

	serviceLevel, err := strconv.ParseFloat(c.DefaultQuery("service_level", "0.95"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service_level"})
		return
	}

	resp, err := h.service.OptimizeStore(c.Request.Context(), storeID, leadTimeDays, serviceLevel)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
