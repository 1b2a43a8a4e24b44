// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stockpilot/backend-go/internal/api/handlers"
	"github.com/andresuchdata/stockpilot/backend-go/internal/api/middleware"
	"github.com/andresuchdata/stockpilot/backend-go/internal/service"
)

type Services struct {
	OptimizationService *service.OptimizationService
	ForecastService     *service.ForecastService
	POService           *service.POService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.OptimizationService != nil {
			optimizationHandler := handlers.NewOptimizationHandler(services.OptimizationService)
			apiGroup.GET("/optimize/:store_id", optimizationHandler.OptimizeStore)
		}

		if services.ForecastService != nil {
			forecastHandler := handlers.NewForecastHandler(services.ForecastService)
			apiGroup.POST("/forecast", forecastHandler.Forecast)
			apiGroup.GET("/calendar/events", forecastHandler.GetEvents)
		}

		if services.POService != nil {
			poHandler := handlers.NewPOHandler(services.POService)
			poGroup := apiGroup.Group("/purchase-orders")
			{
				poGroup.POST("", poHandler.CreateDraft)
				poGroup.GET("/stores/:store_id", poHandler.GetStoreDrafts)
			}
			apiGroup.GET("/suppliers", poHandler.GetSuppliers)
			apiGroup.GET("/stores", poHandler.GetStores)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
