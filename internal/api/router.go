package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huddle-ai/huddle/internal/api/admin"
	"github.com/huddle-ai/huddle/internal/api/assistant"
	"github.com/huddle-ai/huddle/internal/api/fantasy"
	"github.com/huddle-ai/huddle/internal/api/middleware"
	"github.com/huddle-ai/huddle/internal/api/response"
	"github.com/huddle-ai/huddle/internal/domain"
	"github.com/huddle-ai/huddle/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	APIKey       string
	AllowOrigins []string
}

// Services bundles what the handlers call into
type Services struct {
	League   *service.LeagueService
	Analysis *service.AnalysisService
	Admin    *service.AdminService
}

// SetupRouter sets up the Gin router
func SetupRouter(svc Services, cfg RouterConfig, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.AllowOrigins))

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, logger, domain.NewNotFoundError("Route not found"))
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")
	fantasy.NewHandler(svc.League, logger).RegisterRoutes(apiGroup)
	assistant.NewHandler(svc.Analysis, logger).RegisterRoutes(apiGroup)

	// Admin API (requires API key)
	adminGroup := apiGroup.Group("/admin")
	adminGroup.Use(middleware.Auth(cfg.APIKey, logger))
	admin.NewHandler(svc.Admin, logger).RegisterRoutes(adminGroup)

	return r
}
