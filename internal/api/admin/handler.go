package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huddle-ai/huddle/internal/api/response"
	"github.com/huddle-ai/huddle/internal/service"
	"go.uber.org/zap"
)

// Handler handles admin API requests
type Handler struct {
	adminService *service.AdminService
	logger       *zap.Logger
}

// NewHandler creates a new admin handler
func NewHandler(adminService *service.AdminService, logger *zap.Logger) *Handler {
	return &Handler{
		adminService: adminService,
		logger:       logger,
	}
}

// RegisterRoutes registers admin routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats", h.GetStats)
	r.GET("/analyses/:id", h.GetAnalysis)
	r.POST("/cache/clear", h.ClearCache)
	r.POST("/players/sync", h.SyncPlayers)
}

// GetStats reports analysis and snapshot totals
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetAnalysis returns one logged analysis
func (h *Handler) GetAnalysis(c *gin.Context) {
	analysis, err := h.adminService.GetAnalysis(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// ClearCache drops cached Sleeper responses
func (h *Handler) ClearCache(c *gin.Context) {
	n, err := h.adminService.ClearCache(c.Request.Context())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cache cleared", "cleared": n})
}

// SyncPlayers snapshots the player directory
func (h *Handler) SyncPlayers(c *gin.Context) {
	result, err := h.adminService.SyncPlayers(c.Request.Context())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
