package assistant

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huddle-ai/huddle/internal/api/response"
	"github.com/huddle-ai/huddle/internal/domain"
	"github.com/huddle-ai/huddle/internal/service"
	"go.uber.org/zap"
)

// Handler serves the model-backed mutations
type Handler struct {
	analysisService *service.AnalysisService
	logger          *zap.Logger
	now             func() time.Time
}

// NewHandler creates a new assistant handler
func NewHandler(analysisService *service.AnalysisService, logger *zap.Logger) *Handler {
	return &Handler{
		analysisService: analysisService,
		logger:          logger,
		now:             time.Now,
	}
}

// RegisterRoutes registers assistant routes under /api
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/chat", h.Chat)
	r.POST("/lineup/optimize", h.OptimizeLineup)
	r.POST("/waivers/recommendations", h.WaiverRecommendations)
	r.POST("/trades/evaluate", h.EvaluateTrade)
}

// Chat answers a free-text question
func (h *Handler) Chat(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, h.logger, response.BindError(err))
		return
	}

	resp, err := h.analysisService.ProcessUserQuery(c.Request.Context(), service.ChatInput{
		Message:  req.Message,
		LeagueID: req.LeagueID,
		UserID:   req.UserID,
		History:  req.ConversationHistory,
	})
	h.reply(c, resp, err)
}

// OptimizeLineup recommends starters for a week, defaulting to the current one
func (h *Handler) OptimizeLineup(c *gin.Context) {
	var req domain.OptimizeLineupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, h.logger, response.BindError(err))
		return
	}

	week := 0
	if req.Week != nil {
		if *req.Week < 1 {
			response.Error(c, h.logger, domain.NewValidationError("week must be at least 1, got %d", *req.Week))
			return
		}
		week = *req.Week
	}

	resp, err := h.analysisService.OptimizeLineup(c.Request.Context(), req.LeagueID, req.UserID, week)
	h.reply(c, resp, err)
}

// WaiverRecommendations ranks trending adds against the caller's roster
func (h *Handler) WaiverRecommendations(c *gin.Context) {
	var req domain.WaiverRecommendationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, h.logger, response.BindError(err))
		return
	}

	limit := 0
	if req.Limit != nil {
		if *req.Limit < 1 {
			response.Error(c, h.logger, domain.NewValidationError("limit must be at least 1, got %d", *req.Limit))
			return
		}
		limit = *req.Limit
	}

	resp, err := h.analysisService.GetWaiverRecommendations(c.Request.Context(), req.LeagueID, req.UserID, limit)
	h.reply(c, resp, err)
}

// EvaluateTrade judges a proposed trade
func (h *Handler) EvaluateTrade(c *gin.Context) {
	var req domain.EvaluateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, h.logger, response.BindError(err))
		return
	}

	resp, err := h.analysisService.EvaluateTrade(c.Request.Context(), req.Message, req.LeagueID, req.UserID)
	h.reply(c, resp, err)
}

func (h *Handler) reply(c *gin.Context, resp *domain.AnalysisResponse, err error) {
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, domain.NewChatResponse(resp, h.now()))
}
