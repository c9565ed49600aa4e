package fantasy

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/huddle-ai/huddle/internal/api/response"
	"github.com/huddle-ai/huddle/internal/domain"
	"github.com/huddle-ai/huddle/internal/service"
	"go.uber.org/zap"
)

// Handler serves the read-only league, player and calendar queries
type Handler struct {
	leagueService *service.LeagueService
	logger        *zap.Logger
}

// NewHandler creates a new fantasy data handler
func NewHandler(leagueService *service.LeagueService, logger *zap.Logger) *Handler {
	return &Handler{leagueService: leagueService, logger: logger}
}

// RegisterRoutes registers query routes under /api
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("/by-name/:username", h.GetUser)
		users.GET("/:userId", h.GetUserByID)
		users.GET("/:userId/leagues", h.GetUserLeagues)
	}

	leagues := r.Group("/leagues/:leagueId")
	{
		leagues.GET("", h.GetLeague)
		leagues.GET("/rosters", h.GetLeagueRosters)
		leagues.GET("/users", h.GetLeagueUsers)
		leagues.GET("/matchups/:week", h.GetMatchups)
		leagues.GET("/transactions/:week", h.GetTransactions)
		leagues.GET("/traded-picks", h.GetTradedPicks)
	}

	players := r.Group("/players")
	{
		players.GET("/search", h.SearchPlayers)
		players.GET("/trending/:type", h.GetTrendingPlayers)
		players.GET("/:playerId", h.GetPlayer)
	}

	r.GET("/state/nfl", h.GetNFLState)
}

// GetUser resolves a user by username
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.leagueService.GetUser(c.Request.Context(), c.Param("username"))
	h.reply(c, user, err)
}

// GetUserByID resolves a user by id
func (h *Handler) GetUserByID(c *gin.Context) {
	user, err := h.leagueService.GetUserByID(c.Request.Context(), c.Param("userId"))
	h.reply(c, user, err)
}

// GetUserLeagues lists a user's leagues for a sport and season
func (h *Handler) GetUserLeagues(c *gin.Context) {
	leagues, err := h.leagueService.GetUserLeagues(c.Request.Context(),
		c.Param("userId"), c.DefaultQuery("sport", "nfl"), c.Query("season"))
	h.reply(c, leagues, err)
}

// GetLeague returns one league
func (h *Handler) GetLeague(c *gin.Context) {
	league, err := h.leagueService.GetLeague(c.Request.Context(), c.Param("leagueId"))
	h.reply(c, league, err)
}

// GetLeagueRosters returns every roster in a league
func (h *Handler) GetLeagueRosters(c *gin.Context) {
	rosters, err := h.leagueService.GetLeagueRosters(c.Request.Context(), c.Param("leagueId"))
	h.reply(c, rosters, err)
}

// GetLeagueUsers returns league members
func (h *Handler) GetLeagueUsers(c *gin.Context) {
	users, err := h.leagueService.GetLeagueUsers(c.Request.Context(), c.Param("leagueId"))
	h.reply(c, users, err)
}

// GetMatchups returns one week of matchups
func (h *Handler) GetMatchups(c *gin.Context) {
	week, err := intParam(c.Param("week"), "week")
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	matchups, err := h.leagueService.GetMatchups(c.Request.Context(), c.Param("leagueId"), week)
	h.reply(c, matchups, err)
}

// GetTransactions returns one week of transactions
func (h *Handler) GetTransactions(c *gin.Context) {
	week, err := intParam(c.Param("week"), "week")
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	txns, err := h.leagueService.GetTransactions(c.Request.Context(), c.Param("leagueId"), week)
	h.reply(c, txns, err)
}

// GetTradedPicks returns traded draft picks
func (h *Handler) GetTradedPicks(c *gin.Context) {
	picks, err := h.leagueService.GetTradedPicks(c.Request.Context(), c.Param("leagueId"))
	h.reply(c, picks, err)
}

// GetPlayer returns one player or 404
func (h *Handler) GetPlayer(c *gin.Context) {
	player, err := h.leagueService.GetPlayer(c.Request.Context(), c.Param("playerId"))
	h.reply(c, player, err)
}

// SearchPlayers searches players by name
func (h *Handler) SearchPlayers(c *gin.Context) {
	limit, err := optionalInt(c.Query("limit"), "limit")
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	players, err := h.leagueService.SearchPlayers(c.Request.Context(), c.Query("query"), limit)
	h.reply(c, players, err)
}

// GetTrendingPlayers returns trending adds or drops
func (h *Handler) GetTrendingPlayers(c *gin.Context) {
	lookback, err := optionalInt(c.Query("lookbackHours"), "lookbackHours")
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	limit, err := optionalInt(c.Query("limit"), "limit")
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	trending, err := h.leagueService.GetTrendingPlayers(c.Request.Context(),
		domain.TrendingType(c.Param("type")), lookback, limit)
	h.reply(c, trending, err)
}

// GetNFLState returns the current season state
func (h *Handler) GetNFLState(c *gin.Context) {
	state, err := h.leagueService.GetNFLState(c.Request.Context())
	h.reply(c, state, err)
}

func (h *Handler) reply(c *gin.Context, body any, err error) {
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, body)
}

func intParam(raw, name string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError("%s must be an integer, got %q", name, raw)
	}
	return n, nil
}

// optionalInt treats an absent value as 0 so the service applies its default
func optionalInt(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := intParam(raw, name)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, domain.NewValidationError("%s must be positive, got 0", name)
	}
	return n, nil
}
