package sleeper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/huddle-ai/huddle/internal/domain"
	"github.com/huddle-ai/huddle/internal/metrics"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL        = "https://api.sleeper.app/v1"
	DefaultTimeout        = 10 * time.Second
	DefaultCacheTTL       = time.Hour
	DefaultPlayerCacheTTL = 24 * time.Hour

	defaultSearchLimit   = 10
	defaultTrendingHours = 24
	defaultTrendingLimit = 25
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL        string
	Timeout        time.Duration
	CacheTTL       time.Duration
	PlayerCacheTTL time.Duration
	Cache          Cache
	HTTPClient     *http.Client
	Logger         *zap.Logger
	Now            func() time.Time
}

// Client is a typed read-only wrapper over the Sleeper API
type Client struct {
	baseURL   string
	http      *http.Client
	cache     Cache
	cacheTTL  time.Duration
	playerTTL time.Duration
	logger    *zap.Logger
	now       func() time.Time

	// dirMu is held across a directory fetch so concurrent misses share one request.
	dirMu        sync.Mutex
	directory    map[string]*Player
	dirFetchedAt time.Time
}

// NewClient creates a new Sleeper client
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.PlayerCacheTTL <= 0 {
		opts.PlayerCacheTTL = DefaultPlayerCacheTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Cache == nil {
		opts.Cache = NewMemoryCache(opts.Now)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		http:      opts.HTTPClient,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		playerTTL: opts.PlayerCacheTTL,
		logger:    opts.Logger.With(zap.String("component", "sleeper")),
		now:       opts.Now,
	}
}

// GetUser looks a user up by username
func (c *Client) GetUser(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.get(ctx, "/user/"+url.PathEscape(username), c.cacheTTL, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID looks a user up by id
func (c *Client) GetUserByID(ctx context.Context, userID string) (*User, error) {
	var user User
	if err := c.get(ctx, "/user/"+url.PathEscape(userID), c.cacheTTL, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserLeagues lists the leagues a user plays in for one season
func (c *Client) GetUserLeagues(ctx context.Context, userID, sport, season string) ([]League, error) {
	if sport == "" {
		sport = "nfl"
	}
	var leagues []League
	path := fmt.Sprintf("/user/%s/leagues/%s/%s", url.PathEscape(userID), url.PathEscape(sport), url.PathEscape(season))
	if err := c.get(ctx, path, c.cacheTTL, &leagues); err != nil {
		return nil, err
	}
	return leagues, nil
}

// GetLeague fetches league settings
func (c *Client) GetLeague(ctx context.Context, leagueID string) (*League, error) {
	var league League
	if err := c.get(ctx, "/league/"+url.PathEscape(leagueID), c.cacheTTL, &league); err != nil {
		return nil, err
	}
	return &league, nil
}

// GetLeagueRosters is never cached; rosters change during a session.
func (c *Client) GetLeagueRosters(ctx context.Context, leagueID string) ([]Roster, error) {
	var rosters []Roster
	if err := c.get(ctx, "/league/"+url.PathEscape(leagueID)+"/rosters", 0, &rosters); err != nil {
		return nil, err
	}
	return rosters, nil
}

// GetLeagueUsers lists the league members
func (c *Client) GetLeagueUsers(ctx context.Context, leagueID string) ([]LeagueUser, error) {
	var users []LeagueUser
	if err := c.get(ctx, "/league/"+url.PathEscape(leagueID)+"/users", c.cacheTTL, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetMatchups lists one week of matchups. Never cached.
func (c *Client) GetMatchups(ctx context.Context, leagueID string, week int) ([]Matchup, error) {
	var matchups []Matchup
	path := fmt.Sprintf("/league/%s/matchups/%d", url.PathEscape(leagueID), week)
	if err := c.get(ctx, path, 0, &matchups); err != nil {
		return nil, err
	}
	return matchups, nil
}

// GetTransactions lists one week of league transactions. Never cached.
func (c *Client) GetTransactions(ctx context.Context, leagueID string, week int) ([]Transaction, error) {
	var txns []Transaction
	path := fmt.Sprintf("/league/%s/transactions/%d", url.PathEscape(leagueID), week)
	if err := c.get(ctx, path, 0, &txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// GetTradedPicks lists draft picks that changed hands
func (c *Client) GetTradedPicks(ctx context.Context, leagueID string) ([]TradedPick, error) {
	var picks []TradedPick
	if err := c.get(ctx, "/league/"+url.PathEscape(leagueID)+"/traded_picks", c.cacheTTL, &picks); err != nil {
		return nil, err
	}
	return picks, nil
}

// GetAllPlayers returns the full NFL player directory keyed by player id.
// The directory is fetched at most once per player TTL.
func (c *Client) GetAllPlayers(ctx context.Context) (map[string]*Player, error) {
	c.dirMu.Lock()
	defer c.dirMu.Unlock()

	if c.directory != nil && c.now().Sub(c.dirFetchedAt) < c.playerTTL {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return c.directory, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	var players map[string]*Player
	if err := c.get(ctx, "/players/nfl", 0, &players); err != nil {
		return nil, err
	}
	for id, p := range players {
		if p == nil {
			delete(players, id)
			continue
		}
		if p.PlayerID == "" {
			p.PlayerID = id
		}
	}

	c.directory = players
	c.dirFetchedAt = c.now()
	c.logger.Info("Loaded player directory", zap.Int("players", len(players)))
	return players, nil
}

// GetPlayer looks a player up in the directory. Unknown ids return nil, nil.
func (c *Client) GetPlayer(ctx context.Context, playerID string) (*Player, error) {
	players, err := c.GetAllPlayers(ctx)
	if err != nil {
		return nil, err
	}
	return players[playerID], nil
}

// SearchPlayers matches query against "first last" and last name,
// ordered by search rank descending.
func (c *Client) SearchPlayers(ctx context.Context, query string, limit int) ([]*Player, error) {
	players, err := c.GetAllPlayers(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	q := strings.ToLower(query)
	var results []*Player
	for _, p := range players {
		fullName := strings.ToLower(p.FirstName + " " + p.LastName)
		if strings.Contains(fullName, q) || strings.Contains(strings.ToLower(p.LastName), q) {
			results = append(results, p)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		ri, rj := rank(results[i]), rank(results[j])
		if ri != rj {
			return ri > rj
		}
		return results[i].PlayerID < results[j].PlayerID
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func rank(p *Player) int {
	if p.SearchRank == nil {
		return 0
	}
	return *p.SearchRank
}

// GetTrendingPlayers lists players by recent add or drop volume. Never cached.
func (c *Client) GetTrendingPlayers(ctx context.Context, kind domain.TrendingType, lookbackHours, limit int) ([]TrendingPlayer, error) {
	if lookbackHours <= 0 {
		lookbackHours = defaultTrendingHours
	}
	if limit <= 0 {
		limit = defaultTrendingLimit
	}
	var trending []TrendingPlayer
	path := fmt.Sprintf("/players/nfl/trending/%s?lookback_hours=%d&limit=%d", kind, lookbackHours, limit)
	if err := c.get(ctx, path, 0, &trending); err != nil {
		return nil, err
	}
	return trending, nil
}

// GetNFLState reports the current season and week. Never cached.
func (c *Client) GetNFLState(ctx context.Context) (*NFLState, error) {
	var state NFLState
	if err := c.get(ctx, "/state/nfl", 0, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// ClearCache drops every cached response and the player directory
func (c *Client) ClearCache(ctx context.Context) error {
	if err := c.cache.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	c.dirMu.Lock()
	c.directory = nil
	c.dirMu.Unlock()
	c.logger.Info("Sleeper cache cleared")
	return nil
}

// CacheSize reports the number of cached responses
func (c *Client) CacheSize(ctx context.Context) (int, error) {
	return c.cache.Len(ctx)
}

// get fetches path into out. A positive ttl enables the response cache.
func (c *Client) get(ctx context.Context, path string, ttl time.Duration, out any) error {
	if ttl > 0 {
		data, ok, err := c.cache.Get(ctx, path, ttl)
		if err != nil {
			c.logger.Warn("Cache read failed", zap.String("endpoint", path), zap.Error(err))
		}
		if ok {
			decodeErr := json.Unmarshal(data, out)
			if decodeErr == nil {
				metrics.CacheLookups.WithLabelValues("hit").Inc()
				c.logger.Debug("Cache hit", zap.String("endpoint", path))
				return nil
			}
			// unreadable entry: refetch and overwrite it
			c.logger.Warn("Cached response undecodable", zap.String("endpoint", path), zap.Error(decodeErr))
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	body, err := c.fetch(ctx, path)
	if err != nil {
		c.logger.Error("Sleeper API error", zap.String("endpoint", path), zap.Error(err))
		return domain.NewExternalAPIError(domain.ServiceSleeper,
			fmt.Sprintf("Failed to fetch data from Sleeper API: %v", err), err)
	}

	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return domain.NewNotFoundError(fmt.Sprintf("Sleeper resource not found: %s", path))
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Error("Sleeper API returned malformed body", zap.String("endpoint", path), zap.Error(err))
		return domain.NewExternalAPIError(domain.ServiceSleeper,
			fmt.Sprintf("Failed to fetch data from Sleeper API: %v", err), err)
	}

	if ttl > 0 {
		if err := c.cache.Set(ctx, path, body, ttl); err != nil {
			c.logger.Warn("Cache write failed", zap.String("endpoint", path), zap.Error(err))
		}
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamDuration.WithLabelValues(domain.ServiceSleeper).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Sleeper API request", zap.String("endpoint", path))
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(domain.ServiceSleeper, metrics.OutcomeError).Inc()
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(domain.ServiceSleeper, metrics.OutcomeError).Inc()
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.UpstreamRequests.WithLabelValues(domain.ServiceSleeper, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	metrics.UpstreamRequests.WithLabelValues(domain.ServiceSleeper, metrics.OutcomeOK).Inc()
	return body, nil
}
