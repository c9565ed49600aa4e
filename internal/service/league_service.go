package service

import (
	"context"
	"strings"
	"sync"

	"github.com/huddle-ai/huddle/internal/domain"
	"github.com/huddle-ai/huddle/internal/sleeper"
	"go.uber.org/zap"
)

const (
	maxListLimit          = 100
	defaultSearchLimit    = 10
	defaultTrendingLimit  = 25
	defaultTrendingWindow = 24
)

// LeagueProvider is the read surface of the Sleeper client exposed to callers
type LeagueProvider interface {
	DataProvider
	GetUser(ctx context.Context, username string) (*sleeper.User, error)
	GetUserByID(ctx context.Context, userID string) (*sleeper.User, error)
	GetUserLeagues(ctx context.Context, userID, sport, season string) ([]sleeper.League, error)
	GetLeagueUsers(ctx context.Context, leagueID string) ([]sleeper.LeagueUser, error)
	GetTransactions(ctx context.Context, leagueID string, week int) ([]sleeper.Transaction, error)
	GetTradedPicks(ctx context.Context, leagueID string) ([]sleeper.TradedPick, error)
}

// LeagueService validates read queries and converts provider records to API records
type LeagueService struct {
	provider LeagueProvider
	logger   *zap.Logger
}

// NewLeagueService creates a new league service
func NewLeagueService(provider LeagueProvider, logger *zap.Logger) *LeagueService {
	return &LeagueService{
		provider: provider,
		logger:   logger.With(zap.String("component", "league")),
	}
}

func (s *LeagueService) GetUser(ctx context.Context, username string) (*domain.User, error) {
	if err := required("username", username); err != nil {
		return nil, err
	}
	u, err := s.provider.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return sleeper.ToUser(u), nil
}

func (s *LeagueService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	if err := required("userId", userID); err != nil {
		return nil, err
	}
	u, err := s.provider.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sleeper.ToUser(u), nil
}

func (s *LeagueService) GetUserLeagues(ctx context.Context, userID, sport, season string) ([]*domain.League, error) {
	if err := required("userId", userID); err != nil {
		return nil, err
	}
	if err := required("season", season); err != nil {
		return nil, err
	}
	if sport == "" {
		sport = "nfl"
	}
	leagues, err := s.provider.GetUserLeagues(ctx, userID, sport, season)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.League, len(leagues))
	for i := range leagues {
		out[i] = sleeper.ToLeague(&leagues[i])
	}
	return out, nil
}

func (s *LeagueService) GetLeague(ctx context.Context, leagueID string) (*domain.League, error) {
	if err := required("leagueId", leagueID); err != nil {
		return nil, err
	}
	l, err := s.provider.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return sleeper.ToLeague(l), nil
}

func (s *LeagueService) GetLeagueRosters(ctx context.Context, leagueID string) ([]*domain.Roster, error) {
	if err := required("leagueId", leagueID); err != nil {
		return nil, err
	}
	rosters, err := s.provider.GetLeagueRosters(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Roster, len(rosters))
	for i := range rosters {
		out[i] = sleeper.ToRoster(&rosters[i])
	}
	return out, nil
}

func (s *LeagueService) GetLeagueUsers(ctx context.Context, leagueID string) ([]*domain.LeagueUser, error) {
	if err := required("leagueId", leagueID); err != nil {
		return nil, err
	}
	users, err := s.provider.GetLeagueUsers(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.LeagueUser, len(users))
	for i := range users {
		out[i] = sleeper.ToLeagueUser(&users[i])
	}
	return out, nil
}

func (s *LeagueService) GetMatchups(ctx context.Context, leagueID string, week int) ([]*domain.Matchup, error) {
	if err := required("leagueId", leagueID); err != nil {
		return nil, err
	}
	if week < 1 {
		return nil, domain.NewValidationError("week must be at least 1, got %d", week)
	}
	matchups, err := s.provider.GetMatchups(ctx, leagueID, week)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Matchup, len(matchups))
	for i := range matchups {
		out[i] = sleeper.ToMatchup(&matchups[i])
	}
	return out, nil
}

func (s *LeagueService) GetTransactions(ctx context.Context, leagueID string, week int) ([]*domain.Transaction, error) {
	if err := required("leagueId", leagueID); err != nil {
		return nil, err
	}
	if week < 1 {
		return nil, domain.NewValidationError("week must be at least 1, got %d", week)
	}
	txns, err := s.provider.GetTransactions(ctx, leagueID, week)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Transaction, len(txns))
	for i := range txns {
		out[i] = sleeper.ToTransaction(&txns[i])
	}
	return out, nil
}

func (s *LeagueService) GetTradedPicks(ctx context.Context, leagueID string) ([]*domain.TradedPick, error) {
	if err := required("leagueId", leagueID); err != nil {
		return nil, err
	}
	picks, err := s.provider.GetTradedPicks(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.TradedPick, len(picks))
	for i := range picks {
		out[i] = sleeper.ToTradedPick(&picks[i])
	}
	return out, nil
}

// GetPlayer returns ErrPlayerNotFound for ids missing from the directory
func (s *LeagueService) GetPlayer(ctx context.Context, playerID string) (*domain.Player, error) {
	if err := required("playerId", playerID); err != nil {
		return nil, err
	}
	p, err := s.provider.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrPlayerNotFound
	}
	return sleeper.ToPlayer(p), nil
}

func (s *LeagueService) SearchPlayers(ctx context.Context, query string, limit int) ([]*domain.Player, error) {
	if err := required("query", query); err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = defaultSearchLimit
	}
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	players, err := s.provider.SearchPlayers(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Player, len(players))
	for i, p := range players {
		out[i] = sleeper.ToPlayer(p)
	}
	return out, nil
}

// GetTrendingPlayers lists trending players with their directory records
// resolved concurrently. Unknown ids keep a nil player.
func (s *LeagueService) GetTrendingPlayers(ctx context.Context, kind domain.TrendingType, lookbackHours, limit int) ([]*domain.TrendingPlayer, error) {
	if !kind.Valid() {
		return nil, domain.NewValidationError("type must be add or drop, got %q", kind)
	}
	if lookbackHours == 0 {
		lookbackHours = defaultTrendingWindow
	}
	if lookbackHours < 1 || lookbackHours > 168 {
		return nil, domain.NewValidationError("lookbackHours must be between 1 and 168, got %d", lookbackHours)
	}
	if limit == 0 {
		limit = defaultTrendingLimit
	}
	if err := checkLimit(limit); err != nil {
		return nil, err
	}

	trending, err := s.provider.GetTrendingPlayers(ctx, kind, lookbackHours, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.TrendingPlayer, len(trending))
	var wg sync.WaitGroup
	for i, t := range trending {
		out[i] = &domain.TrendingPlayer{PlayerID: t.PlayerID, Count: t.Count}
		wg.Add(1)
		go func(tp *domain.TrendingPlayer) {
			defer wg.Done()
			p, err := s.provider.GetPlayer(ctx, tp.PlayerID)
			if err != nil {
				s.logger.Debug("Could not resolve trending player", zap.String("player_id", tp.PlayerID), zap.Error(err))
				return
			}
			tp.Player = sleeper.ToPlayer(p)
		}(out[i])
	}
	wg.Wait()
	return out, nil
}

func (s *LeagueService) GetNFLState(ctx context.Context) (*domain.NFLState, error) {
	state, err := s.provider.GetNFLState(ctx)
	if err != nil {
		return nil, err
	}
	return sleeper.ToNFLState(state), nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewValidationError("%s is required", field)
	}
	return nil
}

func checkLimit(limit int) error {
	if limit < 1 || limit > maxListLimit {
		return domain.NewValidationError("limit must be between 1 and %d, got %d", maxListLimit, limit)
	}
	return nil
}
