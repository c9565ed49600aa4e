package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/huddle-ai/huddle/internal/domain"
	"github.com/huddle-ai/huddle/internal/metrics"
	"github.com/huddle-ai/huddle/internal/sleeper"
	"go.uber.org/zap"
)

const (
	defaultWaiverLimit   = 10
	waiverLookbackHours  = 24
	notFoundPlayerFormat = `I couldn't find information about "%s". Please check the spelling or try a different player.`
)

// DataProvider is the subset of the Sleeper client the analysis pipeline reads.
type DataProvider interface {
	GetNFLState(ctx context.Context) (*sleeper.NFLState, error)
	GetLeague(ctx context.Context, leagueID string) (*sleeper.League, error)
	GetLeagueRosters(ctx context.Context, leagueID string) ([]sleeper.Roster, error)
	GetMatchups(ctx context.Context, leagueID string, week int) ([]sleeper.Matchup, error)
	GetPlayer(ctx context.Context, playerID string) (*sleeper.Player, error)
	SearchPlayers(ctx context.Context, query string, limit int) ([]*sleeper.Player, error)
	GetTrendingPlayers(ctx context.Context, kind domain.TrendingType, lookbackHours, limit int) ([]sleeper.TrendingPlayer, error)
}

// AnalysisRecorder persists completed analyses
type AnalysisRecorder interface {
	Create(analysis *domain.Analysis) error
}

// ContextBundle is the per-request set of facts handed to the model.
// Fields whose fetch failed are left empty.
type ContextBundle struct {
	CurrentWeek      int               `json:"currentWeek,omitempty"`
	Season           string            `json:"season,omitempty"`
	League           *sleeper.League   `json:"league,omitempty"`
	Roster           *sleeper.Roster   `json:"roster,omitempty"`
	Players          []*sleeper.Player `json:"players,omitempty"`
	Matchups         []sleeper.Matchup `json:"matchups,omitempty"`
	MentionedPlayers []*sleeper.Player `json:"mentionedPlayers"`
}

// ChatInput is a free-text query with optional league context
type ChatInput struct {
	Message  string
	LeagueID string
	UserID   string
	History  []domain.Message
}

// AnalysisService classifies queries, gathers context and routes them to the assistant
type AnalysisService struct {
	provider  DataProvider
	assistant Assistant
	recorder  AnalysisRecorder
	logger    *zap.Logger
}

// NewAnalysisService creates a new analysis service. recorder may be nil.
func NewAnalysisService(
	provider DataProvider,
	assistant Assistant,
	recorder AnalysisRecorder,
	logger *zap.Logger,
) *AnalysisService {
	return &AnalysisService{
		provider:  provider,
		assistant: assistant,
		recorder:  recorder,
		logger:    logger.With(zap.String("component", "analysis")),
	}
}

// ProcessUserQuery answers a free-text question.
func (s *AnalysisService) ProcessUserQuery(ctx context.Context, in ChatInput) (*domain.AnalysisResponse, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, domain.NewValidationError("message is required")
	}
	for i, m := range in.History {
		if !m.Role.Valid() {
			return nil, domain.NewValidationError("conversationHistory[%d]: role must be user or assistant", i)
		}
	}

	intent := ClassifyIntent(in.Message)
	s.logger.Info("Processing user query",
		zap.String("intent", string(intent)),
		zap.String("league_id", in.LeagueID),
		zap.String("user_id", in.UserID),
	)

	bundle, err := s.GatherContext(ctx, intent, in.Message, in.LeagueID, in.UserID)
	if err != nil {
		s.logger.Warn("Proceeding without league context", zap.Error(err))
	}

	req := &AnalysisRequest{Intent: intent, UserMessage: in.Message, Context: bundle}

	var resp *domain.AnalysisResponse
	switch intent {
	case domain.IntentLineup:
		resp, err = s.assistant.AnalyzeLineup(ctx, req)
	case domain.IntentTrade:
		resp, err = s.assistant.EvaluateTrade(ctx, req)
	case domain.IntentWaiver:
		resp, err = s.assistant.AnalyzeWaiverWire(ctx, req)
	case domain.IntentPlayer:
		resp, err = s.analyzePlayerQuery(ctx, in.Message)
	default:
		resp, err = s.assistant.SendMessage(ctx, in.Message, &domain.ConversationContext{
			Messages: in.History,
			LeagueID: in.LeagueID,
			UserID:   in.UserID,
		})
	}
	if err != nil {
		return nil, err
	}

	s.record(domain.AnalysisKindChat, intent, in.LeagueID, in.UserID, in.Message, resp)
	return resp, nil
}

// GatherContext builds a best-effort bundle for the query. Only a failure to
// read the NFL state is returned; every other failed fetch is logged and its
// field left empty.
func (s *AnalysisService) GatherContext(ctx context.Context, intent domain.Intent, message, leagueID, userID string) (*ContextBundle, error) {
	bundle := &ContextBundle{MentionedPlayers: []*sleeper.Player{}}

	state, err := s.provider.GetNFLState(ctx)
	if err != nil {
		return bundle, fmt.Errorf("failed to fetch NFL state: %w", err)
	}
	bundle.CurrentWeek = state.Week
	bundle.Season = state.Season

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	if leagueID != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			league, err := s.provider.GetLeague(ctx, leagueID)
			if err != nil {
				s.logger.Warn("Could not fetch league", zap.String("league_id", leagueID), zap.Error(err))
				return
			}
			mu.Lock()
			bundle.League = league
			mu.Unlock()
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			rosters, err := s.provider.GetLeagueRosters(ctx, leagueID)
			if err != nil {
				s.logger.Warn("Could not fetch rosters", zap.String("league_id", leagueID), zap.Error(err))
				return
			}
			if userID == "" {
				return
			}
			roster := findRoster(rosters, userID)
			if roster == nil {
				s.logger.Info("No roster for user in league",
					zap.String("league_id", leagueID), zap.String("user_id", userID))
				return
			}
			players := s.resolvePlayers(ctx, roster.Players)
			mu.Lock()
			bundle.Roster = roster
			bundle.Players = players
			mu.Unlock()
		}()

		if intent == domain.IntentLineup {
			wg.Add(1)
			go func() {
				defer wg.Done()
				matchups, err := s.provider.GetMatchups(ctx, leagueID, state.Week)
				if err != nil {
					s.logger.Warn("Could not fetch matchups", zap.String("league_id", leagueID), zap.Error(err))
					return
				}
				mu.Lock()
				bundle.Matchups = matchups
				mu.Unlock()
			}()
		}
	}

	if names := ExtractPlayerNames(message); len(names) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mentioned := s.searchMentioned(ctx, names)
			mu.Lock()
			bundle.MentionedPlayers = mentioned
			mu.Unlock()
		}()
	}

	wg.Wait()
	return bundle, nil
}

// resolvePlayers looks up every id concurrently, keeping roster order and
// dropping ids that fail or are unknown.
func (s *AnalysisService) resolvePlayers(ctx context.Context, ids []string) []*sleeper.Player {
	resolved := make([]*sleeper.Player, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			p, err := s.provider.GetPlayer(ctx, id)
			if err != nil {
				s.logger.Debug("Could not resolve player", zap.String("player_id", id), zap.Error(err))
				return
			}
			resolved[i] = p
		}(i, id)
	}
	wg.Wait()

	players := make([]*sleeper.Player, 0, len(ids))
	for _, p := range resolved {
		if p != nil {
			players = append(players, p)
		}
	}
	return players
}

func (s *AnalysisService) searchMentioned(ctx context.Context, names []string) []*sleeper.Player {
	results := make([][]*sleeper.Player, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			found, err := s.provider.SearchPlayers(ctx, name, 1)
			if err != nil {
				s.logger.Debug("Player search failed", zap.String("query", name), zap.Error(err))
				return
			}
			results[i] = found
		}(i, name)
	}
	wg.Wait()

	mentioned := []*sleeper.Player{}
	for _, found := range results {
		mentioned = append(mentioned, found...)
	}
	return mentioned
}

func (s *AnalysisService) analyzePlayerQuery(ctx context.Context, message string) (*domain.AnalysisResponse, error) {
	names := ExtractPlayerNames(message)
	if len(names) == 0 {
		return s.assistant.SendMessage(ctx, message, nil)
	}

	results, err := s.provider.SearchPlayers(ctx, names[0], 1)
	if err != nil {
		s.logger.Warn("Player search failed", zap.String("query", names[0]), zap.Error(err))
	}
	if err != nil || len(results) == 0 {
		return &domain.AnalysisResponse{Message: fmt.Sprintf(notFoundPlayerFormat, names[0])}, nil
	}

	return s.assistant.AnalyzePlayer(ctx, results[0])
}

// OptimizeLineup asks for the best starters for week, or the current week when week is 0.
func (s *AnalysisService) OptimizeLineup(ctx context.Context, leagueID, userID string, week int) (*domain.AnalysisResponse, error) {
	if leagueID == "" || userID == "" {
		return nil, domain.NewValidationError("leagueId and userId are required")
	}
	if week < 0 {
		return nil, domain.NewValidationError("week must be positive, got %d", week)
	}
	s.logger.Info("Optimizing lineup",
		zap.String("league_id", leagueID), zap.String("user_id", userID), zap.Int("week", week))

	state, err := s.provider.GetNFLState(ctx)
	if err != nil {
		return nil, err
	}
	targetWeek := week
	if targetWeek == 0 {
		targetWeek = state.Week
	}

	rosters, err := s.provider.GetLeagueRosters(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	roster := findRoster(rosters, userID)
	if roster == nil {
		return nil, domain.ErrRosterNotFound
	}

	players := s.resolvePlayers(ctx, roster.Players)

	league, err := s.provider.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*sleeper.Player, len(players))
	for _, p := range players {
		byID[p.PlayerID] = p
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Please analyze my roster and recommend the optimal lineup for week %d.\n\n", targetWeek)
	fmt.Fprintf(&b, "Roster Positions Required: %s\n\n", strings.Join(league.RosterPositions, ", "))
	b.WriteString("Available Players:\n")
	for _, p := range players {
		fmt.Fprintf(&b, "- %s (%s, %s) - Status: %s\n", p.DisplayName(), p.Position, teamOrFA(p), p.Status)
	}
	b.WriteString("\nCurrent Starters:\n")
	for _, id := range roster.Starters {
		if p, ok := byID[id]; ok {
			fmt.Fprintf(&b, "- %s\n", p.DisplayName())
		} else {
			fmt.Fprintf(&b, "- %s\n", id)
		}
	}
	b.WriteString(`
Please provide:
1. Recommended starters for each position
2. Reasoning for any changes from current lineup
3. Confidence level for each recommendation
4. Any injury or matchup concerns`)

	resp, err := s.assistant.SendMessage(ctx, b.String(), nil)
	if err != nil {
		return nil, err
	}
	s.record(domain.AnalysisKindLineup, domain.IntentLineup, leagueID, userID, fmt.Sprintf("optimize lineup week %d", targetWeek), resp)
	return resp, nil
}

// GetWaiverRecommendations asks which of the top trending adds to claim.
func (s *AnalysisService) GetWaiverRecommendations(ctx context.Context, leagueID, userID string, limit int) (*domain.AnalysisResponse, error) {
	if leagueID == "" || userID == "" {
		return nil, domain.NewValidationError("leagueId and userId are required")
	}
	if limit == 0 {
		limit = defaultWaiverLimit
	}
	if limit < 1 || limit > maxListLimit {
		return nil, domain.NewValidationError("limit must be between 1 and %d, got %d", maxListLimit, limit)
	}
	s.logger.Info("Getting waiver recommendations",
		zap.String("league_id", leagueID), zap.String("user_id", userID), zap.Int("limit", limit))

	trending, err := s.provider.GetTrendingPlayers(ctx, domain.TrendingAdd, waiverLookbackHours, limit)
	if err != nil {
		return nil, err
	}
	trendingIDs := make([]string, len(trending))
	counts := make(map[string]int, len(trending))
	for i, t := range trending {
		trendingIDs[i] = t.PlayerID
		counts[t.PlayerID] = t.Count
	}
	trendingPlayers := s.resolvePlayers(ctx, trendingIDs)

	rosters, err := s.provider.GetLeagueRosters(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	roster := findRoster(rosters, userID)
	if roster == nil {
		return nil, domain.ErrRosterNotFound
	}
	rosterPlayers := s.resolvePlayers(ctx, roster.Players)

	var b strings.Builder
	b.WriteString("Based on recent waiver activity, here are the trending players:\n\n")
	for i, p := range trendingPlayers {
		fmt.Fprintf(&b, "%d. %s (%s, %s) - %d adds in last 24h\n",
			i+1, p.DisplayName(), p.Position, teamOrFA(p), counts[p.PlayerID])
	}
	b.WriteString("\nMy Current Roster:\n")
	for _, p := range rosterPlayers {
		fmt.Fprintf(&b, "- %s (%s, %s)\n", p.DisplayName(), p.Position, teamOrFA(p))
	}
	b.WriteString(`
Please recommend:
1. Which trending players I should prioritize
2. Who from my roster I could drop
3. Why these moves would benefit my team
4. Priority order with confidence levels`)

	resp, err := s.assistant.SendMessage(ctx, b.String(), nil)
	if err != nil {
		return nil, err
	}
	s.record(domain.AnalysisKindWaiver, domain.IntentWaiver, leagueID, userID, fmt.Sprintf("waiver recommendations limit %d", limit), resp)
	return resp, nil
}

// EvaluateTrade gathers trade context and asks for a verdict, bypassing intent classification.
func (s *AnalysisService) EvaluateTrade(ctx context.Context, message, leagueID, userID string) (*domain.AnalysisResponse, error) {
	if strings.TrimSpace(message) == "" {
		return nil, domain.NewValidationError("message is required")
	}

	bundle, err := s.GatherContext(ctx, domain.IntentTrade, message, leagueID, userID)
	if err != nil {
		s.logger.Warn("Proceeding without league context", zap.Error(err))
	}

	resp, err := s.assistant.EvaluateTrade(ctx, &AnalysisRequest{
		Intent:      domain.IntentTrade,
		UserMessage: message,
		Context:     bundle,
	})
	if err != nil {
		return nil, err
	}
	s.record(domain.AnalysisKindTrade, domain.IntentTrade, leagueID, userID, message, resp)
	return resp, nil
}

// record appends to the analysis log. Failures are logged, never returned.
func (s *AnalysisService) record(kind string, intent domain.Intent, leagueID, userID, message string, resp *domain.AnalysisResponse) {
	metrics.Analyses.WithLabelValues(kind, string(intent)).Inc()
	if s.recorder == nil {
		return
	}
	err := s.recorder.Create(&domain.Analysis{
		Kind:                kind,
		Intent:              intent,
		LeagueID:            leagueID,
		UserID:              userID,
		Message:             message,
		Response:            resp.Message,
		RecommendationCount: len(resp.Recommendations),
	})
	if err != nil {
		s.logger.Warn("Failed to record analysis", zap.String("kind", kind), zap.Error(err))
	}
}

func findRoster(rosters []sleeper.Roster, ownerID string) *sleeper.Roster {
	for i := range rosters {
		if rosters[i].OwnerID == ownerID {
			return &rosters[i]
		}
	}
	return nil
}

func teamOrFA(p *sleeper.Player) string {
	if p.Team == nil || *p.Team == "" {
		return "FA"
	}
	return *p.Team
}
