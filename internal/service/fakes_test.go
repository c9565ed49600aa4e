package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/huddle-ai/huddle/internal/domain"
	"github.com/huddle-ai/huddle/internal/sleeper"
)

var errUpstream = domain.NewExternalAPIError(domain.ServiceSleeper, "Failed to fetch data from Sleeper API: boom", errors.New("boom"))

// fakeProvider serves fixed data and records the calls it receives.
type fakeProvider struct {
	mu    sync.Mutex
	calls map[string]int

	state    *sleeper.NFLState
	leagues  map[string]*sleeper.League
	rosters  map[string][]sleeper.Roster
	matchups map[string][]sleeper.Matchup
	players  map[string]*sleeper.Player
	trending []sleeper.TrendingPlayer
	users    map[string]*sleeper.User

	searchLimit int

	stateErr    error
	leagueErr   error
	rostersErr  error
	matchupsErr error
	searchErr   error
}

func newFakeProvider() *fakeProvider {
	team := "MIN"
	return &fakeProvider{
		calls: make(map[string]int),
		state: &sleeper.NFLState{Week: 5, Season: "2025"},
		leagues: map[string]*sleeper.League{
			"L1": {LeagueID: "L1", Name: "Dynasty", RosterPositions: []string{"QB", "RB", "WR", "FLEX"}},
		},
		rosters: map[string][]sleeper.Roster{
			"L1": {
				{RosterID: 1, OwnerID: "other", Players: []string{"9"}},
				{RosterID: 2, OwnerID: "u1", Players: []string{"4", "17", "unknown"}, Starters: []string{"4", "unknown"}},
			},
		},
		matchups: map[string][]sleeper.Matchup{
			"L1": {{RosterID: 2, MatchupID: 1, Points: 101.5}},
		},
		players: map[string]*sleeper.Player{
			"4":  {PlayerID: "4", FirstName: "Justin", LastName: "Jefferson", Team: &team, Position: "WR", Status: "Active", SearchRank: intPtr(5)},
			"17": {PlayerID: "17", FirstName: "Davante", LastName: "Adams", Position: "WR", Status: "Active", SearchRank: intPtr(20)},
			"9":  {PlayerID: "9", FirstName: "Waiver", LastName: "Darling", Position: "RB", Status: "Active"},
		},
		trending: []sleeper.TrendingPlayer{
			{PlayerID: "9", Count: 4200},
			{PlayerID: "missing", Count: 10},
			{PlayerID: "17", Count: 300},
		},
		users: map[string]*sleeper.User{
			"coach": {UserID: "u1", Username: "coach", DisplayName: "Coach"},
		},
	}
}

func intPtr(i int) *int { return &i }

func (f *fakeProvider) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeProvider) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeProvider) GetNFLState(context.Context) (*sleeper.NFLState, error) {
	f.hit("state")
	if f.stateErr != nil {
		return nil, f.stateErr
	}
	return f.state, nil
}

func (f *fakeProvider) GetLeague(_ context.Context, id string) (*sleeper.League, error) {
	f.hit("league")
	if f.leagueErr != nil {
		return nil, f.leagueErr
	}
	l, ok := f.leagues[id]
	if !ok {
		return nil, domain.NewNotFoundError("league not found")
	}
	return l, nil
}

func (f *fakeProvider) GetLeagueRosters(_ context.Context, id string) ([]sleeper.Roster, error) {
	f.hit("rosters")
	if f.rostersErr != nil {
		return nil, f.rostersErr
	}
	return f.rosters[id], nil
}

func (f *fakeProvider) GetMatchups(_ context.Context, id string, _ int) ([]sleeper.Matchup, error) {
	f.hit("matchups")
	if f.matchupsErr != nil {
		return nil, f.matchupsErr
	}
	return f.matchups[id], nil
}

func (f *fakeProvider) GetPlayer(_ context.Context, id string) (*sleeper.Player, error) {
	f.hit("player")
	return f.players[id], nil
}

func (f *fakeProvider) GetAllPlayers(context.Context) (map[string]*sleeper.Player, error) {
	f.hit("all_players")
	return f.players, nil
}

func (f *fakeProvider) SearchPlayers(_ context.Context, query string, limit int) ([]*sleeper.Player, error) {
	f.hit("search")
	f.mu.Lock()
	f.searchLimit = limit
	f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	q := strings.ToLower(query)
	var out []*sleeper.Player
	for _, p := range f.players {
		if strings.Contains(strings.ToLower(p.FirstName+" "+p.LastName), q) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeProvider) GetTrendingPlayers(_ context.Context, _ domain.TrendingType, _, limit int) ([]sleeper.TrendingPlayer, error) {
	f.hit("trending")
	if len(f.trending) > limit {
		return f.trending[:limit], nil
	}
	return f.trending, nil
}

func (f *fakeProvider) GetUser(_ context.Context, username string) (*sleeper.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, domain.NewNotFoundError("user not found")
	}
	return u, nil
}

func (f *fakeProvider) GetUserByID(_ context.Context, id string) (*sleeper.User, error) {
	for _, u := range f.users {
		if u.UserID == id {
			return u, nil
		}
	}
	return nil, domain.NewNotFoundError("user not found")
}

func (f *fakeProvider) GetUserLeagues(context.Context, string, string, string) ([]sleeper.League, error) {
	return []sleeper.League{*f.leagues["L1"]}, nil
}

func (f *fakeProvider) GetLeagueUsers(context.Context, string) ([]sleeper.LeagueUser, error) {
	return []sleeper.LeagueUser{{UserID: "u1", Username: "coach"}}, nil
}

func (f *fakeProvider) GetTransactions(context.Context, string, int) ([]sleeper.Transaction, error) {
	return []sleeper.Transaction{{TransactionID: "t1", Type: "trade", Leg: 5}}, nil
}

func (f *fakeProvider) GetTradedPicks(context.Context, string) ([]sleeper.TradedPick, error) {
	return []sleeper.TradedPick{{Season: "2026", Round: 2}}, nil
}

// fakeAssistant records which entry point was used and with what input.
type fakeAssistant struct {
	mu       sync.Mutex
	method   string
	message  string
	conv     *domain.ConversationContext
	request  *AnalysisRequest
	player   *sleeper.Player
	response *domain.AnalysisResponse
	err      error
}

func (a *fakeAssistant) reply(method string) (*domain.AnalysisResponse, error) {
	a.method = method
	if a.err != nil {
		return nil, a.err
	}
	if a.response != nil {
		return a.response, nil
	}
	return &domain.AnalysisResponse{Message: method + " reply"}, nil
}

func (a *fakeAssistant) SendMessage(_ context.Context, msg string, conv *domain.ConversationContext) (*domain.AnalysisResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.message, a.conv = msg, conv
	return a.reply("send")
}

func (a *fakeAssistant) AnalyzeLineup(_ context.Context, req *AnalysisRequest) (*domain.AnalysisResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.request = req
	return a.reply("lineup")
}

func (a *fakeAssistant) EvaluateTrade(_ context.Context, req *AnalysisRequest) (*domain.AnalysisResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.request = req
	return a.reply("trade")
}

func (a *fakeAssistant) AnalyzeWaiverWire(_ context.Context, req *AnalysisRequest) (*domain.AnalysisResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.request = req
	return a.reply("waiver")
}

func (a *fakeAssistant) AnalyzePlayer(_ context.Context, p *sleeper.Player) (*domain.AnalysisResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.player = p
	return a.reply("player")
}

type fakeRecorder struct {
	mu       sync.Mutex
	analyses []*domain.Analysis
	err      error
}

func (r *fakeRecorder) Create(a *domain.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.analyses = append(r.analyses, a)
	return nil
}

func (r *fakeRecorder) Get(id string) (*domain.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.analyses {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeRecorder) Count() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.analyses), nil
}

func (r *fakeRecorder) CountByIntent() (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int)
	for _, a := range r.analyses {
		out[string(a.Intent)]++
	}
	return out, nil
}

type fakeStore struct {
	players map[string]*sleeper.Player
	synced  *time.Time
	err     error
}

func (s *fakeStore) UpsertAll(players map[string]*sleeper.Player) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.players = players
	now := time.Now()
	s.synced = &now
	return len(players), nil
}

func (s *fakeStore) Count() (int, error) { return len(s.players), nil }

func (s *fakeStore) LastUpdated() (*time.Time, error) { return s.synced, nil }
