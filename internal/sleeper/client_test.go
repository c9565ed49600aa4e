package sleeper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/huddle-ai/huddle/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const playersJSON = `{
	"1": {"player_id": "1", "first_name": "Low", "last_name": "Smith", "position": "WR", "status": "Active", "search_rank": 10},
	"2": {"player_id": "2", "first_name": "High", "last_name": "Smith", "position": "RB", "status": "Active", "search_rank": 90},
	"3": {"player_id": "3", "first_name": "Mid", "last_name": "Smith", "position": "TE", "status": "Active", "search_rank": 40},
	"4": {"player_id": "4", "first_name": "Justin", "last_name": "Jefferson", "team": "MIN", "position": "WR", "status": "Active", "search_rank": 5},
	"5": {"player_id": "5", "first_name": "No", "last_name": "Rank", "position": "K", "status": "Active"}
}`

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

type upstream struct {
	server *httptest.Server
	calls  map[string]*int64
}

func newUpstream(t *testing.T, routes map[string]string) *upstream {
	t.Helper()
	u := &upstream{calls: make(map[string]*int64)}
	for path := range routes {
		var n int64
		u.calls[path] = &n
	}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path
		if r.URL.RawQuery != "" {
			key += "?" + r.URL.RawQuery
		}
		body, ok := routes[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt64(u.calls[key], 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(u.server.Close)
	return u
}

func (u *upstream) count(path string) int64 {
	return atomic.LoadInt64(u.calls[path])
}

func newTestClient(t *testing.T, baseURL string, clock *fakeClock) *Client {
	t.Helper()
	return NewClient(Options{
		BaseURL: baseURL,
		Logger:  zaptest.NewLogger(t),
		Now:     clock.Now,
	})
}

func TestGetAllPlayersCachesForPlayerTTL(t *testing.T) {
	up := newUpstream(t, map[string]string{"/players/nfl": playersJSON})
	clock := &fakeClock{now: time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)}
	c := newTestClient(t, up.server.URL, clock)
	ctx := context.Background()

	first, err := c.GetAllPlayers(ctx)
	require.NoError(t, err)
	clock.Advance(23 * time.Hour)
	second, err := c.GetAllPlayers(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, up.count("/players/nfl"))

	clock.Advance(time.Hour)
	_, err = c.GetAllPlayers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, up.count("/players/nfl"))
}

func TestGetAllPlayersCollapsesConcurrentMisses(t *testing.T) {
	up := newUpstream(t, map[string]string{"/players/nfl": playersJSON})
	c := newTestClient(t, up.server.URL, &fakeClock{now: time.Now()})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.GetPlayer(context.Background(), "4")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, up.count("/players/nfl"))
}

func TestGeneralCacheTTL(t *testing.T) {
	up := newUpstream(t, map[string]string{
		"/league/L1": `{"league_id": "L1", "name": "Dynasty", "roster_positions": ["QB", "RB"]}`,
	})
	clock := &fakeClock{now: time.Now()}
	c := newTestClient(t, up.server.URL, clock)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		league, err := c.GetLeague(ctx, "L1")
		require.NoError(t, err)
		assert.Equal(t, "Dynasty", league.Name)
	}
	assert.EqualValues(t, 1, up.count("/league/L1"))

	clock.Advance(time.Hour)
	_, err := c.GetLeague(ctx, "L1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, up.count("/league/L1"))
}

func TestUndecodableCacheEntryIsRefetched(t *testing.T) {
	up := newUpstream(t, map[string]string{
		"/league/L1": `{"league_id": "L1", "name": "Dynasty"}`,
	})
	clock := &fakeClock{now: time.Now()}
	cache := NewMemoryCache(clock.Now)
	c := NewClient(Options{
		BaseURL: up.server.URL,
		Cache:   cache,
		Logger:  zaptest.NewLogger(t),
		Now:     clock.Now,
	})
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "/league/L1", []byte(`{"league_id":`), time.Hour))

	league, err := c.GetLeague(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, "Dynasty", league.Name)
	assert.EqualValues(t, 1, up.count("/league/L1"))

	// the refetched body replaced the broken entry
	_, err = c.GetLeague(ctx, "L1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, up.count("/league/L1"))
}

func TestVolatileResourcesAreNeverCached(t *testing.T) {
	up := newUpstream(t, map[string]string{
		"/league/L1/rosters":    `[{"roster_id": 1, "owner_id": "u1", "players": ["4"]}]`,
		"/league/L1/matchups/3": `[{"roster_id": 1, "matchup_id": 2, "points": 101.5}]`,
		"/state/nfl":            `{"week": 3, "season": "2025"}`,
		"/players/nfl/trending/add?lookback_hours=24&limit=5": `[{"player_id": "4", "count": 1200}]`,
	})
	c := newTestClient(t, up.server.URL, &fakeClock{now: time.Now()})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := c.GetLeagueRosters(ctx, "L1")
		require.NoError(t, err)
		_, err = c.GetMatchups(ctx, "L1", 3)
		require.NoError(t, err)
		_, err = c.GetNFLState(ctx)
		require.NoError(t, err)
		_, err = c.GetTrendingPlayers(ctx, domain.TrendingAdd, 24, 5)
		require.NoError(t, err)
	}

	assert.EqualValues(t, 2, up.count("/league/L1/rosters"))
	assert.EqualValues(t, 2, up.count("/league/L1/matchups/3"))
	assert.EqualValues(t, 2, up.count("/state/nfl"))
	assert.EqualValues(t, 2, up.count("/players/nfl/trending/add?lookback_hours=24&limit=5"))
}

func TestSearchPlayersSortsByRankDescending(t *testing.T) {
	up := newUpstream(t, map[string]string{"/players/nfl": playersJSON})
	c := newTestClient(t, up.server.URL, &fakeClock{now: time.Now()})
	ctx := context.Background()

	results, err := c.SearchPlayers(ctx, "smith", 10)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []string{"2", "3", "1"}, ids(results))

	results, err = c.SearchPlayers(ctx, "SMITH", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3"}, ids(results))
}

func TestSearchPlayersMatchesFullName(t *testing.T) {
	up := newUpstream(t, map[string]string{"/players/nfl": playersJSON})
	c := newTestClient(t, up.server.URL, &fakeClock{now: time.Now()})

	results, err := c.SearchPlayers(context.Background(), "Justin Jefferson", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "4", results[0].PlayerID)

	results, err = c.SearchPlayers(context.Background(), "nobody here", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGetPlayerUnknownID(t *testing.T) {
	up := newUpstream(t, map[string]string{"/players/nfl": playersJSON})
	c := newTestClient(t, up.server.URL, &fakeClock{now: time.Now()})

	p, err := c.GetPlayer(context.Background(), "999")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestUpstreamFailureIsExternalAPIError(t *testing.T) {
	up := newUpstream(t, map[string]string{})
	c := newTestClient(t, up.server.URL, &fakeClock{now: time.Now()})

	_, err := c.GetLeague(context.Background(), "missing")
	require.Error(t, err)

	var appErr *domain.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, domain.CodeExternalAPI, appErr.Code)
	assert.Equal(t, domain.ServiceSleeper, appErr.Service)
	assert.Equal(t, http.StatusBadGateway, appErr.StatusCode)
	assert.Contains(t, appErr.Message, "Failed to fetch data from Sleeper API")
}

func TestNullBodyIsNotFound(t *testing.T) {
	up := newUpstream(t, map[string]string{"/user/ghost": `null`})
	c := newTestClient(t, up.server.URL, &fakeClock{now: time.Now()})

	_, err := c.GetUser(context.Background(), "ghost")
	var appErr *domain.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, domain.CodeNotFound, appErr.Code)
}

func TestClearCacheForcesRefetch(t *testing.T) {
	up := newUpstream(t, map[string]string{
		"/players/nfl":     playersJSON,
		"/league/L1/users": `[{"user_id": "u1", "username": "coach"}]`,
	})
	c := newTestClient(t, up.server.URL, &fakeClock{now: time.Now()})
	ctx := context.Background()

	_, err := c.GetAllPlayers(ctx)
	require.NoError(t, err)
	_, err = c.GetLeagueUsers(ctx, "L1")
	require.NoError(t, err)

	size, err := c.CacheSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	require.NoError(t, c.ClearCache(ctx))

	_, err = c.GetAllPlayers(ctx)
	require.NoError(t, err)
	_, err = c.GetLeagueUsers(ctx, "L1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, up.count("/players/nfl"))
	assert.EqualValues(t, 2, up.count("/league/L1/users"))
}

func ids(players []*Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.PlayerID
	}
	return out
}
