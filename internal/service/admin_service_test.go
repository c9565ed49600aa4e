package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/huddle-ai/huddle/internal/domain"
	"github.com/huddle-ai/huddle/internal/sleeper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeCache struct {
	size    int
	cleared bool
}

func (c *fakeCache) ClearCache(context.Context) error {
	c.cleared = true
	c.size = 0
	return nil
}

func (c *fakeCache) CacheSize(context.Context) (int, error) { return c.size, nil }

// blockingDirectory holds GetAllPlayers open until release is closed.
type blockingDirectory struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (d *blockingDirectory) GetAllPlayers(context.Context) (map[string]*sleeper.Player, error) {
	d.once.Do(func() { close(d.entered) })
	<-d.release
	return map[string]*sleeper.Player{"1": {PlayerID: "1"}}, nil
}

func TestSyncPlayers(t *testing.T) {
	store := &fakeStore{}
	ingest := NewIngestService(newFakeProvider(), store, zaptest.NewLogger(t))

	res, err := ingest.SyncPlayers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Synced)
	assert.GreaterOrEqual(t, res.DurationMS, int64(0))
	assert.Len(t, store.players, 3)
}

func TestSyncPlayersStoreFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("locked")}
	ingest := NewIngestService(newFakeProvider(), store, zaptest.NewLogger(t))

	_, err := ingest.SyncPlayers(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.CodeInternal, domain.AsAppError(err).Code)
}

func TestSyncPlayersRejectsOverlap(t *testing.T) {
	dir := &blockingDirectory{entered: make(chan struct{}), release: make(chan struct{})}
	ingest := NewIngestService(dir, &fakeStore{}, zaptest.NewLogger(t))

	done := make(chan error, 1)
	go func() {
		_, err := ingest.SyncPlayers(context.Background())
		done <- err
	}()
	<-dir.entered

	_, err := ingest.SyncPlayers(context.Background())
	assert.ErrorIs(t, err, ErrSyncInProgress)

	close(dir.release)
	require.NoError(t, <-done)

	// the guard is released once the first run finishes
	_, err = ingest.SyncPlayers(context.Background())
	assert.NoError(t, err)
}

func TestAdminStats(t *testing.T) {
	store := &fakeStore{}
	recorder := &fakeRecorder{analyses: []*domain.Analysis{
		{Intent: domain.IntentLineup},
		{Intent: domain.IntentLineup},
		{Intent: domain.IntentTrade},
	}}
	ingest := NewIngestService(newFakeProvider(), store, zaptest.NewLogger(t))
	admin := NewAdminService(&fakeCache{}, "memory", recorder, store, ingest)

	stats, err := admin.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalAnalyses)
	assert.Equal(t, map[string]int{"lineup": 2, "trade": 1}, stats.AnalysesByIntent)
	assert.Zero(t, stats.SnapshotPlayers)
	assert.Nil(t, stats.LastPlayerSync)
	assert.Equal(t, "memory", stats.CacheBackend)

	_, err = admin.SyncPlayers(context.Background())
	require.NoError(t, err)

	stats, err = admin.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.SnapshotPlayers)
	assert.NotNil(t, stats.LastPlayerSync)
}

func TestAdminClearCache(t *testing.T) {
	cache := &fakeCache{size: 7}
	admin := NewAdminService(cache, "redis", &fakeRecorder{}, &fakeStore{}, nil)

	n, err := admin.ClearCache(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.True(t, cache.cleared)
}

func TestAdminGetAnalysis(t *testing.T) {
	recorder := &fakeRecorder{analyses: []*domain.Analysis{{ID: "a1", Intent: domain.IntentTrade}}}
	admin := NewAdminService(&fakeCache{}, "memory", recorder, &fakeStore{}, nil)

	a, err := admin.GetAnalysis(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentTrade, a.Intent)

	_, err = admin.GetAnalysis(context.Background(), "missing")
	assertCode(t, err, domain.CodeNotFound)
}
