package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/huddle-ai/huddle/internal/domain"
	"github.com/huddle-ai/huddle/internal/metrics"
	"github.com/huddle-ai/huddle/internal/sleeper"
	"go.uber.org/zap"
)

// PlayerDirectory is the provider call the ingest job reads from
type PlayerDirectory interface {
	GetAllPlayers(ctx context.Context) (map[string]*sleeper.Player, error)
}

// PlayerStore persists the directory snapshot
type PlayerStore interface {
	UpsertAll(players map[string]*sleeper.Player) (int, error)
	Count() (int, error)
	LastUpdated() (*time.Time, error)
}

// IngestService snapshots the player directory into the local database
type IngestService struct {
	directory PlayerDirectory
	store     PlayerStore
	logger    *zap.Logger

	// running guards against overlapping syncs
	mu      sync.Mutex
	running bool
}

// NewIngestService creates a new ingest service
func NewIngestService(directory PlayerDirectory, store PlayerStore, logger *zap.Logger) *IngestService {
	return &IngestService{
		directory: directory,
		store:     store,
		logger:    logger.With(zap.String("component", "ingest")),
	}
}

// ErrSyncInProgress is returned when a sync is already running
var ErrSyncInProgress = domain.NewValidationError("player sync already in progress")

// SyncPlayers fetches the directory and upserts every player
func (s *IngestService) SyncPlayers(ctx context.Context) (*domain.SyncResult, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrSyncInProgress
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	start := time.Now()
	s.logger.Info("Starting player sync")

	players, err := s.directory.GetAllPlayers(ctx)
	if err != nil {
		return nil, err
	}

	n, err := s.store.UpsertAll(players)
	if err != nil {
		return nil, fmt.Errorf("failed to store player snapshot: %w", err)
	}

	elapsed := time.Since(start)
	metrics.PlayersSynced.Set(float64(n))
	s.logger.Info("Player sync complete", zap.Int("players", n), zap.Duration("duration", elapsed))

	return &domain.SyncResult{Synced: n, DurationMS: elapsed.Milliseconds()}, nil
}

// SyncInBackground runs one sync without blocking the caller
func (s *IngestService) SyncInBackground(ctx context.Context) {
	go func() {
		if _, err := s.SyncPlayers(ctx); err != nil {
			s.logger.Error("Background player sync failed", zap.Error(err))
		}
	}()
}
