package service

import (
	"context"
	"fmt"

	"github.com/huddle-ai/huddle/internal/domain"
)

// CacheController is the cache surface of the provider client
type CacheController interface {
	ClearCache(ctx context.Context) error
	CacheSize(ctx context.Context) (int, error)
}

// AnalysisLog reads back the analysis log
type AnalysisLog interface {
	Get(id string) (*domain.Analysis, error)
	Count() (int, error)
	CountByIntent() (map[string]int, error)
}

// AdminService handles admin operations
type AdminService struct {
	cache        CacheController
	cacheBackend string
	analyses     AnalysisLog
	players      PlayerStore
	ingest       *IngestService
}

// NewAdminService creates a new admin service
func NewAdminService(
	cache CacheController,
	cacheBackend string,
	analyses AnalysisLog,
	players PlayerStore,
	ingest *IngestService,
) *AdminService {
	return &AdminService{
		cache:        cache,
		cacheBackend: cacheBackend,
		analyses:     analyses,
		players:      players,
		ingest:       ingest,
	}
}

// GetStats gets system statistics
func (s *AdminService) GetStats(ctx context.Context) (*domain.Stats, error) {
	total, err := s.analyses.Count()
	if err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}
	byIntent, err := s.analyses.CountByIntent()
	if err != nil {
		return nil, fmt.Errorf("count analyses by intent: %w", err)
	}
	snapshot, err := s.players.Count()
	if err != nil {
		return nil, fmt.Errorf("count players: %w", err)
	}
	lastSync, err := s.players.LastUpdated()
	if err != nil {
		return nil, fmt.Errorf("read last sync: %w", err)
	}

	return &domain.Stats{
		TotalAnalyses:    total,
		AnalysesByIntent: byIntent,
		SnapshotPlayers:  snapshot,
		LastPlayerSync:   lastSync,
		CacheBackend:     s.cacheBackend,
	}, nil
}

// GetAnalysis returns one logged analysis
func (s *AdminService) GetAnalysis(ctx context.Context, id string) (*domain.Analysis, error) {
	a, err := s.analyses.Get(id)
	if err != nil {
		return nil, fmt.Errorf("get analysis: %w", err)
	}
	if a == nil {
		return nil, domain.NewNotFoundError("Analysis not found")
	}
	return a, nil
}

// ClearCache drops every cached provider response and returns how many were dropped
func (s *AdminService) ClearCache(ctx context.Context) (int, error) {
	n, err := s.cache.CacheSize(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.cache.ClearCache(ctx); err != nil {
		return 0, err
	}
	return n, nil
}

// SyncPlayers runs the player snapshot job
func (s *AdminService) SyncPlayers(ctx context.Context) (*domain.SyncResult, error) {
	return s.ingest.SyncPlayers(ctx)
}
