// Package cli implements the huddle commands.
package cli

import (
	"context"
	"fmt"

	"github.com/huddle-ai/huddle/internal/config"
	"github.com/huddle-ai/huddle/internal/logger"
	"github.com/huddle-ai/huddle/internal/repository"
	"github.com/huddle-ai/huddle/internal/service"
	"github.com/huddle-ai/huddle/internal/sleeper"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:           "huddle",
	Short:         "Fantasy football assistant",
	Long:          "huddle answers fantasy football questions with live Sleeper league data and Claude.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default ./config.yaml or ./config/config.yaml)")
}

// app is the wired dependency graph shared by every command
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *repository.DB
	redis  *redis.Client

	sleeper  *sleeper.Client
	players  *repository.PlayerRepository
	league   *service.LeagueService
	analysis *service.AnalysisService
	ingest   *service.IngestService
	admin    *service.AdminService
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	a := &app{cfg: cfg, logger: log}

	a.db, err = repository.NewDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	var cache sleeper.Cache
	if cfg.Cache.Backend == "redis" {
		a.redis, err = sleeper.DialRedis(ctx, cfg.Cache.Redis.Address, cfg.Cache.Redis.Password, cfg.Cache.Redis.DB)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		cache = sleeper.NewRedisCache(a.redis)
	}

	a.sleeper = sleeper.NewClient(sleeper.Options{
		BaseURL:        cfg.Sleeper.BaseURL,
		Timeout:        cfg.Sleeper.Timeout,
		CacheTTL:       cfg.Sleeper.CacheTTL,
		PlayerCacheTTL: cfg.Sleeper.PlayerCacheTTL,
		Cache:          cache,
		Logger:         log,
	})

	analyses := repository.NewAnalysisRepository(a.db)
	a.players = repository.NewPlayerRepository(a.db)

	claude := service.NewClaudeService(cfg.Claude, nil, log)
	a.league = service.NewLeagueService(a.sleeper, log)
	a.analysis = service.NewAnalysisService(a.sleeper, claude, analyses, log)
	a.ingest = service.NewIngestService(a.sleeper, a.players, log)
	a.admin = service.NewAdminService(a.sleeper, cfg.Cache.Backend, analyses, a.players, a.ingest)

	return a, nil
}

// Close releases the database and redis connections
func (a *app) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	_ = a.logger.Sync()
}
