// Package main provides the arena server. It wires together configuration,
// storage, the battle engine, and the HTTP API.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/frontend/api"
	"github.com/cory-johannsen/duel/internal/game/dice"
	"github.com/cory-johannsen/duel/internal/gameserver"
	"github.com/cory-johannsen/duel/internal/observability"
	"github.com/cory-johannsen/duel/internal/server"
	"github.com/cory-johannsen/duel/internal/storage/memory"
	"github.com/cory-johannsen/duel/internal/storage/postgres"
	"github.com/cory-johannsen/duel/internal/storage/sqlite"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewServiceLogger(cfg)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting duel server",
		zap.String("mode", cfg.Server.Mode),
		zap.String("battle_source", cfg.Battle.Source),
	)

	ctx := context.Background()
	lifecycle := server.NewLifecycle(logger, cfg.HTTP.ShutdownTimeout)

	chars, battles, err := openStores(ctx, cfg, logger, lifecycle)
	if err != nil {
		logger.Fatal("opening storage", zap.Error(err))
	}

	arena := gameserver.NewArena(chars, battles, battleSource(cfg.Battle, logger), logger)

	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(api.NewHandler(arena, logger), logger)
	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	lifecycle.Add("http", server.NewHTTPService(httpServer))

	logger.Info("server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("http_addr", cfg.HTTP.Addr()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

// openStores connects the configured storage driver and registers any
// connection it opens with the lifecycle so that it is closed on shutdown.
func openStores(ctx context.Context, cfg config.Config, logger *zap.Logger, lc *server.Lifecycle) (gameserver.CharacterStore, gameserver.BattleStore, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Int("port", cfg.Database.Port),
			zap.String("database", cfg.Database.Name),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		lc.Add("postgres", healthService(func(ctx context.Context) error {
			return pool.Health(ctx, 5*time.Second)
		}, pool.Close, logger))
		return postgres.NewCharacterRepository(pool.DB()), postgres.NewBattleRepository(pool.DB()), nil

	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("sqlite opened", zap.String("path", cfg.Storage.SQLitePath))
		lc.Add("sqlite", healthService(nil, func() {
			if err := store.Close(); err != nil {
				logger.Warn("closing sqlite", zap.Error(err))
			}
		}, logger))
		return store, store, nil

	default:
		store := memory.NewStore()
		return store, store, nil
	}
}

// healthService keeps a storage connection alive until shutdown, checking
// it periodically when check is non-nil.
func healthService(check func(context.Context) error, closeFn func(), logger *zap.Logger) server.Service {
	done := make(chan struct{})
	return &server.FuncService{
		StartFn: func() error {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return nil
				case <-ticker.C:
					if check == nil {
						continue
					}
					if err := check(context.Background()); err != nil {
						logger.Warn("storage health check failed", zap.Error(err))
					}
				}
			}
		},
		StopFn: func(context.Context) error {
			close(done)
			closeFn()
			return nil
		},
	}
}

// battleSource builds the random source battles draw from.
func battleSource(cfg config.BattleConfig, logger *zap.Logger) dice.Source {
	var src dice.Source
	if cfg.Source == config.SourceSeeded {
		src = dice.NewSeededSource(cfg.Seed)
	} else {
		src = dice.NewCryptoSource()
	}
	if cfg.LogDraws {
		return dice.NewLoggedSource(src, logger.Named("dice"))
	}
	return src
}
