package app

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ecovalve/backend/services/valve-service/internal/config"
	httpserver "ecovalve/backend/services/valve-service/internal/http"
	"ecovalve/backend/services/valve-service/internal/http/handlers"
	"ecovalve/backend/services/valve-service/internal/observability"
	"ecovalve/backend/services/valve-service/internal/repository"
	"ecovalve/backend/services/valve-service/internal/service"
)

// App wires the valve API dependencies.
type App struct {
	server      *httpserver.Server
	store       repository.ReadingStore
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs application components.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, err := openReadingStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	runStore, redisClient, err := openRunStore(ctx, cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	metrics := observability.NewMetrics()
	var runs service.ImportRunLister
	if runStore != nil {
		runs = runStore
	}
	readingsService := service.NewReadingsService(store, runs, metrics, logger)

	routes := httpserver.Routes{
		EnergyValveData: handlers.NewEnergyValveDataHandler(readingsService, logger),
		HourlyHeatmap:   handlers.NewHourlyHeatmapHandler(readingsService, logger),
		ImportRuns:      handlers.NewImportRunsHandler(readingsService, logger),
		Health:          handlers.NewHealthHandler(),
		Metrics:         metrics.Handler(),
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		store:       store,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts serving HTTP requests.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	closeAll(a.logger, a.store, a.redisClient)
}

func closeAll(logger *zap.Logger, store repository.ReadingStore, redisClient *redis.Client) {
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
