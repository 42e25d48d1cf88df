package app

import (
	"context"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ecovalve/backend/services/valve-service/internal/config"
	"ecovalve/backend/services/valve-service/internal/ingest"
	"ecovalve/backend/services/valve-service/internal/observability"
	"ecovalve/backend/services/valve-service/internal/repository"
)

// Importer wires the CSV import command.
type Importer struct {
	importer    *ingest.Importer
	store       repository.ReadingStore
	redisClient *redis.Client
	metrics     *observability.Metrics
	pushURL     string
	logger      *zap.Logger
}

// NewImporter opens the store and, when configured, the run ledger.
func NewImporter(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Importer, error) {
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
	opts := ingest.Options{
		BatchSize:         cfg.Import.BatchSize,
		MaxReportedErrors: cfg.Import.MaxReportedErrors,
	}
	if runStore != nil {
		opts.Recorder = runStore
	}

	return &Importer{
		importer:    ingest.NewImporter(store, logger, metrics, opts),
		store:       store,
		redisClient: redisClient,
		metrics:     metrics,
		pushURL:     cfg.Metrics.PushgatewayURL,
		logger:      logger,
	}, nil
}

// Run imports one file and pushes the run's metrics. The error is the import's
// fatal-to-run error; a failed push is only logged.
func (i *Importer) Run(ctx context.Context, path string) (*ingest.Result, error) {
	res, err := i.importer.Import(ctx, path)

	host, _ := os.Hostname()
	if pushErr := i.metrics.Push(ctx, i.pushURL, host); pushErr != nil {
		i.logger.Warn("failed to push metrics", zap.Error(pushErr))
	}
	return res, err
}

// Close releases resources.
func (i *Importer) Close() {
	closeAll(i.logger, i.store, i.redisClient)
}
