package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ecovalve/backend/libs/db"
	libredis "ecovalve/backend/libs/redis"
	"ecovalve/backend/services/valve-service/internal/config"
	"ecovalve/backend/services/valve-service/internal/models"
	redisstore "ecovalve/backend/services/valve-service/internal/redis"
	"ecovalve/backend/services/valve-service/internal/repository"
)

// openReadingStore connects the configured backend and bootstraps its schema.
func openReadingStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.ReadingStore, error) {
	var store repository.ReadingStore
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		gdb, err := db.NewSQLite(cfg.Database.SQLitePath, &models.EnergyReading{})
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		store = repository.NewSQLiteReadingRepository(gdb)
	default:
		pool, err := db.NewPostgresPool(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		store = repository.NewReadingRepository(pool)
	}

	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	logger.Info("readings store ready", zap.String("driver", cfg.Database.Driver))
	return store, nil
}

// openRunStore connects the import-run ledger. Both results are nil when
// redis is not configured.
func openRunStore(ctx context.Context, cfg *config.Config) (*redisstore.ImportRunStore, *redis.Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil, nil
	}
	client, err := libredis.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("open redis: %w", err)
	}
	return redisstore.NewImportRunStore(client, cfg.Redis.RunsTTL, cfg.Redis.RunsKeep), client, nil
}
