package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ecovalve/backend/services/valve-service/internal/models"
)

const runsKey = "valve:import_runs"

// ImportRunStore keeps the most recent import runs in a capped redis list.
type ImportRunStore struct {
	client *redis.Client
	ttl    time.Duration
	keep   int
}

// NewImportRunStore returns redis-backed store.
func NewImportRunStore(client *redis.Client, ttl time.Duration, keep int) *ImportRunStore {
	return &ImportRunStore{client: client, ttl: ttl, keep: keep}
}

// Record prepends a run and trims the list to the configured length.
func (s *ImportRunStore) Record(ctx context.Context, run models.ImportRun) error {
	data, err := json.Marshal(run)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, runsKey, data)
	pipe.LTrim(ctx, runsKey, 0, int64(s.keep-1))
	if s.ttl > 0 {
		pipe.Expire(ctx, runsKey, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record import run: %w", err)
	}
	return nil
}

// List returns up to limit runs, newest first.
func (s *ImportRunStore) List(ctx context.Context, limit int) ([]models.ImportRun, error) {
	if limit <= 0 {
		return []models.ImportRun{}, nil
	}
	items, err := s.client.LRange(ctx, runsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	runs := make([]models.ImportRun, 0, len(items))
	for _, item := range items {
		var run models.ImportRun
		if err := json.Unmarshal([]byte(item), &run); err != nil {
			return nil, fmt.Errorf("decode import run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}
