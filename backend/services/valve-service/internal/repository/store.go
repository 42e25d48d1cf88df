package repository

import (
	"context"

	"ecovalve/backend/services/valve-service/internal/models"
)

// ReadingStore is the storage surface shared by the Postgres and SQLite backends.
type ReadingStore interface {
	EnsureSchema(ctx context.Context) error
	InsertBatch(ctx context.Context, readings []models.EnergyReading) error
	Insert(ctx context.Context, reading *models.EnergyReading) error
	ListAll(ctx context.Context) ([]models.EnergyReading, error)
	HeatmapCells(ctx context.Context) ([]models.HeatmapCell, error)
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ ReadingStore = (*ReadingRepository)(nil)
	_ ReadingStore = (*SQLiteReadingRepository)(nil)
)
