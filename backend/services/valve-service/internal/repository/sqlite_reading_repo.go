package repository

import (
	"context"
	"fmt"
	"sort"
	"unicode/utf8"

	"gorm.io/gorm"

	"ecovalve/backend/services/valve-service/internal/models"
)

// SQLiteReadingRepository is the embedded store used for local runs and tests.
type SQLiteReadingRepository struct {
	db *gorm.DB
}

// NewSQLiteReadingRepository wraps an open gorm handle.
func NewSQLiteReadingRepository(db *gorm.DB) *SQLiteReadingRepository {
	return &SQLiteReadingRepository{db: db}
}

// EnsureSchema migrates the readings table.
func (r *SQLiteReadingRepository) EnsureSchema(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&models.EnergyReading{}); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// InsertBatch creates all readings inside one transaction.
func (r *SQLiteReadingRepository) InsertBatch(ctx context.Context, readings []models.EnergyReading) error {
	if len(readings) == 0 {
		return nil
	}
	for i := range readings {
		if err := checkDeviceID(readings[i].DeviceID); err != nil {
			return err
		}
	}
	// gorm writes generated IDs back, so insert a copy and leave the caller's slice intact.
	batch := append([]models.EnergyReading(nil), readings...)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(batch, len(batch)).Error
	})
}

// Insert stores one reading and fills its ID.
func (r *SQLiteReadingRepository) Insert(ctx context.Context, reading *models.EnergyReading) error {
	if err := checkDeviceID(reading.DeviceID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(reading).Error
}

// ListAll returns every reading in insertion order.
func (r *SQLiteReadingRepository) ListAll(ctx context.Context) ([]models.EnergyReading, error) {
	result := make([]models.EnergyReading, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&result).Error; err != nil {
		return nil, err
	}
	for i := range result {
		if ts := result[i].SampleTime; ts != nil {
			utc := ts.UTC()
			result[i].SampleTime = &utc
		}
	}
	return result, nil
}

// HeatmapCells loads timestamped readings and aggregates them in memory.
func (r *SQLiteReadingRepository) HeatmapCells(ctx context.Context) ([]models.HeatmapCell, error) {
	var readings []models.EnergyReading
	err := r.db.WithContext(ctx).
		Select("sample_time", "t1_remote_k").
		Where("sample_time IS NOT NULL").
		Find(&readings).Error
	if err != nil {
		return nil, err
	}
	return aggregateHeatmap(readings), nil
}

// Ping checks the underlying connection.
func (r *SQLiteReadingRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection.
func (r *SQLiteReadingRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// checkDeviceID enforces the column width SQLite itself does not.
func checkDeviceID(id string) error {
	if utf8.RuneCountInString(id) > models.MaxDeviceIDLength {
		return fmt.Errorf("device_id %q exceeds %d characters", id, models.MaxDeviceIDLength)
	}
	return nil
}

type cellKey struct{ weekday, hour int }

type cellAcc struct {
	sum     float64
	nonNull int
	count   int
}

// aggregateHeatmap groups readings by UTC weekday (Monday=0) and hour. Readings
// without a sample_time are skipped; a cell whose t1 values are all null gets a
// nil average.
func aggregateHeatmap(readings []models.EnergyReading) []models.HeatmapCell {
	acc := make(map[cellKey]*cellAcc)
	for _, rd := range readings {
		if rd.SampleTime == nil {
			continue
		}
		ts := rd.SampleTime.UTC()
		key := cellKey{weekday: (int(ts.Weekday()) + 6) % 7, hour: ts.Hour()}
		a, ok := acc[key]
		if !ok {
			a = &cellAcc{}
			acc[key] = a
		}
		a.count++
		if rd.T1RemoteK != nil {
			a.sum += *rd.T1RemoteK
			a.nonNull++
		}
	}

	cells := make([]models.HeatmapCell, 0, len(acc))
	for key, a := range acc {
		cell := models.HeatmapCell{Weekday: key.weekday, Hour: key.hour, Count: a.count}
		if a.nonNull > 0 {
			avg := a.sum / float64(a.nonNull)
			cell.Average = &avg
		}
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Weekday != cells[j].Weekday {
			return cells[i].Weekday < cells[j].Weekday
		}
		return cells[i].Hour < cells[j].Hour
	})
	return cells
}
