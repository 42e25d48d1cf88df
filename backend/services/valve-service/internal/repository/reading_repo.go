package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ecovalve/backend/services/valve-service/internal/models"
)

// ReadingRepository persists valve readings in Postgres.
type ReadingRepository struct {
	pool *pgxpool.Pool
}

// NewReadingRepository returns repository.
func NewReadingRepository(pool *pgxpool.Pool) *ReadingRepository {
	return &ReadingRepository{pool: pool}
}

// EnsureSchema creates the table and indexes when missing.
func (r *ReadingRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// InsertBatch writes all readings with a single COPY. COPY is one statement,
// so either every row lands or none does.
func (r *ReadingRepository) InsertBatch(ctx context.Context, readings []models.EnergyReading) error {
	if len(readings) == 0 {
		return nil
	}
	_, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"energy_valve_data"},
		readingColumns,
		pgx.CopyFromSlice(len(readings), func(i int) ([]any, error) {
			rd := readings[i]
			return []any{
				rd.DeviceID,
				rd.SampleTime,
				rd.T1RemoteK,
				rd.T2EmbeddedK,
				rd.DeltaTK,
				rd.FlowVolumeTotalM3,
				rd.OperatingHours,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy readings: %w", err)
	}
	return nil
}

// Insert stores one reading and fills its ID.
func (r *ReadingRepository) Insert(ctx context.Context, reading *models.EnergyReading) error {
	const query = `
		INSERT INTO energy_valve_data (device_id, sample_time, t1_remote_k, t2_embedded_k, delta_t_k, flow_volume_total_m3, operating_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.pool.QueryRow(ctx, query,
		reading.DeviceID,
		reading.SampleTime,
		reading.T1RemoteK,
		reading.T2EmbeddedK,
		reading.DeltaTK,
		reading.FlowVolumeTotalM3,
		reading.OperatingHours,
	).Scan(&reading.ID)
}

// ListAll returns every reading in insertion order.
func (r *ReadingRepository) ListAll(ctx context.Context) ([]models.EnergyReading, error) {
	const query = `
		SELECT id, device_id, sample_time, t1_remote_k, t2_embedded_k, delta_t_k, flow_volume_total_m3, operating_hours
		FROM energy_valve_data
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]models.EnergyReading, 0)
	for rows.Next() {
		var rd models.EnergyReading
		if err := rows.Scan(
			&rd.ID,
			&rd.DeviceID,
			&rd.SampleTime,
			&rd.T1RemoteK,
			&rd.T2EmbeddedK,
			&rd.DeltaTK,
			&rd.FlowVolumeTotalM3,
			&rd.OperatingHours,
		); err != nil {
			return nil, err
		}
		if rd.SampleTime != nil {
			ts := rd.SampleTime.UTC()
			rd.SampleTime = &ts
		}
		result = append(result, rd)
	}
	return result, rows.Err()
}

// HeatmapCells aggregates t1_remote_k by UTC weekday (Monday=0) and hour.
func (r *ReadingRepository) HeatmapCells(ctx context.Context) ([]models.HeatmapCell, error) {
	const query = `
		SELECT
			EXTRACT(ISODOW FROM sample_time AT TIME ZONE 'UTC')::int - 1 AS weekday,
			EXTRACT(HOUR FROM sample_time AT TIME ZONE 'UTC')::int AS hour,
			AVG(t1_remote_k) AS avg_value,
			COUNT(*) AS count
		FROM energy_valve_data
		WHERE sample_time IS NOT NULL
		GROUP BY 1, 2
		ORDER BY 1, 2
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cells []models.HeatmapCell
	for rows.Next() {
		var (
			c     models.HeatmapCell
			count int64
		)
		if err := rows.Scan(&c.Weekday, &c.Hour, &c.Average, &count); err != nil {
			return nil, err
		}
		c.Count = int(count)
		cells = append(cells, c)
	}
	return cells, rows.Err()
}

// Ping checks the pool.
func (r *ReadingRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close releases the pool.
func (r *ReadingRepository) Close() error {
	r.pool.Close()
	return nil
}
