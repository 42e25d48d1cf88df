package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"ecovalve/backend/services/valve-service/internal/models"
	"ecovalve/backend/services/valve-service/internal/observability"
)

// ImportRunsLimit caps the ledger listing.
const ImportRunsLimit = 50

// ErrRunsUnavailable is returned when no import-run ledger is configured.
var ErrRunsUnavailable = errors.New("import run ledger is not configured")

// ReadingReader is the read side of the readings store.
type ReadingReader interface {
	ListAll(ctx context.Context) ([]models.EnergyReading, error)
	HeatmapCells(ctx context.Context) ([]models.HeatmapCell, error)
}

// ImportRunLister lists recorded import runs, newest first.
type ImportRunLister interface {
	List(ctx context.Context, limit int) ([]models.ImportRun, error)
}

// ReadingsService serves the aggregate views over stored readings.
type ReadingsService struct {
	readings ReadingReader
	runs     ImportRunLister
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewReadingsService returns service instance. runs may be nil.
func NewReadingsService(readings ReadingReader, runs ImportRunLister, metrics *observability.Metrics, logger *zap.Logger) *ReadingsService {
	return &ReadingsService{
		readings: readings,
		runs:     runs,
		metrics:  metrics,
		logger:   logger,
	}
}

// ListReadings returns every stored reading ordered by id.
func (s *ReadingsService) ListReadings(ctx context.Context) ([]models.EnergyReading, error) {
	defer s.observe("list_readings", time.Now())
	readings, err := s.readings.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list readings", zap.Error(err))
		return nil, err
	}
	return readings, nil
}

// HourlyHeatmap returns average t1_remote_k per weekday and hour.
func (s *ReadingsService) HourlyHeatmap(ctx context.Context) (models.Heatmap, error) {
	defer s.observe("hourly_heatmap", time.Now())
	cells, err := s.readings.HeatmapCells(ctx)
	if err != nil {
		s.logger.Error("failed to aggregate heatmap", zap.Error(err))
		return models.Heatmap{}, err
	}
	return BuildHeatmap(cells), nil
}

// ListImportRuns returns the most recent import runs.
func (s *ReadingsService) ListImportRuns(ctx context.Context) ([]models.ImportRun, error) {
	if s.runs == nil {
		return nil, ErrRunsUnavailable
	}
	defer s.observe("import_runs", time.Now())
	runs, err := s.runs.List(ctx, ImportRunsLimit)
	if err != nil {
		s.logger.Error("failed to list import runs", zap.Error(err))
		return nil, err
	}
	return runs, nil
}

func (s *ReadingsService) observe(query string, started time.Time) {
	s.metrics.QueryDuration.WithLabelValues(query).Observe(time.Since(started).Seconds())
}

// BuildHeatmap shapes aggregate cells into a 7 x len(hours) grid. Hours are the
// distinct hours present, ascending. Empty cells hold a nil average and a zero
// count.
func BuildHeatmap(cells []models.HeatmapCell) models.Heatmap {
	seen := make(map[int]struct{})
	hours := make([]int, 0)
	for _, c := range cells {
		if _, ok := seen[c.Hour]; !ok {
			seen[c.Hour] = struct{}{}
			hours = append(hours, c.Hour)
		}
	}
	sort.Ints(hours)

	col := make(map[int]int, len(hours))
	for i, h := range hours {
		col[h] = i
	}

	hm := models.Heatmap{
		Hours:  hours,
		Days:   models.Weekdays[:],
		Values: make([][]*float64, len(models.Weekdays)),
		Counts: make([][]int, len(models.Weekdays)),
	}
	for d := range models.Weekdays {
		hm.Values[d] = make([]*float64, len(hours))
		hm.Counts[d] = make([]int, len(hours))
	}
	for _, c := range cells {
		if c.Weekday < 0 || c.Weekday >= len(models.Weekdays) {
			continue
		}
		j := col[c.Hour]
		hm.Values[c.Weekday][j] = c.Average
		hm.Counts[c.Weekday][j] = c.Count
	}
	return hm
}
