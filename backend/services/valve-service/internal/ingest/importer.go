package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"ecovalve/backend/services/valve-service/internal/models"
	"ecovalve/backend/services/valve-service/internal/observability"
)

const (
	defaultBatchSize         = 1000
	defaultMaxReportedErrors = 10
)

// Store persists readings. InsertBatch must be all-or-nothing for the batch.
type Store interface {
	InsertBatch(ctx context.Context, readings []models.EnergyReading) error
	Insert(ctx context.Context, reading *models.EnergyReading) error
}

// RunRecorder keeps a ledger of finished runs.
type RunRecorder interface {
	Record(ctx context.Context, run models.ImportRun) error
}

// Options tunes an Importer. Zero values select defaults.
type Options struct {
	BatchSize         int
	MaxReportedErrors int
	Clock             clockwork.Clock
	Recorder          RunRecorder
}

// Importer loads CSV exports of valve readings into a Store.
type Importer struct {
	store       Store
	logger      *zap.Logger
	metrics     *observability.Metrics
	clock       clockwork.Clock
	recorder    RunRecorder
	batchSize   int
	maxReported int
}

// NewImporter builds an importer.
func NewImporter(store Store, logger *zap.Logger, metrics *observability.Metrics, opts Options) *Importer {
	im := &Importer{
		store:       store,
		logger:      logger,
		metrics:     metrics,
		clock:       opts.Clock,
		recorder:    opts.Recorder,
		batchSize:   opts.BatchSize,
		maxReported: opts.MaxReportedErrors,
	}
	if im.clock == nil {
		im.clock = clockwork.NewRealClock()
	}
	if im.batchSize <= 0 {
		im.batchSize = defaultBatchSize
	}
	if im.maxReported <= 0 {
		im.maxReported = defaultMaxReportedErrors
	}
	return im
}

// Import runs the whole pipeline over one file. The returned Result is never
// nil. A non-nil error is ErrUnreadableFile or ErrNoTimestampColumn (wrapped),
// and in that case nothing was written. Row and store failures are counted in
// the Result, not returned.
func (im *Importer) Import(ctx context.Context, path string) (*Result, error) {
	res := &Result{
		RunID:     uuid.NewString(),
		File:      path,
		StartedAt: im.clock.Now().UTC(),
		Mapped:    map[string]string{},
	}
	log := im.logger.With(zap.String("run_id", res.RunID))
	log.Info("importing data", zap.String("file", path))

	err := im.run(ctx, log, path, res)
	im.finish(ctx, log, res, err)
	return res, err
}

func (im *Importer) run(ctx context.Context, log *zap.Logger, path string, res *Result) error {
	table, err := LoadCSV(path)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrUnreadableFile, err)
		log.Error("error reading CSV file", zap.Error(err))
		return err
	}
	res.RowsRead = len(table.Rows)
	res.Columns = table.Header
	im.metrics.RowsRead.Add(float64(res.RowsRead))
	log.Info("read CSV",
		zap.Int("rows", len(table.Rows)),
		zap.Int("columns", len(table.Header)),
		zap.String("columns_found", strings.Join(table.Header, ", ")),
	)
	log.Info("found time columns", zap.Strings("columns", timeCandidates(table.Header)))

	tc, ok := resolveTimeColumn(table)
	if !ok {
		log.Error("no valid datetime column found, cannot import data")
		return ErrNoTimestampColumn
	}
	res.TimeColumn = tc.name

	rows := make([]int, 0, tc.valid)
	for i, ts := range tc.times {
		if ts != nil {
			rows = append(rows, i)
		}
	}
	res.DroppedInvalidTime = len(table.Rows) - len(rows)
	im.metrics.RowsDropped.WithLabelValues("invalid_time").Add(float64(res.DroppedInvalidTime))
	log.Info("resolved sample_time",
		zap.String("column", tc.name),
		zap.Int("removed_invalid", res.DroppedInvalidTime),
	)

	rows, res.DuplicatesRemoved = dedupeRows(table, rows)
	im.metrics.RowsDropped.WithLabelValues("duplicate").Add(float64(res.DuplicatesRemoved))
	log.Info("removed duplicate rows", zap.Int("count", res.DuplicatesRemoved))

	devName, devIdx := deviceColumn(table)
	res.DeviceColumn = devName
	if devIdx < 0 {
		log.Info("no device_id column found, using default device_id", zap.String("device_id", DefaultDeviceID))
	} else if devName != colDeviceID {
		log.Info("using column as device_id", zap.String("column", devName))
	}

	fields := mapFields(table.Header)
	for _, f := range CanonicalFields {
		if src, ok := fields.sources[f]; ok {
			res.Mapped[f] = src
			log.Info("mapped column", zap.String("source", src), zap.String("field", f))
		}
	}
	res.MissingFields = fields.missing()
	if len(res.MissingFields) > 0 {
		log.Warn("missing essential fields, importing them as null", zap.Strings("fields", res.MissingFields))
	}

	records := im.buildRecords(log, table, tc, rows, recordBuilder{deviceIdx: devIdx, fields: fields}, res)
	im.persist(ctx, log, records, res)
	return nil
}

func (im *Importer) buildRecords(log *zap.Logger, table *Table, tc timeColumn, rows []int, b recordBuilder, res *Result) []models.EnergyReading {
	records := make([]models.EnergyReading, 0, len(rows))
	failed := 0
	for _, i := range rows {
		rec, err := b.build(table.Rows[i], *tc.times[i])
		if err != nil {
			failed++
			if failed <= im.maxReported {
				log.Error("error processing row", zap.Int("row", i+1), zap.Error(err))
			}
			continue
		}
		records = append(records, rec)
	}
	if failed > im.maxReported {
		log.Error("further row errors suppressed", zap.Int("suppressed", failed-im.maxReported))
	}
	res.Failed += failed
	im.metrics.RecordsFailed.WithLabelValues("construct").Add(float64(failed))
	return records
}

// persist writes records in batches. A failed batch is retried record by
// record so one bad reading costs only itself. Earlier batches stay committed.
func (im *Importer) persist(ctx context.Context, log *zap.Logger, records []models.EnergyReading, res *Result) {
	total := (len(records) + im.batchSize - 1) / im.batchSize
	for start := 0; start < len(records); start += im.batchSize {
		end := min(start+im.batchSize, len(records))
		batch := records[start:end]
		n := start/im.batchSize + 1

		res.Batches++
		err := im.store.InsertBatch(ctx, batch)
		if err == nil {
			res.Succeeded += len(batch)
			im.metrics.Batches.WithLabelValues("ok").Inc()
			im.metrics.RecordsImported.Add(float64(len(batch)))
			log.Info("imported batch", zap.Int("batch", n), zap.Int("of", total), zap.Int("records", len(batch)))
			continue
		}

		res.FailedBatches++
		im.metrics.Batches.WithLabelValues("fallback").Inc()
		log.Error("error during bulk create, retrying records one at a time",
			zap.Int("batch", n), zap.Int("of", total), zap.Error(err))

		for j := range batch {
			rec := &batch[j]
			if err := im.store.Insert(ctx, rec); err != nil {
				res.Failed++
				im.metrics.RecordsFailed.WithLabelValues("persist").Inc()
				log.Error("error with record",
					zap.Int("record", start+j),
					zap.String("device_id", rec.DeviceID),
					zap.Timep("sample_time", rec.SampleTime),
					zap.Error(err),
				)
				continue
			}
			res.Succeeded++
			im.metrics.RecordsImported.Inc()
		}
	}
}

func (im *Importer) finish(ctx context.Context, log *zap.Logger, res *Result, runErr error) {
	res.FinishedAt = im.clock.Now().UTC()
	im.metrics.ImportDuration.Observe(res.FinishedAt.Sub(res.StartedAt).Seconds())

	outcome := "completed"
	if runErr != nil {
		outcome = "aborted"
	}
	im.metrics.ImportRuns.WithLabelValues(outcome).Inc()

	if im.recorder != nil {
		if err := im.recorder.Record(ctx, res.ImportRun(runErr)); err != nil {
			log.Warn("failed to record import run", zap.Error(err))
		}
	}

	log.Info(res.Summary(),
		zap.String("outcome", outcome),
		zap.Int("succeeded", res.Succeeded),
		zap.Int("failed", res.Failed),
		zap.Duration("elapsed", res.FinishedAt.Sub(res.StartedAt)),
	)
}
