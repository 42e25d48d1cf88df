package ingest

import (
	"errors"
	"fmt"
	"time"

	"ecovalve/backend/services/valve-service/internal/models"
)

// Fatal-to-run errors. Either one means nothing was written.
var (
	ErrUnreadableFile    = errors.New("cannot read CSV file")
	ErrNoTimestampColumn = errors.New("no valid datetime column found")
)

// Result describes one import run. It is filled in progressively, so an
// aborted run still reports what was learned before the abort.
type Result struct {
	RunID      string
	File       string
	StartedAt  time.Time
	FinishedAt time.Time

	RowsRead           int
	Columns            []string
	TimeColumn         string
	DroppedInvalidTime int
	DuplicatesRemoved  int
	DeviceColumn       string
	Mapped             map[string]string // canonical field -> source column
	MissingFields      []string

	Succeeded     int
	Failed        int
	Batches       int
	FailedBatches int
}

// Summary is the closing line of every run.
func (r *Result) Summary() string {
	return fmt.Sprintf("Successfully imported %d records. Failed: %d", r.Succeeded, r.Failed)
}

// ImportRun converts the result into its ledger form.
func (r *Result) ImportRun(runErr error) models.ImportRun {
	run := models.ImportRun{
		ID:                 r.RunID,
		File:               r.File,
		StartedAt:          r.StartedAt,
		FinishedAt:         r.FinishedAt,
		RowsRead:           r.RowsRead,
		DroppedInvalidTime: r.DroppedInvalidTime,
		DuplicatesRemoved:  r.DuplicatesRemoved,
		Succeeded:          r.Succeeded,
		Failed:             r.Failed,
		Batches:            r.Batches,
	}
	if runErr != nil {
		run.Aborted = true
		run.Error = runErr.Error()
	}
	return run
}
