package models

import "time"

// ImportRun summarizes one ingestion of a CSV file.
type ImportRun struct {
	ID                 string    `json:"id"`
	File               string    `json:"file"`
	StartedAt          time.Time `json:"started_at"`
	FinishedAt         time.Time `json:"finished_at"`
	RowsRead           int       `json:"rows_read"`
	DroppedInvalidTime int       `json:"dropped_invalid_time"`
	DuplicatesRemoved  int       `json:"duplicates_removed"`
	Succeeded          int       `json:"succeeded"`
	Failed             int       `json:"failed"`
	Batches            int       `json:"batches"`
	Aborted            bool      `json:"aborted"`
	Error              string    `json:"error,omitempty"`
}
