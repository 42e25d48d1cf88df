package ingest

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	colSampleTime        = "sample_time"
	colCloudReceivedTime = "cloud_received_time"
)

// timeColumn is the column chosen as sample_time with its parsed values.
// times[i] is nil when row i did not parse.
type timeColumn struct {
	name  string
	times []*time.Time
	valid int
}

// timeCandidates lists header columns whose name contains "time", in header order.
func timeCandidates(header []string) []string {
	var out []string
	for _, name := range header {
		if strings.Contains(strings.ToLower(name), "time") {
			out = append(out, name)
		}
	}
	return out
}

// resolveTimeColumn picks sample_time, then cloud_received_time, then the first
// *time* column with at least one parseable value. The bool is false when
// nothing qualifies.
func resolveTimeColumn(t *Table) (timeColumn, bool) {
	for _, name := range []string{colSampleTime, colCloudReceivedTime} {
		if idx, ok := t.Column(name); ok {
			return parseTimeColumn(t, name, idx), true
		}
	}

	for _, name := range timeCandidates(t.Header) {
		idx, _ := t.Column(name)
		tc := parseTimeColumn(t, name, idx)
		if tc.valid > 0 {
			return tc, true
		}
	}
	return timeColumn{}, false
}

func parseTimeColumn(t *Table, name string, idx int) timeColumn {
	tc := timeColumn{name: name, times: make([]*time.Time, len(t.Rows))}
	for i, row := range t.Rows {
		if ts, ok := parseTimestamp(row[idx]); ok {
			tc.times[i] = &ts
			tc.valid++
		}
	}
	return tc
}

// parseTimestamp accepts the common date/time layouts. Values without a zone
// are taken as UTC; zoned values are converted to UTC.
func parseTimestamp(s string) (time.Time, bool) {
	if isMissing(s) {
		return time.Time{}, false
	}
	ts, err := dateparse.ParseIn(strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return ts.UTC(), true
}
