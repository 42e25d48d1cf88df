package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"ecovalve/backend/services/valve-service/internal/models"
)

const (
	colDeviceID = "device_id"
	colDevice   = "device"

	// DefaultDeviceID fills device_id when the file has no device column at all.
	DefaultDeviceID = "default_device"
	// UnknownDeviceID fills blank cells of an existing device column.
	UnknownDeviceID = "unknown"
)

// naValues are cell spellings read as missing, on top of blank cells.
var naValues = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {},
	"nan": {}, "null": {}, "NaT": {},
}

func isMissing(s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}
	_, ok := naValues[s]
	return ok
}

// parseMeasurement returns nil for missing, NaN and infinite values and an
// error for text that is not a number.
func parseMeasurement(s string) (*float64, error) {
	if isMissing(s) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", s)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil, nil
	}
	return &v, nil
}

// deviceColumn locates the device identifier: device_id, then device.
// Index -1 means every row gets DefaultDeviceID.
func deviceColumn(t *Table) (string, int) {
	for _, name := range []string{colDeviceID, colDevice} {
		if idx, ok := t.Column(name); ok {
			return name, idx
		}
	}
	return "", -1
}

// recordBuilder turns a surviving row into an EnergyReading.
type recordBuilder struct {
	deviceIdx int
	fields    fieldMapping
}

func (b recordBuilder) build(row []string, ts time.Time) (models.EnergyReading, error) {
	device := DefaultDeviceID
	if b.deviceIdx >= 0 {
		device = row[b.deviceIdx]
		if isMissing(device) {
			device = UnknownDeviceID
		}
	}
	if utf8.RuneCountInString(device) > models.MaxDeviceIDLength {
		return models.EnergyReading{}, fmt.Errorf("device_id %q exceeds %d characters", device, models.MaxDeviceIDLength)
	}

	sampleTime := ts
	rec := models.EnergyReading{DeviceID: device, SampleTime: &sampleTime}

	targets := map[string]**float64{
		FieldT1RemoteK:         &rec.T1RemoteK,
		FieldT2EmbeddedK:       &rec.T2EmbeddedK,
		FieldDeltaTK:           &rec.DeltaTK,
		FieldFlowVolumeTotalM3: &rec.FlowVolumeTotalM3,
		FieldOperatingHours:    &rec.OperatingHours,
	}
	for _, field := range CanonicalFields {
		idx, ok := b.fields.columns[field]
		if !ok {
			continue
		}
		v, err := parseMeasurement(row[idx])
		if err != nil {
			return models.EnergyReading{}, fmt.Errorf("%s: %w", b.fields.sources[field], err)
		}
		*targets[field] = v
	}
	return rec, nil
}

// dedupeRows keeps the first occurrence of each byte-identical row.
func dedupeRows(t *Table, rows []int) ([]int, int) {
	seen := make(map[string]struct{}, len(rows))
	kept := make([]int, 0, len(rows))
	var sb strings.Builder
	for _, i := range rows {
		sb.Reset()
		for _, cell := range t.Rows[i] {
			sb.WriteString(strconv.Itoa(len(cell)))
			sb.WriteByte(':')
			sb.WriteString(cell)
		}
		key := sb.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, i)
	}
	return kept, len(rows) - len(kept)
}
