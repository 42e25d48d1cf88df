package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecovalve/backend/libs/db"
	"ecovalve/backend/services/valve-service/internal/models"
)

func ptr[T any](v T) *T { return &v }

func reading(device string, ts time.Time, t1 *float64) models.EnergyReading {
	return models.EnergyReading{DeviceID: device, SampleTime: &ts, T1RemoteK: t1}
}

func newSQLiteRepo(t *testing.T) *SQLiteReadingRepository {
	t.Helper()
	gdb, err := db.NewSQLite(":memory:")
	require.NoError(t, err)
	repo := NewSQLiteReadingRepository(gdb)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLiteReadingRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)
	monday := time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC)

	batch := []models.EnergyReading{
		reading("valve-1", monday, ptr(330.0)),
		reading("valve-2", monday.Add(time.Minute), nil),
	}
	require.NoError(t, repo.InsertBatch(ctx, batch))
	assert.Zero(t, batch[0].ID)

	single := reading("valve-3", monday.Add(2*time.Minute), ptr(331.0))
	single.FlowVolumeTotalM3 = ptr(12.5)
	require.NoError(t, repo.Insert(ctx, &single))
	assert.NotZero(t, single.ID)

	got, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	want := []models.EnergyReading{batch[0], batch[1], single}
	for i := range want {
		want[i].ID = got[i].ID
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ListAll mismatch (-want +got):\n%s", diff)
	}
	assert.Less(t, got[0].ID, got[1].ID)
	assert.Less(t, got[1].ID, got[2].ID)
}

func TestSQLiteReadingRepository_RejectsLongDeviceID(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)
	ts := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

	long := reading(strings.Repeat("d", 51), ts, nil)
	require.Error(t, repo.Insert(ctx, &long))
	require.Error(t, repo.InsertBatch(ctx, []models.EnergyReading{reading("ok", ts, nil), long}))

	got, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteReadingRepository_HeatmapCells(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)
	monday9 := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.InsertBatch(ctx, []models.EnergyReading{
		reading("valve-1", monday9, ptr(330.0)),
		reading("valve-1", monday9.Add(10*time.Minute), ptr(332.0)),
		reading("valve-1", monday9.AddDate(0, 0, 6).Add(5*time.Hour), nil),
		{DeviceID: "valve-1", T1RemoteK: ptr(999.0)},
	}))

	cells, err := repo.HeatmapCells(ctx)
	require.NoError(t, err)

	want := []models.HeatmapCell{
		{Weekday: 0, Hour: 9, Average: ptr(331.0), Count: 2},
		{Weekday: 6, Hour: 14, Average: nil, Count: 1},
	}
	if diff := cmp.Diff(want, cells); diff != "" {
		t.Fatalf("HeatmapCells mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateHeatmap_WeekdayMapping(t *testing.T) {
	// 2024-03-03 is a Sunday.
	sunday := time.Date(2024, time.March, 3, 23, 0, 0, 0, time.UTC)
	var readings []models.EnergyReading
	for d := 0; d < 7; d++ {
		readings = append(readings, reading("v", sunday.AddDate(0, 0, d), ptr(float64(d))))
	}

	cells := aggregateHeatmap(readings)
	require.Len(t, cells, 7)
	for i, c := range cells {
		assert.Equal(t, i, c.Weekday)
		assert.Equal(t, 23, c.Hour)
		assert.Equal(t, 1, c.Count)
	}
	assert.Equal(t, 1.0, *cells[0].Average, "Monday is the first row")
	assert.Equal(t, 6.0, *cells[5].Average)
	assert.Equal(t, 0.0, *cells[6].Average, "Sunday is the last row")
}

func TestAggregateHeatmap_ConvertsToUTC(t *testing.T) {
	tz := time.FixedZone("UTC+3", 3*3600)
	// Tuesday 01:00 local is Monday 22:00 UTC.
	local := time.Date(2024, time.March, 5, 1, 0, 0, 0, tz)

	cells := aggregateHeatmap([]models.EnergyReading{reading("v", local, ptr(1.0))})
	require.Len(t, cells, 1)
	assert.Equal(t, 0, cells[0].Weekday)
	assert.Equal(t, 22, cells[0].Hour)
}
