//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"ecovalve/backend/libs/db"
	"ecovalve/backend/services/valve-service/internal/models"
)

func newPostgresRepo(t *testing.T) *ReadingRepository {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("ecovalve"),
		tcpostgres.WithUsername("ecovalve"),
		tcpostgres.WithPassword("ecovalve"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := db.NewPostgresPool(ctx, dsn)
	require.NoError(t, err)

	repo := NewReadingRepository(pool)
	t.Cleanup(func() { _ = repo.Close() })
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx), "schema bootstrap must be idempotent")
	return repo
}

func TestReadingRepository_Postgres(t *testing.T) {
	ctx := context.Background()
	repo := newPostgresRepo(t)
	monday9 := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

	batch := []models.EnergyReading{
		reading("valve-1", monday9, ptr(330.0)),
		reading("valve-1", monday9.Add(15*time.Minute), ptr(334.0)),
		reading("valve-2", monday9.AddDate(0, 0, 2).Add(3*time.Hour), nil),
	}
	require.NoError(t, repo.InsertBatch(ctx, batch))

	single := models.EnergyReading{DeviceID: "valve-3", OperatingHours: ptr(100.0)}
	require.NoError(t, repo.Insert(ctx, &single))
	assert.NotZero(t, single.ID)

	t.Run("oversize device id fails the whole batch", func(t *testing.T) {
		bad := []models.EnergyReading{
			reading("valve-4", monday9, nil),
			reading("valve-xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx", monday9, nil),
		}
		require.Error(t, repo.InsertBatch(ctx, bad))
	})

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "valve-3", all[3].DeviceID)
	assert.Nil(t, all[3].SampleTime)
	assert.Equal(t, monday9, *all[0].SampleTime)

	cells, err := repo.HeatmapCells(ctx)
	require.NoError(t, err)
	want := []models.HeatmapCell{
		{Weekday: 0, Hour: 9, Average: ptr(332.0), Count: 2},
		{Weekday: 2, Hour: 12, Average: nil, Count: 1},
	}
	if diff := cmp.Diff(want, cells); diff != "" {
		t.Fatalf("HeatmapCells mismatch (-want +got):\n%s", diff)
	}
}
