package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ecovalve/backend/services/valve-service/internal/config"
	"ecovalve/backend/services/valve-service/internal/ingest"
	"ecovalve/backend/services/valve-service/internal/service"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.SQLitePath = filepath.Join(t.TempDir(), "valve.db")
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestImporter_EndToEndSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)
	logger := zap.NewNop()

	csvPath := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"device_id,sample_time,T1_remote_K,T2_embeded_K\n"+
			"valve-1,2024-03-04 09:10:00,330,301\n"+
			"valve-1,2024-03-04 09:10:00,330,301\n"+
			"valve-1,2024-03-04 09:40:00,334,inf\n"+
			"valve-2,garbage,300,300\n",
	), 0o600))

	im, err := NewImporter(ctx, cfg, logger)
	require.NoError(t, err)
	res, err := im.Run(ctx, csvPath)
	im.Close()
	require.NoError(t, err)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.DuplicatesRemoved)
	assert.Equal(t, 1, res.DroppedInvalidTime)

	store, err := openReadingStore(ctx, cfg, logger)
	require.NoError(t, err)
	defer store.Close()

	readings, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, readings, 2)
	assert.Nil(t, readings[1].T2EmbeddedK)

	cells, err := store.HeatmapCells(ctx)
	require.NoError(t, err)
	hm := service.BuildHeatmap(cells)
	assert.Equal(t, []int{9}, hm.Hours)
	assert.Equal(t, 2, hm.Counts[0][0])
	assert.InDelta(t, 332.0, *hm.Values[0][0], 1e-9)
}

func TestImporter_AbortsOnMissingFile(t *testing.T) {
	ctx := context.Background()
	im, err := NewImporter(ctx, sqliteConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer im.Close()

	_, err = im.Run(ctx, filepath.Join(t.TempDir(), "absent.csv"))
	require.ErrorIs(t, err, ingest.ErrUnreadableFile)
}
