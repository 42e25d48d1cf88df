package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ecovalve/backend/services/valve-service/internal/app"
	"ecovalve/backend/services/valve-service/internal/config"
)

type importFlags struct {
	batchSize  int
	driver     string
	sqlitePath string
}

func newImportCommand(logger *zap.Logger) *cobra.Command {
	var flags importFlags
	cmd := &cobra.Command{
		Use:   "import-data <csv_file>",
		Short: "Import energy valve readings from a CSV file",
		Long: `
Reads a CSV export of valve readings, resolves the timestamp column, drops
unparseable and duplicate rows, maps known column aliases and stores the
readings in batches. Rows that fail are reported and skipped.
`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			importer, err := app.NewImporter(c.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer importer.Close()

			res, err := importer.Run(c.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), res.Summary())
			return nil
		},
	}

	fs := cmd.Flags()
	fs.IntVar(&flags.batchSize, "batch-size", 0, "records per batch insert (default from config)")
	fs.StringVar(&flags.driver, "driver", "", "storage driver: postgres or sqlite (default from config)")
	fs.StringVar(&flags.sqlitePath, "sqlite-path", "", "sqlite database file (default from config)")
	return cmd
}

// loadConfig reads file and environment configuration, then applies flags.
func loadConfig(flags importFlags) (*config.Config, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, err
	}
	if flags.batchSize > 0 {
		cfg.Import.BatchSize = flags.batchSize
	}
	if flags.driver != "" {
		cfg.Database.Driver = flags.driver
	}
	if flags.sqlitePath != "" {
		cfg.Database.SQLitePath = flags.sqlitePath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
