package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"ecovalve/backend/libs/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.NewCLILogger()
	defer logger.Sync()

	cmd := newImportCommand(logger)
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Error("import aborted", zap.Error(err))
		return 1
	}
	return 0
}
