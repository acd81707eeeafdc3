package main

import (
	"context"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"

	"github.com/akarpov87/vsnap/internal/cli"
	"github.com/akarpov87/vsnap/internal/config"
	"github.com/akarpov87/vsnap/internal/cryptox"
	"github.com/akarpov87/vsnap/internal/filex"
	"github.com/akarpov87/vsnap/internal/keyx"
	"github.com/akarpov87/vsnap/internal/legacy"
	"github.com/akarpov87/vsnap/internal/logging"
	"github.com/akarpov87/vsnap/internal/remote"
	"github.com/akarpov87/vsnap/internal/store"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	dataDir := cfg.DataDir
	if dataDir == "" {
		var err error
		dataDir, err = filex.DataDir()
		if err != nil {
			logger.Error(ctx, "cannot determine data directory", "error", err)
			os.Exit(1)
		}
	}

	if err := legacy.NewMigrator(dataDir, logger).Run(ctx); err != nil {
		logger.Error(ctx, "legacy migration failed", "error", err)
		os.Exit(1)
	}

	box := cryptox.NewBox(keyx.NewKeyringProvider(logger))
	st, err := store.Open(ctx, dataDir, box, logger)
	if err != nil {
		logger.Error(ctx, "cannot open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	app := cli.NewApp(cfg, st, remote.Default(), logger, os.Stdin, os.Stdout)
	app.Run(ctx)
}
