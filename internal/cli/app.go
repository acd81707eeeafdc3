// Package cli is the interactive front end: a small REPL over the store,
// the session table and the orchestrator workers.
package cli

import (
	"bufio"
	"context"
	"io"

	"github.com/akarpov87/vsnap/internal/config"
	"github.com/akarpov87/vsnap/internal/logging"
	"github.com/akarpov87/vsnap/internal/orchestrator"
	"github.com/akarpov87/vsnap/internal/remote"
	"github.com/akarpov87/vsnap/internal/sessions"
	"github.com/akarpov87/vsnap/internal/store"
)

type App struct {
	config    *config.Config
	store     *store.Store
	table     *sessions.Table
	connector remote.Connector
	log       logging.Logger

	// reader is the single buffer over the input stream, shared by the
	// command loop and every interactive prompt.
	reader *bufio.Reader
	out    io.Writer

	// inventory is the snapshot list from the last fetch or create;
	// the delete command references entries by their printed index.
	inventory []orchestrator.FullResult
}

// NewApp builds the interactive app. in and out are typically os.Stdin and
// os.Stdout; tests substitute in-memory buffers.
func NewApp(cfg *config.Config, st *store.Store, connector remote.Connector, log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config:    cfg,
		store:     st,
		table:     sessions.NewTable(),
		connector: connector,
		log:       log,
		reader:    bufio.NewReader(in),
		out:       out,
	}
}

func (a *App) Run(ctx context.Context) {
	if a.config.AutoConnect {
		a.connectAll(ctx)
	}
	a.Root(ctx)
	a.disconnectAll(ctx)
}

// workerOptions derives orchestrator settings from the loaded config.
func (a *App) workerOptions() orchestrator.Options {
	return orchestrator.Options{
		BatchSize:    a.config.BatchSize,
		PollInterval: a.config.PollInterval,
		CallTimeout:  a.config.ConnectTimeout,
		PollBudget:   a.config.PollBudget,
		Logger:       a.log,
	}
}

func (a *App) disconnectAll(ctx context.Context) {
	for host, session := range a.table.Clear() {
		if err := session.Disconnect(ctx); err != nil {
			a.log.Warn(ctx, "disconnect failed", "host", host, "error", err)
		}
	}
}
