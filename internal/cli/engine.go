package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/roach88/pancake/internal/engine"
	"github.com/roach88/pancake/internal/store"
)

// engineConfig describes the engine a command needs.
type engineConfig struct {
	Database string // empty: nothing is recorded
	Workers  int
	Logger   *slog.Logger
	Tokens   engine.TokenGenerator // nil: UUIDv7
}

// openEngine builds an engine, opening the database when one is given and
// resuming the logical clock after the highest recorded seq.
// The returned close func is never nil.
func openEngine(ctx context.Context, cfg engineConfig) (*engine.Engine, func(), error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	opts := []engine.Option{
		engine.WithWorkers(cfg.Workers),
		engine.WithLogger(logger),
	}

	if cfg.Database == "" {
		return engine.New(nil, cfg.Tokens, opts...), func() {}, nil
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, func() {}, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	closeFn := func() {
		if err := st.Close(); err != nil {
			logger.Error("error closing database", "error", err)
		}
	}

	seq, err := st.MaxSeq(ctx)
	if err != nil {
		closeFn()
		return nil, func() {}, WrapExitError(ExitCommandError, "failed to read database", err)
	}
	opts = append(opts, engine.WithClock(engine.NewClockAt(seq)))
	logger.Debug("database ready", "path", cfg.Database, "seq", seq)

	return engine.New(st, cfg.Tokens, opts...), closeFn, nil
}

// openStore opens an existing database for read-only commands.
func openStore(path string) (*store.Store, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}
