package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/pancake/internal/ir"
	"github.com/roach88/pancake/internal/kernel"
	"github.com/roach88/pancake/internal/store"
)

// Engine executes run requests and records them.
//
// Execute may be called from multiple goroutines; the Runner, Clock and
// token generators are concurrency-safe and the store serializes writes.
type Engine struct {
	store    *store.Store
	clock    Sequencer
	tokens   TokenGenerator
	runner   Runner
	maxPerms uint64
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the default worker count for requests that leave
// Workers at zero.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.runner.Workers = n
	}
}

// WithClock replaces the engine's logical clock.
// Use NewClockAt(store.MaxSeq()) to continue an existing log.
func WithClock(c Sequencer) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithMaxPermutations rejects requests whose n! exceeds limit.
// Zero means no limit.
func WithMaxPermutations(limit uint64) Option {
	return func(e *Engine) {
		e.maxPerms = limit
	}
}

// New creates an Engine. st may be nil, in which case runs are computed and
// identified but not persisted.
func New(st *store.Store, tokens TokenGenerator, opts ...Option) *Engine {
	if tokens == nil {
		tokens = UUIDv7Generator{}
	}
	e := &Engine{
		store:  st,
		clock:  NewClock(),
		tokens: tokens,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the engine's store, or nil.
func (e *Engine) Store() *store.Store {
	return e.store
}

// normalize fills defaults and validates a request.
func (e *Engine) normalize(req ir.RunRequest) (ir.RunRequest, error) {
	if req.Blocks == 0 {
		req.Blocks = kernel.DefaultBlocks
	}
	if err := kernel.CheckBlocks(req.Blocks); err != nil {
		return req, newInvalidRequest(err)
	}
	fact, err := kernel.NewFactorials(req.N)
	if err != nil {
		return req, newInvalidRequest(err)
	}
	if e.maxPerms > 0 && fact.PermMax() > e.maxPerms {
		return req, newQuotaError(req.N, fact.PermMax(), e.maxPerms)
	}
	if req.Workers <= 0 {
		req.Workers = e.runner.Workers
	}
	return req, nil
}

// Compute runs a request without assigning identity or persisting it.
func (e *Engine) Compute(ctx context.Context, req ir.RunRequest) (*Outcome, error) {
	req, err := e.normalize(req)
	if err != nil {
		return nil, err
	}
	return Runner{Workers: req.Workers}.Run(ctx, req.N, req.Blocks)
}

// Execute runs a request, assigns IDs and seq numbers, and persists the run
// with all of its blocks when the engine has a store.
//
// The run takes the first seq; its blocks follow in block-index order.
func (e *Engine) Execute(ctx context.Context, req ir.RunRequest) (*ir.RunRecord, error) {
	req, err := e.normalize(req)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("run starting", "n", req.N, "blocks", req.Blocks, "workers", req.Workers)
	outcome, err := Runner{Workers: req.Workers}.Run(ctx, req.N, req.Blocks)
	if err != nil {
		return nil, fmt.Errorf("execute n=%d: %w", req.N, err)
	}

	rec, err := e.record(req, outcome)
	if err != nil {
		return nil, err
	}

	if e.store != nil {
		if err := e.store.WriteRunWithBlocks(ctx, *rec); err != nil {
			return nil, fmt.Errorf("execute n=%d: %w", req.N, err)
		}
	}

	e.logger.Debug("run complete",
		"run_id", rec.ID,
		"n", rec.N,
		"blocks", rec.NumBlocks,
		"checksum", rec.Checksum,
		"max_flips", rec.MaxFlips,
	)
	return rec, nil
}

// record builds the run record for an outcome.
func (e *Engine) record(req ir.RunRequest, outcome *Outcome) (*ir.RunRecord, error) {
	token := e.tokens.Generate()
	seq := e.clock.Next()
	runID, err := ir.RunID(token, req, seq)
	if err != nil {
		return nil, err
	}

	rec := &ir.RunRecord{
		ID:            runID,
		Token:         token,
		N:             req.N,
		Blocks:        req.Blocks,
		NumBlocks:     len(outcome.Blocks),
		Workers:       req.Workers,
		Checksum:      outcome.Result.Checksum,
		MaxFlips:      outcome.Result.MaxFlips,
		ResultHash:    ir.ResultHash(req.N, outcome.Result.Checksum, outcome.Result.MaxFlips),
		Seq:           seq,
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
		BlockRecords:  make([]ir.BlockRecord, len(outcome.Blocks)),
	}

	for i, b := range outcome.Blocks {
		blockID, err := ir.BlockID(runID, b.Index, b.Block.Start, b.Block.End)
		if err != nil {
			return nil, err
		}
		rec.BlockRecords[i] = ir.BlockRecord{
			ID:       blockID,
			RunID:    runID,
			Index:    b.Index,
			Start:    b.Block.Start,
			End:      b.Block.End,
			Checksum: b.Result.Checksum,
			MaxFlips: b.Result.MaxFlips,
			Seq:      e.clock.Next(),
		}
	}
	return rec, nil
}

// CheckExpect compares a run against a known-good result.
// A nil expect always passes.
func CheckExpect(rec *ir.RunRecord, expect *ir.Expect) error {
	if expect == nil {
		return nil
	}
	if rec.Checksum != expect.Checksum {
		return NewMismatchError(rec.ID, "checksum", rec.Checksum, expect.Checksum)
	}
	if rec.MaxFlips != expect.MaxFlips {
		return NewMismatchError(rec.ID, "max_flips", rec.MaxFlips, expect.MaxFlips)
	}
	return nil
}
