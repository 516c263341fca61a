package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/pancake/internal/ir"
	"github.com/roach88/pancake/internal/store"
)

// ReplayReport describes one re-executed run.
type ReplayReport struct {
	RunID         string   `json:"run_id"`
	N             int      `json:"n"`
	Blocks        int      `json:"blocks"`
	NumBlocks     int      `json:"num_blocks"`
	Checksum      int64    `json:"checksum"`
	MaxFlips      int      `json:"max_flips"`
	Deterministic bool     `json:"deterministic"`
	Mismatches    []string `json:"mismatches,omitempty"`
}

// Replay re-executes a stored run from its params column and compares the
// fresh result, block by block, with what was recorded. Nothing is written
// back to the store.
func (e *Engine) Replay(ctx context.Context, runID string) (*ReplayReport, error) {
	if e.store == nil {
		return nil, fmt.Errorf("replay %s: engine has no store", runID)
	}

	stored, err := e.store.ReadRunWithBlocks(ctx, runID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &RuntimeError{Code: ErrCodeRunNotFound, Message: "run not found", RunID: runID, Err: err}
	}
	if err != nil {
		return nil, err
	}

	req, err := e.store.ReadParams(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", runID, err)
	}
	outcome, err := e.Compute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", runID, err)
	}

	report := &ReplayReport{
		RunID:     runID,
		N:         req.N,
		Blocks:    req.Blocks,
		NumBlocks: stored.NumBlocks,
		Checksum:  outcome.Result.Checksum,
		MaxFlips:  outcome.Result.MaxFlips,
	}
	report.Mismatches = diffRun(stored, outcome)
	report.Deterministic = len(report.Mismatches) == 0

	e.logger.Debug("run replayed", "run_id", runID, "deterministic", report.Deterministic)
	return report, nil
}

// ReplayAll replays every stored run matching f, in log order.
func (e *Engine) ReplayAll(ctx context.Context, f store.RunFilter) ([]ReplayReport, error) {
	if e.store == nil {
		return nil, fmt.Errorf("replay: engine has no store")
	}
	runs, err := e.store.ListRuns(ctx, f)
	if err != nil {
		return nil, err
	}

	reports := make([]ReplayReport, 0, len(runs))
	for _, r := range runs {
		rep, err := e.Replay(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *rep)
	}
	return reports, nil
}

func diffRun(stored ir.RunRecord, outcome *Outcome) []string {
	var diffs []string
	add := func(format string, args ...any) {
		diffs = append(diffs, fmt.Sprintf(format, args...))
	}

	if stored.Checksum != outcome.Result.Checksum {
		add("checksum: stored %d, replayed %d", stored.Checksum, outcome.Result.Checksum)
	}
	if stored.MaxFlips != outcome.Result.MaxFlips {
		add("max_flips: stored %d, replayed %d", stored.MaxFlips, outcome.Result.MaxFlips)
	}
	if h := ir.ResultHash(stored.N, outcome.Result.Checksum, outcome.Result.MaxFlips); h != stored.ResultHash {
		add("result_hash: stored %s, replayed %s", stored.ResultHash, h)
	}
	if len(stored.BlockRecords) != len(outcome.Blocks) {
		add("blocks: stored %d, replayed %d", len(stored.BlockRecords), len(outcome.Blocks))
		return diffs
	}

	for i, sb := range stored.BlockRecords {
		ob := outcome.Blocks[i]
		if sb.Start != ob.Block.Start || sb.End != ob.Block.End {
			add("block %d: stored range [%d,%d), replayed [%d,%d)", i, sb.Start, sb.End, ob.Block.Start, ob.Block.End)
			continue
		}
		if sb.Checksum != ob.Result.Checksum || sb.MaxFlips != ob.Result.MaxFlips {
			add("block %d: stored (%d,%d), replayed (%d,%d)", i,
				sb.Checksum, sb.MaxFlips, ob.Result.Checksum, ob.Result.MaxFlips)
		}
	}
	return diffs
}
