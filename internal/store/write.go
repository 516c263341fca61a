package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/pancake/internal/ir"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// WriteRun inserts a run record. Duplicate IDs are silently ignored.
// BlockRecords on the run are not written; use WriteBlock or
// WriteRunWithBlocks.
func (s *Store) WriteRun(ctx context.Context, run ir.RunRecord) error {
	return writeRun(ctx, s.db, run)
}

// WriteBlock inserts one block result. The referenced run must exist
// (foreign key). A second write for the same (run_id, block_index) is ignored.
func (s *Store) WriteBlock(ctx context.Context, b ir.BlockRecord) error {
	return writeBlock(ctx, s.db, b)
}

// WriteRunWithBlocks writes a run and all of its blocks in one transaction.
func (s *Store) WriteRunWithBlocks(ctx context.Context, run ir.RunRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := writeRun(ctx, tx, run); err != nil {
		return err
	}
	for _, b := range run.BlockRecords {
		if err := writeBlock(ctx, tx, b); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}
	return nil
}

func writeRun(ctx context.Context, ex execer, run ir.RunRecord) error {
	params, err := marshalParams(run.Request())
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO runs
		(id, token, n, blocks, num_blocks, workers, checksum, max_flips, result_hash, params, seq, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Token,
		run.N,
		run.Blocks,
		run.NumBlocks,
		run.Workers,
		run.Checksum,
		run.MaxFlips,
		run.ResultHash,
		params,
		run.Seq,
		run.EngineVersion,
		run.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

func writeBlock(ctx context.Context, ex execer, b ir.BlockRecord) error {
	// Indices are below 16! and fit in int64.
	_, err := ex.ExecContext(ctx, `
		INSERT INTO blocks
		(id, run_id, block_index, start_idx, end_idx, checksum, max_flips, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		b.ID,
		b.RunID,
		b.Index,
		int64(b.Start),
		int64(b.End),
		b.Checksum,
		b.MaxFlips,
		b.Seq,
	)
	if err != nil {
		return fmt.Errorf("write block %d: %w", b.Index, err)
	}
	return nil
}
