package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/pancake/internal/ir"
)

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("not found")

// RunFilter narrows ListRuns. Zero values mean "no restriction".
type RunFilter struct {
	N     int
	Limit int
}

const runColumns = `id, token, n, blocks, num_blocks, workers, checksum, max_flips, result_hash, seq, engine_version, ir_version`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (ir.RunRecord, error) {
	var r ir.RunRecord
	err := row.Scan(
		&r.ID, &r.Token, &r.N, &r.Blocks, &r.NumBlocks, &r.Workers,
		&r.Checksum, &r.MaxFlips, &r.ResultHash, &r.Seq,
		&r.EngineVersion, &r.IRVersion,
	)
	return r, err
}

// ReadRun returns a run by ID, without its blocks.
// Returns ErrNotFound if the run does not exist.
func (s *Store) ReadRun(ctx context.Context, id string) (ir.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.RunRecord{}, fmt.Errorf("read run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return ir.RunRecord{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return r, nil
}

// ReadRunWithBlocks returns a run with BlockRecords populated.
func (s *Store) ReadRunWithBlocks(ctx context.Context, id string) (ir.RunRecord, error) {
	r, err := s.ReadRun(ctx, id)
	if err != nil {
		return ir.RunRecord{}, err
	}
	r.BlockRecords, err = s.ReadBlocks(ctx, id)
	if err != nil {
		return ir.RunRecord{}, err
	}
	return r, nil
}

// ReadParams returns the request parameters stored with a run.
func (s *Store) ReadParams(ctx context.Context, id string) (ir.RunRequest, error) {
	var params string
	err := s.db.QueryRowContext(ctx, `SELECT params FROM runs WHERE id = ?`, id).Scan(&params)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.RunRequest{}, fmt.Errorf("read params %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return ir.RunRequest{}, fmt.Errorf("read params %s: %w", id, err)
	}
	return unmarshalParams(params)
}

// ReadBlocks returns the blocks of a run ordered by block index.
// Returns an empty slice (not nil) when the run has no blocks.
func (s *Store) ReadBlocks(ctx context.Context, runID string) ([]ir.BlockRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, block_index, start_idx, end_idx, checksum, max_flips, seq
		FROM blocks
		WHERE run_id = ?
		ORDER BY block_index ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query blocks: %w", err)
	}
	defer rows.Close()

	blocks := []ir.BlockRecord{}
	for rows.Next() {
		var b ir.BlockRecord
		var start, end int64
		if err := rows.Scan(&b.ID, &b.RunID, &b.Index, &start, &end, &b.Checksum, &b.MaxFlips, &b.Seq); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		b.Start, b.End = uint64(start), uint64(end)
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocks: %w", err)
	}
	return blocks, nil
}

// ListRuns returns runs ordered by seq ASC, id ASC COLLATE BINARY.
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListRuns(ctx context.Context, f RunFilter) ([]ir.RunRecord, error) {
	var (
		where []string
		args  []any
	)
	if f.N > 0 {
		where = append(where, "n = ?")
		args = append(args, f.N)
	}

	query := `SELECT ` + runColumns + ` FROM runs`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY seq ASC, id COLLATE BINARY ASC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []ir.RunRecord{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// LatestResult returns the most recent run recorded for n.
// Returns ErrNotFound if no run exists for n.
func (s *Store) LatestResult(ctx context.Context, n int) (ir.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+` FROM runs
		WHERE n = ?
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`, n)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.RunRecord{}, fmt.Errorf("latest result for n=%d: %w", n, ErrNotFound)
	}
	if err != nil {
		return ir.RunRecord{}, fmt.Errorf("latest result for n=%d: %w", n, err)
	}
	return r, nil
}

// MaxSeq returns the highest seq in the log, or 0 for an empty log.
// Engines resume their clock from it.
func (s *Store) MaxSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(seq) FROM (
			SELECT seq FROM runs
			UNION ALL
			SELECT seq FROM blocks
		)
	`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("max seq: %w", err)
	}
	return seq.Int64, nil
}
