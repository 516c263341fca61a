package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/pancake/internal/ir"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run record with the reference n=7 result.
func createTestRun(id string, n int, seq int64) ir.RunRecord {
	return ir.RunRecord{
		ID:            id,
		Token:         "test-token",
		N:             n,
		Blocks:        24,
		NumBlocks:     24,
		Workers:       2,
		Checksum:      228,
		MaxFlips:      16,
		ResultHash:    ir.ResultHash(n, 228, 16),
		Seq:           seq,
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}
}

// createTestBlock creates a block record for runID.
func createTestBlock(runID string, index int, seq int64) ir.BlockRecord {
	return ir.BlockRecord{
		ID:       runID + "-block-" + string(rune('a'+index)),
		RunID:    runID,
		Index:    index,
		Start:    uint64(index) * 210,
		End:      uint64(index+1) * 210,
		Checksum: int64(index) - 3,
		MaxFlips: 10 + index,
		Seq:      seq,
	}
}
