package store

import (
	"context"
	"errors"
	"testing"

	"github.com/roach88/pancake/internal/ir"
)

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.ReadRun(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReadBlocks_EmptyNotNil(t *testing.T) {
	s := createTestStore(t)
	blocks, err := s.ReadBlocks(context.Background(), "nope")
	if err != nil {
		t.Fatal(err)
	}
	if blocks == nil || len(blocks) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", blocks)
	}
}

func TestReadBlocks_OrderedByIndex(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.WriteRun(ctx, createTestRun("run-1", 7, 1)); err != nil {
		t.Fatal(err)
	}
	// Write out of order; seq order differs from index order on purpose.
	for _, i := range []int{3, 0, 2, 1} {
		if err := s.WriteBlock(ctx, createTestBlock("run-1", i, int64(10-i))); err != nil {
			t.Fatal(err)
		}
	}

	blocks, err := s.ReadBlocks(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range blocks {
		if b.Index != i {
			t.Errorf("blocks[%d].Index = %d", i, b.Index)
		}
	}
}

func TestReadParams(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun("run-1", 9, 1)
	run.Blocks = 5
	if err := s.WriteRun(ctx, run); err != nil {
		t.Fatal(err)
	}

	req, err := s.ReadParams(ctx, "run-1")
	if err != nil {
		t.Fatalf("ReadParams() failed: %v", err)
	}
	want := ir.RunRequest{N: 9, Blocks: 5}
	if req != want {
		t.Errorf("ReadParams() = %+v, want %+v", req, want)
	}

	var raw string
	if err := s.db.QueryRow("SELECT params FROM runs WHERE id = 'run-1'").Scan(&raw); err != nil {
		t.Fatal(err)
	}
	if raw != `{"blocks":5,"n":9}` {
		t.Errorf("params column = %s, want canonical JSON", raw)
	}
}

func TestListRuns_DeterministicOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, r := range []ir.RunRecord{
		createTestRun("c", 7, 3),
		createTestRun("b", 8, 1),
		createTestRun("a", 7, 2),
		createTestRun("d", 7, 2),
	} {
		if err := s.WriteRun(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.ListRuns(ctx, RunFilter{})
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, r := range runs {
		ids = append(ids, r.ID)
	}
	want := []string{"b", "a", "d", "c"}
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("got %v, want %v", ids, want)
		}
	}
}

func TestListRuns_Filter(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for i, n := range []int{7, 8, 7, 7} {
		if err := s.WriteRun(ctx, createTestRun(string(rune('a'+i)), n, int64(i+1))); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.ListRuns(ctx, RunFilter{N: 7})
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Errorf("expected 3 runs for n=7, got %d", len(runs))
	}

	runs, err = s.ListRuns(ctx, RunFilter{N: 7, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs with limit, got %d", len(runs))
	}

	runs, err = s.ListRuns(ctx, RunFilter{N: 12})
	if err != nil {
		t.Fatal(err)
	}
	if runs == nil || len(runs) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", runs)
	}
}

func TestLatestResult(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.LatestResult(ctx, 7); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on empty store, got %v", err)
	}

	for i := 1; i <= 3; i++ {
		if err := s.WriteRun(ctx, createTestRun(string(rune('a'+i)), 7, int64(i))); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.LatestResult(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if got.Seq != 3 {
		t.Errorf("LatestResult seq = %d, want 3", got.Seq)
	}
}

func TestMaxSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seq, err := s.MaxSeq(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if seq != 0 {
		t.Errorf("MaxSeq on empty store = %d, want 0", seq)
	}

	if err := s.WriteRun(ctx, createTestRun("run-1", 7, 4)); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteBlock(ctx, createTestBlock("run-1", 0, 9)); err != nil {
		t.Fatal(err)
	}
	seq, err = s.MaxSeq(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if seq != 9 {
		t.Errorf("MaxSeq = %d, want 9", seq)
	}
}
