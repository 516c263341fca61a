// Package verify walks the full permutation sequence block by block and
// checks that the partitioned enumeration is the same sequence a single
// stepper would produce.
package verify

import (
	"context"
	"fmt"
	"slices"

	"github.com/segmentio/fasthash/jody"

	"github.com/roach88/pancake/internal/kernel"
)

// seed starts every digest chain.
const seed = "pancake/order/v1"

// Report is the outcome of a Walk.
type Report struct {
	N            int      `json:"n"`
	Blocks       int      `json:"blocks"`
	Permutations uint64   `json:"permutations"`
	Digest       string   `json:"digest"`
	Boundaries   int      `json:"boundaries"`
	Mismatches   []string `json:"mismatches,omitempty"`
}

// OK reports whether every boundary matched.
func (r *Report) OK() bool {
	return len(r.Mismatches) == 0
}

// Walk enumerates every permutation of size n, split into numBlocks
// preferred blocks.
//
// Each block starts from Decode(block.Start) and steps to its end. After the
// last permutation of a block, one more step must land exactly on the decoded
// start of the next block, counters included. Every permutation is folded, in
// global index order, into one jody hash chain; the digest therefore depends
// only on n, never on the block count.
func Walk(ctx context.Context, n, numBlocks int) (*Report, error) {
	if err := kernel.CheckBlocks(numBlocks); err != nil {
		return nil, err
	}
	fact, err := kernel.NewFactorials(n)
	if err != nil {
		return nil, err
	}

	blocks := kernel.Partition(fact.PermMax(), numBlocks)
	report := &Report{N: n, Blocks: len(blocks)}
	h := jody.HashString64(seed)

	for bi, b := range blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s := kernel.Decode(fact, n, b.Start)
		for idx := b.Start; ; idx++ {
			h = addPerm(h, &s.Current, n)
			report.Permutations++
			if idx == b.End-1 {
				break
			}
			s.Next()
		}

		if bi == len(blocks)-1 {
			continue
		}
		next := blocks[bi+1]
		s.Next()
		want := kernel.Decode(fact, n, next.Start)
		report.Boundaries++
		if !sameState(&s, &want) {
			report.Mismatches = append(report.Mismatches, fmt.Sprintf(
				"block %d -> %d at index %d: stepped to %v, decoded %v",
				bi, bi+1, next.Start, s.Slice(), want.Slice()))
		}
	}

	if report.Permutations != fact.PermMax() {
		report.Mismatches = append(report.Mismatches, fmt.Sprintf(
			"enumerated %d permutations, want %d", report.Permutations, fact.PermMax()))
	}
	report.Digest = fmt.Sprintf("%016x", h)
	return report, nil
}

// Digest folds the given permutations, in order, into a hash chain
// compatible with Walk.
func Digest(perms [][]int) string {
	h := jody.HashString64(seed)
	for _, p := range perms {
		for _, v := range p {
			h = jody.AddUint64(h, uint64(v))
		}
	}
	return fmt.Sprintf("%016x", h)
}

func addPerm(h uint64, p *kernel.Perm, n int) uint64 {
	for _, v := range p[:n] {
		h = jody.AddUint64(h, uint64(v))
	}
	return h
}

func sameState(a, b *kernel.State) bool {
	n := a.N
	return a.N == b.N &&
		slices.Equal(a.Current[:n], b.Current[:n]) &&
		slices.Equal(a.Count[:n], b.Count[:n])
}
