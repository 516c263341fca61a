package kernel

import "fmt"

// Result is a (checksum, max flips) pair for one block or a whole run.
type Result struct {
	Checksum int64 `json:"checksum"`
	MaxFlips int   `json:"max_flips"`
}

// Merge folds two results: checksums add, max flips take the maximum.
// Merge is commutative and associative.
func (r Result) Merge(o Result) Result {
	return Result{
		Checksum: r.Checksum + o.Checksum,
		MaxFlips: max(r.MaxFlips, o.MaxFlips),
	}
}

// Reduce merges any number of results, in any order.
func Reduce(results ...Result) Result {
	var out Result
	for _, r := range results {
		out = out.Merge(r)
	}
	return out
}

// String renders the result the way the reference benchmark prints it.
func (r Result) String() string {
	return fmt.Sprintf("checksum=%d max_flips=%d", r.Checksum, r.MaxFlips)
}

// RunBlock enumerates every permutation in b and returns its contribution.
// Permutations at even global indices add their flip count to the checksum,
// odd ones subtract it.
//
// The state lives on this call's stack; concurrent calls share only fact.
func RunBlock(fact Factorials, n int, b Block) Result {
	var r Result
	if b.Len() == 0 {
		return r
	}

	s := Decode(fact, n, b.Start)
	last := b.End - 1
	for idx := b.Start; ; idx++ {
		if flips := CountFlips(&s.Current); flips > 0 {
			if idx%2 == 0 {
				r.Checksum += int64(flips)
			} else {
				r.Checksum -= int64(flips)
			}
			if flips > r.MaxFlips {
				r.MaxFlips = flips
			}
		}
		if idx >= last {
			return r
		}
		s.Next()
	}
}

// Run computes the Fannkuch-Redux result for n using DefaultBlocks,
// executing the blocks sequentially.
func Run(n int) (Result, error) {
	return RunBlocks(n, DefaultBlocks)
}

// RunBlocks is Run with an explicit preferred block count.
func RunBlocks(n, numBlocks int) (Result, error) {
	if err := CheckBlocks(numBlocks); err != nil {
		return Result{}, err
	}
	fact, err := NewFactorials(n)
	if err != nil {
		return Result{}, err
	}

	var out Result
	for _, b := range Partition(fact.PermMax(), numBlocks) {
		out = out.Merge(RunBlock(fact, n, b))
	}
	return out, nil
}
