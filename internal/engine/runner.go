package engine

import (
	"context"
	"runtime"
	"sync"

	"github.com/roach88/pancake/internal/kernel"
)

// BlockOutcome is the result of one block of a run.
type BlockOutcome struct {
	Index  int
	Block  kernel.Block
	Result kernel.Result
}

// Outcome is the reduced result of a run plus its per-block results,
// ordered by block index.
type Outcome struct {
	N      int
	Blocks []BlockOutcome
	Result kernel.Result
}

// Runner executes the blocks of a kernel invocation on a fixed worker set.
type Runner struct {
	// Workers is the number of goroutines. Zero or less means GOMAXPROCS.
	Workers int
}

// DefaultWorkers is the worker count used when none is configured.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

func (r Runner) workerCount(blocks int) int {
	w := r.Workers
	if w <= 0 {
		w = DefaultWorkers()
	}
	return max(1, min(w, blocks))
}

// Run computes the result for n split into numBlocks preferred blocks.
//
// The factorial table is built once and shared read-only; every block builds
// its own permutation state. Cancellation is observed between blocks: blocks
// already handed to a worker run to completion, then ctx.Err() is returned.
func (r Runner) Run(ctx context.Context, n, numBlocks int) (*Outcome, error) {
	if err := kernel.CheckBlocks(numBlocks); err != nil {
		return nil, err
	}
	fact, err := kernel.NewFactorials(n)
	if err != nil {
		return nil, err
	}

	blocks := kernel.Partition(fact.PermMax(), numBlocks)
	outcomes := make([]BlockOutcome, len(blocks))

	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := r.workerCount(len(blocks))
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				// Each index is written by exactly one worker.
				outcomes[i] = BlockOutcome{
					Index:  i,
					Block:  blocks[i],
					Result: kernel.RunBlock(fact, n, blocks[i]),
				}
			}
		}()
	}

	var cancelErr error
feed:
	for i := range blocks {
		if cancelErr = ctx.Err(); cancelErr != nil {
			break
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			cancelErr = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if cancelErr != nil {
		return nil, cancelErr
	}

	results := make([]kernel.Result, len(outcomes))
	for i, o := range outcomes {
		results[i] = o.Result
	}
	return &Outcome{N: n, Blocks: outcomes, Result: kernel.Reduce(results...)}, nil
}
