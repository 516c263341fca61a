package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pancake/internal/bench"
	"github.com/roach88/pancake/internal/engine"
	"github.com/roach88/pancake/internal/kernel"
)

// BenchOptions holds flags for the bench command.
type BenchOptions struct {
	*RootOptions
	Blocks  int
	Workers int
	Steps   int
	Samples int
	Warmup  int
}

// BenchOutput is the JSON payload of the bench command.
type BenchOutput struct {
	N          int              `json:"n"`
	Blocks     int              `json:"blocks"`
	Workers    int              `json:"workers"`
	Checksum   int64            `json:"checksum"`
	MaxFlips   int              `json:"max_flips"`
	Parallel   bench.Stats      `json:"parallel"`
	Serial     bench.Stats      `json:"serial"`
	Comparison bench.Comparison `json:"comparison"`
}

// String renders a fixed-width table.
func (o BenchOutput) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fannkuch(%d) blocks=%d checksum=%d max_flips=%d\n", o.N, o.Blocks, o.Checksum, o.MaxFlips)
	fmt.Fprintf(&b, "%-12s%-16s%-16s%-12s\n", "runner", "avg nanos", "stddev", "serial ratio")
	fmt.Fprintf(&b, "%-12s%-16.0f%-16.0f%-12.2f\n", "serial", o.Serial.MeanNanos, o.Serial.StdDevNanos, 1.0)
	fmt.Fprintf(&b, "%-12s%-16.0f%-16.0f%-12.2f\n",
		fmt.Sprintf("parallel/%d", o.Workers), o.Parallel.MeanNanos, o.Parallel.StdDevNanos, o.Comparison.Ratio)
	fmt.Fprintf(&b, "P(parallel faster) = %.3f", o.Comparison.ProbFaster)
	return b.String()
}

// NewBenchCommand creates the bench command.
func NewBenchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BenchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "bench <n>",
		Short: "Time the parallel runner against a serial baseline",
		Long: `Time the block-parallel runner for n against the same blocks run on a single
worker. Each sample runs the kernel --steps times; the reported time is per
step. The ratio column is parallel time over serial time.

Example:
  pancake bench 10
  pancake bench 11 --steps 2 --samples 10 --workers 8`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Blocks, "blocks", kernel.DefaultBlocks, "preferred number of blocks")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "parallel worker goroutines (0 = GOMAXPROCS)")
	cmd.Flags().IntVar(&opts.Steps, "steps", bench.DefaultConfig.Steps, "kernel calls per sample")
	cmd.Flags().IntVar(&opts.Samples, "samples", bench.DefaultConfig.Samples, "timed samples")
	cmd.Flags().IntVar(&opts.Warmup, "warmup", bench.DefaultConfig.Warmup, "untimed warmup calls")

	return cmd
}

func runBench(opts *BenchOptions, arg string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)

	n, err := parseN(arg)
	if err != nil {
		out.Error(ErrCodeInvalidInput, err.Error(), nil)
		return err
	}
	if err := kernel.CheckBlocks(opts.Blocks); err != nil {
		out.Error(ErrCodeInvalidInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid block count", err)
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	cfg := bench.Config{Steps: opts.Steps, Samples: opts.Samples, Warmup: opts.Warmup}
	parallel := engine.Runner{Workers: opts.Workers}
	serial := engine.Runner{Workers: 1}

	var last kernel.Result
	measure := func(r engine.Runner) (bench.Stats, error) {
		return bench.Measure(ctx, cfg, func(ctx context.Context) error {
			o, err := r.Run(ctx, n, opts.Blocks)
			if err != nil {
				return err
			}
			last = o.Result
			return nil
		})
	}

	out.VerboseLog("measuring serial baseline: n=%d steps=%d samples=%d", n, cfg.Steps, cfg.Samples)
	serialStats, err := measure(serial)
	if err != nil {
		out.Error(ErrCodeInvalidInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "benchmark failed", err)
	}
	out.VerboseLog("measuring parallel runner")
	parallelStats, err := measure(parallel)
	if err != nil {
		out.Error(ErrCodeInvalidInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "benchmark failed", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = engine.DefaultWorkers()
	}
	return out.Success(BenchOutput{
		N:          n,
		Blocks:     opts.Blocks,
		Workers:    workers,
		Checksum:   last.Checksum,
		MaxFlips:   last.MaxFlips,
		Parallel:   parallelStats,
		Serial:     serialStats,
		Comparison: bench.Compare(parallelStats, serialStats),
	})
}
