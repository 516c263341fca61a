package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/pancake/internal/engine"
	"github.com/roach88/pancake/internal/ir"
	"github.com/roach88/pancake/internal/kernel"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Blocks   int
	Workers  int
	Database string

	// Tokens overrides the run token generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	Tokens engine.TokenGenerator
}

// RunOutput is the JSON payload of the run command.
type RunOutput struct {
	N         int    `json:"n"`
	Checksum  int64  `json:"checksum"`
	MaxFlips  int    `json:"max_flips"`
	Blocks    int    `json:"blocks"`
	NumBlocks int    `json:"num_blocks"`
	RunID     string `json:"run_id,omitempty"`
}

// String renders the classic two-line benchmark output.
func (o RunOutput) String() string {
	return fmt.Sprintf("%d\nPfannkuchen(%d) = %d", o.Checksum, o.N, o.MaxFlips)
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <n>",
		Short: "Compute the checksum and maximum flip count for n",
		Long: `Compute the Fannkuch-Redux checksum and maximum flip count for permutations
of size n (1-16). The index space is split into blocks that run in parallel;
the result does not depend on the block or worker count.

With --db the run and every block result are recorded.

Example:
  pancake run 7
  pancake run 10 --blocks 48 --workers 8
  pancake run 9 --db ./runs.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKernel(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Blocks, "blocks", kernel.DefaultBlocks, "preferred number of blocks")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "worker goroutines (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")

	return cmd
}

// parseN parses and range-checks a permutation size argument.
func parseN(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, WrapExitError(ExitCommandError, fmt.Sprintf("invalid n %q", arg), err)
	}
	if err := kernel.CheckN(n); err != nil {
		return 0, WrapExitError(ExitCommandError, "invalid n", err)
	}
	return n, nil
}

// signalContext cancels on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runKernel(opts *RunOptions, arg string, cmd *cobra.Command) error {
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

	eng, closeEngine, err := openEngine(ctx, engineConfig{
		Database: opts.Database,
		Workers:  opts.Workers,
		Logger:   newLogger(cmd.ErrOrStderr(), opts.Verbose),
		Tokens:   opts.Tokens,
	})
	if err != nil {
		out.Error(ErrCodeStore, err.Error(), nil)
		return err
	}
	defer closeEngine()

	rec, err := eng.Execute(ctx, ir.RunRequest{N: n, Blocks: opts.Blocks, Workers: opts.Workers})
	if err != nil {
		out.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "run failed", err)
	}

	result := RunOutput{
		N:         rec.N,
		Checksum:  rec.Checksum,
		MaxFlips:  rec.MaxFlips,
		Blocks:    rec.Blocks,
		NumBlocks: rec.NumBlocks,
	}
	if opts.Database != "" {
		result.RunID = rec.ID
	}
	return out.Success(result)
}
