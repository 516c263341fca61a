package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pancake/internal/ir"
	"github.com/roach88/pancake/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database     string
	N            int
	Limit        int
	BlocksDetail bool
}

// TraceOutput is the JSON payload of the trace command.
type TraceOutput struct {
	Runs []ir.RunRecord `json:"runs"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "List recorded runs",
		Long: `List recorded runs in log order (seq ascending), optionally with the
range and partial result of every block.

Examples:
  pancake trace --db ./runs.db
  pancake trace --db ./runs.db --n 10 --blocks-detail
  pancake trace --db ./runs.db --limit 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().IntVar(&opts.N, "n", 0, "only runs for this n")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of runs (0 = all)")
	cmd.Flags().BoolVar(&opts.BlocksDetail, "blocks-detail", false, "include per-block results")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)
	ctx, cancel := signalContext(cmd)
	defer cancel()

	st, err := openStore(opts.Database)
	if err != nil {
		out.Error(ErrCodeStore, err.Error(), nil)
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx, store.RunFilter{N: opts.N, Limit: opts.Limit})
	if err != nil {
		out.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if opts.BlocksDetail {
		for i := range runs {
			runs[i].BlockRecords, err = st.ReadBlocks(ctx, runs[i].ID)
			if err != nil {
				out.Error(ErrCodeStore, err.Error(), nil)
				return WrapExitError(ExitCommandError, "failed to read blocks", err)
			}
		}
	}

	if out.JSON() {
		return out.Success(TraceOutput{Runs: runs})
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(w, "[seq=%d] %s n=%d blocks=%d workers=%d checksum=%d max_flips=%d\n",
			r.Seq, shortID(r.ID), r.N, r.NumBlocks, r.Workers, r.Checksum, r.MaxFlips)
		for _, b := range r.BlockRecords {
			fmt.Fprintf(w, "    [seq=%d] block %d [%d,%d) checksum=%d max_flips=%d\n",
				b.Seq, b.Index, b.Start, b.End, b.Checksum, b.MaxFlips)
		}
	}
	return nil
}
