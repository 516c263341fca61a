package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pancake/internal/engine"
)

// SuiteOptions holds flags for the suite command.
type SuiteOptions struct {
	*RootOptions
	Database string
	Suite    string // run only this suite

	// Tokens overrides the run token generator (for testing).
	Tokens engine.TokenGenerator
}

// WorkloadResult is the outcome of one workload.
type WorkloadResult struct {
	Suite    string `json:"suite"`
	Workload string `json:"workload"`
	N        int    `json:"n"`
	Steps    int    `json:"steps"`
	Checksum int64  `json:"checksum"`
	MaxFlips int    `json:"max_flips"`
	Checked  bool   `json:"checked"` // an expect clause was present
	Pass     bool   `json:"pass"`
	Error    string `json:"error,omitempty"`
}

// SuiteOutput is the JSON payload of the suite command.
type SuiteOutput struct {
	Workloads []WorkloadResult `json:"workloads"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewSuiteCommand creates the suite command.
func NewSuiteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SuiteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "suite <suite-dir>",
		Short: "Execute CUE workload suites",
		Long: `Compile the CUE suites under a directory and execute every workload
steps times, checking each result against the workload's expect clause.

Exit codes:
  0 - Every workload matched its expectation
  1 - A workload failed or mismatched
  2 - Command error

Example:
  pancake suite ./suites
  pancake suite ./suites --suite reference --db ./runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuites(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record every run in this SQLite database")
	cmd.Flags().StringVar(&opts.Suite, "suite", "", "run only the named suite")

	return cmd
}

func runSuites(opts *SuiteOptions, dir string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)

	suites, err := LoadSuites(dir)
	if err != nil {
		out.Error(loadErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load suites", err)
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	eng, closeEngine, err := openEngine(ctx, engineConfig{
		Database: opts.Database,
		Logger:   newLogger(cmd.ErrOrStderr(), opts.Verbose),
		Tokens:   opts.Tokens,
	})
	if err != nil {
		out.Error(ErrCodeStore, err.Error(), nil)
		return err
	}
	defer closeEngine()

	res := SuiteOutput{Workloads: []WorkloadResult{}}
	for _, s := range suites {
		if opts.Suite != "" && s.Name != opts.Suite {
			continue
		}
		for _, w := range s.Workloads {
			wr := WorkloadResult{Suite: s.Name, Workload: w.Name, N: w.N, Steps: w.Steps, Checked: w.Expect != nil, Pass: true}
			for step := 0; step < w.Steps; step++ {
				rec, err := eng.Execute(ctx, w.Request())
				if err != nil {
					wr.Pass, wr.Error = false, err.Error()
					break
				}
				wr.Checksum, wr.MaxFlips = rec.Checksum, rec.MaxFlips
				if err := engine.CheckExpect(rec, w.Expect); err != nil {
					wr.Pass, wr.Error = false, err.Error()
					break
				}
			}
			out.VerboseLog("%s/%s: n=%d checksum=%d max_flips=%d", s.Name, w.Name, w.N, wr.Checksum, wr.MaxFlips)

			res.Workloads = append(res.Workloads, wr)
			res.Total++
			if wr.Pass {
				res.Passed++
			} else {
				res.Failed++
			}
		}
	}

	if opts.Suite != "" && res.Total == 0 {
		err := NewExitError(ExitCommandError, fmt.Sprintf("suite %q not found", opts.Suite))
		out.Error(ErrCodeNotFound, err.Error(), nil)
		return err
	}

	if out.JSON() {
		if res.Failed > 0 {
			out.Failure(ErrCodeMismatch, fmt.Sprintf("%d workload(s) failed", res.Failed), res)
			return NewExitError(ExitFailure, fmt.Sprintf("%d workload(s) failed", res.Failed))
		}
		return out.Success(res)
	}

	w := cmd.OutOrStdout()
	for _, r := range res.Workloads {
		mark := "✓"
		if !r.Pass {
			mark = "✗"
		}
		note := ""
		if !r.Checked {
			note = " (unchecked)"
		}
		fmt.Fprintf(w, "%s %s/%s n=%d checksum=%d max_flips=%d%s\n", mark, r.Suite, r.Workload, r.N, r.Checksum, r.MaxFlips, note)
		if r.Error != "" {
			fmt.Fprintf(w, "  %s\n", r.Error)
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", res.Passed, res.Failed, res.Total)

	if res.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d workload(s) failed", res.Failed))
	}
	return nil
}
