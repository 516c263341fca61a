package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pancake/internal/ir"
)

// ValidateOutput is the JSON payload of the validate command.
type ValidateOutput struct {
	Valid     bool           `json:"valid"`
	Suites    []SuiteSummary `json:"suites"`
	Workloads int            `json:"workloads"`
}

// SuiteSummary describes one compiled suite.
type SuiteSummary struct {
	Name      string   `json:"name"`
	Workloads []string `json:"workloads"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <suite-dir>",
		Short: "Validate CUE workload suites",
		Long: `Compile and validate every CUE suite under a directory without running it.

Exit codes:
  0 - All suites are valid
  1 - A suite failed to compile or validate

Example:
  pancake validate ./suites`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func summarize(suites []ir.Suite) ValidateOutput {
	res := ValidateOutput{Valid: true, Suites: make([]SuiteSummary, 0, len(suites))}
	for _, s := range suites {
		sum := SuiteSummary{Name: s.Name, Workloads: make([]string, 0, len(s.Workloads))}
		for _, w := range s.Workloads {
			sum.Workloads = append(sum.Workloads, w.Name)
		}
		res.Workloads += len(s.Workloads)
		res.Suites = append(res.Suites, sum)
	}
	return res
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	out := newFormatter(opts, cmd)

	suites, err := LoadSuites(dir)
	if err != nil {
		out.Error(loadErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "validation failed", err)
	}

	res := summarize(suites)
	if out.JSON() {
		return out.Success(res)
	}

	w := cmd.OutOrStdout()
	for _, s := range res.Suites {
		fmt.Fprintf(w, "✓ %s (%d workloads)\n", s.Name, len(s.Workloads))
		if opts.Verbose {
			for _, name := range s.Workloads {
				fmt.Fprintf(w, "    %s\n", name)
			}
		}
	}
	fmt.Fprintf(w, "%d suite(s), %d workload(s) valid\n", len(res.Suites), res.Workloads)
	return nil
}
