package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <suite-dir>",
		Short: "Compile CUE workload suites to JSON",
		Long: `Compile every CUE suite under a directory, applying schema defaults, and
write the resulting workloads as JSON.

Example:
  pancake compile ./suites
  pancake compile ./suites -o suites.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write compiled JSON to this file instead of stdout")

	return cmd
}

func runCompile(opts *CompileOptions, dir string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)

	suites, err := LoadSuites(dir)
	if err != nil {
		out.Error(loadErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "compilation failed", err)
	}

	if opts.Output == "" {
		if out.JSON() {
			return out.Success(suites)
		}
		data, err := json.MarshalIndent(suites, "", "  ")
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to marshal suites", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	data, err := json.MarshalIndent(suites, "", "  ")
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to marshal suites", err)
	}
	if err := os.WriteFile(opts.Output, append(data, '\n'), 0o644); err != nil {
		out.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}

	workloads := 0
	for _, s := range suites {
		workloads += len(s.Workloads)
	}
	if out.JSON() {
		return out.Success(map[string]any{"output": opts.Output, "suites": len(suites), "workloads": workloads})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Compiled %d suite(s), %d workload(s) to %s\n", len(suites), workloads, opts.Output)
	return nil
}
