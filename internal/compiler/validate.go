package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/pancake/internal/ir"
	"github.com/roach88/pancake/internal/kernel"
)

// Validation error codes (E100-E199)
const (
	ErrSuiteNameEmpty     = "E100" // suite name is required
	ErrSuiteNoWorkloads   = "E101" // at least one workload required
	ErrDuplicateWorkload  = "E102" // workload name repeated within a suite
	ErrInvalidN           = "E103" // n outside 1..16
	ErrInvalidBlocks      = "E104" // blocks outside 1..65536
	ErrInvalidWorkers     = "E105" // workers < 0
	ErrInvalidSteps       = "E106" // steps < 1
	ErrInvalidExpectation = "E107" // expect.max_flips < 0
)

// ValidationError is a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a suite against the same rules the CUE schema enforces,
// for suites built in Go rather than compiled. Returns every error found.
func Validate(s *ir.Suite) []ValidationError {
	var errs []ValidationError
	add := func(code, field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Code: code})
	}

	if strings.TrimSpace(s.Name) == "" {
		add(ErrSuiteNameEmpty, "name", "suite name is required")
	}
	if len(s.Workloads) == 0 {
		add(ErrSuiteNoWorkloads, "workloads", "at least one workload is required")
	}

	seen := make(map[string]bool)
	for i, w := range s.Workloads {
		field := fmt.Sprintf("workloads[%d]", i)
		if seen[w.Name] {
			add(ErrDuplicateWorkload, field+".name", "duplicate workload name: %q", w.Name)
		}
		seen[w.Name] = true

		if err := kernel.CheckN(w.N); err != nil {
			add(ErrInvalidN, field+".n", "n must be in [1, %d], got %d", kernel.MaxN, w.N)
		}
		if err := kernel.CheckBlocks(w.Blocks); err != nil {
			add(ErrInvalidBlocks, field+".blocks", "blocks must be in [1, %d], got %d", kernel.MaxBlocks, w.Blocks)
		}
		if w.Workers < 0 {
			add(ErrInvalidWorkers, field+".workers", "workers must be >= 0, got %d", w.Workers)
		}
		if w.Steps < 1 {
			add(ErrInvalidSteps, field+".steps", "steps must be >= 1, got %d", w.Steps)
		}
		if w.Expect != nil && w.Expect.MaxFlips < 0 {
			add(ErrInvalidExpectation, field+".expect.max_flips", "max_flips must be >= 0, got %d", w.Expect.MaxFlips)
		}
	}
	return errs
}
