package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/pancake/internal/engine"
)

// Assertion types.
const (
	AssertResult          = "result"
	AssertInvariant       = "invariant"
	AssertBlockCount      = "block_count"
	AssertMaxFlipsAtLeast = "max_flips_at_least"
	AssertDeterministic   = "deterministic"
)

// Assertion is a check over a scenario's recorded runs.
// Which fields apply depends on Type.
type Assertion struct {
	Type string `yaml:"type"`

	// Run indexes Scenario.Runs (result, block_count, max_flips_at_least).
	Run int `yaml:"run,omitempty"`

	// Checksum and MaxFlips are the expected result (result).
	Checksum int64 `yaml:"checksum,omitempty"`
	MaxFlips int   `yaml:"max_flips,omitempty"`

	// Count is the expected number of blocks (block_count).
	Count int `yaml:"count,omitempty"`

	// Value is the lower bound on max_flips (max_flips_at_least).
	Value int `yaml:"value,omitempty"`
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nRuns:\n")
	for _, ev := range e.Trace {
		if ev.Type == EventRun {
			fmt.Fprintf(&buf, "  [%d] n=%d blocks=%d checksum=%d max_flips=%d\n",
				ev.Run, ev.N, ev.NumBlocks, ev.Checksum, ev.MaxFlips)
		}
	}
	return buf.String()
}

// evaluateAssertion dispatches on assertion type.
func evaluateAssertion(ctx context.Context, eng *engine.Engine, result *Result, a Assertion) error {
	switch a.Type {
	case AssertResult:
		return assertResult(result, a)
	case AssertInvariant:
		return assertInvariant(result)
	case AssertBlockCount:
		return assertBlockCount(result, a)
	case AssertMaxFlipsAtLeast:
		return assertMaxFlipsAtLeast(result, a)
	case AssertDeterministic:
		return assertDeterministic(ctx, eng, result)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

// runEvent returns the run completion for a scenario run.
func runEvent(trace []TraceEvent, run int) (TraceEvent, bool) {
	for _, ev := range trace {
		if ev.Type == EventRun && ev.Run == run {
			return ev, true
		}
	}
	return TraceEvent{}, false
}

func missingRun(kind string, a Assertion, trace []TraceEvent) error {
	return &AssertionError{
		Type:     kind,
		Expected: fmt.Sprintf("run %d completed", a.Run),
		Actual:   "run not in trace",
		Trace:    trace,
	}
}

func assertResult(result *Result, a Assertion) error {
	ev, ok := runEvent(result.Trace, a.Run)
	if !ok {
		return missingRun(AssertResult, a, result.Trace)
	}
	if ev.Checksum != a.Checksum || ev.MaxFlips != a.MaxFlips {
		return &AssertionError{
			Type:     AssertResult,
			Expected: fmt.Sprintf("run %d: checksum=%d max_flips=%d", a.Run, a.Checksum, a.MaxFlips),
			Actual:   fmt.Sprintf("run %d: checksum=%d max_flips=%d", a.Run, ev.Checksum, ev.MaxFlips),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertInvariant checks that block count and worker count never change a
// result: all runs of the same n share one result hash.
func assertInvariant(result *Result) error {
	first := make(map[int]TraceEvent)
	for _, ev := range result.Trace {
		if ev.Type != EventRun {
			continue
		}
		prev, ok := first[ev.N]
		if !ok {
			first[ev.N] = ev
			continue
		}
		if prev.ResultHash != ev.ResultHash {
			return &AssertionError{
				Type:     AssertInvariant,
				Expected: fmt.Sprintf("n=%d: run %d result (%d, %d)", ev.N, prev.Run, prev.Checksum, prev.MaxFlips),
				Actual:   fmt.Sprintf("n=%d: run %d result (%d, %d)", ev.N, ev.Run, ev.Checksum, ev.MaxFlips),
				Trace:    result.Trace,
			}
		}
	}
	return nil
}

func assertBlockCount(result *Result, a Assertion) error {
	ev, ok := runEvent(result.Trace, a.Run)
	if !ok {
		return missingRun(AssertBlockCount, a, result.Trace)
	}

	blocks := 0
	for _, b := range result.Trace {
		if b.Type == EventBlock && b.Run == a.Run {
			blocks++
		}
	}
	if ev.NumBlocks != a.Count || blocks != a.Count {
		return &AssertionError{
			Type:     AssertBlockCount,
			Expected: fmt.Sprintf("run %d: %d blocks", a.Run, a.Count),
			Actual:   fmt.Sprintf("run %d: %d blocks recorded, %d traced", a.Run, ev.NumBlocks, blocks),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertMaxFlipsAtLeast(result *Result, a Assertion) error {
	ev, ok := runEvent(result.Trace, a.Run)
	if !ok {
		return missingRun(AssertMaxFlipsAtLeast, a, result.Trace)
	}
	if ev.MaxFlips < a.Value {
		return &AssertionError{
			Type:     AssertMaxFlipsAtLeast,
			Expected: fmt.Sprintf("run %d: max_flips >= %d", a.Run, a.Value),
			Actual:   fmt.Sprintf("run %d: max_flips = %d", a.Run, ev.MaxFlips),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertDeterministic(ctx context.Context, eng *engine.Engine, result *Result) error {
	for _, rec := range result.Runs {
		if rec == nil {
			continue
		}
		report, err := eng.Replay(ctx, rec.ID)
		if err != nil {
			return fmt.Errorf("replay run %s: %w", rec.ID, err)
		}
		if !report.Deterministic {
			return &AssertionError{
				Type:     AssertDeterministic,
				Expected: fmt.Sprintf("replay of n=%d reproduces the stored run", rec.N),
				Actual:   strings.Join(report.Mismatches, "; "),
				Trace:    result.Trace,
			}
		}
	}
	return nil
}
