package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/pancake/internal/engine"
	"github.com/roach88/pancake/internal/store"
	"github.com/roach88/pancake/internal/testutil"
)

// Run executes a scenario and returns its result.
//
// Every scenario gets a fresh in-memory store, a clock starting at zero and
// fixed run tokens, so two executions of the same scenario produce the same
// trace. A run that fails or misses its expect clause marks the result
// failed; assertions are still evaluated over the runs that succeeded.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	token := scenario.Token
	if token == "" {
		token = "test-run"
	}
	eng := engine.New(st, engine.NewFixedGenerator(token),
		engine.WithClock(testutil.NewDeterministicClock()),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	result := NewResult()
	for i, step := range scenario.Runs {
		rec, err := eng.Execute(ctx, step.Request())
		if err != nil {
			result.AddError(fmt.Sprintf("runs[%d] n=%d: %v", i, step.N, err))
			result.Runs = append(result.Runs, nil)
			continue
		}
		result.Runs = append(result.Runs, rec)
		result.AddRunTrace(i, rec)

		if err := engine.CheckExpect(rec, step.Expect); err != nil {
			result.AddError(fmt.Sprintf("runs[%d]: %v", i, err))
		}
	}

	for i, a := range scenario.Assertions {
		if err := evaluateAssertion(ctx, eng, result, a); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return result, nil
}
