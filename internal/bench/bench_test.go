package bench

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pancake/internal/kernel"
)

func TestMeasure_CallCount(t *testing.T) {
	calls := 0
	st, err := Measure(context.Background(), Config{Steps: 3, Samples: 4, Warmup: 2}, func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 2+3*4, calls)
	assert.Equal(t, 4, st.Samples)
	assert.Equal(t, 3, st.Steps)
	assert.Len(t, st.PerSample, 4)
	assert.GreaterOrEqual(t, st.MeanNanos, st.MinNanos)
}

func TestMeasure_Kernel(t *testing.T) {
	st, err := Measure(context.Background(), DefaultConfig, func(context.Context) error {
		_, err := kernel.Run(6)
		return err
	})
	require.NoError(t, err)
	assert.Greater(t, st.MeanNanos, 0.0)
}

func TestMeasure_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Measure(context.Background(), Config{Steps: 1, Samples: 1}, func(context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestMeasure_InvalidConfig(t *testing.T) {
	noop := func(context.Context) error { return nil }
	for _, cfg := range []Config{{Steps: 0, Samples: 1}, {Steps: 1, Samples: 0}, {Steps: 1, Samples: 1, Warmup: -1}} {
		_, err := Measure(context.Background(), cfg, noop)
		assert.ErrorIs(t, err, ErrInvalidConfig, "%+v", cfg)
	}
}

func TestMeasure_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Measure(ctx, Config{Steps: 1, Samples: 3}, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarize(t *testing.T) {
	st := Summarize(2, []float64{10, 20, 30})
	assert.Equal(t, 20.0, st.MeanNanos)
	assert.Equal(t, 10.0, st.StdDevNanos)
	assert.Equal(t, 10.0, st.MinNanos)

	unordered := Summarize(1, []float64{12, 4, 9, 7})
	assert.Equal(t, 4.0, unordered.MinNanos)
	assert.InDelta(t, 8.0, unordered.MeanNanos, 1e-9)
	// Sample variance: (16+16+1+1)/3.
	assert.InDelta(t, math.Sqrt(34.0/3), unordered.StdDevNanos, 1e-9)

	single := Summarize(1, []float64{7})
	assert.Equal(t, 7.0, single.MeanNanos)
	assert.Equal(t, 7.0, single.MinNanos)
	assert.Equal(t, 0.0, single.StdDevNanos)

	empty := Summarize(1, nil)
	assert.Equal(t, 0, empty.Samples)
}

func TestCompare(t *testing.T) {
	fast := Stats{Samples: 10, MeanNanos: 50, StdDevNanos: 5}
	slow := Stats{Samples: 10, MeanNanos: 100, StdDevNanos: 5}

	c := Compare(fast, slow)
	assert.InDelta(t, 0.5, c.Ratio, 1e-12)
	assert.InDelta(t, 2.0, c.Speedup, 1e-12)
	assert.Greater(t, c.ProbFaster, 0.999)

	c = Compare(slow, fast)
	assert.Less(t, c.ProbFaster, 0.001)

	same := Compare(fast, fast)
	assert.InDelta(t, 0.5, same.ProbFaster, 1e-9)
}

func TestCompare_NoVariance(t *testing.T) {
	a := Stats{Samples: 1, MeanNanos: 10}
	b := Stats{Samples: 1, MeanNanos: 20}
	assert.Equal(t, 1.0, Compare(a, b).ProbFaster)
	assert.Equal(t, 0.0, Compare(b, a).ProbFaster)
	assert.Equal(t, 0.5, Compare(a, a).ProbFaster)
}

func TestCompare_ZeroBaseline(t *testing.T) {
	c := Compare(Stats{MeanNanos: 10}, Stats{})
	assert.Zero(t, c.Ratio)
	assert.Zero(t, c.Speedup)

	assert.Zero(t, Compare(Stats{}, Stats{MeanNanos: 10}).Speedup)
}
