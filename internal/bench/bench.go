// Package bench times kernel workloads and compares implementations.
//
// A sample runs the workload Steps times back to back; its cost is the
// elapsed time divided by Steps. Means are reported per step, and a
// comparison ratio is candidate mean over baseline mean, so values below 1
// mean the candidate is faster.
package bench

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/atgjack/prob"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Config controls a measurement.
type Config struct {
	// Steps is the number of workload calls per sample.
	Steps int
	// Samples is the number of timed samples.
	Samples int
	// Warmup calls run before timing starts.
	Warmup int
}

// DefaultConfig is one step per sample, five samples, one warmup call.
var DefaultConfig = Config{Steps: 1, Samples: 5, Warmup: 1}

// Stats summarizes a measurement. Durations are per step.
type Stats struct {
	Samples     int       `json:"samples"`
	Steps       int       `json:"steps"`
	MeanNanos   float64   `json:"mean_nanos"`
	StdDevNanos float64   `json:"stddev_nanos"`
	MinNanos    float64   `json:"min_nanos"`
	PerSample   []float64 `json:"-"`
}

// Comparison relates a candidate measurement to a baseline.
type Comparison struct {
	// Ratio is candidate mean / baseline mean, or 0 when the baseline mean is 0.
	Ratio float64 `json:"ratio"`
	// Speedup is baseline mean / candidate mean, or 0 when the candidate mean is 0.
	Speedup float64 `json:"speedup"`
	// ProbFaster is the probability, under a normal approximation of the
	// difference of means, that the candidate is faster than the baseline.
	ProbFaster float64 `json:"prob_faster"`
}

// ErrInvalidConfig is returned for non-positive steps or samples.
var ErrInvalidConfig = errors.New("invalid bench config")

// Measure times fn according to cfg.
// The first error returned by fn aborts the measurement.
func Measure(ctx context.Context, cfg Config, fn func(context.Context) error) (Stats, error) {
	if cfg.Steps < 1 || cfg.Samples < 1 || cfg.Warmup < 0 {
		return Stats{}, fmt.Errorf("%w: steps=%d samples=%d warmup=%d",
			ErrInvalidConfig, cfg.Steps, cfg.Samples, cfg.Warmup)
	}

	for i := 0; i < cfg.Warmup; i++ {
		if err := fn(ctx); err != nil {
			return Stats{}, fmt.Errorf("warmup: %w", err)
		}
	}

	per := make([]float64, 0, cfg.Samples)
	for s := 0; s < cfg.Samples; s++ {
		if err := ctx.Err(); err != nil {
			return Stats{}, err
		}
		start := time.Now()
		for i := 0; i < cfg.Steps; i++ {
			if err := fn(ctx); err != nil {
				return Stats{}, fmt.Errorf("sample %d: %w", s, err)
			}
		}
		per = append(per, float64(time.Since(start).Nanoseconds())/float64(cfg.Steps))
	}
	return Summarize(cfg.Steps, per), nil
}

// Summarize computes Stats from per-step sample costs in nanoseconds.
func Summarize(steps int, perSample []float64) Stats {
	st := Stats{Samples: len(perSample), Steps: steps, PerSample: perSample}
	if len(perSample) == 0 {
		return st
	}

	st.MinNanos = floats.Min(perSample)
	if len(perSample) == 1 {
		st.MeanNanos = perSample[0]
		return st
	}
	// Unweighted, with the n-1 sample correction.
	st.MeanNanos, st.StdDevNanos = stat.MeanStdDev(perSample, nil)
	return st
}

// Compare relates candidate to baseline.
func Compare(candidate, baseline Stats) Comparison {
	c := Comparison{ProbFaster: probFaster(candidate, baseline)}
	if baseline.MeanNanos > 0 {
		c.Ratio = candidate.MeanNanos / baseline.MeanNanos
	}
	if candidate.MeanNanos > 0 {
		c.Speedup = baseline.MeanNanos / candidate.MeanNanos
	}
	return c
}

// probFaster returns P(baseline - candidate > 0) with the difference of
// means modeled as normal with the combined standard error.
func probFaster(candidate, baseline Stats) float64 {
	diff := baseline.MeanNanos - candidate.MeanNanos
	se := math.Sqrt(sqErr(candidate) + sqErr(baseline))
	if se == 0 || math.IsNaN(se) {
		switch {
		case diff > 0:
			return 1
		case diff < 0:
			return 0
		default:
			return 0.5
		}
	}
	dist := prob.Normal{Mu: diff, Sigma: se}
	return 1 - dist.Cdf(0)
}

func sqErr(s Stats) float64 {
	if s.Samples == 0 {
		return 0
	}
	return s.StdDevNanos * s.StdDevNanos / float64(s.Samples)
}
