// Package tuner selects the neighbor-list buffer radius empirically: it
// sweeps candidate r_buff values over a benchmark step loop, measures
// steps-per-second for each, and picks the operating point with the best
// throughput. Small buffers rebuild constantly; large ones drag extra
// candidate pairs through every force evaluation. The sweet spot depends on
// the machine and the system, so it is measured, not derived.
package tuner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/mdsim/internal/md"
	"github.com/san-kum/mdsim/internal/nlist"
)

// Benchmark is the step loop the sweep drives. The production
// implementation is sim.Simulator; tests substitute fakes.
type Benchmark interface {
	// SetRBuff reconfigures the buffer radius, forcing a rebuild.
	SetRBuff(r float64) error
	// SetCheckPeriod reconfigures the scheduler's check cadence.
	SetCheckPeriod(p int) error
	// Run advances the loop n steps, honoring ctx cancellation.
	Run(ctx context.Context, n int) error
	// PopStats drains the scheduler statistics window.
	PopStats() nlist.Stats
}

// Params configures a sweep.
type Params struct {
	RMin, RMax float64
	// Jumps is the number of evenly spaced samples over [RMin, RMax],
	// endpoints included.
	Jumps int
	// WarmupSteps run untimed before each measurement, letting the rebuild
	// cadence and memory state settle.
	WarmupSteps int
	// MeasureSteps run timed.
	MeasureSteps int
	// ApplyCheckPeriod applies the derived check period to the live
	// scheduler after the sweep; otherwise the caller applies the report.
	ApplyCheckPeriod bool
}

// Sample is one measured operating point.
type Sample struct {
	RBuff      float64
	Throughput float64 // steps per second
	// MinInterval is the shortest rebuild interval observed during the
	// measured window, in steps.
	MinInterval int
}

// Report is the sweep outcome. OptimalRBuff maximizes throughput, ties
// broken toward the larger buffer (fewer rebuilds, more margin against
// dangerous builds). MaxCheckPeriod is the shortest rebuild interval seen
// at the optimum: a fixed check period above it would outrun the fastest
// cadence actually observed.
type Report struct {
	Samples        []Sample
	OptimalRBuff   float64
	MaxCheckPeriod int
	// Interrupted is set when cancellation cut the sweep short; the report
	// then covers only the completed samples.
	Interrupted bool
}

type Tuner struct {
	bench Benchmark
}

func New(bench Benchmark) *Tuner { return &Tuner{bench: bench} }

// Tune runs the sweep. A cancelled context returns the best-so-far report
// over completed samples (with Interrupted set) rather than discarding
// progress; any other failure in a sample run aborts the sweep and
// surfaces the underlying error.
func (t *Tuner) Tune(ctx context.Context, p Params) (*Report, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	grid := floats.Span(make([]float64, p.Jumps), p.RMin, p.RMax)
	report := &Report{}

sweep:
	for _, r := range grid {
		select {
		case <-ctx.Done():
			report.Interrupted = true
			break sweep
		default:
		}

		sample, err := t.measure(ctx, r, p)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				report.Interrupted = true
				break sweep
			}
			return nil, fmt.Errorf("tuning sample r_buff=%g: %w", r, err)
		}
		report.Samples = append(report.Samples, sample)
	}

	if len(report.Samples) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: sweep produced no samples", md.ErrInvalidArgument)
	}

	best := report.Samples[0]
	for _, s := range report.Samples[1:] {
		if s.Throughput > best.Throughput ||
			(s.Throughput == best.Throughput && s.RBuff > best.RBuff) {
			best = s
		}
	}
	report.OptimalRBuff = best.RBuff
	report.MaxCheckPeriod = best.MinInterval
	if report.MaxCheckPeriod < 1 {
		report.MaxCheckPeriod = 1
	}

	if err := t.bench.SetRBuff(report.OptimalRBuff); err != nil {
		return nil, err
	}
	if p.ApplyCheckPeriod {
		if err := t.bench.SetCheckPeriod(report.MaxCheckPeriod); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func (t *Tuner) measure(ctx context.Context, r float64, p Params) (Sample, error) {
	if err := t.bench.SetRBuff(r); err != nil {
		return Sample{}, err
	}

	if p.WarmupSteps > 0 {
		if err := t.bench.Run(ctx, p.WarmupSteps); err != nil {
			return Sample{}, err
		}
	}
	t.bench.PopStats()

	start := time.Now()
	if err := t.bench.Run(ctx, p.MeasureSteps); err != nil {
		return Sample{}, err
	}
	elapsed := time.Since(start)

	stats := t.bench.PopStats()
	throughput := float64(p.MeasureSteps) / elapsed.Seconds()

	return Sample{
		RBuff:       r,
		Throughput:  throughput,
		MinInterval: stats.MinInterval(p.MeasureSteps),
	}, nil
}

func (p Params) validate() error {
	if p.RMin < 0 {
		return fmt.Errorf("%w: r_min must be non-negative, got %g", md.ErrInvalidArgument, p.RMin)
	}
	if p.RMin >= p.RMax {
		return fmt.Errorf("%w: r_min (%g) must be below r_max (%g)", md.ErrInvalidArgument, p.RMin, p.RMax)
	}
	if p.Jumps < 2 {
		return fmt.Errorf("%w: jumps must be at least 2, got %d", md.ErrInvalidArgument, p.Jumps)
	}
	if p.WarmupSteps < 0 {
		return fmt.Errorf("%w: warmup steps must be non-negative, got %d", md.ErrInvalidArgument, p.WarmupSteps)
	}
	if p.MeasureSteps < 1 {
		return fmt.Errorf("%w: measurement steps must be at least 1, got %d", md.ErrInvalidArgument, p.MeasureSteps)
	}
	return nil
}
