package pso

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"
	"gonum.org/v1/gonum/stat"

	"github.com/copyleftdev/SWARM/internal/optimization"
)

// Orchestrator executes R independent runs of one configuration and
// aggregates cross-run statistics. Runs share no mutable state; each gets its
// own random source seeded as baseSeed+runIndex so one config seed reproduces
// the whole batch.
type Orchestrator struct {
	params  Params
	runs    int
	workers int

	// OnRunComplete, when set, is called after each finished run with the
	// completed count. Calls may arrive from concurrent workers.
	OnRunComplete func(completed, total int)
}

// NewOrchestrator returns an orchestrator for the given run count. workers
// bounds the worker pool; values below 1 run the batch sequentially.
func NewOrchestrator(params Params, runs, workers int) (*Orchestrator, error) {
	if runs < 1 {
		return nil, optimization.ConfigError("runs must be positive, got %d", runs)
	}
	if workers < 1 {
		workers = 1
	}
	// Validate once up front so a malformed configuration fails before any
	// run starts.
	if _, err := NewEngine(params); err != nil {
		return nil, err
	}
	return &Orchestrator{params: params, runs: runs, workers: workers}, nil
}

// RunMany executes the batch and aggregates the results in run order. The
// policy is fail-fast: the first run error aborts the whole batch, since
// partial results from a numerically broken configuration would mislead.
func (o *Orchestrator) RunMany(ctx context.Context) (*optimization.MultiRunResult, error) {
	baseSeed := o.params.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	histories := make([]*optimization.RunHistory, o.runs)
	var completed atomic.Int64

	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(o.workers)
	for i := 0; i < o.runs; i++ {
		i := i
		p.Go(func(ctx context.Context) error {
			params := o.params
			params.Seed = baseSeed + int64(i)
			// Concurrent runs would interleave observer calls, so only a
			// single-run batch keeps the per-generation observer.
			if o.runs > 1 {
				params.Observer = nil
			}

			history, err := Run(ctx, params)
			if err != nil {
				return err
			}
			histories[i] = history

			if o.OnRunComplete != nil {
				o.OnRunComplete(int(completed.Add(1)), o.runs)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return aggregate(histories), nil
}

// RunMany executes R independent runs with the given parameters.
func RunMany(ctx context.Context, params Params, runs, workers int) (*optimization.MultiRunResult, error) {
	o, err := NewOrchestrator(params, runs, workers)
	if err != nil {
		return nil, err
	}
	return o.RunMany(ctx)
}

func aggregate(histories []*optimization.RunHistory) *optimization.MultiRunResult {
	runs := len(histories)
	result := &optimization.MultiRunResult{
		Runs:              make([]optimization.RunHistory, runs),
		BestFitnessPerRun: make([]float64, runs),
		AvgFitnessPerRun:  make([]float64, runs),
	}

	for i, h := range histories {
		result.Runs[i] = *h
		result.BestFitnessPerRun[i] = h.Best.Fitness

		avg := make([]float64, len(h.Generations))
		for g, gen := range h.Generations {
			avg[g] = gen.AvgFitness
		}
		result.AvgFitnessPerRun[i] = stat.Mean(avg, nil)

		if h.Best.Fitness < result.Runs[result.BestRunIndex].Best.Fitness {
			result.BestRunIndex = i
		}
	}

	generations := len(histories[0].Generations)
	result.CrossRunVariance = make([]float64, generations)
	perGen := make([]float64, runs)
	for g := 0; g < generations; g++ {
		for i := range histories {
			perGen[i] = histories[i].Generations[g].BestFitness
		}
		result.CrossRunVariance[g] = stat.PopVariance(perGen, nil)
	}

	result.MeanBestFitness = stat.Mean(result.BestFitnessPerRun, nil)
	result.MeanAvgFitness = stat.Mean(result.AvgFitnessPerRun, nil)
	result.Variance = stat.PopVariance(result.BestFitnessPerRun, nil)
	result.StdDeviation = stat.PopStdDev(result.BestFitnessPerRun, nil)
	return result
}
