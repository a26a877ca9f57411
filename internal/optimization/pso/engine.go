// Package pso drives particle swarm optimization runs: a single-run engine
// plus a multi-run orchestrator that aggregates independent trials.
package pso

import (
	"context"
	"math/rand"
	"time"

	"github.com/copyleftdev/SWARM/internal/optimization"
	"github.com/copyleftdev/SWARM/internal/optimization/coefficient"
	"github.com/copyleftdev/SWARM/internal/optimization/inertia"
)

// Params fully describes one run. Strategy descriptors come pre-parsed so
// every spec error has surfaced before an engine is constructed.
type Params struct {
	Dimensions     int
	PopulationSize int
	Generations    int
	Bounds         [2]float64

	// VelocityClamp caps each velocity coordinate's magnitude; 0 leaves
	// velocity unbounded.
	VelocityClamp float64

	Objective optimization.FitnessFunc
	Inertia   *inertia.Spec
	C1, C2    *coefficient.Spec

	// Seed drives all randomness of the run; 0 draws from the clock.
	Seed int64

	// Observer, when set, is called after every generation.
	Observer optimization.Observer
}

// Engine executes one independent PSO run.
type Engine struct {
	params Params
}

// NewEngine validates the structural parameters and returns an engine.
func NewEngine(params Params) (*Engine, error) {
	switch {
	case params.Dimensions < 1:
		return nil, optimization.ConfigError("dimensions must be positive, got %d", params.Dimensions)
	case params.PopulationSize < 1:
		return nil, optimization.ConfigError("population size must be positive, got %d", params.PopulationSize)
	case params.Generations < 1:
		return nil, optimization.ConfigError("generations must be positive, got %d", params.Generations)
	case params.Bounds[0] >= params.Bounds[1]:
		return nil, optimization.ConfigError("bounds must satisfy lo < hi, got [%v, %v]", params.Bounds[0], params.Bounds[1])
	case params.Objective == nil:
		return nil, optimization.ConfigError("objective function is required")
	case params.Inertia == nil || params.C1 == nil || params.C2 == nil:
		return nil, optimization.ConfigError("inertia and coefficient specs are required")
	}
	return &Engine{params: params}, nil
}

// Run executes the configured number of generations and returns the run
// history. Strategies are constructed once, bound to the run's random source;
// termination is solely by generation count, plus context cancellation
// between generations.
func (e *Engine) Run(ctx context.Context) (*optimization.RunHistory, error) {
	seed := e.params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	w := e.params.Inertia.Strategy(rng)
	c1 := e.params.C1.Strategy(rng)
	c2 := e.params.C2.Strategy(rng)

	swarm, err := NewSwarm(e.params.Objective, e.params.Dimensions, e.params.PopulationSize,
		e.params.Bounds, e.params.VelocityClamp, rng)
	if err != nil {
		return nil, err
	}

	total := e.params.Generations
	history := &optimization.RunHistory{
		Generations: make([]optimization.GenerationStats, 0, total),
		Seed:        seed,
	}

	for k := 0; k < total; k++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		weights := w.Evaluate(k, total, swarm.State())
		c1v := c1.Evaluate(k, total)
		c2v := c2.Evaluate(k, total)

		if err := swarm.Step(k, weights, c1v, c2v); err != nil {
			return nil, err
		}

		best := swarm.Best()
		history.Generations = append(history.Generations, optimization.GenerationStats{
			Iteration:     k,
			BestFitness:   best.Fitness,
			AvgFitness:    swarm.AvgFitness(),
			InertiaWeight: weights.Mean(),
			Diversity:     swarm.Diversity(),
		})

		if e.params.Observer != nil {
			e.params.Observer(k+1, total, best.Fitness)
		}
	}

	history.Best = swarm.Best()
	return history, nil
}

// Run executes a single run with the given parameters.
func Run(ctx context.Context, params Params) (*optimization.RunHistory, error) {
	engine, err := NewEngine(params)
	if err != nil {
		return nil, err
	}
	return engine.Run(ctx)
}
