package pso

import (
	"context"
	"math"
	"testing"

	"github.com/copyleftdev/SWARM/internal/optimization"
	"github.com/copyleftdev/SWARM/internal/optimization/benchmarks"
	"github.com/copyleftdev/SWARM/internal/optimization/coefficient"
	"github.com/copyleftdev/SWARM/internal/optimization/inertia"
)

func testParams(t *testing.T) Params {
	t.Helper()
	w, err := inertia.Parse(0.7)
	if err != nil {
		t.Fatalf("inertia.Parse failed: %v", err)
	}
	c, err := coefficient.Parse(2.0)
	if err != nil {
		t.Fatalf("coefficient.Parse failed: %v", err)
	}
	return Params{
		Dimensions:     2,
		PopulationSize: 5,
		Generations:    10,
		Bounds:         [2]float64{-5, 5},
		Objective:      benchmarks.Sphere,
		Inertia:        w,
		C1:             c,
		C2:             c,
		Seed:           1234,
	}
}

func TestRunHistoryShape(t *testing.T) {
	history, err := Run(context.Background(), testParams(t))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(history.Generations) != 10 {
		t.Fatalf("expected 10 generation entries, got %d", len(history.Generations))
	}
	prev := math.Inf(1)
	for i, gen := range history.Generations {
		if gen.Iteration != i {
			t.Errorf("entry %d: iteration %d", i, gen.Iteration)
		}
		if gen.BestFitness > prev+1e-12 {
			t.Errorf("entry %d: best fitness worsened %v -> %v", i, prev, gen.BestFitness)
		}
		prev = gen.BestFitness
		if gen.InertiaWeight != 0.7 {
			t.Errorf("entry %d: inertia weight %v, want 0.7", i, gen.InertiaWeight)
		}
	}

	if history.FinalBest() != history.Generations[9].BestFitness {
		t.Errorf("final best %v disagrees with last entry %v",
			history.FinalBest(), history.Generations[9].BestFitness)
	}
	for _, x := range history.Best.Position {
		if x < -5 || x > 5 {
			t.Errorf("best position %v outside bounds", x)
		}
	}
	if history.Seed != 1234 {
		t.Errorf("seed %d, want 1234", history.Seed)
	}
}

func TestRunSeedReproducibility(t *testing.T) {
	params := testParams(t)
	a, err := Run(context.Background(), params)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	b, err := Run(context.Background(), params)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if a.FinalBest() != b.FinalBest() {
		t.Fatalf("same seed produced different results: %v vs %v", a.FinalBest(), b.FinalBest())
	}
	for i := range a.Generations {
		if a.Generations[i].BestFitness != b.Generations[i].BestFitness {
			t.Fatalf("generation %d diverged", i)
		}
	}
	for j := range a.Best.Position {
		if a.Best.Position[j] != b.Best.Position[j] {
			t.Fatalf("best positions diverged at component %d", j)
		}
	}

	params.Seed = 5678
	c, err := Run(context.Background(), params)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	same := c.FinalBest() == a.FinalBest()
	for j := range c.Best.Position {
		same = same && c.Best.Position[j] == a.Best.Position[j]
	}
	if same {
		t.Error("different seeds produced identical runs")
	}
}

func TestRunConverges(t *testing.T) {
	params := testParams(t)
	params.PopulationSize = 30
	params.Generations = 200
	w, err := inertia.Parse([]interface{}{0.4, 0.9, "linear_decreasing"})
	if err != nil {
		t.Fatalf("inertia.Parse failed: %v", err)
	}
	params.Inertia = w

	history, err := Run(context.Background(), params)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if history.FinalBest() > 1e-3 {
		t.Errorf("sphere did not converge: final best %v", history.FinalBest())
	}
}

func TestRunObserver(t *testing.T) {
	params := testParams(t)
	var calls int
	var lastIter, lastTotal int
	params.Observer = func(iteration, total int, bestFitness float64) {
		calls++
		lastIter, lastTotal = iteration, total
	}

	if _, err := Run(context.Background(), params); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if calls != 10 || lastIter != 10 || lastTotal != 10 {
		t.Errorf("observer saw calls=%d last=%d/%d, want 10 calls ending at 10/10",
			calls, lastIter, lastTotal)
	}
}

func TestRunCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, testParams(t))
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewEngineValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{name: "zero dimensions", mutate: func(p *Params) { p.Dimensions = 0 }},
		{name: "zero population", mutate: func(p *Params) { p.PopulationSize = 0 }},
		{name: "zero generations", mutate: func(p *Params) { p.Generations = 0 }},
		{name: "inverted bounds", mutate: func(p *Params) { p.Bounds = [2]float64{5, -5} }},
		{name: "nil objective", mutate: func(p *Params) { p.Objective = nil }},
		{name: "nil inertia", mutate: func(p *Params) { p.Inertia = nil }},
		{name: "nil c1", mutate: func(p *Params) { p.C1 = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := testParams(t)
			tt.mutate(&params)
			_, err := NewEngine(params)
			if !optimization.IsKind(err, optimization.KindConfig) {
				t.Fatalf("expected KindConfig, got %v", err)
			}
		})
	}
}
