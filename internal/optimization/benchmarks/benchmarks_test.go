package benchmarks

import (
	"math"
	"testing"

	"github.com/copyleftdev/SWARM/internal/optimization"
)

func TestOptima(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			fn, err := Lookup(name)
			if err != nil {
				t.Fatalf("Lookup(%q) failed: %v", name, err)
			}
			for _, dim := range []int{1, 2, 5, 30} {
				got := fn.Eval(fn.OptimumAt(dim))
				if math.Abs(got-fn.OptimumValue) > 1e-12 {
					t.Errorf("dim %d: f(optimum) = %v, want %v", dim, got, fn.OptimumValue)
				}
			}
		})
	}
}

func TestKnownValues(t *testing.T) {
	tests := []struct {
		name     string
		fn       optimization.FitnessFunc
		x        []float64
		expected float64
	}{
		{name: "sphere origin", fn: Sphere, x: []float64{0, 0, 0}, expected: 0},
		{name: "sphere unit", fn: Sphere, x: []float64{1, 2, 3}, expected: 14},
		{name: "rastrigin origin", fn: Rastrigin, x: []float64{0, 0}, expected: 0},
		// At integer coordinates cos(2*pi*x)=1, so only the quadratic term remains.
		{name: "rastrigin integers", fn: Rastrigin, x: []float64{1, 2}, expected: 5},
		{name: "rosenbrock ones", fn: Rosenbrock, x: []float64{1, 1, 1}, expected: 0},
		{name: "rosenbrock origin", fn: Rosenbrock, x: []float64{0, 0}, expected: 1},
		{name: "griewank origin", fn: Griewank, x: []float64{0, 0, 0}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(tt.x)
			if math.Abs(got-tt.expected) > 1e-10 {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestDefaultBounds(t *testing.T) {
	tests := []struct {
		name   string
		bounds [2]float64
	}{
		{"sphere", [2]float64{-100, 100}},
		{"rastrigin", [2]float64{-5.12, 5.12}},
		{"rosenbrock", [2]float64{-2.048, 2.048}},
		{"griewank", [2]float64{-100, 100}},
	}

	for _, tt := range tests {
		fn, err := Lookup(tt.name)
		if err != nil {
			t.Fatalf("Lookup(%q) failed: %v", tt.name, err)
		}
		if fn.DefaultBounds != tt.bounds {
			t.Errorf("%s: bounds %v, want %v", tt.name, fn.DefaultBounds, tt.bounds)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("ackley")
	if err == nil {
		t.Fatal("expected an error for an unregistered benchmark")
	}
	if !optimization.IsKind(err, optimization.KindUnknownBenchmark) {
		t.Errorf("expected KindUnknownBenchmark, got %v", err)
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) != 4 {
		t.Fatalf("expected 4 benchmarks, got %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}
}
