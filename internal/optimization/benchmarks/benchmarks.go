// Package benchmarks provides the registry of benchmark objective functions
// the optimizer minimizes. All functions are pure mappings R^d -> R with a
// known global optimum of 0.
package benchmarks

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/copyleftdev/SWARM/internal/optimization"
)

// Modality tags a benchmark surface. Informational only: the engine never
// branches on it, but it travels with saved results.
type Modality string

const (
	Unimodal   Modality = "unimodal"
	Multimodal Modality = "multimodal"
)

// Function is a registered benchmark: the objective itself plus its known
// optimum and the default search bounds used when a config omits them.
type Function struct {
	Name          string
	Eval          optimization.FitnessFunc
	OptimumValue  float64
	OptimumAt     func(dimensions int) []float64
	Modality      Modality
	DefaultBounds [2]float64
}

var registry = map[string]Function{
	"sphere": {
		Name:          "sphere",
		Eval:          Sphere,
		OptimumValue:  0,
		OptimumAt:     zeros,
		Modality:      Unimodal,
		DefaultBounds: [2]float64{-100, 100},
	},
	"rastrigin": {
		Name:          "rastrigin",
		Eval:          Rastrigin,
		OptimumValue:  0,
		OptimumAt:     zeros,
		Modality:      Multimodal,
		DefaultBounds: [2]float64{-5.12, 5.12},
	},
	"rosenbrock": {
		Name:          "rosenbrock",
		Eval:          Rosenbrock,
		OptimumValue:  0,
		OptimumAt:     ones,
		Modality:      Unimodal,
		DefaultBounds: [2]float64{-2.048, 2.048},
	},
	"griewank": {
		Name:          "griewank",
		Eval:          Griewank,
		OptimumValue:  0,
		OptimumAt:     zeros,
		Modality:      Multimodal,
		DefaultBounds: [2]float64{-100, 100},
	},
}

// Lookup returns the benchmark registered under name.
func Lookup(name string) (Function, error) {
	fn, ok := registry[name]
	if !ok {
		return Function{}, optimization.UnknownBenchmarkError(name, Names()).
			WithComponent("benchmarks").WithOperation("lookup")
	}
	return fn, nil
}

// Names returns the registered benchmark names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sphere is sum(x_i^2).
func Sphere(x []float64) float64 {
	return floats.Dot(x, x)
}

// Rastrigin is 10d + sum(x_i^2 - 10 cos(2 pi x_i)).
func Rastrigin(x []float64) float64 {
	sum := 10 * float64(len(x))
	for _, v := range x {
		sum += v*v - 10*math.Cos(2*math.Pi*v)
	}
	return sum
}

// Rosenbrock is sum_{i=1..d-1} 100 (x_{i+1} - x_i^2)^2 + (1 - x_i)^2,
// minimized at the all-ones vector.
func Rosenbrock(x []float64) float64 {
	sum := 0.0
	for i := 0; i < len(x)-1; i++ {
		a := x[i+1] - x[i]*x[i]
		b := 1 - x[i]
		sum += 100*a*a + b*b
	}
	return sum
}

// Griewank is 1 + sum(x_i^2)/4000 - prod(cos(x_i/sqrt(i))), i 1-based.
func Griewank(x []float64) float64 {
	sum := floats.Dot(x, x) / 4000
	prod := 1.0
	for i, v := range x {
		prod *= math.Cos(v / math.Sqrt(float64(i+1)))
	}
	return 1 + sum - prod
}

func zeros(dimensions int) []float64 {
	return make([]float64, dimensions)
}

func ones(dimensions int) []float64 {
	x := make([]float64, dimensions)
	for i := range x {
		x[i] = 1
	}
	return x
}
