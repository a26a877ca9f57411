// Package coefficient implements the acceleration-coefficient schedules for
// the cognitive (c1) and social (c2) terms of the velocity update.
package coefficient

import (
	"math/rand"
	"strings"

	"github.com/copyleftdev/SWARM/internal/optimization"
)

// Strategy computes the coefficient value for a generation, k in [0, total].
type Strategy interface {
	Evaluate(k, total int) float64
	Name() string
}

// KindName identifies a coefficient variant in the spec grammar.
type KindName string

const (
	KindConstant   KindName = "constant"
	KindDecreasing KindName = "decreasing"
	KindIncreasing KindName = "increasing"
	KindRandom     KindName = "random"
)

// Spec is a parsed, validated coefficient descriptor.
type Spec struct {
	Kind     KindName
	Value    float64
	Min, Max float64
}

// Parse turns a raw c1/c2 value (a decoded JSON scalar or array) into a
// validated Spec. A bare number is constant; [min, max] draws uniformly each
// generation; [min, max, name] selects decreasing, increasing or random.
func Parse(raw interface{}) (*Spec, error) {
	if raw == nil {
		return nil, optimization.InvalidStrategySpecError("coefficient spec is missing")
	}

	if v, ok := toFloat(raw); ok {
		return &Spec{Kind: KindConstant, Value: v}, nil
	}

	list, ok := raw.([]interface{})
	if !ok {
		return nil, optimization.InvalidStrategySpecError("coefficient spec must be a number or [min, max, name], got %T", raw)
	}
	if len(list) < 2 || len(list) > 3 {
		return nil, optimization.InvalidStrategySpecError("coefficient spec array needs [min, max] or [min, max, name], got %d elements", len(list))
	}

	min, okMin := toFloat(list[0])
	max, okMax := toFloat(list[1])
	if !okMin || !okMax {
		return nil, optimization.InvalidStrategySpecError("coefficient min and max must be numbers, got %v, %v", list[0], list[1])
	}
	if min >= max {
		return nil, optimization.InvalidStrategySpecError("coefficient spec requires min < max, got min=%v max=%v", min, max)
	}

	kind := KindRandom
	if len(list) == 3 {
		name, ok := list[2].(string)
		if !ok {
			return nil, optimization.InvalidStrategySpecError("coefficient strategy name must be a string, got %v", list[2])
		}
		switch strings.ToLower(name) {
		case "decreasing", "linear_decreasing":
			kind = KindDecreasing
		case "increasing", "linear_increasing":
			kind = KindIncreasing
		case "random":
			kind = KindRandom
		default:
			return nil, optimization.InvalidStrategySpecError("unknown coefficient strategy %q, available: decreasing, increasing, random", name)
		}
	}

	return &Spec{Kind: kind, Min: min, Max: max}, nil
}

// Strategy builds an evaluable strategy from the descriptor, binding the
// random variant to the given source.
func (s *Spec) Strategy(rng *rand.Rand) Strategy {
	switch s.Kind {
	case KindDecreasing:
		return linear{min: s.Min, max: s.Max, decreasing: true}
	case KindIncreasing:
		return linear{min: s.Min, max: s.Max}
	case KindRandom:
		return random{min: s.Min, max: s.Max, rng: rng}
	default:
		return constant{value: s.Value}
	}
}

type constant struct {
	value float64
}

func (s constant) Evaluate(_, _ int) float64 { return s.value }
func (s constant) Name() string              { return "constant" }

type linear struct {
	min, max   float64
	decreasing bool
}

func (s linear) Evaluate(k, total int) float64 {
	t := 0.0
	if total > 0 {
		t = float64(k) / float64(total)
	}
	if s.decreasing {
		return s.max - (s.max-s.min)*t
	}
	return s.min + (s.max-s.min)*t
}

func (s linear) Name() string {
	if s.decreasing {
		return "decreasing"
	}
	return "increasing"
}

// random resamples uniformly in [min,max] every evaluation; the engine
// evaluates once per generation.
type random struct {
	min, max float64
	rng      *rand.Rand
}

func (s random) Evaluate(_, _ int) float64 {
	return s.min + (s.max-s.min)*s.rng.Float64()
}

func (s random) Name() string { return "random" }

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
