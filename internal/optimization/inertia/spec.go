package inertia

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/copyleftdev/SWARM/internal/optimization"
)

// KindName identifies a strategy variant in the spec grammar.
type KindName string

const (
	KindConstant           KindName = "constant"
	KindLinearDecreasing   KindName = "linear_decreasing"
	KindLinearIncreasing   KindName = "linear_increasing"
	KindConcaveDecreasing  KindName = "concave_decreasing"
	KindConcaveIncreasing  KindName = "concave_increasing"
	KindConvexDecreasing   KindName = "convex_decreasing"
	KindConvexIncreasing   KindName = "convex_increasing"
	KindConcaveExpDec      KindName = "concave_exp_decreasing"
	KindConcaveExpInc      KindName = "concave_exp_increasing"
	KindConvexExpDec       KindName = "convex_exp_decreasing"
	KindConvexExpInc       KindName = "convex_exp_increasing"
	KindNaturalExponential KindName = "pso_niew"
	KindSigmoidal          KindName = "pso_siw"
	KindDoubleExponential  KindName = "de_pso"
	KindDistanceAdaptive   KindName = "dsi_pso"
	KindHybridCosine       KindName = "hybrid_cosine"
	KindAleatory           KindName = "aleatory"
)

// separator is the literal token splitting the two sides of a hybrid spec.
const separator = "SEP"

// Spec is a parsed, validated strategy descriptor. Specs are immutable;
// Strategy builds a fresh evaluable instance bound to a run's random source.
type Spec struct {
	Kind     KindName
	Min, Max float64

	// Value is the constant weight for KindConstant.
	Value float64
	// Shape is the sigmoid steepness for KindSigmoidal.
	Shape float64
	// Sensitivity scales the distance term for KindDistanceAdaptive.
	Sensitivity float64
	// G and H are the sub-descriptors of KindHybridCosine.
	G, H *Spec
}

// aliases map accepted spec names onto canonical kinds. gpso is the
// linearly increasing schedule; pso_tvac carries no inertia formula of its
// own and falls back to linear_decreasing.
var aliases = map[string]KindName{
	"gpso":     KindLinearIncreasing,
	"pso_tvac": KindLinearDecreasing,
}

var kinds = map[string]KindName{
	string(KindConstant):           KindConstant,
	string(KindLinearDecreasing):   KindLinearDecreasing,
	string(KindLinearIncreasing):   KindLinearIncreasing,
	string(KindConcaveDecreasing):  KindConcaveDecreasing,
	string(KindConcaveIncreasing):  KindConcaveIncreasing,
	string(KindConvexDecreasing):   KindConvexDecreasing,
	string(KindConvexIncreasing):   KindConvexIncreasing,
	string(KindConcaveExpDec):      KindConcaveExpDec,
	string(KindConcaveExpInc):      KindConcaveExpInc,
	string(KindConvexExpDec):       KindConvexExpDec,
	string(KindConvexExpInc):       KindConvexExpInc,
	string(KindNaturalExponential): KindNaturalExponential,
	string(KindSigmoidal):          KindSigmoidal,
	string(KindDoubleExponential):  KindDoubleExponential,
	string(KindDistanceAdaptive):   KindDistanceAdaptive,
	string(KindHybridCosine):       KindHybridCosine,
	string(KindAleatory):           KindAleatory,
}

// Names returns every accepted strategy name, sorted.
func Names() []string {
	names := make([]string, 0, len(kinds)+len(aliases))
	for name := range kinds {
		names = append(names, name)
	}
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse turns a raw inertia_type value (a decoded JSON scalar or array) into a
// validated Spec. A bare number is a constant weight; an array is
// [min, max, name, params...]; hybrid_cosine nests two further specs split by
// the "SEP" token. All names, arities and bounds are checked here so the
// update loop never sees a raw spec.
func Parse(raw interface{}) (*Spec, error) {
	if raw == nil {
		return nil, optimization.InvalidStrategySpecError("inertia spec is missing")
	}

	if v, ok := toFloat(raw); ok {
		return &Spec{Kind: KindConstant, Min: v, Max: v, Value: v}, nil
	}

	list, ok := toList(raw)
	if !ok {
		return nil, optimization.InvalidStrategySpecError("inertia spec must be a number or [min, max, name, params...], got %T", raw)
	}
	if len(list) < 3 {
		return nil, optimization.InvalidStrategySpecError("inertia spec array needs at least [min, max, name], got %d elements", len(list))
	}

	min, okMin := toFloat(list[0])
	max, okMax := toFloat(list[1])
	if !okMin || !okMax {
		return nil, optimization.InvalidStrategySpecError("inertia spec min and max must be numbers, got %v, %v", list[0], list[1])
	}
	if min >= max {
		return nil, optimization.InvalidStrategySpecError("inertia spec requires min < max, got min=%v max=%v", min, max)
	}

	name, ok := list[2].(string)
	if !ok {
		return nil, optimization.InvalidStrategySpecError("inertia strategy name must be a string, got %v", list[2])
	}
	kind, ok := kinds[strings.ToLower(name)]
	if !ok {
		kind, ok = aliases[strings.ToLower(name)]
	}
	if !ok {
		return nil, optimization.InvalidStrategySpecError("unknown inertia strategy %q, available: %v", name, Names())
	}

	extras := list[3:]
	spec := &Spec{Kind: kind, Min: min, Max: max}

	switch kind {
	case KindConstant:
		spec.Value = max
		if len(extras) > 1 {
			return nil, arityError(name, "at most 1", len(extras))
		}
		if len(extras) == 1 {
			v, ok := toFloat(extras[0])
			if !ok {
				return nil, optimization.InvalidStrategySpecError("constant value must be a number, got %v", extras[0])
			}
			spec.Value = v
		}

	case KindSigmoidal:
		spec.Shape = 2.0
		if len(extras) > 1 {
			return nil, arityError(name, "at most 1", len(extras))
		}
		if len(extras) == 1 {
			s, ok := toFloat(extras[0])
			if !ok || s <= 0 {
				return nil, optimization.InvalidStrategySpecError("pso_siw shape parameter must be a positive number, got %v", extras[0])
			}
			spec.Shape = s
		}

	case KindDistanceAdaptive:
		spec.Sensitivity = 0.5
		if len(extras) > 1 {
			return nil, arityError(name, "at most 1", len(extras))
		}
		if len(extras) == 1 {
			s, ok := toFloat(extras[0])
			if !ok || s <= 0 || s > 1 {
				return nil, optimization.InvalidStrategySpecError("dsi_pso sensitivity must be in (0,1], got %v", extras[0])
			}
			spec.Sensitivity = s
		}

	case KindHybridCosine:
		g, h, err := parseHybrid(min, max, extras)
		if err != nil {
			return nil, err
		}
		spec.G, spec.H = g, h

	default:
		if len(extras) != 0 {
			return nil, arityError(name, "no", len(extras))
		}
	}

	return spec, nil
}

// parseHybrid splits [nameA, paramsA..., "SEP", nameB, paramsB...] on the
// first separator token and parses each side as an independent sub-spec with
// the enclosing min and max.
func parseHybrid(min, max float64, extras []interface{}) (*Spec, *Spec, error) {
	sep := -1
	for i, tok := range extras {
		if s, ok := tok.(string); ok && strings.EqualFold(s, separator) {
			sep = i
			break
		}
	}
	if sep < 0 {
		return nil, nil, optimization.InvalidStrategySpecError("hybrid_cosine spec is missing the %q separator", separator)
	}

	g, err := parseHybridSide(min, max, extras[:sep])
	if err != nil {
		return nil, nil, err
	}
	h, err := parseHybridSide(min, max, extras[sep+1:])
	if err != nil {
		return nil, nil, err
	}
	return g, h, nil
}

func parseHybridSide(min, max float64, side []interface{}) (*Spec, error) {
	if len(side) == 0 {
		return nil, optimization.InvalidStrategySpecError("hybrid_cosine sub-strategy is empty")
	}
	name, ok := side[0].(string)
	if !ok {
		return nil, optimization.InvalidStrategySpecError("hybrid_cosine sub-strategy name must be a string, got %v", side[0])
	}
	// A constant sub-strategy with an explicit value bypasses the [min,max]
	// envelope, matching the scalar form of the grammar.
	if strings.EqualFold(name, string(KindConstant)) && len(side) == 2 {
		if v, ok := toFloat(side[1]); ok {
			return &Spec{Kind: KindConstant, Min: v, Max: v, Value: v}, nil
		}
	}
	sub := append([]interface{}{min, max}, side...)
	return Parse(sub)
}

// Strategy builds an evaluable strategy from the descriptor, binding random
// variants to the given source.
func (s *Spec) Strategy(rng *rand.Rand) Strategy {
	switch s.Kind {
	case KindConstant:
		return constant{value: s.Value}
	case KindLinearDecreasing:
		return curve{name: string(s.Kind), min: s.Min, max: s.Max, shape: linearShape, decreasing: true}
	case KindLinearIncreasing:
		return curve{name: string(s.Kind), min: s.Min, max: s.Max, shape: linearShape}
	case KindConcaveDecreasing:
		return curve{name: string(s.Kind), min: s.Min, max: s.Max, shape: powerShape(concaveExponent), decreasing: true}
	case KindConcaveIncreasing:
		return curve{name: string(s.Kind), min: s.Min, max: s.Max, shape: powerShape(concaveExponent)}
	case KindConvexDecreasing:
		return curve{name: string(s.Kind), min: s.Min, max: s.Max, shape: powerShape(convexExponent), decreasing: true}
	case KindConvexIncreasing:
		return curve{name: string(s.Kind), min: s.Min, max: s.Max, shape: powerShape(convexExponent)}
	case KindConcaveExpDec:
		return curve{name: string(s.Kind), min: s.Min, max: s.Max, shape: expShape(-expCurveRate), decreasing: true}
	case KindConcaveExpInc:
		return curve{name: string(s.Kind), min: s.Min, max: s.Max, shape: expShape(-expCurveRate)}
	case KindConvexExpDec:
		return curve{name: string(s.Kind), min: s.Min, max: s.Max, shape: expShape(expCurveRate), decreasing: true}
	case KindConvexExpInc:
		return curve{name: string(s.Kind), min: s.Min, max: s.Max, shape: expShape(expCurveRate)}
	case KindNaturalExponential:
		return naturalExp{min: s.Min, max: s.Max}
	case KindSigmoidal:
		return sigmoidal{min: s.Min, max: s.Max, s: s.Shape}
	case KindDoubleExponential:
		return doubleExp{min: s.Min, max: s.Max}
	case KindDistanceAdaptive:
		return distanceAdaptive{min: s.Min, max: s.Max, sensitivity: s.Sensitivity}
	case KindHybridCosine:
		return hybridCosine{g: s.G.Strategy(rng), h: s.H.Strategy(rng)}
	case KindAleatory:
		return aleatory{min: s.Min, max: s.Max, rng: rng}
	default:
		// Parse never emits an unknown kind.
		return constant{value: s.Max}
	}
}

// Adaptive reports whether the strategy consumes swarm state, in which case
// its output is not guaranteed to stay within [min,max].
func (s *Spec) Adaptive() bool {
	switch s.Kind {
	case KindDistanceAdaptive, KindDoubleExponential:
		return true
	case KindHybridCosine:
		return s.G.Adaptive() || s.H.Adaptive()
	default:
		return false
	}
}

func arityError(name, want string, got int) error {
	return optimization.InvalidStrategySpecError("strategy %q takes %s extra parameters, got %d", name, want, got)
}

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

func toList(v interface{}) ([]interface{}, bool) {
	list, ok := v.([]interface{})
	return list, ok
}
