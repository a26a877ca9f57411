package inertia

import (
	"math"
	"math/rand"
	"testing"

	"github.com/copyleftdev/SWARM/internal/optimization"
)

const tolerance = 1e-12

func buildStrategy(t *testing.T, raw interface{}) Strategy {
	t.Helper()
	spec, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse(%v) failed: %v", raw, err)
	}
	return spec.Strategy(rand.New(rand.NewSource(1)))
}

// Every non-adaptive schedule must stay inside its configured [min,max] for
// the whole run, including both endpoints.
func TestScheduleBounds(t *testing.T) {
	const total = 100
	names := []string{
		"linear_decreasing", "linear_increasing",
		"concave_decreasing", "concave_increasing",
		"convex_decreasing", "convex_increasing",
		"concave_exp_decreasing", "concave_exp_increasing",
		"convex_exp_decreasing", "convex_exp_increasing",
		"pso_niew", "pso_siw", "aleatory", "gpso", "pso_tvac",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			s := buildStrategy(t, []interface{}{0.4, 0.9, name})
			for k := 0; k <= total; k++ {
				w := s.Evaluate(k, total, nil).Scalar
				if w < 0.4-tolerance || w > 0.9+tolerance {
					t.Fatalf("k=%d: weight %v outside [0.4, 0.9]", k, w)
				}
			}
		})
	}
}

func TestLinearBoundaries(t *testing.T) {
	const total = 50

	dec := buildStrategy(t, []interface{}{0.4, 0.9, "linear_decreasing"})
	if w := dec.Evaluate(0, total, nil).Scalar; math.Abs(w-0.9) > tolerance {
		t.Errorf("decreasing at k=0: got %v, want 0.9", w)
	}
	if w := dec.Evaluate(total, total, nil).Scalar; math.Abs(w-0.4) > tolerance {
		t.Errorf("decreasing at k=K: got %v, want 0.4", w)
	}

	inc := buildStrategy(t, []interface{}{0.4, 0.9, "linear_increasing"})
	if w := inc.Evaluate(0, total, nil).Scalar; math.Abs(w-0.4) > tolerance {
		t.Errorf("increasing at k=0: got %v, want 0.4", w)
	}
	if w := inc.Evaluate(total, total, nil).Scalar; math.Abs(w-0.9) > tolerance {
		t.Errorf("increasing at k=K: got %v, want 0.9", w)
	}
}

func TestCurveOrdering(t *testing.T) {
	// At mid-run a convex decreasing curve sits below the linear one, the
	// concave one above; the exponential pair mirrors the same ordering.
	const total = 100
	const k = 50

	linear := buildStrategy(t, []interface{}{0.4, 0.9, "linear_decreasing"}).Evaluate(k, total, nil).Scalar
	convex := buildStrategy(t, []interface{}{0.4, 0.9, "convex_decreasing"}).Evaluate(k, total, nil).Scalar
	concave := buildStrategy(t, []interface{}{0.4, 0.9, "concave_decreasing"}).Evaluate(k, total, nil).Scalar

	if !(convex < linear && linear < concave) {
		t.Errorf("expected convex < linear < concave at mid-run, got %v, %v, %v", convex, linear, concave)
	}
}

func TestConstantScalar(t *testing.T) {
	s := buildStrategy(t, 0.7)
	for _, k := range []int{0, 10, 100} {
		if w := s.Evaluate(k, 100, nil).Scalar; w != 0.7 {
			t.Errorf("k=%d: got %v, want 0.7", k, w)
		}
	}
}

func TestSigmoidalMidpoint(t *testing.T) {
	s := buildStrategy(t, []interface{}{0.4, 0.9, "pso_siw"})
	if w := s.Evaluate(50, 100, nil).Scalar; math.Abs(w-0.65) > tolerance {
		t.Errorf("midpoint weight %v, want 0.65", w)
	}
}

func TestNaturalExpStartsAtMax(t *testing.T) {
	s := buildStrategy(t, []interface{}{0.4, 0.9, "pso_niew"})
	if w := s.Evaluate(0, 100, nil).Scalar; math.Abs(w-0.9) > tolerance {
		t.Errorf("k=0 weight %v, want 0.9", w)
	}
	if w := s.Evaluate(100, 100, nil).Scalar; w <= 0.4 || w >= 0.41 {
		t.Errorf("k=K weight %v, want just above 0.4", w)
	}
}

func TestDoubleExpImprovementRate(t *testing.T) {
	s := buildStrategy(t, []interface{}{0.4, 0.9, "de_pso"})

	state := &optimization.SwarmState{PopulationSize: 10, ImprovedLastGen: 10}
	wantAll := math.Exp(-math.Exp(-1.5)) // rho=1, k=0: e^(-e^(-1*(0.5+1)))
	if w := s.Evaluate(0, 100, state).Scalar; math.Abs(w-wantAll) > tolerance {
		t.Errorf("rho=1 weight %v, want %v", w, wantAll)
	}

	state.ImprovedLastGen = 0
	wantNone := math.Exp(-math.Exp(-0.5))
	if w := s.Evaluate(0, 100, state).Scalar; math.Abs(w-wantNone) > tolerance {
		t.Errorf("rho=0 weight %v, want %v", w, wantNone)
	}

	// More improvement keeps the swarm exploring with a higher weight.
	if wantAll <= wantNone {
		t.Errorf("expected weight to grow with improvement rate: %v vs %v", wantAll, wantNone)
	}
}

func TestDistanceAdaptivePerParticle(t *testing.T) {
	s := buildStrategy(t, []interface{}{0.4, 0.9, "dsi_pso"})

	state := &optimization.SwarmState{
		PersonalBests: [][]float64{
			{0, 0}, // at the global best
			{3, 4}, // distance 5
		},
		GlobalBestPosition: []float64{0, 0},
		PopulationSize:     2,
	}
	v := s.Evaluate(0, 100, state)
	if v.PerParticle == nil || len(v.PerParticle) != 2 {
		t.Fatalf("expected 2 per-particle weights, got %+v", v)
	}

	// D=0 collapses to max/(min+1); a larger distance raises the weight.
	want0 := 0.9 / (0.4 + 1)
	if math.Abs(v.At(0)-want0) > tolerance {
		t.Errorf("converged particle weight %v, want %v", v.At(0), want0)
	}
	if v.At(1) <= v.At(0) {
		t.Errorf("distant particle should carry a larger weight: %v vs %v", v.At(1), v.At(0))
	}

	// The schedule's time factor shrinks the distance term to zero at k=K,
	// so both particles end at the converged weight.
	end := s.Evaluate(100, 100, state)
	if math.Abs(end.At(1)-want0) > tolerance {
		t.Errorf("end-of-run weight %v, want %v", end.At(1), want0)
	}
}

func TestHybridCosineBoundaries(t *testing.T) {
	s := buildStrategy(t, []interface{}{0.4, 0.9, "hybrid_cosine", "linear_decreasing", "SEP", "constant", 0.5})

	const total = 80
	// a=1 at k=0 selects the first schedule, a=0 at k=K the second.
	if w := s.Evaluate(0, total, nil).Scalar; math.Abs(w-0.9) > tolerance {
		t.Errorf("k=0 weight %v, want 0.9", w)
	}
	if w := s.Evaluate(total, total, nil).Scalar; math.Abs(w-0.5) > 1e-9 {
		t.Errorf("k=K weight %v, want 0.5", w)
	}
}

func TestAleatoryRangeAndDeterminism(t *testing.T) {
	spec, err := Parse([]interface{}{0.4, 0.9, "aleatory"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	a := spec.Strategy(rand.New(rand.NewSource(7)))
	b := spec.Strategy(rand.New(rand.NewSource(7)))
	for k := 0; k < 50; k++ {
		wa := a.Evaluate(k, 50, nil).Scalar
		wb := b.Evaluate(k, 50, nil).Scalar
		if wa < 0.4 || wa >= 0.9 {
			t.Fatalf("k=%d: weight %v outside [0.4, 0.9)", k, wa)
		}
		if wa != wb {
			t.Fatalf("k=%d: same seed diverged: %v vs %v", k, wa, wb)
		}
	}
}

func TestValuesMean(t *testing.T) {
	if got := Swarm(0.7).Mean(); got != 0.7 {
		t.Errorf("scalar mean %v, want 0.7", got)
	}
	v := Values{PerParticle: []float64{0.2, 0.4, 0.6}}
	if got := v.Mean(); math.Abs(got-0.4) > tolerance {
		t.Errorf("per-particle mean %v, want 0.4", got)
	}
}
