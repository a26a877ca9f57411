package inertia

import (
	"math"
	"math/rand"

	"github.com/copyleftdev/SWARM/internal/optimization"
)

// Curve constants. The exponential curve rate matches the power exponents in
// steepness: c > 0 bends convex, c < 0 bends concave.
const (
	convexExponent  = 2.0
	concaveExponent = 0.5
	expCurveRate    = 10.0
	niewDecayRate   = 10.0
)

type constant struct {
	value float64
}

func (s constant) Evaluate(_, _ int, _ *optimization.SwarmState) Values {
	return Swarm(s.value)
}

func (s constant) Name() string { return "constant" }

// curve covers the monotonic family: linear, concave/convex power curves and
// their exponential counterparts, oriented increasing or decreasing. shape
// maps [0,1] onto [0,1] with shape(0)=0 and shape(1)=1, which pins the
// boundary values to exactly min and max.
type curve struct {
	name       string
	min, max   float64
	shape      func(t float64) float64
	decreasing bool
}

func (s curve) Evaluate(k, total int, _ *optimization.SwarmState) Values {
	t := progress(k, total)
	if s.decreasing {
		t = 1 - t
	}
	return Swarm(s.min + (s.max-s.min)*s.shape(t))
}

func (s curve) Name() string { return s.name }

func linearShape(t float64) float64 { return t }

func powerShape(p float64) func(float64) float64 {
	return func(t float64) float64 { return math.Pow(t, p) }
}

func expShape(c float64) func(float64) float64 {
	denom := math.Exp(c) - 1
	return func(t float64) float64 {
		return (math.Exp(c*t) - 1) / denom
	}
}

// naturalExp is the pso_niew schedule: w = min + (max-min)*e^(-c*k/K).
type naturalExp struct {
	min, max float64
}

func (s naturalExp) Evaluate(k, total int, _ *optimization.SwarmState) Values {
	return Swarm(s.min + (s.max-s.min)*math.Exp(-niewDecayRate*progress(k, total)))
}

func (s naturalExp) Name() string { return "pso_niew" }

// sigmoidal is the pso_siw schedule:
// w = min + (max-min)/(1+e^(-s*(k-K/2)/K)).
type sigmoidal struct {
	min, max float64
	s        float64
}

func (s sigmoidal) Evaluate(k, total int, _ *optimization.SwarmState) Values {
	if total <= 0 {
		return Swarm(s.min)
	}
	x := (float64(k) - float64(total)/2) / float64(total)
	return Swarm(s.min + (s.max-s.min)/(1+math.Exp(-s.s*x)))
}

func (s sigmoidal) Name() string { return "pso_siw" }

// doubleExp is the de_pso adaptive schedule. The weight follows a double
// exponential of the remaining-time ratio scaled by the swarm's personal-best
// improvement rate in the previous generation: with rho = improved/n and
// R = (K-k)/K, w = e^(-e^(-R*(0.5+rho))). The constants are fixed; the output
// may leave [min,max].
type doubleExp struct {
	min, max float64
}

func (s doubleExp) Evaluate(k, total int, state *optimization.SwarmState) Values {
	if total <= 0 {
		return Swarm(s.min)
	}
	rho := 0.0
	if state != nil && state.PopulationSize > 0 {
		rho = float64(state.ImprovedLastGen) / float64(state.PopulationSize)
	}
	r := float64(total-k) / float64(total)
	return Swarm(math.Exp(-math.Exp(-r * (0.5 + rho))))
}

func (s doubleExp) Name() string { return "de_pso" }

// distanceAdaptive is the dsi_pso schedule, the only per-particle variant:
// D_i = ||pbest_i - gbest||_2 * (K-k)/K and w_i = max/(min + e^(-sens*D_i)).
// It needs swarm state; without one it degrades to the lower bound.
type distanceAdaptive struct {
	min, max    float64
	sensitivity float64
}

func (s distanceAdaptive) Evaluate(k, total int, state *optimization.SwarmState) Values {
	if state == nil || len(state.PersonalBests) == 0 {
		return Swarm(s.min)
	}
	weights := make([]float64, len(state.PersonalBests))
	if total <= 0 {
		for i := range weights {
			weights[i] = s.min
		}
		return Values{PerParticle: weights}
	}
	timeFactor := float64(total-k) / float64(total)
	for i, pbest := range state.PersonalBests {
		d := 0.0
		for j, v := range pbest {
			diff := v - state.GlobalBestPosition[j]
			d += diff * diff
		}
		d = math.Sqrt(d) * timeFactor
		weights[i] = s.max / (s.min + math.Exp(-s.sensitivity*d))
	}
	return Values{PerParticle: weights}
}

func (s distanceAdaptive) Name() string { return "dsi_pso" }

// hybridCosine blends two sub-strategies with cosine weights that always sum
// to 1, using phi = K: a = (1+cos(k*pi/K))/2 for g and 1-a for h. At k=0 the
// output equals g's, at k=K it equals h's.
type hybridCosine struct {
	g, h Strategy
}

func (s hybridCosine) Evaluate(k, total int, state *optimization.SwarmState) Values {
	a := 0.5
	if total > 0 {
		a = (1 + math.Cos(float64(k)*math.Pi/float64(total))) / 2
	}
	gv := s.g.Evaluate(k, total, state)
	hv := s.h.Evaluate(k, total, state)

	if gv.PerParticle == nil && hv.PerParticle == nil {
		return Swarm(a*gv.Scalar + (1-a)*hv.Scalar)
	}

	n := len(gv.PerParticle)
	if len(hv.PerParticle) > n {
		n = len(hv.PerParticle)
	}
	blended := make([]float64, n)
	for i := range blended {
		blended[i] = a*gv.At(i) + (1-a)*hv.At(i)
	}
	return Values{PerParticle: blended}
}

func (s hybridCosine) Name() string { return "hybrid_cosine" }

// aleatory draws a fresh uniform weight in [min,max] each evaluation. The
// engine evaluates once per generation, so the draw is swarm-wide.
type aleatory struct {
	min, max float64
	rng      *rand.Rand
}

func (s aleatory) Evaluate(_, _ int, _ *optimization.SwarmState) Values {
	return Swarm(s.min + (s.max-s.min)*s.rng.Float64())
}

func (s aleatory) Name() string { return "aleatory" }
