// Package inertia implements the inertia-weight scheduling strategies of the
// PSO engine. A strategy is evaluated once per generation and yields either a
// single swarm-wide weight or, for the distance-adaptive variant, one weight
// per particle.
package inertia

import (
	"github.com/copyleftdev/SWARM/internal/optimization"
)

// Strategy computes the inertia weight for a generation. k runs over [0, total]
// and state is a read-only view of the swarm; only adaptive strategies consult
// it, the rest ignore it.
type Strategy interface {
	Evaluate(k, total int, state *optimization.SwarmState) Values
	Name() string
}

// Values holds either one swarm-wide weight or one weight per particle.
type Values struct {
	Scalar      float64
	PerParticle []float64
}

// Swarm wraps a single swarm-wide weight.
func Swarm(w float64) Values {
	return Values{Scalar: w}
}

// At returns the weight applied to particle i.
func (v Values) At(i int) float64 {
	if v.PerParticle != nil {
		return v.PerParticle[i]
	}
	return v.Scalar
}

// Mean returns the average weight, the value recorded in run history.
func (v Values) Mean() float64 {
	if v.PerParticle == nil {
		return v.Scalar
	}
	if len(v.PerParticle) == 0 {
		return 0
	}
	sum := 0.0
	for _, w := range v.PerParticle {
		sum += w
	}
	return sum / float64(len(v.PerParticle))
}

// progress maps the iteration counter onto [0,1].
func progress(k, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(k) / float64(total)
}
