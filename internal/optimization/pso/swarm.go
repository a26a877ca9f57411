package pso

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/copyleftdev/SWARM/internal/optimization"
	"github.com/copyleftdev/SWARM/internal/optimization/inertia"
)

// Swarm holds the particle population of one run and applies the velocity and
// position update rule. Particle updates within a generation are synchronous:
// the global best is recomputed only after every particle has committed its
// personal-best update, so no particle reads a mid-generation global best.
type Swarm struct {
	dim       int
	bounds    [2]float64
	clamp     float64 // max velocity magnitude per coordinate, 0 = unbounded
	objective optimization.FitnessFunc
	rng       *rand.Rand

	particles    []*Particle
	best         optimization.Solution
	improvedLast int
}

// NewSwarm initializes n particles with positions uniform in bounds and zero
// velocities, evaluates them, seeds personal bests from the initial positions
// and the global best from the best personal best.
func NewSwarm(objective optimization.FitnessFunc, dim, n int, bounds [2]float64, clamp float64, rng *rand.Rand) (*Swarm, error) {
	s := &Swarm{
		dim:       dim,
		bounds:    bounds,
		clamp:     clamp,
		objective: objective,
		rng:       rng,
		particles: make([]*Particle, n),
	}

	span := bounds[1] - bounds[0]
	bestIdx := 0
	for i := range s.particles {
		p := &Particle{
			Position:     make([]float64, dim),
			Velocity:     make([]float64, dim),
			BestPosition: make([]float64, dim),
		}
		for j := range p.Position {
			p.Position[j] = bounds[0] + span*rng.Float64()
		}
		p.Fitness = objective(p.Position)
		if !isFinite(p.Fitness) {
			return nil, optimization.NumericInstabilityError(0, i, "fitness").
				WithComponent("swarm").WithOperation("initialize")
		}
		copy(p.BestPosition, p.Position)
		p.BestFitness = p.Fitness
		s.particles[i] = p

		if p.BestFitness < s.particles[bestIdx].BestFitness {
			bestIdx = i
		}
	}

	s.best = optimization.Solution{
		Position: append([]float64(nil), s.particles[bestIdx].BestPosition...),
		Fitness:  s.particles[bestIdx].BestFitness,
		Velocity: append([]float64(nil), s.particles[bestIdx].Velocity...),
	}
	return s, nil
}

// Step advances the swarm one generation with the weights and coefficients
// frozen for that generation. Position coordinates are hard-clipped into
// bounds; velocity is left untouched on a clip.
func (s *Swarm) Step(generation int, w inertia.Values, c1, c2 float64) error {
	if w.PerParticle != nil && len(w.PerParticle) != len(s.particles) {
		return optimization.DimensionMismatchError(len(s.particles), len(w.PerParticle)).
			WithComponent("swarm").WithOperation("step")
	}

	for i, p := range s.particles {
		wi := w.At(i)
		for j := range p.Velocity {
			r1 := s.rng.Float64()
			r2 := s.rng.Float64()
			v := wi*p.Velocity[j] +
				c1*r1*(p.BestPosition[j]-p.Position[j]) +
				c2*r2*(s.best.Position[j]-p.Position[j])
			if s.clamp > 0 {
				v = math.Max(-s.clamp, math.Min(v, s.clamp))
			}
			p.Velocity[j] = v

			x := p.Position[j] + v
			if x < s.bounds[0] {
				x = s.bounds[0]
			} else if x > s.bounds[1] {
				x = s.bounds[1]
			}
			p.Position[j] = x
			if !isFinite(x) {
				return optimization.NumericInstabilityError(generation, i, "position").
					WithComponent("swarm")
			}
		}

		fitness := s.objective(p.Position)
		if !isFinite(fitness) {
			return optimization.NumericInstabilityError(generation, i, "fitness").
				WithComponent("swarm")
		}
		p.recordFitness(fitness)
	}

	// Generation barrier: commit the global best only now.
	s.improvedLast = 0
	bestIdx := -1
	for i, p := range s.particles {
		if p.improved {
			s.improvedLast++
		}
		if p.BestFitness < s.best.Fitness && (bestIdx < 0 || p.BestFitness < s.particles[bestIdx].BestFitness) {
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		p := s.particles[bestIdx]
		copy(s.best.Position, p.BestPosition)
		copy(s.best.Velocity, p.Velocity)
		s.best.Fitness = p.BestFitness
	}
	return nil
}

// Best returns a copy of the global best solution.
func (s *Swarm) Best() optimization.Solution {
	return s.best.Clone()
}

// AvgFitness returns the mean current fitness across the swarm.
func (s *Swarm) AvgFitness() float64 {
	sum := 0.0
	for _, p := range s.particles {
		sum += p.Fitness
	}
	return sum / float64(len(s.particles))
}

// State exposes a read-only view for adaptive inertia strategies. The slices
// alias live particle storage and are valid until the next Step.
func (s *Swarm) State() *optimization.SwarmState {
	n := len(s.particles)
	state := &optimization.SwarmState{
		Positions:           make([][]float64, n),
		PersonalBests:       make([][]float64, n),
		PersonalBestFitness: make([]float64, n),
		GlobalBestPosition:  s.best.Position,
		GlobalBestFitness:   s.best.Fitness,
		ImprovedLastGen:     s.improvedLast,
		PopulationSize:      n,
	}
	for i, p := range s.particles {
		state.Positions[i] = p.Position
		state.PersonalBests[i] = p.BestPosition
		state.PersonalBestFitness[i] = p.BestFitness
	}
	return state
}

// Diversity computes the swarm dispersion metrics for the current generation:
// mean L1 distance from the swarm mean for position, velocity and the
// cognitive term, and the population standard deviation of fitness.
func (s *Swarm) Diversity() optimization.Diversity {
	n := len(s.particles)
	meanPos := make([]float64, s.dim)
	meanVel := make([]float64, s.dim)
	meanCog := make([]float64, s.dim)
	cog := make([]float64, s.dim)
	fitness := make([]float64, n)

	for i, p := range s.particles {
		floats.Add(meanPos, p.Position)
		floats.Add(meanVel, p.Velocity)
		floats.SubTo(cog, p.BestPosition, p.Position)
		floats.Add(meanCog, cog)
		fitness[i] = p.Fitness
	}
	floats.Scale(1/float64(n), meanPos)
	floats.Scale(1/float64(n), meanVel)
	floats.Scale(1/float64(n), meanCog)

	var d optimization.Diversity
	for _, p := range s.particles {
		d.Position += l1Distance(p.Position, meanPos)
		d.Velocity += l1Distance(p.Velocity, meanVel)
		floats.SubTo(cog, p.BestPosition, p.Position)
		d.Cognitive += l1Distance(cog, meanCog)
	}
	d.Position /= float64(n)
	d.Velocity /= float64(n)
	d.Cognitive /= float64(n)
	d.Fitness = stat.PopStdDev(fitness, nil)
	return d
}

func l1Distance(x, mean []float64) float64 {
	sum := 0.0
	for i := range x {
		sum += math.Abs(x[i] - mean[i])
	}
	return sum
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
