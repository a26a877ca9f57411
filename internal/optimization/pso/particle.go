package pso

// Particle is one member of the swarm. All vectors have the swarm's
// dimensionality and are owned exclusively by the swarm that created them.
type Particle struct {
	Position     []float64
	Velocity     []float64
	Fitness      float64
	BestPosition []float64
	BestFitness  float64

	// improved records whether the personal best moved in the last step;
	// the de_pso schedule consumes the swarm-wide count.
	improved bool
}

// recordFitness stores a freshly evaluated fitness and advances the personal
// best when strictly better.
func (p *Particle) recordFitness(fitness float64) {
	p.Fitness = fitness
	p.improved = fitness < p.BestFitness
	if p.improved {
		p.BestFitness = fitness
		copy(p.BestPosition, p.Position)
	}
}
