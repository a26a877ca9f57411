package optimization

// FitnessFunc evaluates a candidate position and returns its fitness.
// Functions are pure: no side effects, same input gives same output.
type FitnessFunc func(x []float64) float64

// Solution represents a point in the search space together with its fitness.
type Solution struct {
	Position []float64 `json:"position"`
	Fitness  float64   `json:"fitness"`
	Velocity []float64 `json:"velocity,omitempty"`
}

// Clone returns a deep copy of the solution.
func (s Solution) Clone() Solution {
	c := Solution{Fitness: s.Fitness}
	c.Position = append([]float64(nil), s.Position...)
	if s.Velocity != nil {
		c.Velocity = append([]float64(nil), s.Velocity...)
	}
	return c
}

// Diversity holds the swarm dispersion metrics recorded for one generation.
// Position, velocity and cognitive dispersion are the mean L1 distance of each
// particle from the swarm mean; fitness dispersion is the population standard
// deviation of the current fitness values.
type Diversity struct {
	Position  float64 `json:"position"`
	Velocity  float64 `json:"velocity"`
	Fitness   float64 `json:"fitness"`
	Cognitive float64 `json:"cognitive"`
}

// GenerationStats is one RunHistory entry, recorded after the global-best
// barrier of each generation.
type GenerationStats struct {
	Iteration     int       `json:"iteration"`
	BestFitness   float64   `json:"best_fitness"`
	AvgFitness    float64   `json:"avg_fitness"`
	InertiaWeight float64   `json:"inertia_weight"`
	Diversity     Diversity `json:"diversity"`
}

// RunHistory is the complete record of a single optimization run:
// one entry per generation plus the final best solution.
type RunHistory struct {
	Generations []GenerationStats `json:"generations"`
	Best        Solution          `json:"best_solution"`
	Seed        int64             `json:"seed"`
}

// FinalBest returns the best fitness reached by the run.
func (h *RunHistory) FinalBest() float64 {
	return h.Best.Fitness
}

// MultiRunResult aggregates R independent runs of the same configuration.
type MultiRunResult struct {
	Runs []RunHistory `json:"runs"`

	// BestRunIndex is the argmin over final best fitness across runs.
	BestRunIndex int `json:"best_run_index"`

	// BestFitnessPerRun holds each run's final best fitness, in run order.
	BestFitnessPerRun []float64 `json:"best_fitness_per_run"`

	// AvgFitnessPerRun holds each run's mean average-fitness over generations.
	AvgFitnessPerRun []float64 `json:"avg_fitness_per_run"`

	// CrossRunVariance holds, per generation, the population variance of the
	// best fitness across runs.
	CrossRunVariance []float64 `json:"cross_run_variance"`

	MeanBestFitness float64 `json:"mean_best_fitness"`
	MeanAvgFitness  float64 `json:"mean_avg_fitness"`
	Variance        float64 `json:"variance"`
	StdDeviation    float64 `json:"std_deviation"`
}

// BestRun returns the history of the best run.
func (r *MultiRunResult) BestRun() *RunHistory {
	return &r.Runs[r.BestRunIndex]
}

// SwarmState is a read-only view of the swarm handed to adaptive inertia
// strategies. Slices alias live swarm storage and must not be mutated.
type SwarmState struct {
	Positions            [][]float64
	PersonalBests        [][]float64
	PersonalBestFitness  []float64
	GlobalBestPosition   []float64
	GlobalBestFitness    float64
	ImprovedLastGen      int
	PopulationSize       int
}

// Observer is notified after every completed generation. Implementations must
// not block; the engine calls them synchronously between generations.
type Observer func(iteration, total int, bestFitness float64)
