package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/copyleftdev/SWARM/internal/optimization"
	"github.com/copyleftdev/SWARM/internal/optimization/benchmarks"
	"github.com/copyleftdev/SWARM/internal/optimization/coefficient"
	"github.com/copyleftdev/SWARM/internal/optimization/inertia"
	"github.com/copyleftdev/SWARM/internal/optimization/pso"
)

// RunConfig is one optimization request as it arrives on the wire or from a
// config file. Strategy fields stay raw here; Compile parses and validates
// them so every spec error surfaces before a single run starts.
type RunConfig struct {
	Dimensions     int    `json:"dimensions" validate:"required,gt=0"`
	PopulationSize int    `json:"population_size" validate:"required,gt=0"`
	Generations    int    `json:"generations" validate:"required,gt=0"`
	Benchmark      string `json:"benchmark" validate:"required"`

	// Bounds overrides the benchmark's default search interval.
	Bounds []float64 `json:"bounds,omitempty" validate:"omitempty,len=2"`

	// VelocityClamp caps each velocity coordinate's magnitude. Zero leaves
	// velocity unbounded; half the search range is a common choice.
	VelocityClamp float64 `json:"velocity_clamp,omitempty" validate:"gte=0"`

	Runs int `json:"runs,omitempty" validate:"gte=0"`

	// InertiaType, C1 and C2 follow the strategy grammar: a bare number or a
	// [min, max, name, params...] array.
	InertiaType interface{} `json:"inertia_type,omitempty"`
	C1          interface{} `json:"c1,omitempty"`
	C2          interface{} `json:"c2,omitempty"`

	Seed int64 `json:"seed,omitempty"`

	BaseOutputPath  string `json:"base_output_path,omitempty"`
	OutputFile      string `json:"output_file,omitempty"`
	SaveResults     bool   `json:"save_results,omitempty"`
	ShowProgressBar bool   `json:"show_progress_bar,omitempty"`
}

// Run is a compiled, ready-to-execute configuration.
type Run struct {
	Params    pso.Params
	Benchmark benchmarks.Function
	Runs      int
	Source    RunConfig
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseRunConfig decodes and compiles a JSON run configuration.
func ParseRunConfig(r io.Reader) (*Run, error) {
	var cfg RunConfig
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, optimization.ConfigError("decoding run config: %v", err).
			WithComponent("config").WithOperation("parse")
	}
	return cfg.Compile()
}

// LoadRunConfig reads and compiles a run configuration file.
func LoadRunConfig(path string) (*Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, optimization.ConfigError("opening run config: %v", err).
			WithComponent("config").WithOperation("load")
	}
	defer f.Close()
	return ParseRunConfig(f)
}

// Compile validates the raw configuration, fills defaults and produces the
// engine parameters. Defaults: one run, inertia [0.4, 0.9, linear_decreasing],
// c1 = c2 = 2.0, bounds from the benchmark.
func (c RunConfig) Compile() (*Run, error) {
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			return nil, optimization.ConfigError("field %s failed %q validation", e.Field(), e.Tag()).
				WithComponent("config").WithOperation("validate")
		}
		return nil, optimization.ConfigError("validating run config: %v", err).
			WithComponent("config").WithOperation("validate")
	}

	fn, err := benchmarks.Lookup(c.Benchmark)
	if err != nil {
		return nil, err
	}

	bounds := fn.DefaultBounds
	if len(c.Bounds) == 2 {
		if c.Bounds[0] >= c.Bounds[1] {
			return nil, optimization.ConfigError("bounds must satisfy lo < hi, got [%v, %v]", c.Bounds[0], c.Bounds[1]).
				WithComponent("config")
		}
		bounds = [2]float64{c.Bounds[0], c.Bounds[1]}
	}

	inertiaRaw := c.InertiaType
	if inertiaRaw == nil {
		inertiaRaw = []interface{}{0.4, 0.9, string(inertia.KindLinearDecreasing)}
	}
	w, err := inertia.Parse(inertiaRaw)
	if err != nil {
		return nil, err
	}

	c1, err := parseCoefficient(c.C1)
	if err != nil {
		return nil, fmt.Errorf("c1: %w", err)
	}
	c2, err := parseCoefficient(c.C2)
	if err != nil {
		return nil, fmt.Errorf("c2: %w", err)
	}

	runs := c.Runs
	if runs == 0 {
		runs = 1
	}

	params := pso.Params{
		Dimensions:     c.Dimensions,
		PopulationSize: c.PopulationSize,
		Generations:    c.Generations,
		Bounds:         bounds,
		VelocityClamp:  c.VelocityClamp,
		Objective:      fn.Eval,
		Inertia:        w,
		C1:             c1,
		C2:             c2,
		Seed:           c.Seed,
	}
	if _, err := pso.NewEngine(params); err != nil {
		return nil, err
	}

	return &Run{Params: params, Benchmark: fn, Runs: runs, Source: c}, nil
}

func parseCoefficient(raw interface{}) (*coefficient.Spec, error) {
	if raw == nil {
		raw = 2.0
	}
	return coefficient.Parse(raw)
}
