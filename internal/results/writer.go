// Package results persists optimization outcomes as structured JSON reports.
package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/copyleftdev/SWARM/internal/config"
	"github.com/copyleftdev/SWARM/internal/errors"
	"github.com/copyleftdev/SWARM/internal/optimization"
)

// Report is the saved document: the configuration that produced the result
// plus the best execution and, for batches, the aggregate statistics.
type Report struct {
	Configuration config.RunConfig `json:"configuration"`
	Statistics    Statistics       `json:"statistics"`
}

// Statistics groups the best run's history with the optional multi-run
// aggregate.
type Statistics struct {
	BestExecution *optimization.RunHistory     `json:"best_execution"`
	MultiRun      *optimization.MultiRunResult `json:"multi_run,omitempty"`
}

// New builds a report from a multi-run result. Single runs pass a result with
// one run; the multi-run block is attached only when the batch had several.
func New(cfg config.RunConfig, result *optimization.MultiRunResult) *Report {
	report := &Report{
		Configuration: cfg,
		Statistics:    Statistics{BestExecution: result.BestRun()},
	}
	if len(result.Runs) > 1 {
		report.Statistics.MultiRun = result
	}
	return report
}

// Save writes the report under cfg.BaseOutputPath as <output_file>.json,
// creating the directory as needed, and returns the written path. An empty
// output file name gets a timestamped default.
func Save(report *Report) (string, error) {
	base := report.Configuration.BaseOutputPath
	if base == "" {
		base = "results"
	}
	name := report.Configuration.OutputFile
	if name == "" {
		name = fmt.Sprintf("pso_%s", time.Now().Format("20060102_150405"))
	}

	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", errors.Wrap(err, "creating output directory").
			WithComponent("results").WithOperation("save")
	}

	path := filepath.Join(base, name+".json")
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encoding report").
			WithComponent("results").WithOperation("save")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, "writing report").
			WithComponent("results").WithOperation("save")
	}
	return path, nil
}
