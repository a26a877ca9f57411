package results

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/SWARM/internal/config"
	"github.com/copyleftdev/SWARM/internal/optimization/pso"
)

func testResult(t *testing.T, cfg config.RunConfig) *Report {
	t.Helper()
	run, err := cfg.Compile()
	require.NoError(t, err)

	result, err := pso.RunMany(context.Background(), run.Params, run.Runs, 2)
	require.NoError(t, err)
	return New(cfg, result)
}

func TestSaveSingleRun(t *testing.T) {
	dir := t.TempDir()
	cfg := config.RunConfig{
		Dimensions:     2,
		PopulationSize: 10,
		Generations:    15,
		Benchmark:      "sphere",
		Seed:           1,
		BaseOutputPath: dir,
		OutputFile:     "single",
	}

	path, err := Save(testResult(t, cfg))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "single.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "configuration")

	stats, ok := doc["statistics"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, stats, "best_execution")
	assert.NotContains(t, stats, "multi_run", "single runs carry no aggregate block")

	best, ok := stats["best_execution"].(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, best["generations"], 15)
}

func TestSaveMultiRun(t *testing.T) {
	dir := t.TempDir()
	cfg := config.RunConfig{
		Dimensions:     2,
		PopulationSize: 10,
		Generations:    10,
		Benchmark:      "sphere",
		Runs:           3,
		Seed:           1,
		BaseOutputPath: dir,
		OutputFile:     "batch",
	}

	path, err := Save(testResult(t, cfg))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))

	stats := doc["statistics"].(map[string]interface{})
	multi, ok := stats["multi_run"].(map[string]interface{})
	require.True(t, ok, "batches carry the aggregate block")
	assert.Len(t, multi["runs"], 3)
	assert.Contains(t, multi, "mean_best_fitness")
	assert.Contains(t, multi, "std_deviation")
}

func TestSaveDefaultsFileName(t *testing.T) {
	dir := t.TempDir()
	cfg := config.RunConfig{
		Dimensions:     2,
		PopulationSize: 5,
		Generations:    5,
		Benchmark:      "sphere",
		Seed:           1,
		BaseOutputPath: dir,
	}

	path, err := Save(testResult(t, cfg))
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Regexp(t, `^pso_\d{8}_\d{6}\.json$`, filepath.Base(path))
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	cfg := config.RunConfig{
		Dimensions:     2,
		PopulationSize: 5,
		Generations:    5,
		Benchmark:      "sphere",
		Seed:           1,
		BaseOutputPath: dir,
		OutputFile:     "r",
	}

	path, err := Save(testResult(t, cfg))
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
