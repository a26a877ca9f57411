// Command psorun executes an optimization batch described by a JSON
// configuration file and prints a summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"

	"github.com/copyleftdev/SWARM/internal/config"
	"github.com/copyleftdev/SWARM/internal/optimization/pso"
	"github.com/copyleftdev/SWARM/internal/results"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to the run configuration JSON file")
		workers    = flag.Int("workers", runtime.NumCPU(), "max concurrent runs")
	)
	flag.Parse()

	path := *configPath
	if path == "" && flag.NArg() == 1 {
		path = flag.Arg(0)
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "usage: psorun [-workers n] <config.json>")
		os.Exit(2)
	}

	run, err := config.LoadRunConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "psorun: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A lone run reports per generation; a batch reports per finished run.
	if run.Source.ShowProgressBar && run.Runs == 1 {
		run.Params.Observer = func(iteration, total int, _ float64) {
			printProgress(iteration, total)
		}
	}

	orch, err := pso.NewOrchestrator(run.Params, run.Runs, *workers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "psorun: %v\n", err)
		os.Exit(1)
	}
	if run.Source.ShowProgressBar && run.Runs > 1 {
		var mu sync.Mutex
		orch.OnRunComplete = func(completed, total int) {
			mu.Lock()
			defer mu.Unlock()
			printProgress(completed, total)
		}
	}

	result, err := orch.RunMany(ctx)
	if run.Source.ShowProgressBar {
		fmt.Println()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "psorun: %v\n", err)
		os.Exit(1)
	}

	best := result.BestRun()
	fmt.Printf("benchmark:      %s (%s)\n", run.Benchmark.Name, run.Benchmark.Modality)
	fmt.Printf("runs:           %d\n", len(result.Runs))
	fmt.Printf("best fitness:   %.6g (run %d, seed %d)\n",
		best.FinalBest(), result.BestRunIndex, best.Seed)
	if len(result.Runs) > 1 {
		fmt.Printf("mean best:      %.6g\n", result.MeanBestFitness)
		fmt.Printf("std deviation:  %.6g\n", result.StdDeviation)
	}

	if run.Source.SaveResults {
		path, err := results.Save(results.New(run.Source, result))
		if err != nil {
			fmt.Fprintf(os.Stderr, "psorun: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("results saved:  %s\n", path)
	}
}

// printProgress renders a fixed-width bar on one line, rewritten in place.
func printProgress(completed, total int) {
	const width = 40
	filled := completed * width / total
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", width-filled)
	fmt.Printf("\r[%s] %d/%d runs", bar, completed, total)
}
