// Package server exposes the optimization engine as an HTTP job API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/copyleftdev/SWARM/internal/config"
	"github.com/copyleftdev/SWARM/internal/logging"
	"github.com/copyleftdev/SWARM/internal/optimization"
	"github.com/copyleftdev/SWARM/internal/optimization/benchmarks"
	"github.com/copyleftdev/SWARM/internal/optimization/pso"
	"github.com/copyleftdev/SWARM/internal/results"
)

// Logger is the logging interface used by the server.
type Logger interface {
	Debug(msg string, fields ...map[string]interface{})
	Info(msg string, fields ...map[string]interface{})
	Warn(msg string, fields ...map[string]interface{})
	Error(msg string, fields ...map[string]interface{})
	Fatal(msg string, fields ...map[string]interface{})
	WithFields(fields map[string]interface{}) *logging.Logger
}

var (
	errNotFound = errors.New("optimization job not found")
	errTerminal = errors.New("job already in a terminal state")
)

// JobStatus is the lifecycle state of an optimization job.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

// Job tracks one submitted optimization batch. Access goes through the
// server's mutex.
type Job struct {
	ID          string
	Status      JobStatus
	StartTime   time.Time
	EndTime     *time.Time
	LastUpdated time.Time

	// Progress is completed runs over total runs, in [0,1].
	Progress float64

	Result *optimization.MultiRunResult
	Err    error

	cancel context.CancelFunc
}

// Server manages optimization jobs and serves their lifecycle endpoints.
type Server struct {
	cfg     *config.Config
	logger  Logger
	metrics *Metrics

	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewServer creates a server with the given config, logger and metrics.
// A nil metrics disables instrumentation, which tests use.
func NewServer(cfg *config.Config, logger Logger, metrics *Metrics) *Server {
	return &Server{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		jobs:    make(map[string]*Job),
	}
}

// RegisterRoutes mounts the job API under /api/v1.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/optimize", s.handleOptimize)
		r.Get("/status/{id}", s.handleStatus)
		r.Delete("/optimization/{id}", s.handleCancel)
		r.Get("/benchmarks", s.handleBenchmarks)
	})
}

// handleOptimize accepts a run configuration, compiles it and starts the
// batch in the background. Spec and config errors surface here as 400s;
// nothing starts on a malformed request.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	run, err := config.ParseRunConfig(r.Body)
	if err != nil {
		s.respondError(w, statusForError(err), err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	job := &Job{
		ID:          uuid.NewString(),
		Status:      StatusPending,
		StartTime:   time.Now(),
		LastUpdated: time.Now(),
		cancel:      cancel,
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.JobsStarted.Inc()
	}
	s.logger.Info("Optimization job accepted", map[string]interface{}{
		"job_id":    job.ID,
		"benchmark": run.Benchmark.Name,
		"runs":      run.Runs,
	})

	go s.runJob(ctx, job.ID, run)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"job_id": job.ID,
		"status": StatusPending,
	})
}

func (s *Server) runJob(ctx context.Context, id string, run *config.Run) {
	s.update(id, func(job *Job) {
		job.Status = StatusRunning
	})

	orch, err := pso.NewOrchestrator(run.Params, run.Runs, s.cfg.Optimization.WorkerCount)
	if err == nil {
		orch.OnRunComplete = func(completed, total int) {
			if s.metrics != nil {
				s.metrics.RunsExecuted.Inc()
			}
			s.update(id, func(job *Job) {
				job.Progress = float64(completed) / float64(total)
			})
		}
	}

	var result *optimization.MultiRunResult
	if err == nil {
		result, err = orch.RunMany(ctx)
	}

	now := time.Now()
	s.update(id, func(job *Job) {
		if job.Status == StatusCancelled {
			return
		}
		job.EndTime = &now
		if err != nil {
			job.Status = StatusFailed
			job.Err = err
			return
		}
		job.Status = StatusCompleted
		job.Progress = 1
		job.Result = result
	})

	if s.metrics != nil {
		s.metrics.JobDuration.Observe(now.Sub(s.job(id).StartTime).Seconds())
	}

	switch {
	case s.job(id).Status == StatusCancelled:
		// Cancellation already logged and counted by the handler.
	case err != nil:
		if s.metrics != nil {
			s.metrics.JobsFailed.Inc()
		}
		s.logger.Error("Optimization job failed", map[string]interface{}{
			"job_id": id,
			"error":  err.Error(),
		})
	default:
		if s.metrics != nil {
			s.metrics.JobsCompleted.Inc()
		}
		s.logger.Info("Optimization job completed", map[string]interface{}{
			"job_id":       id,
			"best_fitness": result.BestRun().FinalBest(),
		})
		if run.Source.SaveResults {
			if path, err := results.Save(results.New(run.Source, result)); err != nil {
				s.logger.Error("Saving results failed", map[string]interface{}{
					"job_id": id,
					"error":  err.Error(),
				})
			} else {
				s.logger.Info("Results saved", map[string]interface{}{
					"job_id": id,
					"path":   path,
				})
			}
		}
	}
}

// handleStatus reports the current state of a job, including the result once
// completed.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	job := s.job(chi.URLParam(r, "id"))
	if job == nil {
		s.respondError(w, http.StatusNotFound, errNotFound)
		return
	}

	s.mu.RLock()
	response := map[string]interface{}{
		"job_id":      job.ID,
		"status":      job.Status,
		"progress":    job.Progress,
		"start_time":  job.StartTime.Format(time.RFC3339),
		"last_update": job.LastUpdated.Format(time.RFC3339),
	}
	if job.EndTime != nil {
		response["end_time"] = job.EndTime.Format(time.RFC3339)
	}
	if job.Err != nil {
		response["error"] = job.Err.Error()
	}
	if job.Result != nil {
		best := job.Result.BestRun()
		response["best_solution"] = best.Best
		response["result"] = job.Result
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleCancel stops a pending or running job.
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job := s.job(id)
	if job == nil {
		s.respondError(w, http.StatusNotFound, errNotFound)
		return
	}

	var terminal bool
	s.update(id, func(job *Job) {
		switch job.Status {
		case StatusCompleted, StatusFailed, StatusCancelled:
			terminal = true
			return
		}
		job.cancel()
		job.Status = StatusCancelled
		now := time.Now()
		job.EndTime = &now
	})
	if terminal {
		s.respondError(w, http.StatusConflict, errTerminal)
		return
	}

	if s.metrics != nil {
		s.metrics.JobsCancelled.Inc()
	}
	s.logger.Info("Optimization job cancelled", map[string]interface{}{
		"job_id": id,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"job_id": id,
		"status": string(StatusCancelled),
	})
}

// handleBenchmarks lists the registered benchmark functions.
func (s *Server) handleBenchmarks(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"benchmarks": benchmarks.Names(),
	})
}

// Close cancels all running jobs.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.jobs {
		if job.cancel != nil {
			job.cancel()
		}
	}
	return nil
}

func (s *Server) job(id string) *Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobs[id]
}

func (s *Server) update(id string, fn func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		fn(job)
		job.LastUpdated = time.Now()
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, err error) {
	s.logger.Error("Request error", map[string]interface{}{
		"status": status,
		"error":  err.Error(),
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// statusForError maps domain error kinds onto HTTP status codes: anything the
// client could fix is a 400, the rest a 500.
func statusForError(err error) int {
	switch {
	case optimization.IsKind(err, optimization.KindConfig),
		optimization.IsKind(err, optimization.KindInvalidStrategySpec),
		optimization.IsKind(err, optimization.KindUnknownBenchmark):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
