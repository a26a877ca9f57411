package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the optimization service.
type Metrics struct {
	JobsStarted   prometheus.Counter
	JobsCompleted prometheus.Counter
	JobsFailed    prometheus.Counter
	JobsCancelled prometheus.Counter
	JobDuration   prometheus.Histogram
	RunsExecuted  prometheus.Counter
}

// NewMetrics registers the service metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		JobsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "swarm_jobs_started_total",
			Help: "Optimization jobs accepted.",
		}),
		JobsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "swarm_jobs_completed_total",
			Help: "Optimization jobs finished successfully.",
		}),
		JobsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "swarm_jobs_failed_total",
			Help: "Optimization jobs that ended in an error.",
		}),
		JobsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "swarm_jobs_cancelled_total",
			Help: "Optimization jobs cancelled by a client.",
		}),
		JobDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "swarm_job_duration_seconds",
			Help:    "Wall time of finished optimization jobs.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		}),
		RunsExecuted: factory.NewCounter(prometheus.CounterOpts{
			Name: "swarm_runs_executed_total",
			Help: "Individual optimization runs completed across all jobs.",
		}),
	}
}
