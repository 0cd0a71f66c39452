// Package metrics instruments the solver with Prometheus collectors.
// Unlike a network service, this library never registers against the global
// default registry: callers that embed the solver in a larger process supply
// their own *prometheus.Registry (or pass nil to get an unregistered,
// still-usable set of collectors for tests).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SolverMetrics holds the collectors exposed by the solver. All of them are
// additive instrumentation over state run_flow and the lambda search driver
// already compute; nothing here is a second source of truth.
type SolverMetrics struct {
	RunFlowDuration      prometheus.Histogram
	AugmentingPathsTotal prometheus.Counter
	SearchIterations     prometheus.Counter
	InfeasibleTotal      prometheus.Counter
}

// New builds a SolverMetrics and, if reg is non-nil, registers every
// collector against it. Passing nil yields usable, unregistered collectors —
// convenient for unit tests that do not care about a registry.
func New(reg *prometheus.Registry, namespace, subsystem string) *SolverMetrics {
	m := &SolverMetrics{
		RunFlowDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "run_flow_duration_seconds",
			Help:      "Duration of one Solve call's whole lambda search (all of its run_flow calls together)",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}),
		AugmentingPathsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "augmenting_paths_total",
			Help:      "Total number of augmenting Dijkstra paths pushed by the final run_flow of each feasible Solve call",
		}),
		SearchIterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "lambda_search_iterations_total",
			Help:      "Total number of Solve calls that ran the lambda search driver",
		}),
		InfeasibleTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "infeasible_results_total",
			Help:      "Total number of solve calls that terminated with an empty-support infeasible result",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.RunFlowDuration,
			m.AugmentingPathsTotal,
			m.SearchIterations,
			m.InfeasibleTotal,
		)
	}

	return m
}

// Timer measures the time elapsed since NewTimer and records it on
// ObserveDuration.
type Timer struct {
	start    time.Time
	observer prometheus.Observer
}

// NewTimer starts a timer against the given observer.
func NewTimer(observer prometheus.Observer) *Timer {
	return &Timer{start: time.Now(), observer: observer}
}

// ObserveDuration records the elapsed time since NewTimer and returns it.
func (t *Timer) ObserveDuration() time.Duration {
	d := time.Since(t.start)
	t.observer.Observe(d.Seconds())
	return d
}
