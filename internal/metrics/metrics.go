// Package metrics instruments the sweep harness with Prometheus collectors:
// long parameter sweeps are the only part of this tool worth watching live.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sweep holds the collectors updated while a scenario sweep runs.
type Sweep struct {
	registry *prometheus.Registry

	ScenariosTotal   prometheus.Counter
	ScenarioFailures prometheus.Counter
	EngineDuration   prometheus.Histogram
}

// NewSweep builds the sweep collectors on a private registry, so repeated
// runs in one process never collide on registration.
func NewSweep() *Sweep {
	registry := prometheus.NewRegistry()
	s := &Sweep{
		registry: registry,
		ScenariosTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "riskengine_sweep_scenarios_total",
			Help: "Scenarios evaluated by the current sweep.",
		}),
		ScenarioFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "riskengine_sweep_scenario_failures_total",
			Help: "Scenarios that failed with a domain or data error.",
		}),
		EngineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "riskengine_engine_duration_seconds",
			Help:    "Wall time of one full engine pipeline invocation.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}
	registry.MustRegister(s.ScenariosTotal, s.ScenarioFailures, s.EngineDuration)
	return s
}

// Handler exposes the sweep collectors for scraping.
func (s *Sweep) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
