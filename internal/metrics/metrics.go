// Package metrics holds the Prometheus collectors for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "recycle_api"

// Metrics owns a registry and the collectors registered on it.
// It implements respond.Recorder and workflow.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	errors       *prometheus.CounterVec
	workflowRuns *prometheus.CounterVec
	workflowTime *prometheus.HistogramVec
}

// New creates a Metrics with its own registry, so tests can build as many
// as they like without duplicate-registration panics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
			},
			[]string{"method", "route"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "errors_total",
				Help:      "Failed requests by classified error kind.",
			},
			[]string{"kind", "status"},
		),
		workflowRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "workflow",
				Name:      "runs_total",
				Help:      "Workflow runs by outcome and failing step.",
			},
			[]string{"workflow", "outcome", "step"},
		),
		workflowTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "workflow",
				Name:      "duration_seconds",
				Help:      "Duration of workflow runs.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"workflow"},
		),
	}
	m.registry.MustRegister(m.httpRequests, m.httpDuration, m.errors, m.workflowRuns, m.workflowTime)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveError counts one classified failure.
func (m *Metrics) ObserveError(kind string, status int) {
	m.errors.WithLabelValues(kind, strconv.Itoa(status)).Inc()
}

// ObserveWorkflow counts one workflow run.
func (m *Metrics) ObserveWorkflow(workflow, outcome, step string, elapsed time.Duration) {
	m.workflowRuns.WithLabelValues(workflow, outcome, step).Inc()
	m.workflowTime.WithLabelValues(workflow).Observe(elapsed.Seconds())
}
