// Package metrics exposes the Prometheus collectors of the web front-end.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "eventgo"

// Collector holds all Prometheus metrics for the application. Each
// Collector owns its registry, so tests can build as many as they like.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	PageViews    *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Backend metrics
	APICalls    *prometheus.CounterVec
	APIDuration *prometheus.HistogramVec
	BackendUp   prometheus.Gauge
	ProbeRuns   *prometheus.CounterVec
}

// New creates a collector with Go runtime and process metrics included.
func New() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		PageViews: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "page_views_total",
				Help:      "Rendered pages by route page and response status.",
			},
			[]string{"page", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "page"},
		),
		APICalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_calls_total",
				Help:      "Backend calls by method, resource and outcome.",
			},
			[]string{"method", "resource", "outcome"},
		),
		APIDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_call_duration_seconds",
				Help:      "Backend call duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "resource"},
		),
		BackendUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "backend_up",
				Help:      "1 when the last probe reached the backend.",
			},
		),
		ProbeRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "probe_runs_total",
				Help:      "Backend probe runs by result.",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		c.PageViews,
		c.HTTPDuration,
		c.APICalls,
		c.APIDuration,
		c.BackendUp,
		c.ProbeRuns,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveAPICall records one backend call. It satisfies apiclient.Observer.
func (c *Collector) ObserveAPICall(method, resource, outcome string, d time.Duration) {
	c.APICalls.WithLabelValues(method, resource, outcome).Inc()
	c.APIDuration.WithLabelValues(method, resource).Observe(d.Seconds())
}

// ObservePage records one served page.
func (c *Collector) ObservePage(method, page string, status int, d time.Duration) {
	c.PageViews.WithLabelValues(page, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, page).Observe(d.Seconds())
}

// ObserveProbe records a probe result and updates backend_up.
func (c *Collector) ObserveProbe(reachable bool) {
	if reachable {
		c.BackendUp.Set(1)
		c.ProbeRuns.WithLabelValues("up").Inc()
		return
	}
	c.BackendUp.Set(0)
	c.ProbeRuns.WithLabelValues("down").Inc()
}

// Registry returns the Prometheus registry for this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
