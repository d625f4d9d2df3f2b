// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package metrics counts cache lookups, API requests and fan-out failures
// for one process run. The registry is private; --metrics-file writes it in
// the node_exporter textfile format.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "statsctl"

// Metrics holds the collectors of one run.
type Metrics struct {
	Registry *prometheus.Registry

	CacheLookups   *prometheus.CounterVec
	APIRequests    *prometheus.CounterVec
	APILatency     *prometheus.HistogramVec
	FanoutFailures *prometheus.CounterVec
	ImpactDegraded *prometheus.GaugeVec
	ImpactTotal    prometheus.Gauge
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by namespace and result",
		}, []string{"namespace", "result"}),

		APIRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Statistics API requests by endpoint and status code",
		}, []string{"endpoint", "code"}),
		APILatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Statistics API request duration by endpoint",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15},
		}, []string{"endpoint"}),

		FanoutFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fanout_failures_total",
			Help:      "Detail fetches dropped from an aggregation",
		}, []string{"source"}),

		ImpactDegraded: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "impact_degraded",
			Help:      "1 when a source of the impact total used its fallback",
		}, []string{"source"}),
		ImpactTotal: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "impact_total",
			Help:      "Last computed impact total",
		}),
	}
}

// CacheLookup matches cache.WithLookupHook.
func (m *Metrics) CacheLookup(ns string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(ns, result).Inc()
}

// Request matches api.Observer. Code 0 is recorded as "error".
func (m *Metrics) Request(endpoint string, code int, elapsed time.Duration) {
	label := "error"
	if code != 0 {
		label = strconv.Itoa(code)
	}
	m.APIRequests.WithLabelValues(endpoint, label).Inc()
	m.APILatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (m *Metrics) FanoutFailure(source string) {
	m.FanoutFailures.WithLabelValues(source).Inc()
}

func (m *Metrics) Impact(total int64, degraded map[string]bool) {
	m.ImpactTotal.Set(float64(total))
	for source, d := range degraded {
		v := 0.0
		if d {
			v = 1
		}
		m.ImpactDegraded.WithLabelValues(source).Set(v)
	}
}

// WriteTextfile writes every collected metric to filename. The write goes
// through a temp file and a rename.
func (m *Metrics) WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, m.Registry)
}
