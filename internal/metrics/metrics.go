// Package metrics records lookup counters and latencies on a private
// Prometheus registry. Nothing is served over HTTP: a finished run can dump
// the registry to a node_exporter textfile.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tbckr/krwhois/internal/apperr"
)

const namespace = "krwhois"

// Recorder holds the metrics of one process. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	LookupsTotal   *prometheus.CounterVec
	FailuresTotal  *prometheus.CounterVec
	LookupDuration *prometheus.HistogramVec
	BatchesTotal   prometheus.Counter
	ItemsTotal     prometheus.Counter
}

// New creates a Recorder with all metrics registered on a fresh registry.
func New() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		LookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lookups_total",
				Help:      "Registry lookups by query kind and outcome status",
			},
			[]string{"kind", "status"},
		),
		FailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lookup_failures_total",
				Help:      "Failed registry lookups by reason",
			},
			[]string{"reason"},
		),
		LookupDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "lookup_duration_seconds",
				Help:      "Wall time of a single registry lookup",
				Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"kind"},
		),
		BatchesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batches_total",
				Help:      "Batches dispatched by the bulk orchestrator",
			},
		),
		ItemsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bulk_items_total",
				Help:      "Items processed by the bulk orchestrator",
			},
		),
	}
}

// Registry returns the registry the metrics live on.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveLookup records one finished lookup. err is nil for a success.
func (r *Recorder) ObserveLookup(kind string, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
		r.FailuresTotal.WithLabelValues(apperr.Reason(err)).Inc()
	}
	r.LookupsTotal.WithLabelValues(kind, status).Inc()
	r.LookupDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveBatch records one completed batch of size items.
func (r *Recorder) ObserveBatch(size int) {
	if r == nil {
		return
	}
	r.BatchesTotal.Inc()
	r.ItemsTotal.Add(float64(size))
}

// WriteTextfile writes the current registry contents to path in the
// Prometheus text exposition format, atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
