// Package metrics records cache effectiveness with Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.trai.ch/bam/internal/core/domain"
	"go.trai.ch/bam/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Metrics = (*Recorder)(nil)

// Recorder implements ports.Metrics on a private registry, so several recorders can
// coexist in one process.
type Recorder struct {
	registry *prometheus.Registry
	lookups  *prometheus.CounterVec
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	return &Recorder{
		registry: registry,
		lookups: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Namespace: "bam",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Dependency cache lookups by outcome.",
		}, []string{"outcome"}),
	}
}

// ObserveLookup counts one lookup with the given outcome.
func (r *Recorder) ObserveLookup(outcome string) {
	r.lookups.WithLabelValues(outcome).Inc()
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the collected metrics to path in the text exposition format,
// suitable for the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrMetricsWriteFailed.Error()), "path", path)
	}
	return nil
}
