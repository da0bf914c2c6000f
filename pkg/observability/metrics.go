package observability

import (
	"context"

	"github.com/aretw0/portals/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by resolver hooks.
type Metrics struct {
	Passes       prometheus.Counter
	Duration     prometheus.Histogram
	VirtualEdges prometheus.Counter
	Diagnostics  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg (skipped when reg is nil).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Passes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portals_resolve_passes_total",
			Help: "Total number of resolution passes",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "portals_resolve_duration_seconds",
			Help:    "Duration of resolution passes",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		VirtualEdges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portals_virtual_edges_total",
			Help: "Total number of virtual edges materialized",
		}),
		Diagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portals_diagnostics_total",
				Help: "Total number of resolution diagnostics",
			},
			[]string{"kind", "level"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Passes, m.Duration, m.VirtualEdges, m.Diagnostics)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnResolveEnd: func(ctx context.Context, e *domain.ResolveEvent) {
			m.Passes.Inc()
			m.Duration.Observe(e.Duration.Seconds())
			m.VirtualEdges.Add(float64(e.VirtualEdges))
		},
		OnDiagnostic: func(ctx context.Context, e *domain.DiagnosticEvent) {
			m.Diagnostics.WithLabelValues(string(e.Diagnostic.Kind), string(e.Diagnostic.Level)).Inc()
		},
	}
}
