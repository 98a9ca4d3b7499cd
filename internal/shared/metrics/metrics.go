package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics exposes Prometheus collectors that report mirror activity.
type Metrics struct {
	Registry      *prometheus.Registry
	relays        *prometheus.CounterVec
	droppedEvents *prometheus.CounterVec
	albumItems    prometheus.Histogram
	restarts      *prometheus.CounterVec
	state         *prometheus.GaugeVec
}

// New constructs Metrics on a fresh registry, so several instances (tests,
// one per injector) never collide on registration.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		relays: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "channel_mirror",
				Subsystem: "relay",
				Name:      "operations_total",
				Help:      "Relay operations by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		droppedEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "channel_mirror",
				Subsystem: "dispatch",
				Name:      "dropped_events_total",
				Help:      "Inbound events that were not relayed, by reason.",
			},
			[]string{"reason"},
		),
		albumItems: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "channel_mirror",
				Subsystem: "album",
				Name:      "items",
				Help:      "Number of items in each flushed album.",
				Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10},
			},
		),
		restarts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "channel_mirror",
				Subsystem: "supervisor",
				Name:      "restarts_total",
				Help:      "Pipeline restarts by reason.",
			},
			[]string{"reason"},
		),
		state: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "channel_mirror",
				Subsystem: "supervisor",
				Name:      "state",
				Help:      "1 for the current supervisor state, 0 otherwise.",
			},
			[]string{"state"},
		),
	}
	reg.MustRegister(m.relays, m.droppedEvents, m.albumItems, m.restarts, m.state)
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

// ObserveRelay counts one relay attempt
func (m *Metrics) ObserveRelay(operation, outcome string) {
	if m == nil {
		return
	}
	m.relays.WithLabelValues(operation, outcome).Inc()
}

// ObserveDrop counts an event that was filtered out
func (m *Metrics) ObserveDrop(reason string) {
	if m == nil {
		return
	}
	m.droppedEvents.WithLabelValues(reason).Inc()
}

// ObserveAlbum records the size of a flushed album
func (m *Metrics) ObserveAlbum(items int) {
	if m == nil {
		return
	}
	m.albumItems.Observe(float64(items))
}

// ObserveRestart counts a supervisor restart
func (m *Metrics) ObserveRestart(reason string) {
	if m == nil {
		return
	}
	m.restarts.WithLabelValues(reason).Inc()
}

// SetState marks current as the only active state among all
func (m *Metrics) SetState(current string, all []string) {
	if m == nil {
		return
	}
	for _, s := range all {
		value := 0.0
		if s == current {
			value = 1
		}
		m.state.WithLabelValues(s).Set(value)
	}
}
