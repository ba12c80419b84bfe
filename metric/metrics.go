// Package metric exposes runtime counters through a private Prometheus registry.
// A nil *Metrics is valid and records nothing.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	errs "github.com/lixenwraith/termflow/errors"
)

const namespace = "termflow"

// Metrics contains the runtime metrics of one process
type Metrics struct {
	registry *prometheus.Registry

	PaintPasses       prometheus.Counter
	PaintDuration     prometheus.Histogram
	LiveNodes         prometheus.Gauge
	LiveSubscriptions prometheus.Gauge
	KeyEvents         prometheus.Counter
	Errors            *prometheus.CounterVec
}

// New creates the metrics and registers them, with Go runtime collectors, on a
// fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		PaintPasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "paint_passes_total",
			Help:      "Total number of completed paint passes",
		}),

		PaintDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "paint_duration_seconds",
			Help:      "Duration of a paint pass from layout to flush",
			Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
		}),

		LiveNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_nodes",
			Help:      "Number of live nodes after the last paint pass",
		}),

		LiveSubscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_subscriptions",
			Help:      "Number of property and child subscriptions held by live nodes",
		}),

		KeyEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "key_events_total",
			Help:      "Total number of decoded key events delivered to the application",
		}),

		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of reported errors by class",
			},
			[]string{"class"},
		),
	}

	m.registry.MustRegister(
		m.PaintPasses,
		m.PaintDuration,
		m.LiveNodes,
		m.LiveSubscriptions,
		m.KeyEvents,
		m.Errors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObservePaint records one completed paint pass
func (m *Metrics) ObservePaint(elapsed time.Duration, nodes, subscriptions int) {
	if m == nil {
		return
	}
	m.PaintPasses.Inc()
	m.PaintDuration.Observe(elapsed.Seconds())
	m.LiveNodes.Set(float64(nodes))
	m.LiveSubscriptions.Set(float64(subscriptions))
}

// KeyEvent counts one delivered key event
func (m *Metrics) KeyEvent() {
	if m == nil {
		return
	}
	m.KeyEvents.Inc()
}

// Error counts err under its class
func (m *Metrics) Error(err error) {
	if m == nil || err == nil {
		return
	}
	m.Errors.WithLabelValues(errs.Classify(err).String()).Inc()
}
