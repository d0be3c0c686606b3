package instrument

import (
	stderrors "errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/elemkit/elem"
	"github.com/vango-dev/elemkit/internal/errors"
)

// MetricsConfig configures Metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "elemkit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures Metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "elemkit",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the engine and inspector collectors.
type Metrics struct {
	nodesRendered   *prometheus.CounterVec
	nodesUnrendered *prometheus.CounterVec
	listeners       prometheus.Gauge
	listenersBound  *prometheus.CounterVec
	steps           *prometheus.CounterVec
	sessions        prometheus.Gauge
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var _ elem.Observer = (*Metrics)(nil)

// NewMetrics creates and registers the collectors. Registering twice with
// the same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		nodesRendered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_rendered_total",
			Help:        "Total number of nodes materialized, by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		nodesUnrendered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_unrendered_total",
			Help:        "Total number of nodes torn down, by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		listeners: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_listeners",
			Help:        "Number of event listeners currently bound",
			ConstLabels: config.ConstLabels,
		}),

		listenersBound: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "listeners_bound_total",
			Help:        "Total number of event listeners bound, by event",
			ConstLabels: config.ConstLabels,
		}, []string{"event"}),

		steps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "scenario_steps_total",
			Help:        "Total number of scenario steps applied, by operation and result",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "status"}),

		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of open inspector sessions",
			ConstLabels: config.ConstLabels,
		}),

		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of inspector HTTP requests",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "method", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "Inspector HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),
	}
}

// NodeRendered implements elem.Observer.
func (m *Metrics) NodeRendered(kind elem.Kind) {
	m.nodesRendered.WithLabelValues(kind.String()).Inc()
}

// NodeUnrendered implements elem.Observer.
func (m *Metrics) NodeUnrendered(kind elem.Kind) {
	m.nodesUnrendered.WithLabelValues(kind.String()).Inc()
}

// ListenerBound implements elem.Observer.
func (m *Metrics) ListenerBound(event string) {
	m.listeners.Inc()
	m.listenersBound.WithLabelValues(event).Inc()
}

// ListenerRemoved implements elem.Observer.
func (m *Metrics) ListenerRemoved(string) {
	m.listeners.Dec()
}

// RecordStep records one applied scenario step.
func (m *Metrics) RecordStep(op string, err error) {
	status := "success"
	if err != nil {
		status = categorizeError(err)
	}
	m.steps.WithLabelValues(op, status).Inc()
}

// SessionOpened records an inspector session being created.
func (m *Metrics) SessionOpened() { m.sessions.Inc() }

// SessionClosed records an inspector session being closed.
func (m *Metrics) SessionClosed() { m.sessions.Dec() }

// categorizeError returns the registered code of err, which keeps label
// cardinality bounded by the registry.
func categorizeError(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return "internal"
}
