package middleware

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/routestate/internal/errors"
	"github.com/vango-dev/routestate/pkg/router"
)

// unmatched labels navigations that never resolved to a template.
const unmatched = "unmatched"

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "routestate").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
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
		Namespace: "routestate",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for one router process.
type Metrics struct {
	navigationsTotal   *prometheus.CounterVec
	navigationDuration *prometheus.HistogramVec
	navigationErrors   *prometheus.CounterVec
	subscribers        prometheus.Gauge
	framesSent         prometheus.Counter
	wsErrors           *prometheus.CounterVec
	reloadsTotal       *prometheus.CounterVec
}

// NewMetrics registers a fresh set of collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of navigations by template and status",
			ConstLabels: config.ConstLabels,
		}, []string{"template", "status"}),

		navigationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Navigation duration in seconds, listeners included",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"template"}),

		navigationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_errors_total",
			Help:        "Total number of failed navigations by category and code",
			ConstLabels: config.ConstLabels,
		}, []string{"category", "code"}),

		subscribers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_subscribers",
			Help:        "Number of connected live-state subscribers",
			ConstLabels: config.ConstLabels,
		}),

		framesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frames_sent_total",
			Help:        "Total number of live-state frames sent to subscribers",
			ConstLabels: config.ConstLabels,
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total WebSocket errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		reloadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "config_reloads_total",
			Help:        "Total route configuration reloads by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),
	}
}

// Middleware returns the navigation middleware recording into m.
func (m *Metrics) Middleware() router.Middleware {
	return router.MiddlewareFunc(func(ctx context.Context, nav *router.Navigation, next func() error) error {
		start := time.Now()
		err := next()
		duration := time.Since(start).Seconds()

		template := nav.To.Template
		if template == "" {
			template = unmatched
		}
		m.navigationDuration.WithLabelValues(template).Observe(duration)

		status := "success"
		if err != nil {
			status = "error"
			category, code := categorizeError(err)
			m.navigationErrors.WithLabelValues(category, code).Inc()
		}
		m.navigationsTotal.WithLabelValues(template, status).Inc()
		return err
	})
}

// SetSubscribers records the number of live subscribers.
func (m *Metrics) SetSubscribers(n int) {
	m.subscribers.Set(float64(n))
}

// RecordFrame records a live-state frame sent to one subscriber.
func (m *Metrics) RecordFrame() {
	m.framesSent.Inc()
}

// RecordWebSocketError records a WebSocket error.
func (m *Metrics) RecordWebSocketError(errorType string) {
	m.wsErrors.WithLabelValues(errorType).Inc()
}

// RecordReload records a route configuration reload.
func (m *Metrics) RecordReload(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.reloadsTotal.WithLabelValues(status).Inc()
}

// categorizeError maps err to low-cardinality labels.
func categorizeError(err error) (category, code string) {
	var re *errors.RouteError
	if !stderrors.As(err, &re) || re.Category == "" {
		return "internal", "none"
	}
	code = re.Code
	if code == "" {
		code = "none"
	}
	return string(re.Category), code
}

var (
	globalMetrics   *Metrics
	globalMetricsMu sync.Mutex
)

// Default returns the process-wide metrics, registering them on first use
// with opts.
func Default(opts ...MetricsOption) *Metrics {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		globalMetrics = NewMetrics(opts...)
	}
	return globalMetrics
}

// Prometheus returns navigation middleware recording into the process-wide
// metrics. Options only take effect on the first call.
func Prometheus(opts ...MetricsOption) router.Middleware {
	return Default(opts...).Middleware()
}
