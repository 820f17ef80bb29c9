package middleware

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/miladsoleymani/eventsys/core"
)

// MetricsCollector is the interface that metrics backends must implement.
type MetricsCollector interface {
	// MessageProcessed records that a message was processed.
	// event is the request's event tag, duration is processing time,
	// and err is nil on success.
	MessageProcessed(event string, duration time.Duration, err error)
}

// Metrics returns middleware that reports processing metrics to the given collector.
func Metrics(collector MetricsCollector) core.MiddlewareFunc {
	return func(next core.HandlerFunc) core.HandlerFunc {
		return func(c core.Context) error {
			start := time.Now()
			err := next(c)
			collector.MessageProcessed(string(c.Request().Event()), time.Since(start), err)
			return err
		}
	}
}

// PrometheusCollector is a MetricsCollector backed by client_golang.
type PrometheusCollector struct {
	processed *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewPrometheusCollector creates the collector and registers its metrics with reg.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	c := &PrometheusCollector{
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventsys",
			Name:      "messages_processed_total",
			Help:      "Messages handled, by event and outcome.",
		}, []string{"event", "outcome"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventsys",
			Name:      "extraction_failures_total",
			Help:      "Failed calls, by event and error kind.",
		}, []string{"event", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "eventsys",
			Name:      "handler_duration_seconds",
			Help:      "Time spent extracting arguments and running the handler.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event"}),
	}
	for _, m := range []prometheus.Collector{c.processed, c.failures, c.duration} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *PrometheusCollector) MessageProcessed(event string, duration time.Duration, err error) {
	c.duration.WithLabelValues(event).Observe(duration.Seconds())
	if err == nil {
		c.processed.WithLabelValues(event, "ok").Inc()
		return
	}
	c.processed.WithLabelValues(event, "error").Inc()
	kind := "unknown"
	if se := asSystemError(err); se != nil {
		kind = se.Kind.String()
	}
	c.failures.WithLabelValues(event, kind).Inc()
}

func asSystemError(err error) *core.SystemError {
	var se *core.SystemError
	if errors.As(err, &se) {
		return se
	}
	return nil
}
