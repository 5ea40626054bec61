package sdk

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// clientMetrics holds prometheus metrics registered for the client.
type clientMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newClientMetrics(reg prometheus.Registerer) (*clientMetrics, error) {
	m := &clientMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "topicforge",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Total client requests by operation and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "topicforge",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Client request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if err := registerOrReuse(reg, &m.requests); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("sdk: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("sdk: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for client operations. Both
// collaborators are optional; a nil observer is also safe.
type observer struct {
	logger  *slog.Logger
	metrics *clientMetrics
}

func newObserver(cfg *clientConfig) (*observer, error) {
	obs := &observer{logger: cfg.logger}
	if cfg.metricsReg != nil {
		m, err := newClientMetrics(cfg.metricsReg)
		if err != nil {
			return nil, err
		}
		obs.metrics = m
	}
	return obs, nil
}

// observe records one finished operation.
func (o *observer) observe(operation string, start time.Time, err error) {
	if o == nil {
		return
	}
	elapsed := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
	}

	if o.metrics != nil {
		o.metrics.requests.WithLabelValues(operation, status).Inc()
		o.metrics.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
	}
	if o.logger != nil {
		if err != nil {
			o.logger.Error("topicforge client operation failed",
				slog.String("operation", operation),
				slog.Duration("duration", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			o.logger.Debug("topicforge client operation",
				slog.String("operation", operation),
				slog.Duration("duration", elapsed),
			)
		}
	}
}
