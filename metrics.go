package identity

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics receives one observation per evaluated request.
type Metrics interface {
	ObserveVerification(outcome, code, severity string, duration time.Duration)
}

// NoopMetrics is a default metrics implementation that does nothing.
type NoopMetrics struct{}

func (m *NoopMetrics) ObserveVerification(outcome, code, severity string, duration time.Duration) {}

// PrometheusMetrics implements the Metrics interface using Prometheus.
type PrometheusMetrics struct {
	verifications *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

// NewPrometheusMetrics registers the identity collectors with reg. Collectors
// already registered by an earlier call are reused.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	verifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "identity",
		Name:      "verifications_total",
		Help:      "Credential evaluations by outcome, failure code and severity.",
	}, []string{"outcome", "code", "severity"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "identity",
		Name:      "verification_duration_seconds",
		Help:      "Time spent extracting and verifying credentials.",
		Buckets:   []float64{.0001, .0005, .001, .0025, .005, .01, .025, .05, .1},
	}, []string{"outcome"})

	var err error
	if verifications, err = register(reg, verifications); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}

	return &PrometheusMetrics{verifications: verifications, duration: duration}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *PrometheusMetrics) ObserveVerification(outcome, code, severity string, duration time.Duration) {
	m.verifications.WithLabelValues(outcome, code, severity).Inc()
	m.duration.WithLabelValues(outcome).Observe(duration.Seconds())
}
