package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	metrics := &NoopMetrics{}
	metrics.ObserveVerification("rejected", "token_expired", "debug", time.Millisecond)
}

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewPrometheusMetrics(reg)
	require.NoError(t, err)

	metrics.ObserveVerification("authenticated", "", "", time.Millisecond)
	metrics.ObserveVerification("rejected", "token_expired", "debug", time.Millisecond)
	metrics.ObserveVerification("rejected", "token_expired", "debug", 2*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.verifications.WithLabelValues("rejected", "token_expired", "debug")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.verifications.WithLabelValues("authenticated", "", "")))

	families, err := reg.Gather()
	require.NoError(t, err)

	var histogram *dto.MetricFamily
	for _, family := range families {
		if family.GetName() == "identity_verification_duration_seconds" {
			histogram = family
		}
	}
	require.NotNil(t, histogram)
	require.Len(t, histogram.GetMetric(), 2)
	for _, metric := range histogram.GetMetric() {
		require.Len(t, metric.GetLabel(), 1)
		if metric.GetLabel()[0].GetValue() == "rejected" {
			assert.Equal(t, uint64(2), metric.GetHistogram().GetSampleCount())
		}
	}
}

func TestPrometheusMetrics_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := NewPrometheusMetrics(reg)
	require.NoError(t, err)
	second, err := NewPrometheusMetrics(reg)
	require.NoError(t, err)

	first.ObserveVerification("anonymous", "", "", 0)
	second.ObserveVerification("anonymous", "", "", 0)

	assert.Equal(t, float64(2), testutil.ToFloat64(first.verifications.WithLabelValues("anonymous", "", "")))
}

func TestMiddleware_RecordsMetrics(t *testing.T) {
	f := newFixture(t)
	reg := prometheus.NewRegistry()
	metrics, err := NewPrometheusMetrics(reg)
	require.NoError(t, err)

	m, err := New(WithValidator(f.validator), WithMetrics(metrics))
	require.NoError(t, err)
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	requests := []string{"", "Bearer " + f.token(t, nil), "Bearer not-a-jwt", "Digest x"}
	for _, header := range requests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		handler.ServeHTTP(httptest.NewRecorder(), r)
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.verifications.WithLabelValues("anonymous", "", "")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.verifications.WithLabelValues("authenticated", "", "")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.verifications.WithLabelValues("rejected", "token_malformed", "debug")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.verifications.WithLabelValues("rejected", "invalid_header", "debug")))
}
