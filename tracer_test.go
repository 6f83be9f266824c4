package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestNoopTracer(t *testing.T) {
	tracer := &NoopTracer{}
	ctx, span := tracer.StartSpan(context.Background(), "test_span")

	assert.Equal(t, context.Background(), ctx)
	_, ok := span.(*NoopSpan)
	assert.True(t, ok, "Should return a NoopSpan")

	span.SetTag("tag", "value")
	span.SetError(errors.New("boom"))
	span.Finish()
}

func TestOpenTelemetryTracer(t *testing.T) {
	tracer := NewOpenTelemetryTracer(noop.NewTracerProvider().Tracer("test"))

	_, span := tracer.StartSpan(context.Background(), "test_span")
	_, ok := span.(*OpenTelemetrySpan)
	assert.True(t, ok, "Should return an OpenTelemetrySpan")

	span.SetTag("tag", "value")
	span.SetError(errors.New("boom"))
	span.Finish()
}

type recordingSpan struct {
	tags     map[string]string
	failed   bool
	finished bool
}

func (s *recordingSpan) Finish()                  { s.finished = true }
func (s *recordingSpan) SetTag(key, value string) { s.tags[key] = value }
func (s *recordingSpan) SetError(err error)       { s.failed = true }

type recordingTracer struct{ spans []*recordingSpan }

func (t *recordingTracer) StartSpan(ctx context.Context, operationName string) (context.Context, Span) {
	span := &recordingSpan{tags: map[string]string{}}
	t.spans = append(t.spans, span)
	return ctx, span
}

func TestMiddleware_Traces(t *testing.T) {
	f := newFixture(t)
	tracer := &recordingTracer{}
	m, err := New(WithValidator(f.validator), WithTracer(tracer))
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer not-a-jwt")
	m.Evaluate(r)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	m.Evaluate(r)

	require.Len(t, tracer.spans, 2)

	rejected := tracer.spans[0]
	assert.True(t, rejected.finished)
	assert.True(t, rejected.failed)
	assert.Equal(t, "rejected", rejected.tags["identity.outcome"])
	assert.Equal(t, "token_malformed", rejected.tags["identity.failure_code"])

	anonymous := tracer.spans[1]
	assert.False(t, anonymous.failed)
	assert.Equal(t, "anonymous", anonymous.tags["identity.outcome"])
}
