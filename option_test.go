package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudapi/identity/validator"
)

type stubValidator struct{}

func (stubValidator) ValidateToken(context.Context, string) (*validator.Claims, error) {
	return &validator.Claims{}, nil
}

func Test_New_OptionsValidation(t *testing.T) {
	testCases := []struct {
		name    string
		options []Option
		wantErr error
	}{
		{
			name:    "missing validator",
			wantErr: ErrValidatorNil,
		},
		{
			name:    "nil validator",
			options: []Option{WithValidator(nil)},
			wantErr: ErrValidatorNil,
		},
		{
			name:    "nil error handler",
			options: []Option{WithValidator(stubValidator{}), WithErrorHandler(nil)},
			wantErr: ErrErrorHandlerNil,
		},
		{
			name:    "nil token extractor",
			options: []Option{WithValidator(stubValidator{}), WithTokenExtractor(nil)},
			wantErr: ErrTokenExtractorNil,
		},
		{
			name:    "empty exclusions",
			options: []Option{WithValidator(stubValidator{}), WithExclusionURLs(nil)},
			wantErr: ErrExclusionURLsEmpty,
		},
		{
			name:    "nil logger",
			options: []Option{WithValidator(stubValidator{}), WithLogger(nil)},
			wantErr: ErrLoggerNil,
		},
		{
			name:    "nil metrics",
			options: []Option{WithValidator(stubValidator{}), WithMetrics(nil)},
			wantErr: ErrMetricsNil,
		},
		{
			name:    "nil tracer",
			options: []Option{WithValidator(stubValidator{}), WithTracer(nil)},
			wantErr: ErrTracerNil,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			m, err := New(testCase.options...)
			assert.Nil(t, m)
			assert.ErrorIs(t, err, testCase.wantErr)
		})
	}
}

func Test_New_Defaults(t *testing.T) {
	m, err := New(WithValidator(stubValidator{}))
	require.NoError(t, err)

	assert.True(t, m.validateOnOptions)
	assert.NotNil(t, m.errorHandler)
	assert.NotNil(t, m.tokenExtractor)
	assert.IsType(t, &NoopMetrics{}, m.metrics)
	assert.IsType(t, &NoopTracer{}, m.tracer)
	assert.Nil(t, m.exclusionURLHandler)
	assert.Nil(t, m.logger)
}

func Test_WithExclusionURLs(t *testing.T) {
	m, err := New(
		WithValidator(stubValidator{}),
		WithExclusionURLs([]string{"/public", "http://example.com/full"}),
	)
	require.NoError(t, err)

	testCases := []struct {
		target string
		want   bool
	}{
		{"/public", true},
		{"http://example.com/full", true},
		{"/public/nested", false},
		{"/private", false},
	}
	for _, testCase := range testCases {
		t.Run(testCase.target, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, testCase.target, nil)
			assert.Equal(t, testCase.want, m.exclusionURLHandler(r))
		})
	}
}

func Test_WithTokenExtractor(t *testing.T) {
	m, err := New(
		WithValidator(stubValidator{}),
		WithTokenExtractor(CookieTokenExtractor("session")),
	)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "session", Value: "a-token"})

	outcome := m.Evaluate(r)
	claims, ok := outcome.Claims()
	require.True(t, ok)
	assert.NotNil(t, claims)
}

func Test_SentinelErrors(t *testing.T) {
	assert.EqualError(t, ErrValidatorNil, "validator cannot be nil (use WithValidator)")
	assert.EqualError(t, ErrErrorHandlerNil, "errorHandler cannot be nil")
	assert.EqualError(t, ErrTokenExtractorNil, "tokenExtractor cannot be nil")
	assert.EqualError(t, ErrExclusionURLsEmpty, "exclusion URLs list cannot be empty")
	assert.EqualError(t, ErrLoggerNil, "logger cannot be nil")
}
