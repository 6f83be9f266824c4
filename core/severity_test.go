package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityOf(t *testing.T) {
	tests := []struct {
		code     string
		expected Severity
	}{
		{ErrorCodeTokenMissing, SeverityDebug},
		{ErrorCodeInvalidHeader, SeverityDebug},
		{ErrorCodeTokenMalformed, SeverityDebug},
		{ErrorCodeTokenExpired, SeverityDebug},
		{ErrorCodeTokenNotYetValid, SeverityWarn},
		{ErrorCodeInvalidSignature, SeverityWarn},
		{ErrorCodeInvalidAlgorithm, SeverityWarn},
		{ErrorCodeInvalidIssuer, SeverityWarn},
		{ErrorCodeInvalidAudience, SeverityWarn},
		{ErrorCodeTokenEncoding, SeverityWarn},
		{ErrorCodeJWKSKeyNotFound, SeverityWarn},
		{ErrorCodeInvalidClaims, SeverityError},
		{ErrorCodeVerificationFailed, SeverityError},
		{"something_new", SeverityError},
	}

	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			assert.Equal(t, tc.expected, SeverityOf(tc.code))
		})
	}
}

func TestClassify(t *testing.T) {
	t.Run("wrapped validation error", func(t *testing.T) {
		err := fmt.Errorf("middleware: %w", NewValidationError(ErrorCodeInvalidAudience, "aud", nil))
		code, severity := Classify(err)
		assert.Equal(t, ErrorCodeInvalidAudience, code)
		assert.Equal(t, SeverityWarn, severity)
	})

	t.Run("plain error", func(t *testing.T) {
		code, severity := Classify(errors.New("library bug"))
		assert.Equal(t, ErrorCodeVerificationFailed, code)
		assert.Equal(t, SeverityError, severity)
	})
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "debug", SeverityDebug.String())
	assert.Equal(t, "warn", SeverityWarn.String())
	assert.Equal(t, "error", SeverityError.String())
}

func TestValidationError(t *testing.T) {
	cause := errors.New("crypto/rsa: verification error")
	err := NewValidationError(ErrorCodeInvalidSignature, "signature mismatch", cause)

	assert.Equal(t, "signature mismatch: crypto/rsa: verification error", err.Error())
	assert.ErrorIs(t, err, ErrJWTInvalid)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, SeverityWarn, err.Severity())
	assert.Equal(t, "signature mismatch", NewValidationError("x", "signature mismatch", nil).Error())
}
