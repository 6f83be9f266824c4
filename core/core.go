package core

import (
	"context"
	"time"
)

// Validator verifies a raw token and returns its claims.
type Validator[C any] interface {
	ValidateToken(ctx context.Context, token string) (C, error)
}

// Logger defines an optional logging interface for the core middleware.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Core turns a credential candidate into an Outcome. It has no dependency on
// a transport, so HTTP, gin, echo and gRPC adapters share it.
type Core[C any] struct {
	validator Validator[C]
	logger    Logger
}

// CheckToken verifies token and classifies the result:
//   - an empty token is Anonymous and the validator is not called
//   - a verified token is Authenticated
//   - anything else is Rejected, logged at the failure's severity
func (c *Core[C]) CheckToken(ctx context.Context, token string) Outcome[C] {
	if token == "" {
		if c.logger != nil {
			c.logger.Debug("No token provided, continuing as anonymous")
		}
		return Anonymous[C]()
	}

	start := time.Now()
	claims, err := c.validator.ValidateToken(ctx, token)
	duration := time.Since(start)

	if err != nil {
		failure := AsValidationError(err)
		c.report(failure, token, duration)
		return Rejected[C](failure)
	}

	if c.logger != nil {
		c.logger.Debug("Token validated successfully", "duration", duration)
	}
	return Authenticated(claims)
}

// RejectCredential classifies a request whose credential could not be
// extracted, such as an Authorization header with an unknown scheme.
func (c *Core[C]) RejectCredential(err error) Outcome[C] {
	return c.Reject(NewValidationError(ErrorCodeInvalidHeader, "malformed credential", err))
}

// Reject logs failure at its severity and returns it as a Rejected outcome
// without calling the validator.
func (c *Core[C]) Reject(failure *ValidationError) Outcome[C] {
	outcome := Rejected[C](failure)
	c.report(outcome.Failure(), "", 0)
	return outcome
}

// report logs a failure at its severity. The raw token is only included for
// failures that may indicate tampering.
func (c *Core[C]) report(failure *ValidationError, token string, duration time.Duration) {
	if c.logger == nil {
		return
	}

	args := []any{"code", failure.Code, "error", failure}
	if duration > 0 {
		args = append(args, "duration", duration)
	}

	switch failure.Severity() {
	case SeverityDebug:
		c.logger.Debug("Token rejected", args...)
	case SeverityWarn:
		if token != "" {
			args = append(args, "token", token)
		}
		c.logger.Warn("Token rejected, possible tampering", args...)
	default:
		c.logger.Error("Token verification failed", args...)
	}
}
