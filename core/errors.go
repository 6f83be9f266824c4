package core

import "errors"

// Sentinel errors for credential checks.
var (
	// ErrJWTMissing is returned when a token is required but absent.
	ErrJWTMissing = errors.New("jwt missing")

	// ErrJWTInvalid is returned when the JWT is invalid.
	// This is typically wrapped with more specific validation errors.
	ErrJWTInvalid = errors.New("jwt invalid")

	// ErrClaimsNotFound is returned when claims cannot be retrieved from context.
	ErrClaimsNotFound = errors.New("claims not found in context")
)

// ValidationError wraps credential failures with a machine-readable code.
// The code selects the log severity; it is never sent to the caller.
type ValidationError struct {
	// Code is a machine-readable error code (e.g., "token_expired", "invalid_signature")
	Code string

	// Message is a human-readable error message
	Message string

	// Details contains the underlying error
	Details error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Details != nil {
		return e.Message + ": " + e.Details.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ValidationError) Unwrap() error {
	return e.Details
}

// Is allows the error to be compared with ErrJWTInvalid.
func (e *ValidationError) Is(target error) bool {
	return target == ErrJWTInvalid
}

// Severity returns the log severity of the failure.
func (e *ValidationError) Severity() Severity {
	return SeverityOf(e.Code)
}

// Error codes.
const (
	ErrorCodeTokenMissing       = "token_missing"
	ErrorCodeInvalidHeader      = "invalid_header"
	ErrorCodeTokenMalformed     = "token_malformed"
	ErrorCodeTokenEncoding      = "token_encoding"
	ErrorCodeTokenExpired       = "token_expired"
	ErrorCodeTokenNotYetValid   = "token_not_yet_valid"
	ErrorCodeInvalidSignature   = "invalid_signature"
	ErrorCodeInvalidAlgorithm   = "invalid_algorithm"
	ErrorCodeInvalidIssuer      = "invalid_issuer"
	ErrorCodeInvalidAudience    = "invalid_audience"
	ErrorCodeInvalidClaims      = "invalid_claims"
	ErrorCodeJWKSKeyNotFound    = "jwks_key_not_found"
	ErrorCodeVerificationFailed = "verification_failed"
	ErrorCodeValidatorNotSet    = "validator_not_set"
	ErrorCodeClaimsNotFound     = "claims_not_found"
)

// NewValidationError creates a new ValidationError with the given code and message.
func NewValidationError(code, message string, details error) *ValidationError {
	return &ValidationError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// AsValidationError returns err as a *ValidationError, wrapping anything
// else under ErrorCodeVerificationFailed.
func AsValidationError(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return NewValidationError(ErrorCodeVerificationFailed, "token verification failed", err)
}
