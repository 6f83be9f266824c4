package core

// Severity is the operator-facing weight of a credential failure. It decides
// the log level and metric label only; every rejection looks the same to the
// caller.
type Severity int

const (
	// SeverityDebug covers expected, user-scale failures such as expiry.
	SeverityDebug Severity = iota
	// SeverityWarn covers failures that may indicate tampering.
	SeverityWarn
	// SeverityError covers failures that point at a configuration or
	// implementation defect.
	SeverityError
)

// String returns the log level name.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityWarn:
		return "warn"
	default:
		return "error"
	}
}

// SeverityOf maps an error code to its severity. Unknown codes are errors.
func SeverityOf(code string) Severity {
	switch code {
	case ErrorCodeTokenMissing,
		ErrorCodeInvalidHeader,
		ErrorCodeTokenMalformed,
		ErrorCodeTokenExpired:
		return SeverityDebug
	case ErrorCodeTokenNotYetValid,
		ErrorCodeInvalidSignature,
		ErrorCodeInvalidAlgorithm,
		ErrorCodeInvalidIssuer,
		ErrorCodeInvalidAudience,
		ErrorCodeTokenEncoding,
		ErrorCodeJWKSKeyNotFound:
		return SeverityWarn
	default:
		return SeverityError
	}
}

// Classify returns the error code and severity of err.
func Classify(err error) (string, Severity) {
	ve := AsValidationError(err)
	return ve.Code, SeverityOf(ve.Code)
}
