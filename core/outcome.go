package core

import "fmt"

// OutcomeKind tags an Outcome.
type OutcomeKind int

const (
	// KindAnonymous means the request carried no credential.
	KindAnonymous OutcomeKind = iota
	// KindAuthenticated means a credential was present and verified.
	KindAuthenticated
	// KindRejected means a credential was present and failed.
	KindRejected
)

func (k OutcomeKind) String() string {
	switch k {
	case KindAnonymous:
		return "anonymous"
	case KindAuthenticated:
		return "authenticated"
	case KindRejected:
		return "rejected"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the result of evaluating one request's credential. Exactly one
// of the three kinds is set; use the constructors to build one.
type Outcome[C any] struct {
	kind    OutcomeKind
	claims  C
	failure *ValidationError
}

// Anonymous builds an outcome for a request without a credential.
func Anonymous[C any]() Outcome[C] {
	return Outcome[C]{kind: KindAnonymous}
}

// Authenticated builds an outcome carrying verified claims.
func Authenticated[C any](claims C) Outcome[C] {
	return Outcome[C]{kind: KindAuthenticated, claims: claims}
}

// Rejected builds an outcome carrying the failure. A nil failure is
// replaced by a generic verification failure so the outcome stays rejected.
func Rejected[C any](failure *ValidationError) Outcome[C] {
	if failure == nil {
		failure = NewValidationError(ErrorCodeVerificationFailed, "token verification failed", nil)
	}
	return Outcome[C]{kind: KindRejected, failure: failure}
}

// Kind returns the outcome tag.
func (o Outcome[C]) Kind() OutcomeKind { return o.kind }

// IsRejected reports whether the credential failed.
func (o Outcome[C]) IsRejected() bool { return o.kind == KindRejected }

// Claims returns the verified claims of an authenticated outcome.
func (o Outcome[C]) Claims() (C, bool) {
	return o.claims, o.kind == KindAuthenticated
}

// Failure returns the failure of a rejected outcome, nil otherwise.
func (o Outcome[C]) Failure() *ValidationError {
	return o.failure
}

// Err returns the failure as an error, nil unless rejected.
func (o Outcome[C]) Err() error {
	if o.failure == nil {
		return nil
	}
	return o.failure
}

// Identity converts an accepted outcome into the identity attached to the
// request. It reports false for rejected outcomes.
func (o Outcome[C]) Identity() (Identity[C], bool) {
	switch o.kind {
	case KindAuthenticated:
		return NewIdentity(o.claims), true
	case KindAnonymous:
		return AnonymousIdentity[C](), true
	default:
		return Identity[C]{}, false
	}
}
