package core

import "context"

// contextKey is an unexported type for context keys to prevent collisions.
// Using an unexported type ensures that only this package can create context keys,
// eliminating the risk of collisions with other packages.
type contextKey int

const (
	identityKey contextKey = iota
)

// Identity records whether, and as whom, the caller was authenticated.
// The zero value is anonymous.
type Identity[C any] struct {
	claims        C
	authenticated bool
}

// NewIdentity returns an authenticated identity.
func NewIdentity[C any](claims C) Identity[C] {
	return Identity[C]{claims: claims, authenticated: true}
}

// AnonymousIdentity returns the identity of a request without credentials.
func AnonymousIdentity[C any]() Identity[C] {
	return Identity[C]{}
}

// Claims returns the verified claims, if any.
func (i Identity[C]) Claims() (C, bool) {
	return i.claims, i.authenticated
}

// Authenticated reports whether a verified credential is attached.
func (i Identity[C]) Authenticated() bool {
	return i.authenticated
}

// SetIdentity stores the identity in the context.
// This is a helper function for adapters to attach the outcome of validation.
func SetIdentity[C any](ctx context.Context, identity Identity[C]) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFrom returns the identity attached to ctx. It reports false when
// no identity of type C was attached.
func IdentityFrom[C any](ctx context.Context) (Identity[C], bool) {
	identity, ok := ctx.Value(identityKey).(Identity[C])
	return identity, ok
}

// GetClaims retrieves claims from the context with type safety using generics.
//
// It returns ErrClaimsNotFound when the request is anonymous or when no
// identity was attached, and a claims_not_found ValidationError when the
// attached identity holds a different claims type.
//
//	claims, err := core.GetClaims[*validator.Claims](ctx)
//	if err != nil {
//	    return err
//	}
func GetClaims[C any](ctx context.Context) (C, error) {
	var zero C

	val := ctx.Value(identityKey)
	if val == nil {
		return zero, ErrClaimsNotFound
	}

	identity, ok := val.(Identity[C])
	if !ok {
		return zero, NewValidationError(
			ErrorCodeClaimsNotFound,
			"claims type assertion failed",
			nil,
		)
	}

	claims, ok := identity.Claims()
	if !ok {
		return zero, ErrClaimsNotFound
	}
	return claims, nil
}

// HasClaims reports whether an authenticated identity is attached, whatever
// its claims type.
func HasClaims(ctx context.Context) bool {
	identity, ok := ctx.Value(identityKey).(interface{ Authenticated() bool })
	return ok && identity.Authenticated()
}
