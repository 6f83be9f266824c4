package identity

import (
	"context"
	"net/http"

	"github.com/cloudapi/identity/core"
	"github.com/cloudapi/identity/envelope"
	"github.com/cloudapi/identity/validator"
)

// Actor returns the verified claims attached by the middleware. It reports
// false for anonymous requests and for requests the middleware never saw.
func Actor(ctx context.Context) (*validator.Claims, bool) {
	identity, ok := core.IdentityFrom[*validator.Claims](ctx)
	if !ok {
		return nil, false
	}
	return identity.Claims()
}

// GetClaims retrieves claims from the context with type safety using generics.
//
//	claims, err := identity.GetClaims[*validator.Claims](r.Context())
//	if err != nil {
//	    http.Error(w, "failed to get claims", http.StatusInternalServerError)
//	    return
//	}
func GetClaims[T any](ctx context.Context) (T, error) {
	return core.GetClaims[T](ctx)
}

// HasClaims checks if verified claims exist in the context.
func HasClaims(ctx context.Context) bool {
	return core.HasClaims(ctx)
}

// RequireActor returns the request's claims, or writes a Forbidden envelope
// and reports false when the request is anonymous.
func RequireActor(w http.ResponseWriter, r *http.Request) (*validator.Claims, bool) {
	claims, ok := Actor(r.Context())
	if !ok {
		_ = envelope.Forbidden[any](nil).Write(w)
		return nil, false
	}
	return claims, true
}

// RequireAuthenticated answers anonymous requests with Forbidden. It must be
// mounted behind Middleware.Handler.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := RequireActor(w, r); !ok {
			return
		}
		next.ServeHTTP(w, r)
	})
}
