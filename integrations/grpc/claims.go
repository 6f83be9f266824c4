package grpc

import (
	"context"

	"github.com/cloudapi/identity/core"
	"github.com/cloudapi/identity/validator"
)

// Actor returns the verified claims attached by the interceptor. It reports
// false for anonymous calls.
func Actor(ctx context.Context) (*validator.Claims, bool) {
	identity, ok := core.IdentityFrom[*validator.Claims](ctx)
	if !ok {
		return nil, false
	}
	return identity.Claims()
}

// GetClaims retrieves claims from the context with type safety using generics.
//
//	claims, err := grpc.GetClaims[*validator.Claims](ctx)
//	if err != nil {
//	    return nil, status.Error(codes.PermissionDenied, "anonymous")
//	}
func GetClaims[T any](ctx context.Context) (T, error) {
	return core.GetClaims[T](ctx)
}

// HasClaims checks if verified claims exist in the context.
func HasClaims(ctx context.Context) bool {
	return core.HasClaims(ctx)
}
