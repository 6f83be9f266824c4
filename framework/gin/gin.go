// Package identitygin mounts the identity middleware on a gin engine.
package identitygin

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/cloudapi/identity"
	"github.com/cloudapi/identity/envelope"
	"github.com/cloudapi/identity/validator"
)

const DefaultClaimsKey = "identity"

var (
	ErrMissingClaims = errors.New("no verified claims found in context")
	ErrInvalidClaims = errors.New("invalid claims type")
)

type ginMiddlewareConfig struct {
	errorHandler func(*gin.Context, error)
	contextKey   string
}

// NewGinMiddleware adapts m to gin. Verified claims are stored under the
// context key and the request context carries the identity, so both
// GetClaims and identity.Actor work in later handlers. Rejected requests are
// aborted.
func NewGinMiddleware(m *identity.Middleware, opts ...Option) gin.HandlerFunc {
	config := &ginMiddlewareConfig{
		errorHandler: func(c *gin.Context, err error) {
			m.Reject(c.Writer, c.Request, err)
		},
		contextKey: DefaultClaimsKey,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(c *gin.Context) {
		r, err := m.Authenticate(c.Request)
		if err != nil {
			config.errorHandler(c, err)
			c.Abort()
			return
		}

		c.Request = r
		if claims, ok := identity.Actor(r.Context()); ok {
			c.Set(config.contextKey, claims)
		}

		c.Next()
	}
}

// GetClaims returns the claims stored by NewGinMiddleware. An empty
// contextKey means DefaultClaimsKey.
func GetClaims(c *gin.Context, contextKey string) (*validator.Claims, error) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}
	claims, exists := c.Get(contextKey)
	if !exists {
		return nil, ErrMissingClaims
	}

	validatedClaims, ok := claims.(*validator.Claims)
	if !ok {
		return nil, ErrInvalidClaims
	}

	return validatedClaims, nil
}

// RequireActor aborts anonymous requests with a Forbidden envelope.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := identity.Actor(c.Request.Context()); !ok {
			_ = envelope.Forbidden[any](nil).Write(c.Writer)
			c.Abort()
			return
		}
		c.Next()
	}
}
