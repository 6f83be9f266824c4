// Package identityecho mounts the identity middleware on an echo server.
package identityecho

import (
	"github.com/labstack/echo/v4"

	"github.com/cloudapi/identity"
	"github.com/cloudapi/identity/envelope"
	"github.com/cloudapi/identity/validator"
)

// DefaultClaimsKey is the echo context key the claims are stored under.
const DefaultClaimsKey = "identity"

// echoMiddlewareConfig holds all configuration for the middleware
type echoMiddlewareConfig struct {
	errorHandler func(echo.Context, error) error
	contextKey   string
}

// NewEchoMiddleware adapts m to echo. Rejected requests are answered by the
// error handler and next is not called.
func NewEchoMiddleware(m *identity.Middleware, opts ...Option) echo.MiddlewareFunc {
	config := &echoMiddlewareConfig{
		errorHandler: func(c echo.Context, err error) error {
			m.Reject(c.Response(), c.Request(), err)
			return nil
		},
		contextKey: DefaultClaimsKey,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r, err := m.Authenticate(c.Request())
			if err != nil {
				return config.errorHandler(c, err)
			}

			c.SetRequest(r)
			if claims, ok := identity.Actor(r.Context()); ok {
				c.Set(config.contextKey, claims)
			}

			return next(c)
		}
	}
}

// GetClaims returns the claims stored by NewEchoMiddleware. An empty
// contextKey means DefaultClaimsKey.
func GetClaims(c echo.Context, contextKey string) (*validator.Claims, bool) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}
	claims := c.Get(contextKey)
	if claims == nil {
		return nil, false
	}

	validatedClaims, ok := claims.(*validator.Claims)
	return validatedClaims, ok
}

// RequireActor answers anonymous requests with a Forbidden envelope.
func RequireActor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := identity.Actor(c.Request().Context()); !ok {
			return envelope.Forbidden[any](nil).Write(c.Response())
		}
		return next(c)
	}
}

// Write renders an envelope through echo's response writer.
func Write(c echo.Context, e envelope.Envelope) error {
	return e.Write(c.Response())
}
