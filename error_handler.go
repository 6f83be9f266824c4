package identity

import (
	"errors"
	"net/http"

	"github.com/cloudapi/identity/core"
	"github.com/cloudapi/identity/envelope"
)

// ErrJWTInvalid matches every rejection produced by the middleware.
var ErrJWTInvalid = core.ErrJWTInvalid

// ErrorHandler is called when the middleware rejects a request. The err
// matches ErrJWTInvalid for every credential failure. Handlers must not tell
// the caller why verification failed.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler renders an Unauthorized envelope for credential
// failures and an Internal envelope for anything else.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	if errors.Is(err, ErrJWTInvalid) {
		_ = envelope.Unauthorized[any](nil).Write(w)
		return
	}
	_ = envelope.Internal[any](nil).Write(w)
}
