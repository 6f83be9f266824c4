/*
Package identity resolves who is calling an HTTP API.

Every request is evaluated once and ends in one of three outcomes:

  - Anonymous: no credential was sent. The request continues without claims.
  - Authenticated: a bearer token was sent and verified. Its claims are
    attached to the request context.
  - Rejected: a credential was sent and failed. The caller receives a 401
    envelope and the next handler is never called.

The credential is read from the Authorization header ("Bearer <token>"). When
no header is sent the access_token query parameter is used instead. A header
with any other scheme is rejected even if the query parameter holds a valid
token.

# Usage

	keySet, err := jwks.Load(ctx, jwks.WithCustomJWKSURI(certsURL))
	if err != nil {
	    log.Fatal(err)
	}

	v, err := validator.New(validator.WithKeySet(keySet))
	if err != nil {
	    log.Fatal(err)
	}

	m, err := identity.New(
	    identity.WithValidator(v),
	    identity.WithLogger(identity.NewZapLogger(sugar)),
	)
	if err != nil {
	    log.Fatal(err)
	}

	http.Handle("/", m.Handler(handler))

Handlers read the caller with Actor, or use RequireActor to answer anonymous
requests with a Forbidden envelope:

	func handler(w http.ResponseWriter, r *http.Request) {
	    claims, ok := identity.RequireActor(w, r)
	    if !ok {
	        return
	    }
	    _ = envelope.OK(claims).Write(w)
	}

# Logging

Failures are logged at a severity chosen by their code. Routine failures
such as an expired token are logged at debug. Failures that suggest a forged
or misdirected token are logged at warn together with the raw token. Anything
else is logged at error. Adapters for zap, logrus and zerolog are provided;
a *slog.Logger satisfies Logger directly.
*/
package identity
