/*
Package jwks loads the RSA public keys used to verify bearer tokens.

A KeySet is built once, normally at process startup, and is never mutated
afterwards. It is safe to share one *KeySet between any number of goroutines
without locking.

# Loading

Provider fetches the key set from an identity provider exactly once:

	keys, err := jwks.Load(ctx,
	    jwks.WithCustomJWKSURI(certsURL),
	)
	if err != nil {
	    log.Fatalf("failed to load JWKS: %v", err)
	}

Without WithCustomJWKSURI the JWKS URI is discovered from the issuer's
.well-known/openid-configuration document. For Keycloak realms
KeycloakCertsURL builds the certs endpoint directly.

Parse and NewKeySet build a KeySet from bytes or from keys already in memory.

# Admitted keys

Only RSA keys whose "alg" is absent or RS256 are kept. Keycloak publishes an
RSA-OAEP encryption key next to its signing key; it is skipped. Private keys
are reduced to their public half.
*/
package jwks
