/*
Package validator verifies RS256 bearer tokens against a jwks.KeySet.

	v, err := validator.New(
	    validator.WithKeySet(keys),
	    validator.WithIssuer("https://sso.example.com/auth/realms/demo"),
	    validator.WithAudience("account"),
	)

	claims, err := v.ValidateToken(ctx, token)

The signing key is chosen by the token's "kid" header. A key set with a
single key also accepts tokens without a "kid". WithKeySelection(FirstKey)
always uses the first key of the set instead.

Expiry is always checked and required by default. Issuer and audience are
checked only when configured.

Every error returned by ValidateToken is a *core.ValidationError whose Code
names the failure (token_expired, invalid_signature, jwks_key_not_found, ...).
Claims are never returned together with an error.
*/
package validator
