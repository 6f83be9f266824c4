/*
Package core holds the transport-independent half of request authentication.

Core.CheckToken takes the credential candidate extracted by an adapter and
produces exactly one Outcome:

	Anonymous           no credential was supplied
	Authenticated(C)    the credential verified; C is the claims type
	Rejected(failure)   the credential was present but failed

Every failure is a *ValidationError whose Code selects a Severity:

	debug   token_malformed, token_expired, invalid_header
	warn    token_not_yet_valid, invalid_signature, invalid_algorithm,
	        invalid_issuer, invalid_audience, token_encoding,
	        jwks_key_not_found (the raw token is logged)
	error   everything else

Severity only affects logs and metrics. Adapters must answer every rejection
the same way so callers cannot probe why verification failed.

An accepted outcome becomes an Identity attached to the request context with
SetIdentity and read back with IdentityFrom or GetClaims.
*/
package core
