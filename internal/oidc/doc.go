/*
Package oidc implements the part of OpenID Connect Discovery needed to find
an issuer's JWKS endpoint.

The discovery document is fetched from

	{issuer}/.well-known/openid-configuration

and its "issuer" field must match the issuer it was fetched for, so a
misconfigured or hostile metadata endpoint cannot redirect key loading to a
different provider. For a Keycloak realm the issuer is

	{auth-server}/auth/realms/{realm}
*/
package oidc
