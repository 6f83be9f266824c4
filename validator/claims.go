package validator

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// RealmAccess holds realm-level or client-level role names.
type RealmAccess struct {
	Roles []string `json:"roles,omitempty"`
}

// Claims is the payload of a verified Keycloak access token.
type Claims struct {
	jwt.RegisteredClaims

	Type            string                 `json:"typ,omitempty"`
	AuthorizedParty string                 `json:"azp,omitempty"`
	AuthTime        *jwt.NumericDate       `json:"auth_time,omitempty"`
	Nonce           string                 `json:"nonce,omitempty"`
	SessionState    string                 `json:"session_state,omitempty"`
	SID             string                 `json:"sid,omitempty"`
	ACR             string                 `json:"acr,omitempty"`
	AllowedOrigins  []string               `json:"allowed-origins,omitempty"`
	RealmAccess     RealmAccess            `json:"realm_access"`
	ResourceAccess  map[string]RealmAccess `json:"resource_access,omitempty"`
	Scope           string                 `json:"scope,omitempty"`

	EmailVerified     bool   `json:"email_verified,omitempty"`
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	GivenName         string `json:"given_name,omitempty"`
	FamilyName        string `json:"family_name,omitempty"`
	Email             string `json:"email,omitempty"`
}

// HasRealmRole reports whether role is one of the realm roles.
func (c *Claims) HasRealmRole(role string) bool {
	return slices.Contains(c.RealmAccess.Roles, role)
}

// HasClientRole reports whether role is granted for client.
func (c *Claims) HasClientRole(client, role string) bool {
	access, ok := c.ResourceAccess[client]
	return ok && slices.Contains(access.Roles, role)
}

// SessionID returns the session identifier. Newer Keycloak releases use
// "sid", older ones "session_state".
func (c *Claims) SessionID() string {
	if c.SID != "" {
		return c.SID
	}
	return c.SessionState
}
