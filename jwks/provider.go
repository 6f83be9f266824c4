package jwks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"

	"github.com/cloudapi/identity/internal/oidc"
)

// maxJWKSSize bounds the JWKS document read from the network. Real key sets
// are a few kilobytes.
const maxJWKSSize = 1 << 20

// Provider fetches a KeySet from an identity provider. It holds no state
// between calls and is meant to be called once at startup.
type Provider struct {
	IssuerURL     *url.URL // Required unless CustomJWKSURI is set.
	CustomJWKSURI *url.URL // Optional.
	Client        *http.Client
}

// NewProvider builds and returns a new *Provider.
//
// Either WithIssuerURL (discovery) or WithCustomJWKSURI must be given.
func NewProvider(opts ...ProviderOption) (*Provider, error) {
	p := &Provider{
		Client: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if p.IssuerURL == nil && p.CustomJWKSURI == nil {
		return nil, fmt.Errorf("issuer URL or custom JWKS URI is required (use WithIssuerURL or WithCustomJWKSURI)")
	}

	return p, nil
}

// Load is shorthand for NewProvider followed by Fetch.
func Load(ctx context.Context, opts ...ProviderOption) (*KeySet, error) {
	p, err := NewProvider(opts...)
	if err != nil {
		return nil, err
	}
	return p.Fetch(ctx)
}

// JWKSURI resolves the URI keys are fetched from, running discovery when no
// custom URI is configured.
func (p *Provider) JWKSURI(ctx context.Context) (*url.URL, error) {
	if p.CustomJWKSURI != nil {
		return p.CustomJWKSURI, nil
	}

	wkEndpoints, err := oidc.GetWellKnownEndpointsFromIssuerURL(
		ctx,
		p.Client,
		*p.IssuerURL,
		p.IssuerURL.String(),
	)
	if err != nil {
		return nil, err
	}

	jwksURI, err := url.Parse(wkEndpoints.JWKSURI)
	if err != nil {
		return nil, fmt.Errorf("could not parse JWKS URI from well known endpoints: %w", err)
	}
	return jwksURI, nil
}

// Fetch downloads and parses the key set.
func (p *Provider) Fetch(ctx context.Context) (*KeySet, error) {
	jwksURI, err := p.JWKSURI(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jwksURI.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("could not fetch JWKS: request returned status %d, expected 200", resp.StatusCode)
	}

	set, err := jwk.ParseReader(io.LimitReader(resp.Body, maxJWKSSize))
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWKS: %w", err)
	}

	return FromSet(set)
}

// KeycloakIssuerURL returns the issuer of a Keycloak realm.
func KeycloakIssuerURL(authServerURL, realm string) string {
	return strings.TrimRight(authServerURL, "/") + "/auth/realms/" + url.PathEscape(realm)
}

// KeycloakCertsURL returns the certs endpoint of a Keycloak realm.
func KeycloakCertsURL(authServerURL, realm string) string {
	return KeycloakIssuerURL(authServerURL, realm) + "/protocol/openid-connect/certs"
}
