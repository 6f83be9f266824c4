package jwks

import (
	"fmt"
	"net/http"
	"net/url"
)

// ProviderOption is how options for the Provider are set up.
type ProviderOption func(*Provider) error

// WithIssuerURL sets the OIDC issuer URL used for JWKS discovery.
func WithIssuerURL(issuerURL *url.URL) ProviderOption {
	return func(p *Provider) error {
		if issuerURL == nil {
			return fmt.Errorf("issuer URL cannot be nil")
		}
		p.IssuerURL = issuerURL
		return nil
	}
}

// WithCustomJWKSURI sets the JWKS URI directly, skipping discovery.
func WithCustomJWKSURI(jwksURI *url.URL) ProviderOption {
	return func(p *Provider) error {
		if jwksURI == nil {
			return fmt.Errorf("custom JWKS URI cannot be nil")
		}
		p.CustomJWKSURI = jwksURI
		return nil
	}
}

// WithCustomClient sets a custom HTTP client for the Provider.
// If not specified, a default client with 30s timeout is used.
func WithCustomClient(c *http.Client) ProviderOption {
	return func(p *Provider) error {
		if c == nil {
			return fmt.Errorf("HTTP client cannot be nil")
		}
		p.Client = c
		return nil
	}
}
