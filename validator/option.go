package validator

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/cloudapi/identity/jwks"
)

// Option is how options for the Validator are set up.
// Options return errors to enable validation during construction.
type Option func(*Validator) error

// WithKeySet sets the keys tokens are verified against. Required.
func WithKeySet(keySet *jwks.KeySet) Option {
	return func(v *Validator) error {
		if keySet == nil || keySet.Len() == 0 {
			return errors.New("key set cannot be empty")
		}
		v.keySet = keySet
		return nil
	}
}

// WithKeySelection sets how the signing key is chosen.
//
// Default: KeyByID
func WithKeySelection(selection KeySelection) Option {
	return func(v *Validator) error {
		if selection != KeyByID && selection != FirstKey {
			return fmt.Errorf("unknown key selection: %d", selection)
		}
		v.keySelection = selection
		return nil
	}
}

// WithIssuer sets the expected issuer claim (iss).
func WithIssuer(issuerURL string) Option {
	return func(v *Validator) error {
		if issuerURL == "" {
			return errors.New("issuer cannot be empty")
		}
		if _, err := url.Parse(issuerURL); err != nil {
			return fmt.Errorf("invalid issuer URL: %w", err)
		}
		v.issuer = issuerURL
		return nil
	}
}

// WithAudience sets a single expected audience claim (aud).
func WithAudience(audience string) Option {
	return func(v *Validator) error {
		if audience == "" {
			return errors.New("audience cannot be empty")
		}
		v.audiences = []string{audience}
		return nil
	}
}

// WithAudiences sets the accepted audiences. A token matches when any of its
// aud values is in the list.
func WithAudiences(audiences []string) Option {
	return func(v *Validator) error {
		if len(audiences) == 0 {
			return errors.New("audiences cannot be empty")
		}
		for i, aud := range audiences {
			if aud == "" {
				return fmt.Errorf("audience at index %d cannot be empty", i)
			}
		}
		v.audiences = append([]string(nil), audiences...)
		return nil
	}
}

// WithAllowedClockSkew sets the leeway applied to exp, nbf and iat.
func WithAllowedClockSkew(skew time.Duration) Option {
	return func(v *Validator) error {
		if skew < 0 {
			return errors.New("clock skew cannot be negative")
		}
		v.allowedClockSkew = skew
		return nil
	}
}

// WithExpirationRequired sets whether tokens without exp are rejected.
//
// Default: true
func WithExpirationRequired(required bool) Option {
	return func(v *Validator) error {
		v.expirationRequired = required
		return nil
	}
}

// WithClock overrides the time source used for claim checks.
func WithClock(clock func() time.Time) Option {
	return func(v *Validator) error {
		if clock == nil {
			return errors.New("clock cannot be nil")
		}
		v.clock = clock
		return nil
	}
}
