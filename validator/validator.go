package validator

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cloudapi/identity/core"
	"github.com/cloudapi/identity/jwks"
)

// KeySelection decides how a token's signing key is picked from the set.
type KeySelection int

const (
	// KeyByID looks the key up by the token's "kid" header.
	KeyByID KeySelection = iota
	// FirstKey always uses the first key in the set.
	FirstKey
)

// Validator verifies tokens. It is immutable after New and safe for
// concurrent use.
type Validator struct {
	keySet             *jwks.KeySet
	keySelection       KeySelection
	issuer             string
	audiences          []string
	allowedClockSkew   time.Duration
	expirationRequired bool
	clock              func() time.Time

	parser *jwt.Parser
}

// New builds a Validator. WithKeySet is required.
func New(opts ...Option) (*Validator, error) {
	v := &Validator{
		keySelection:       KeyByID,
		expirationRequired: true,
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if v.keySet == nil {
		return nil, errors.New("key set is required (use WithKeySet)")
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithLeeway(v.allowedClockSkew),
		jwt.WithIssuedAt(),
	}
	if v.expirationRequired {
		parserOpts = append(parserOpts, jwt.WithExpirationRequired())
	}
	if v.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.issuer))
	}
	if v.clock != nil {
		parserOpts = append(parserOpts, jwt.WithTimeFunc(v.clock))
	}
	v.parser = jwt.NewParser(parserOpts...)

	return v, nil
}

// ValidateToken verifies tokenString and returns its claims. Every error is a
// *core.ValidationError.
func (v *Validator) ValidateToken(_ context.Context, tokenString string) (*Claims, error) {
	if err := validateTokenFormat(tokenString); err != nil {
		return nil, core.NewValidationError(core.ErrorCodeTokenMalformed, "token is malformed", err)
	}

	claims := &Claims{}
	if _, err := v.parser.ParseWithClaims(tokenString, claims, v.keyFunc); err != nil {
		return nil, classify(err)
	}

	if err := v.validateAudience(claims); err != nil {
		return nil, err
	}

	return claims, nil
}

func (v *Validator) keyFunc(token *jwt.Token) (any, error) {
	if v.keySelection == FirstKey {
		key, ok := v.keySet.First()
		if !ok {
			return nil, jwks.ErrEmptyKeySet
		}
		return key.PublicKey, nil
	}

	kid, _ := token.Header["kid"].(string)
	if kid == "" && v.keySet.Len() == 1 {
		key, _ := v.keySet.First()
		return key.PublicKey, nil
	}

	pub, ok := v.keySet.Lookup(kid)
	if !ok {
		return nil, fmt.Errorf("%w: %q", jwks.ErrKeyNotFound, kid)
	}
	return pub, nil
}

func (v *Validator) validateAudience(claims *Claims) error {
	if len(v.audiences) == 0 {
		return nil
	}
	for _, aud := range claims.Audience {
		if slices.Contains(v.audiences, aud) {
			return nil
		}
	}
	return core.NewValidationError(
		core.ErrorCodeInvalidAudience,
		"token audience does not match",
		jwt.ErrTokenInvalidAudience,
	)
}

// classify maps parser errors to failure codes. Claim failures are checked
// in the order expiry, immaturity, issuer, audience so a token failing
// several checks is reported by the first.
func classify(err error) *core.ValidationError {
	var corrupt base64.CorruptInputError

	switch {
	case errors.Is(err, jwks.ErrKeyNotFound):
		return core.NewValidationError(core.ErrorCodeJWKSKeyNotFound, "no key matches token", err)
	case errors.Is(err, jwt.ErrTokenMalformed) && errors.As(err, &corrupt):
		return core.NewValidationError(core.ErrorCodeTokenEncoding, "token is not valid base64url", err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return core.NewValidationError(core.ErrorCodeTokenMalformed, "token is malformed", err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return core.NewValidationError(core.ErrorCodeTokenExpired, "token has expired", err)
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return core.NewValidationError(core.ErrorCodeTokenNotYetValid, "token is not valid yet", err)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return core.NewValidationError(core.ErrorCodeInvalidIssuer, "token issuer does not match", err)
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return core.NewValidationError(core.ErrorCodeInvalidAudience, "token audience does not match", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return core.NewValidationError(core.ErrorCodeInvalidSignature, "token signature is invalid", err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return core.NewValidationError(core.ErrorCodeInvalidAlgorithm, "token signing method is unusable", err)
	case errors.Is(err, jwt.ErrTokenInvalidClaims):
		return core.NewValidationError(core.ErrorCodeInvalidClaims, "token claims are invalid", err)
	default:
		return core.NewValidationError(core.ErrorCodeVerificationFailed, "token verification failed", err)
	}
}
