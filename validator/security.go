package validator

import (
	"errors"
	"strings"
)

var (
	// ErrExcessiveTokenDots is returned when a token has more segments than
	// a compact JWS can.
	ErrExcessiveTokenDots = errors.New("token contains excessive dots")

	// ErrTokenTooLarge is returned for tokens over maxTokenSize.
	ErrTokenTooLarge = errors.New("token exceeds maximum size (1MB)")
)

const (
	// maxTokenDots is the number of dots in a compact JWS:
	// header.payload.signature.
	maxTokenDots = 2

	// maxTokenSize rejects oversized input before any decoding.
	maxTokenSize = 1024 * 1024
)

// validateTokenFormat rejects obviously hostile input before it is split or
// base64 decoded.
func validateTokenFormat(tokenString string) error {
	if len(tokenString) > maxTokenSize {
		return ErrTokenTooLarge
	}
	if strings.Count(tokenString, ".") > maxTokenDots {
		return ErrExcessiveTokenDots
	}
	return nil
}
