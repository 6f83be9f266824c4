package grpc

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/metadata"
)

// AccessTokenKey is the metadata entry read when no authorization entry is
// sent.
const AccessTokenKey = "access_token"

// TokenExtractor extracts a raw token from gRPC metadata. An empty token
// without an error means no credential was sent.
type TokenExtractor func(ctx context.Context) (string, error)

// Extractor errors
var (
	// ErrMultipleAuthHeaders indicates multiple authorization metadata entries were provided.
	ErrMultipleAuthHeaders = errors.New("multiple authorization metadata entries are not allowed")

	// ErrInvalidAuthFormat indicates the authorization metadata is not a bearer credential.
	ErrInvalidAuthFormat = errors.New("invalid authorization metadata format, expected: Bearer <token>")

	// ErrEmptyToken indicates an access_token entry was sent with no value.
	ErrEmptyToken = errors.New("access_token metadata is present but empty")
)

// MetadataTokenExtractor reads the "authorization" entry and falls back to
// "access_token" only when authorization is absent or blank. An access_token
// entry with no value is ErrEmptyToken, not an absent credential.
//
// gRPC normalizes incoming metadata keys to lowercase, so only lowercase keys
// are checked.
func MetadataTokenExtractor(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", nil // No metadata, no token (not an error)
	}

	authHeaders := md.Get("authorization")
	if len(authHeaders) > 1 {
		return "", ErrMultipleAuthHeaders
	}

	if len(authHeaders) == 1 && strings.TrimSpace(authHeaders[0]) != "" {
		parts := strings.Fields(authHeaders[0])
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return "", ErrInvalidAuthFormat
		}
		return parts[1], nil
	}

	if tokens := md.Get(AccessTokenKey); len(tokens) > 0 {
		if tokens[0] == "" {
			return "", ErrEmptyToken
		}
		return tokens[0], nil
	}
	return "", nil
}
