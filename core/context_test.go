package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityContext(t *testing.T) {
	t.Run("authenticated identity round trip", func(t *testing.T) {
		expected := &testClaims{Subject: "user123"}
		ctx := SetIdentity(context.Background(), NewIdentity(expected))

		identity, ok := IdentityFrom[*testClaims](ctx)
		require.True(t, ok)
		assert.True(t, identity.Authenticated())

		claims, err := GetClaims[*testClaims](ctx)
		require.NoError(t, err)
		assert.Same(t, expected, claims)
		assert.True(t, HasClaims(ctx))
	})

	t.Run("anonymous identity has no claims", func(t *testing.T) {
		ctx := SetIdentity(context.Background(), AnonymousIdentity[*testClaims]())

		identity, ok := IdentityFrom[*testClaims](ctx)
		require.True(t, ok)
		assert.False(t, identity.Authenticated())

		_, err := GetClaims[*testClaims](ctx)
		assert.ErrorIs(t, err, ErrClaimsNotFound)
		assert.False(t, HasClaims(ctx))
	})

	t.Run("no identity attached", func(t *testing.T) {
		_, ok := IdentityFrom[*testClaims](context.Background())
		assert.False(t, ok)

		_, err := GetClaims[*testClaims](context.Background())
		assert.ErrorIs(t, err, ErrClaimsNotFound)
		assert.False(t, HasClaims(context.Background()))
	})

	t.Run("wrong claims type", func(t *testing.T) {
		ctx := SetIdentity(context.Background(), NewIdentity(map[string]any{"sub": "x"}))

		_, err := GetClaims[*testClaims](ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "claims type assertion failed")

		_, ok := IdentityFrom[*testClaims](ctx)
		assert.False(t, ok)
		assert.True(t, HasClaims(ctx))
	})
}

func TestOutcome(t *testing.T) {
	t.Run("authenticated converts to identity", func(t *testing.T) {
		o := Authenticated(&testClaims{Subject: "s"})
		identity, ok := o.Identity()
		require.True(t, ok)
		assert.True(t, identity.Authenticated())
	})

	t.Run("anonymous converts to identity", func(t *testing.T) {
		identity, ok := Anonymous[*testClaims]().Identity()
		require.True(t, ok)
		assert.False(t, identity.Authenticated())
	})

	t.Run("rejected has no identity", func(t *testing.T) {
		o := Rejected[*testClaims](NewValidationError(ErrorCodeTokenExpired, "expired", nil))
		_, ok := o.Identity()
		assert.False(t, ok)
	})

	t.Run("rejected with nil failure stays rejected", func(t *testing.T) {
		o := Rejected[*testClaims](nil)
		require.True(t, o.IsRejected())
		assert.Equal(t, ErrorCodeVerificationFailed, o.Failure().Code)
	})

	t.Run("kind strings", func(t *testing.T) {
		assert.Equal(t, "anonymous", KindAnonymous.String())
		assert.Equal(t, "authenticated", KindAuthenticated.String())
		assert.Equal(t, "rejected", KindRejected.String())
		assert.Equal(t, "OutcomeKind(9)", OutcomeKind(9).String())
	})
}
