package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudapi/identity/core"
	"github.com/cloudapi/identity/validator"
)

func TestActor(t *testing.T) {
	claims := &validator.Claims{PreferredUsername: "alice"}

	got, ok := Actor(core.SetIdentity(context.Background(), core.NewIdentity(claims)))
	require.True(t, ok)
	assert.Same(t, claims, got)

	_, ok = Actor(core.SetIdentity(context.Background(), core.AnonymousIdentity[*validator.Claims]()))
	assert.False(t, ok)

	_, ok = Actor(context.Background())
	assert.False(t, ok)
}

func TestGetClaims(t *testing.T) {
	claims := &validator.Claims{PreferredUsername: "alice"}
	ctx := core.SetIdentity(context.Background(), core.NewIdentity(claims))

	got, err := GetClaims[*validator.Claims](ctx)
	require.NoError(t, err)
	assert.Same(t, claims, got)
	assert.True(t, HasClaims(ctx))

	_, err = GetClaims[*validator.Claims](context.Background())
	assert.ErrorIs(t, err, core.ErrClaimsNotFound)
}

func TestRequireAuthenticated(t *testing.T) {
	handler := RequireAuthenticated(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("anonymous is forbidden", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r = r.WithContext(core.SetIdentity(r.Context(), core.AnonymousIdentity[*validator.Claims]()))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"id":null,"error":{"message":"Forbidden","code":403,"data":null},"http_code":403}`, w.Body.String())
	})

	t.Run("authenticated passes", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r = r.WithContext(core.SetIdentity(r.Context(), core.NewIdentity(&validator.Claims{})))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
