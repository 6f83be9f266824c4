package identitygin

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudapi/identity"
	"github.com/cloudapi/identity/jwks"
	"github.com/cloudapi/identity/validator"
)

func newMiddleware(t *testing.T) (*identity.Middleware, string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keySet, err := jwks.NewKeySet(jwks.Key{ID: "k1", PublicKey: &key.PublicKey})
	require.NoError(t, err)
	v, err := validator.New(validator.WithKeySet(keySet))
	require.NoError(t, err)
	m, err := identity.New(identity.WithValidator(v))
	require.NoError(t, err)

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, &validator.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		PreferredUsername: "alice",
	})
	token.Header["kid"] = "k1"
	signed, err := token.SignedString(key)
	require.NoError(t, err)

	return m, signed
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", handlers...)
	return router
}

func TestNewGinMiddleware(t *testing.T) {
	m, token := newMiddleware(t)

	whoami := func(c *gin.Context) {
		claims, err := GetClaims(c, "")
		if err != nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, claims.PreferredUsername)
	}
	router := newRouter(NewGinMiddleware(m), whoami)

	testCases := []struct {
		name       string
		target     string
		header     string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "header token",
			target:     "/",
			header:     "Bearer " + token,
			wantStatus: http.StatusOK,
			wantBody:   "alice",
		},
		{
			name:       "query token",
			target:     "/?access_token=" + token,
			wantStatus: http.StatusOK,
			wantBody:   "alice",
		},
		{
			name:       "anonymous",
			target:     "/",
			wantStatus: http.StatusOK,
			wantBody:   "anonymous",
		},
		{
			name:       "rejected",
			target:     "/",
			header:     "Bearer not-a-jwt",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"id":null,"error":{"message":"Unauthorized","code":401,"data":null},"http_code":401}`,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, testCase.target, nil)
			if testCase.header != "" {
				r.Header.Set("Authorization", testCase.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, r)

			assert.Equal(t, testCase.wantStatus, w.Code)
			assert.Equal(t, testCase.wantBody, w.Body.String())
		})
	}
}

func TestNewGinMiddleware_Options(t *testing.T) {
	m, token := newMiddleware(t)

	var handled error
	router := newRouter(
		NewGinMiddleware(m,
			WithContextKey("actor"),
			WithErrorHandler(func(c *gin.Context, err error) {
				handled = err
				c.Status(http.StatusTeapot)
			}),
		),
		func(c *gin.Context) {
			claims, err := GetClaims(c, "actor")
			require.NoError(t, err)
			c.String(http.StatusOK, claims.Subject)
		},
	)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	assert.Equal(t, "user-1", w.Body.String())

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Basic abc")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.ErrorIs(t, handled, identity.ErrJWTInvalid)
}

func TestRequireActor(t *testing.T) {
	m, token := newMiddleware(t)
	router := newRouter(NewGinMiddleware(m), RequireActor(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestGetClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := GetClaims(c, "")
	assert.ErrorIs(t, err, ErrMissingClaims)

	c.Set(DefaultClaimsKey, "not claims")
	_, err = GetClaims(c, "")
	assert.ErrorIs(t, err, ErrInvalidClaims)

	c.Set(DefaultClaimsKey, &validator.Claims{})
	_, err = GetClaims(c, DefaultClaimsKey)
	assert.NoError(t, err)
}
