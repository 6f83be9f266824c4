package identity

import (
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/cloudapi/identity/jwks"
	"github.com/cloudapi/identity/validator"
)

const (
	testIssuer = "https://sso.example.com/auth/realms/demo"
	testKeyID  = "current"
)

type fixture struct {
	key       *rsa.PrivateKey
	validator *validator.Validator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	keySet, err := jwks.NewKeySet(jwks.Key{ID: testKeyID, PublicKey: &key.PublicKey})
	require.NoError(t, err)

	v, err := validator.New(
		validator.WithKeySet(keySet),
		validator.WithIssuer(testIssuer),
	)
	require.NoError(t, err)

	return &fixture{key: key, validator: v}
}

func (f *fixture) token(t *testing.T, mutate func(*validator.Claims)) string {
	t.Helper()

	now := time.Now()
	claims := &validator.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   "f3c9ab40-3a5e-4a44-9d3f-2c1e6f7b8a90",
			Audience:  jwt.ClaimStrings{"account"},
			ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
		},
		PreferredUsername: "alice",
		Email:             "alice@example.com",
	}
	if mutate != nil {
		mutate(claims)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKeyID
	signed, err := token.SignedString(f.key)
	require.NoError(t, err)
	return signed
}

type logEntry struct {
	level string
	msg   string
	args  []any
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *recordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }

// levelOf returns the level of the first entry carrying the given code.
func (l *recordingLogger) levelOf(code string) (string, []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		for i := 0; i+1 < len(e.args); i += 2 {
			if e.args[i] == "code" && e.args[i+1] == code {
				return e.level, e.args
			}
		}
	}
	return "", nil
}

func argValue(args []any, key string) (any, bool) {
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == key {
			return args[i+1], true
		}
	}
	return nil, false
}
