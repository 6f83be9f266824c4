package identity

import (
	"errors"
	"net/http"
	"strings"
)

// DefaultQueryParameter is the query parameter carrying a raw token when no
// Authorization header is sent.
const DefaultQueryParameter = "access_token"

// ErrInvalidHeader is returned when an Authorization header is present but
// is not a bearer credential.
var ErrInvalidHeader = errors.New("authorization header format must be Bearer {token}")

// ErrEmptyToken is the cause of a rejection for a credential that was sent
// with no value, such as "?access_token=".
var ErrEmptyToken = errors.New("credential is present but empty")

// CredentialSource records where a token was found.
type CredentialSource int

const (
	SourceNone CredentialSource = iota
	SourceHeader
	SourceQuery
	SourceCookie
)

func (s CredentialSource) String() string {
	switch s {
	case SourceHeader:
		return "header"
	case SourceQuery:
		return "query"
	case SourceCookie:
		return "cookie"
	default:
		return "none"
	}
}

// Credential is a token candidate extracted from a request. An empty Token
// means the request carried no credential.
type Credential struct {
	Token  string
	Source CredentialSource
}

// TokenExtractor is a function that takes a request as input and returns
// either a credential or an error. An error should only be returned if an
// attempt to specify a token was found, but the information was somehow
// incorrectly formed. In the case where a token is simply not present, this
// should not be treated as an error. An empty Credential should be returned
// in that case.
type TokenExtractor func(r *http.Request) (Credential, error)

// AuthHeaderTokenExtractor extracts the token from the first Authorization
// header. A blank header counts as absent.
func AuthHeaderTokenExtractor(r *http.Request) (Credential, error) {
	authHeader := r.Header.Get("Authorization")
	if strings.TrimSpace(authHeader) == "" {
		return Credential{}, nil // No error, just no JWT.
	}

	authHeaderParts := strings.Fields(authHeader)
	if len(authHeaderParts) != 2 || !strings.EqualFold(authHeaderParts[0], "bearer") {
		return Credential{}, ErrInvalidHeader
	}

	return Credential{Token: authHeaderParts[1], Source: SourceHeader}, nil
}

// CookieTokenExtractor builds a TokenExtractor that takes a request and
// extracts the token from the cookie using the passed in cookieName.
func CookieTokenExtractor(cookieName string) TokenExtractor {
	return func(r *http.Request) (Credential, error) {
		cookie, err := r.Cookie(cookieName)
		if errors.Is(err, http.ErrNoCookie) {
			return Credential{}, nil // No cookie, then no JWT, so no error.
		}
		if err != nil {
			return Credential{}, err
		}

		return Credential{Token: cookie.Value, Source: SourceCookie}, nil
	}
}

// ParameterTokenExtractor returns a TokenExtractor that extracts
// the token from the specified query string parameter. A parameter that is
// present but empty is still a credential, and fails verification.
func ParameterTokenExtractor(param string) TokenExtractor {
	return func(r *http.Request) (Credential, error) {
		query := r.URL.Query()
		if !query.Has(param) {
			return Credential{}, nil
		}
		return Credential{Token: query.Get(param), Source: SourceQuery}, nil
	}
}

// HeaderOrParameterTokenExtractor returns a TokenExtractor that reads the
// Authorization header and only falls back to the query parameter when no
// header is present. A malformed header is an error; the query parameter is
// not consulted in that case.
func HeaderOrParameterTokenExtractor(param string) TokenExtractor {
	fromQuery := ParameterTokenExtractor(param)
	return func(r *http.Request) (Credential, error) {
		if strings.TrimSpace(r.Header.Get("Authorization")) != "" {
			return AuthHeaderTokenExtractor(r)
		}
		return fromQuery(r)
	}
}

// DefaultTokenExtractor reads the Authorization header, then the
// access_token query parameter.
var DefaultTokenExtractor = HeaderOrParameterTokenExtractor(DefaultQueryParameter)

// MultiTokenExtractor returns a TokenExtractor that runs multiple TokenExtractors
// and takes the first credential that was found, even with an empty token. If a TokenExtractor
// returns an error that error is immediately returned.
func MultiTokenExtractor(extractors ...TokenExtractor) TokenExtractor {
	return func(r *http.Request) (Credential, error) {
		for _, ex := range extractors {
			cred, err := ex(r)
			if err != nil {
				return Credential{}, err
			}

			if cred.Token != "" || cred.Source != SourceNone {
				return cred, nil
			}
		}
		return Credential{}, nil
	}
}
