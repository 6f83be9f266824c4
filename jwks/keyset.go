package jwks

import (
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/lestrrat-go/jwx/v3/jwk"
)

// AlgorithmRS256 is the only signing algorithm admitted into a KeySet.
const AlgorithmRS256 = "RS256"

var (
	// ErrEmptyKeySet is returned when no usable signing key was found.
	ErrEmptyKeySet = errors.New("key set contains no RS256 signing keys")

	// ErrKeyNotFound is returned when no key matches a token's key id.
	ErrKeyNotFound = errors.New("no key matches the token key id")
)

// Key is a single RSA verification key.
type Key struct {
	ID        string
	Algorithm string
	PublicKey *rsa.PublicKey
}

// KeySet is an ordered, immutable collection of RSA public keys.
type KeySet struct {
	keys []Key
	byID map[string]*rsa.PublicKey
}

// NewKeySet builds a KeySet from keys in the given order. Keys without an
// RSA public key are rejected. A duplicated id keeps its first occurrence
// for Lookup.
func NewKeySet(keys ...Key) (*KeySet, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyKeySet
	}

	s := &KeySet{
		keys: make([]Key, 0, len(keys)),
		byID: make(map[string]*rsa.PublicKey, len(keys)),
	}
	for i, k := range keys {
		if k.PublicKey == nil {
			return nil, fmt.Errorf("key %d (%q) has no public key material", i, k.ID)
		}
		if k.Algorithm == "" {
			k.Algorithm = AlgorithmRS256
		}
		s.keys = append(s.keys, k)
		if k.ID != "" {
			if _, dup := s.byID[k.ID]; !dup {
				s.byID[k.ID] = k.PublicKey
			}
		}
	}
	return s, nil
}

// Parse builds a KeySet from a JWKS JSON document.
func Parse(data []byte) (*KeySet, error) {
	set, err := jwk.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWKS: %w", err)
	}
	return FromSet(set)
}

// FromSet converts a jwx key set, keeping only RS256 capable RSA keys.
func FromSet(set jwk.Set) (*KeySet, error) {
	if set == nil {
		return nil, ErrEmptyKeySet
	}

	var keys []Key
	for i := 0; i < set.Len(); i++ {
		jwkKey, ok := set.Key(i)
		if !ok {
			continue
		}

		key, ok, err := convertKey(jwkKey)
		if err != nil {
			return nil, err
		}
		if ok {
			keys = append(keys, key)
		}
	}

	return NewKeySet(keys...)
}

func convertKey(jwkKey jwk.Key) (Key, bool, error) {
	var key Key
	if kid, ok := jwkKey.KeyID(); ok {
		key.ID = kid
	}
	if alg, ok := jwkKey.Algorithm(); ok {
		key.Algorithm = alg.String()
	}
	if key.Algorithm != "" && key.Algorithm != AlgorithmRS256 {
		return Key{}, false, nil
	}

	pub, err := jwk.PublicKeyOf(jwkKey)
	if err != nil {
		return Key{}, false, fmt.Errorf("failed to derive public key %q: %w", key.ID, err)
	}

	var raw any
	if err := jwk.Export(pub, &raw); err != nil {
		return Key{}, false, fmt.Errorf("failed to export key %q: %w", key.ID, err)
	}

	rsaKey, ok := raw.(*rsa.PublicKey)
	if !ok {
		return Key{}, false, nil
	}
	key.PublicKey = rsaKey
	return key, true, nil
}

// Len returns the number of keys.
func (s *KeySet) Len() int {
	return len(s.keys)
}

// Keys returns a copy of the keys in load order.
func (s *KeySet) Keys() []Key {
	out := make([]Key, len(s.keys))
	copy(out, s.keys)
	return out
}

// First returns the first key in load order.
func (s *KeySet) First() (Key, bool) {
	if len(s.keys) == 0 {
		return Key{}, false
	}
	return s.keys[0], true
}

// Lookup returns the public key registered under kid.
func (s *KeySet) Lookup(kid string) (*rsa.PublicKey, bool) {
	key, ok := s.byID[kid]
	return key, ok
}
