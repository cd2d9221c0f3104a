// Package auth signs and verifies session tokens. Expiry is always computed
// here so no caller can mint a long-lived or non-expiring token by omission.
package auth

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/dmitrijs2005/showcase/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/thejerf/abtime"
)

// DefaultTTL is the lifetime of a session token unless configured otherwise.
const DefaultTTL = 24 * time.Hour

var errEmptySecret = errors.New("empty signing secret")

// Claims is the claim set carried by a session token. Values travel as JSON,
// so only JSON-native values (string, bool, float64, []any, map[string]any,
// nil) survive Encode and Decode unchanged. Other Go types come back as
// their JSON decoding: an int is returned as float64, a []string as []any.
type Claims map[string]any

// String returns the claim as a string, or "" if it is absent or not a string.
func (c Claims) String(key string) string {
	s, _ := c[key].(string)
	return s
}

// ExpiresAt returns the exp claim as a time, zero if it is missing.
func (c Claims) ExpiresAt() time.Time {
	exp, err := jwt.MapClaims(c).GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// Codec issues HS256 session tokens with iss and exp injected.
type Codec struct {
	issuer string
	ttl    time.Duration
	clock  abtime.AbstractTime
}

// NewCodec returns a Codec for issuer. A non-positive ttl falls back to
// DefaultTTL and a nil clock to the wall clock.
func NewCodec(issuer string, ttl time.Duration, clock abtime.AbstractTime) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = abtime.NewRealTime()
	}
	return &Codec{issuer: issuer, ttl: ttl, clock: clock}
}

// Encode signs a copy of claims with iss set to the codec issuer and exp set
// to now + ttl. Caller-supplied iss and exp are overwritten.
func (c *Codec) Encode(claims Claims, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", errEmptySecret
	}

	mc := make(jwt.MapClaims, len(claims)+2)
	maps.Copy(mc, claims)
	mc["iss"] = c.issuer
	mc["exp"] = c.clock.Now().Add(c.ttl).Unix()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}

	return token, nil
}

// Decode verifies the signature first and the expiry second. A bad signature
// or an algorithm other than HS256 yields common.ErrInvalidSignature, an
// elapsed exp yields common.ErrTokenExpired, and anything else (malformed,
// missing exp, foreign issuer) yields common.ErrInvalidToken. No claims are
// returned on failure. Claim values are the generic JSON decoding of the
// payload; see Claims.
func (c *Codec) Decode(tokenString string, secret []byte) (Claims, error) {
	mc := jwt.MapClaims{}

	_, err := jwt.ParseWithClaims(tokenString, mc, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.clock.Now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(c.issuer),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, common.ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, common.ErrTokenExpired
		default:
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
		}
	}

	return Claims(mc), nil
}
