package utils // package utils provides token creation, parsing and hashing helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token scopes. Every JWT this service issues carries a scope claim
// naming what the token is good for; verification rejects a token
// presented outside its scope, so a refresh token can never authorize
// an API call and vice versa.
const (
	ScopeAccess  = "access_token"
	ScopeRefresh = "refresh_token"
	ScopeEmail   = "email_token"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed token, expiry, or a scope mismatch. Callers treat all of
// them as unauthorized and must not leak which check failed.
var ErrInvalidToken = errors.New("invalid token")

// SignedToken is a serialized JWT along with its expiry.
type SignedToken struct {
	Token string    // the signed JWT string
	Exp   time.Time // UTC expiration time
}

// NewAccessToken builds and signs a short-lived HS256 JWT whose
// subject is the user's email. Access tokens authorize API requests
// via the Authorization header.
func NewAccessToken(secret, email string, ttlMin int) (SignedToken, error) {
	return newToken(secret, email, ScopeAccess, time.Duration(ttlMin)*time.Minute)
}

// NewRefreshToken builds the long-lived counterpart exchanged for new
// token pairs. The issued value is also stored on the user row so a
// rotation invalidates every previously issued refresh token.
func NewRefreshToken(secret, email string, ttlDays int) (SignedToken, error) {
	return newToken(secret, email, ScopeRefresh, time.Duration(ttlDays)*24*time.Hour)
}

// NewEmailToken signs the token embedded in the confirmation link sent
// after signup. Seven days matches the mail pipeline's retry horizon.
func NewEmailToken(secret, email string) (SignedToken, error) {
	return newToken(secret, email, ScopeEmail, 7*24*time.Hour)
}

func newToken(secret, email, scope string, ttl time.Duration) (SignedToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":   email,
		"scope": scope,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SignedToken{}, err
	}
	return SignedToken{Token: signed, Exp: exp}, nil
}

// ParseToken verifies the signature, expiry and scope of a raw JWT and
// returns the subject email. Any failure yields ErrInvalidToken.
func ParseToken(secret, raw, wantScope string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	scope, _ := claims["scope"].(string)
	if scope != wantScope {
		return "", ErrInvalidToken
	}
	email, _ := claims["sub"].(string)
	if email == "" {
		return "", ErrInvalidToken
	}
	return email, nil
}
