package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidFormat is returned for strings that are not JWTs
var ErrInvalidFormat = errors.New("invalid token format")

// TokenInfo is what the client can read from a bearer token without the
// backend's key. It is for display only and never drives session decisions.
type TokenInfo struct {
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Algorithm string
}

// Expired reports whether the token's exp claim is in the past
func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

// Remaining returns the time left until exp, zero when unknown or past
func (t TokenInfo) Remaining(now time.Time) time.Duration {
	if t.ExpiresAt.IsZero() || now.After(t.ExpiresAt) {
		return 0
	}
	return t.ExpiresAt.Sub(now)
}

// Inspect decodes token claims without verifying the signature
func Inspect(token string) (*TokenInfo, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if strings.Count(token, ".") != 2 {
		return nil, ErrInvalidFormat
	}

	claims := &jwt.RegisteredClaims{}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	info := &TokenInfo{
		Subject:   claims.Subject,
		Issuer:    claims.Issuer,
		Algorithm: parsed.Method.Alg(),
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
