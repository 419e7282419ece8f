package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signed(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("SignedString() error: %v", err)
	}
	return token
}

func TestInspectReadsClaimsWithoutKey(t *testing.T) {
	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	token := signed(t, jwt.RegisteredClaims{
		Subject:   "ada@eduquest.dev",
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(24 * time.Hour)),
	})

	info, err := Inspect("Bearer " + token)
	if err != nil {
		t.Fatalf("Inspect() error: %v", err)
	}
	if info.Subject != "ada@eduquest.dev" || info.Algorithm != "HS256" {
		t.Fatalf("unexpected info %+v", info)
	}
	if !info.IssuedAt.Equal(issued) {
		t.Fatalf("expected iat %v, got %v", issued, info.IssuedAt)
	}
	if info.Expired(issued.Add(time.Hour)) {
		t.Fatal("token should not be expired an hour after issue")
	}
	if !info.Expired(issued.Add(25 * time.Hour)) {
		t.Fatal("token should be expired after a day")
	}
	if got := info.Remaining(issued.Add(23 * time.Hour)); got != time.Hour {
		t.Fatalf("expected 1h remaining, got %v", got)
	}
}

func TestInspectRejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "opaque-token", "a.b.c"} {
		if _, err := Inspect(token); !errors.Is(err, ErrInvalidFormat) {
			t.Fatalf("Inspect(%q) expected ErrInvalidFormat, got %v", token, err)
		}
	}
}
