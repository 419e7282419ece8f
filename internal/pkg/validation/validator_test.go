package validation

import (
	"errors"
	"testing"

	"github.com/eduquest/client/internal/app/models/dto"
	"github.com/eduquest/client/internal/pkg/apperrors"
)

func TestSignupRules(t *testing.T) {
	err := Struct(dto.SignupRequest{Name: "A", Email: "not-an-email", Password: "12345"})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}

	fields := Fields(err)
	want := map[string]string{
		"name":     "Name must be at least 2 characters",
		"email":    "Invalid email address",
		"password": "Password must be at least 6 characters",
	}
	for field, msg := range want {
		if fields[field] != msg {
			t.Fatalf("field %s: got %q, want %q", field, fields[field], msg)
		}
	}

	if err := Struct(dto.SignupRequest{Name: "Ada", Email: "ada@eduquest.dev", Password: "secret"}); err != nil {
		t.Fatalf("Struct() error: %v", err)
	}
}

func TestLoginRules(t *testing.T) {
	fields := Fields(Struct(dto.LoginRequest{Email: "ada@eduquest.dev"}))
	if fields["password"] != "Password is required" {
		t.Fatalf("expected password required, got %v", fields)
	}
	if got := fields.Fields(); len(got) != 1 || got[0] != "password" {
		t.Fatalf("expected only password to fail, got %v", got)
	}
}

func TestProgressBounds(t *testing.T) {
	for _, p := range []int{0, 50, 100} {
		if err := Struct(dto.ProgressUpdateRequest{Progress: p}); err != nil {
			t.Fatalf("progress %d should pass: %v", p, err)
		}
	}
	for _, p := range []int{-1, 101} {
		if err := Struct(dto.ProgressUpdateRequest{Progress: p}); err == nil {
			t.Fatalf("progress %d should fail", p)
		}
	}
}

func TestCourseLevel(t *testing.T) {
	err := Struct(dto.CourseRequest{Title: "Go 101", Description: "d", Category: "Programming", Level: "EXPERT"})
	if Fields(err)["level"] == "" {
		t.Fatalf("expected level failure, got %v", err)
	}
}

func TestFieldsIgnoresOtherErrors(t *testing.T) {
	if Fields(errors.New("boom")) != nil {
		t.Fatal("non-validation errors have no fields")
	}
}
