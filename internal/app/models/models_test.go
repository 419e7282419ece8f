package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampDecodesBackendFormats(t *testing.T) {
	cases := map[string]time.Time{
		`"2024-05-01T10:00:00.123"`:   time.Date(2024, 5, 1, 10, 0, 0, 123000000, time.UTC),
		`"2024-05-01T10:00:00"`:       time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		`"2024-05-01T10:00:00Z"`:      time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		`"2024-05-01"`:                time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		`[2024,5,1,10,30]`:            time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		`[2024,5,1,10,30,15,5000000]`: time.Date(2024, 5, 1, 10, 30, 15, 5000000, time.UTC),
	}
	for input, want := range cases {
		var ts Timestamp
		if err := json.Unmarshal([]byte(input), &ts); err != nil {
			t.Fatalf("Unmarshal(%s) error: %v", input, err)
		}
		if !ts.Equal(want) {
			t.Fatalf("Unmarshal(%s) = %v, want %v", input, ts.Time, want)
		}
	}
}

func TestTimestampNullAndEmpty(t *testing.T) {
	for _, input := range []string{`null`, `""`} {
		ts := NewTimestamp(time.Now())
		if err := json.Unmarshal([]byte(input), &ts); err != nil {
			t.Fatalf("Unmarshal(%s) error: %v", input, err)
		}
		if !ts.IsZero() {
			t.Fatalf("Unmarshal(%s) should leave zero time, got %v", input, ts.Time)
		}
	}

	out, err := json.Marshal(Timestamp{})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(out) != "null" {
		t.Fatalf("zero timestamp should encode as null, got %s", out)
	}
}

func TestTimestampRejectsGarbage(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Fatal("expected error for unrecognized format")
	}
	if err := json.Unmarshal([]byte(`[2024]`), &ts); err == nil {
		t.Fatal("expected error for short array")
	}
}

func TestUserRoundTripKeepsCamelCase(t *testing.T) {
	streak := 3
	u := User{
		ID:            7,
		Name:          "Ada",
		Email:         "ada@eduquest.dev",
		Role:          RoleInstructor,
		CreatedAt:     NewTimestamp(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)),
		CurrentStreak: &streak,
	}
	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	for _, key := range []string{"id", "name", "email", "role", "createdAt", "currentStreak"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("expected key %q in %s", key, raw)
		}
	}
	if _, ok := fields["lastActivityDate"]; ok {
		t.Fatalf("lastActivityDate should be omitted when nil: %s", raw)
	}

	var back User
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if back.ID != 7 || back.Role != RoleInstructor || !back.CreatedAt.Equal(u.CreatedAt.Time) || *back.CurrentStreak != 3 {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestParseRole(t *testing.T) {
	cases := map[string]RoleType{
		"ADMIN":       RoleAdmin,
		" instructor": RoleInstructor,
		"student":     RoleStudent,
		"":            RoleStudent,
		"SUPERUSER":   RoleStudent,
	}
	for in, want := range cases {
		if got := ParseRole(in); got != want {
			t.Fatalf("ParseRole(%q) = %q, want %q", in, got, want)
		}
	}
	if RoleType("SUPERUSER").Valid() {
		t.Fatal("unknown role should not be valid")
	}
}

func TestParseLevel(t *testing.T) {
	if l, ok := ParseLevel("beginner"); !ok || l != LevelBeginner {
		t.Fatalf("ParseLevel(beginner) = %q, %v", l, ok)
	}
	if _, ok := ParseLevel("expert"); ok {
		t.Fatal("ParseLevel(expert) should fail")
	}
}

func TestHasRole(t *testing.T) {
	var nilUser *User
	if nilUser.HasRole(RoleAdmin) {
		t.Fatal("nil user has no role")
	}
	u := &User{Role: RoleInstructor}
	if !u.HasRole(RoleAdmin, RoleInstructor) {
		t.Fatal("instructor should match")
	}
	if u.HasRole() {
		t.Fatal("empty role set admits nobody")
	}
}
