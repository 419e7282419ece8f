package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/eduquest/client/internal/app/models"
	"github.com/eduquest/client/internal/app/models/dto"
)

// fakeBackend serves the handful of endpoints the commands under test hit
func fakeBackend(t *testing.T, role models.RoleType) *httptest.Server {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "grace@eduquest.dev",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("SignedString() error: %v", err)
	}

	user := models.User{ID: 7, Name: "Grace Hopper", Email: "grace@eduquest.dev", Role: role}
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password != "correct-horse" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Error: Invalid email or password"))
			return
		}
		json.NewEncoder(w).Encode(dto.LoginResponse{
			Token: token, Type: "Bearer", ID: user.ID, Name: user.Name, Email: user.Email, Role: string(role),
		})
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(user)
	})
	mux.HandleFunc("/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(user)
	})
	mux.HandleFunc("/courses", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Course{
			{ID: 1, Title: "Go Concurrency", Category: "Programming", Level: models.LevelIntermediate},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type harness struct {
	t   *testing.T
	cfg string
}

func newHarness(t *testing.T, role models.RoleType) *harness {
	t.Helper()
	dir := t.TempDir()
	srv := fakeBackend(t, role)

	t.Setenv("EDUQUEST_API_URL", srv.URL)
	t.Setenv("EDUQUEST_SESSION_BACKEND", "file")
	t.Setenv("EDUQUEST_SESSION_FILE", filepath.Join(dir, "session.json"))
	t.Setenv("EDUQUEST_PASSWORD", "")
	t.Setenv("EDUQUEST_EMAIL", "")
	t.Setenv("LOG_LEVEL", "disabled")
	return &harness{t: t, cfg: filepath.Join(dir, "config.yaml")}
}

func (h *harness) run(args ...string) (int, string, string) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	argv := append([]string{"eduquest", "--config", h.cfg, "--quiet"}, args...)
	code := Run(context.Background(), argv, &out, &errOut)
	return code, out.String(), errOut.String()
}

func (h *harness) login() {
	h.t.Helper()
	code, _, stderr := h.run("login", "--email", "grace@eduquest.dev", "--password", "correct-horse")
	if code != 0 {
		h.t.Fatalf("login exit %d: %s", code, stderr)
	}
}

func TestLoginPersistsAcrossInvocations(t *testing.T) {
	h := newHarness(t, models.RoleStudent)
	h.login()

	code, stdout, stderr := h.run("--json", "whoami", "--refresh")
	if code != 0 {
		t.Fatalf("whoami exit %d: %s", code, stderr)
	}

	var view whoamiView
	if err := json.Unmarshal([]byte(stdout), &view); err != nil {
		t.Fatalf("decode whoami output: %v\n%s", err, stdout)
	}
	if view.User == nil || view.User.Email != "grace@eduquest.dev" {
		t.Fatalf("unexpected user: %+v", view.User)
	}
	if view.Token == nil || view.Token.Subject != "grace@eduquest.dev" || view.Token.Expired || view.Token.ExpiresAt == nil {
		t.Fatalf("unexpected token info: %+v", view.Token)
	}
	// the token carries no iat claim
	if view.Token.IssuedAt != nil || strings.Contains(stdout, "issuedAt") {
		t.Fatalf("missing claim should be omitted:\n%s", stdout)
	}
}

func TestProtectedCommandAsksForLogin(t *testing.T) {
	h := newHarness(t, models.RoleStudent)

	code, _, stderr := h.run("enroll", "mine")
	if code != ExitGuard {
		t.Fatalf("expected exit %d, got %d", ExitGuard, code)
	}
	if !strings.Contains(stderr, "please log in") || !strings.Contains(stderr, "/enroll/my-courses") {
		t.Fatalf("unexpected message: %q", stderr)
	}
}

func TestLoginIsGuestOnly(t *testing.T) {
	h := newHarness(t, models.RoleStudent)
	h.login()

	code, _, stderr := h.run("login", "--email", "grace@eduquest.dev", "--password", "correct-horse")
	if code != ExitGuard || !strings.Contains(stderr, "already logged in") {
		t.Fatalf("expected guest-only redirect, got exit %d: %q", code, stderr)
	}
}

func TestRoleRestrictedCommand(t *testing.T) {
	h := newHarness(t, models.RoleStudent)
	h.login()

	code, _, stderr := h.run("courses", "create", "--title", "Compilers", "--description", "d", "--category", "cs", "--level", "advanced")
	if code != ExitGuard || !strings.Contains(stderr, "not permitted") {
		t.Fatalf("expected role redirect, got exit %d: %q", code, stderr)
	}
}

func TestLoginValidationAndBackendErrors(t *testing.T) {
	h := newHarness(t, models.RoleStudent)

	code, _, stderr := h.run("login", "--email", "not-an-email", "--password", "x")
	if code != ExitUsage || !strings.Contains(stderr, "email") {
		t.Fatalf("expected validation failure, got exit %d: %q", code, stderr)
	}

	code, _, stderr = h.run("login", "--email", "grace@eduquest.dev", "--password", "wrong")
	if code != ExitFailure || !strings.Contains(stderr, "Invalid email or password") {
		t.Fatalf("expected backend message, got exit %d: %q", code, stderr)
	}

	code, _, _ = h.run("whoami")
	if code != ExitGuard {
		t.Fatalf("failed login must not create a session, whoami exit %d", code)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	h := newHarness(t, models.RoleStudent)
	h.login()

	if code, _, stderr := h.run("logout"); code != 0 {
		t.Fatalf("logout exit %d: %s", code, stderr)
	}
	if code, _, _ := h.run("whoami"); code != ExitGuard {
		t.Fatalf("expected whoami to require login after logout, got %d", code)
	}
}

func TestLogoutAfterSignupClearsStoredUser(t *testing.T) {
	h := newHarness(t, models.RoleStudent)
	sessionFile := filepath.Join(filepath.Dir(h.cfg), "session.json")

	code, _, stderr := h.run("signup", "--name", "Grace Hopper", "--email", "grace@eduquest.dev", "--password", "correct-horse")
	if code != 0 {
		t.Fatalf("signup exit %d: %s", code, stderr)
	}
	raw, err := os.ReadFile(sessionFile)
	if err != nil || !strings.Contains(string(raw), "currentUser") {
		t.Fatalf("signup should store the user, file=%q err=%v", raw, err)
	}

	if code, _, stderr := h.run("logout"); code != 0 {
		t.Fatalf("logout exit %d: %s", code, stderr)
	}
	raw, err = os.ReadFile(sessionFile)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if strings.Contains(string(raw), "currentUser") {
		t.Fatalf("logout should clear the stored user, file=%s", raw)
	}
	if code, _, _ := h.run("whoami"); code != ExitGuard {
		t.Fatalf("expected whoami to require login, got %d", code)
	}
}

func TestPublicCourseList(t *testing.T) {
	h := newHarness(t, models.RoleStudent)

	code, stdout, stderr := h.run("courses", "list")
	if code != 0 {
		t.Fatalf("courses list exit %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Go Concurrency") || !strings.Contains(stdout, "INTERMEDIATE") {
		t.Fatalf("unexpected listing:\n%s", stdout)
	}
}

func TestInvalidCourseID(t *testing.T) {
	h := newHarness(t, models.RoleStudent)

	code, _, stderr := h.run("courses", "show", "abc")
	if code != ExitUsage || !strings.Contains(stderr, "invalid course id") {
		t.Fatalf("expected usage error, got exit %d: %q", code, stderr)
	}
}
