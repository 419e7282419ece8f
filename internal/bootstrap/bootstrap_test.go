package bootstrap

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/eduquest/client/internal/app/models"
	"github.com/eduquest/client/internal/app/models/dto"
	"github.com/eduquest/client/internal/config"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(dto.LoginResponse{
			Token: "header.payload.sig", Type: "Bearer", ID: 3, Name: "Alan Kay", Email: "alan@eduquest.dev", Role: "STUDENT",
		})
	})
	mux.HandleFunc("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer header.payload.sig" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(models.Dashboard{UserID: 3, UserName: "Alan Kay", TotalHours: 12})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	cfg.API.BaseURL = newBackend(t).URL
	cfg.Session.Backend = config.BackendMemory
	cfg.Server.Mode = "test"

	deps, err := BuildDependencies(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("BuildDependencies() error: %v", err)
	}
	t.Cleanup(func() { deps.Close() })
	return SetupRouter(cfg, deps)
}

func do(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("expected Location %q, got %q", location, got)
	}
}

func TestViewServerSessionFlow(t *testing.T) {
	router := newRouter(t)

	expectRedirect(t, do(router, http.MethodGet, "/dashboard", ""), "/login?from=%2Fdashboard")

	rec := do(router, http.MethodPost, "/login?from=%2Fdashboard", `{"email":"alan@eduquest.dev","password":"smalltalk"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var login struct {
		Data dto.AuthView `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if !login.Data.Authenticated || login.Data.RedirectTo != "/dashboard" {
		t.Fatalf("unexpected login view: %+v", login.Data)
	}

	rec = do(router, http.MethodGet, "/dashboard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var dash struct {
		Data dto.DashboardView `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &dash); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if dash.Data.Dashboard == nil || dash.Data.Dashboard.TotalHours != 12 {
		t.Fatalf("unexpected dashboard: %+v", dash.Data.Dashboard)
	}
	if dash.Data.Enrollments == nil || len(dash.Data.Enrollments) != 0 {
		t.Fatalf("expected missing enrollments to degrade to an empty list, got %v", dash.Data.Enrollments)
	}

	expectRedirect(t, do(router, http.MethodGet, "/login", ""), "/dashboard")
	expectRedirect(t, do(router, http.MethodGet, "/users/3/dashboard", ""), "/dashboard")

	if rec := do(router, http.MethodPost, "/logout", ""); rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}
	expectRedirect(t, do(router, http.MethodGet, "/dashboard", ""), "/login?from=%2Fdashboard")
}

func TestLoginValidationResponse(t *testing.T) {
	router := newRouter(t)

	rec := do(router, http.MethodPost, "/login", `{"email":"nope","password":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "VAL_001") {
		t.Fatalf("expected validation code in body: %s", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newRouter(t)
	do(router, http.MethodPost, "/login", `{"email":"alan@eduquest.dev","password":"smalltalk"}`)

	rec := do(router, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `eduquest_gateway_requests_total{code="200",method="POST",resource="auth"}`) {
		t.Fatalf("expected login request counter in:\n%s", rec.Body.String())
	}
}
