package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/eduquest/client/internal/app/models"
	"github.com/eduquest/client/internal/gateway"
	"github.com/eduquest/client/internal/pkg/querycache"
)

type countingBackend struct {
	mu       sync.Mutex
	hits     map[string]int
	enrolled bool
}

func (b *countingBackend) count(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[path]
}

func (b *countingBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.hits[r.Method+" "+r.URL.Path]++
	enrolled := b.enrolled
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	switch r.Method + " " + r.URL.Path {
	case "GET /courses/3":
		enc.Encode(models.Course{ID: 3, Title: "Go Concurrency", Level: models.LevelAdvanced})
	case "GET /enroll/my-courses/3":
		if !enrolled {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		enc.Encode(models.Enrollment{ID: 10, CourseID: 3, Progress: 0, CompletionStatus: models.StatusNotStarted})
	case "POST /enroll/3":
		b.mu.Lock()
		b.enrolled = true
		b.mu.Unlock()
		enc.Encode(models.Enrollment{ID: 10, CourseID: 3})
	case "GET /dashboard":
		enc.Encode(models.Dashboard{UserID: 1, TotalEnrolledCourses: 1})
	case "GET /enroll/my-courses":
		enc.Encode([]models.Enrollment{{ID: 10, CourseID: 3}})
	case "GET /achievements":
		w.WriteHeader(http.StatusInternalServerError)
	case "GET /courses/popular", "GET /courses/recent":
		enc.Encode([]models.Course{{ID: 3}})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newLearning(t *testing.T) (*LearningService, *countingBackend) {
	t.Helper()
	backend := &countingBackend{hits: map[string]int{}}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	client := gateway.New(gateway.Config{BaseURL: srv.URL}, gateway.StaticToken("tok"))
	return NewLearningService(client, querycache.New(time.Minute), zerolog.Nop()), backend
}

func TestCourseDetailAndEnrollInvalidation(t *testing.T) {
	svc, backend := newLearning(t)
	ctx := context.Background()

	view, err := svc.CourseDetail(ctx, 3, true)
	if err != nil {
		t.Fatalf("CourseDetail() error: %v", err)
	}
	if view.Course.Title != "Go Concurrency" || view.Enrolled {
		t.Fatalf("unexpected view %+v", view)
	}

	if _, err := svc.CourseDetail(ctx, 3, true); err != nil {
		t.Fatalf("CourseDetail() error: %v", err)
	}
	if backend.count("GET /courses/3") != 1 {
		t.Fatalf("course should be cached, got %d calls", backend.count("GET /courses/3"))
	}

	if _, err := svc.Dashboard(ctx); err != nil {
		t.Fatalf("Dashboard() error: %v", err)
	}
	if _, err := svc.Enroll(ctx, 3); err != nil {
		t.Fatalf("Enroll() error: %v", err)
	}

	view, err = svc.CourseDetail(ctx, 3, true)
	if err != nil {
		t.Fatalf("CourseDetail() error: %v", err)
	}
	if !view.Enrolled || view.Enrollment.ID != 10 {
		t.Fatalf("enrollment should be refetched after enrolling, got %+v", view)
	}
	if backend.count("GET /courses/3") != 1 {
		t.Fatal("enrolling must not invalidate the course itself")
	}

	if _, err := svc.Dashboard(ctx); err != nil {
		t.Fatalf("Dashboard() error: %v", err)
	}
	if backend.count("GET /dashboard") != 2 {
		t.Fatalf("dashboard should be refetched after enrolling, got %d", backend.count("GET /dashboard"))
	}
}

func TestCourseDetailAnonymousSkipsEnrollment(t *testing.T) {
	svc, backend := newLearning(t)
	if _, err := svc.CourseDetail(context.Background(), 3, false); err != nil {
		t.Fatalf("CourseDetail() error: %v", err)
	}
	if backend.count("GET /enroll/my-courses/3") != 0 {
		t.Fatal("anonymous view must not look up an enrollment")
	}
}

func TestDashboardDegradesOnListFailure(t *testing.T) {
	svc, _ := newLearning(t)
	view, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard() error: %v", err)
	}
	if view.Dashboard.TotalEnrolledCourses != 1 || len(view.Enrollments) != 1 {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.Achievements == nil || len(view.Achievements) != 0 {
		t.Fatalf("failed achievements should render as empty, got %v", view.Achievements)
	}
}

func TestHomeLoadsBothLists(t *testing.T) {
	svc, _ := newLearning(t)
	home, err := svc.Home(context.Background())
	if err != nil {
		t.Fatalf("Home() error: %v", err)
	}
	if len(home.Popular) != 1 || len(home.Recent) != 1 {
		t.Fatalf("unexpected home %+v", home)
	}
}
