package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/eduquest/client/internal/app/models"
	"github.com/eduquest/client/internal/app/models/dto"
)

// CoursesAPI wraps /courses
type CoursesAPI struct {
	c *Client
}

func (a *CoursesAPI) list(ctx context.Context, path string) ([]models.Course, error) {
	var courses []models.Course
	if err := a.c.do(ctx, "courses", http.MethodGet, path, nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (a *CoursesAPI) one(ctx context.Context, method, path string, body interface{}) (*models.Course, error) {
	var course models.Course
	if err := a.c.do(ctx, "courses", method, path, body, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// List returns the whole catalog
func (a *CoursesAPI) List(ctx context.Context) ([]models.Course, error) {
	return a.list(ctx, "/courses")
}

// Get returns one course
func (a *CoursesAPI) Get(ctx context.Context, courseID int64) (*models.Course, error) {
	return a.one(ctx, http.MethodGet, joinPath("courses", id(courseID)), nil)
}

// Create adds a course; instructors and admins only
func (a *CoursesAPI) Create(ctx context.Context, req dto.CourseRequest) (*models.Course, error) {
	return a.one(ctx, http.MethodPost, "/courses", req)
}

// Update replaces a course
func (a *CoursesAPI) Update(ctx context.Context, courseID int64, req dto.CourseRequest) (*models.Course, error) {
	return a.one(ctx, http.MethodPut, joinPath("courses", id(courseID)), req)
}

// Delete removes a course
func (a *CoursesAPI) Delete(ctx context.Context, courseID int64) error {
	return a.c.do(ctx, "courses", http.MethodDelete, joinPath("courses", id(courseID)), nil, nil)
}

// ByCategory filters by category
func (a *CoursesAPI) ByCategory(ctx context.Context, category string) ([]models.Course, error) {
	return a.list(ctx, joinPath("courses", "category", category))
}

// ByLevel filters by level
func (a *CoursesAPI) ByLevel(ctx context.Context, level models.Level) ([]models.Course, error) {
	return a.list(ctx, joinPath("courses", "level", string(level)))
}

// Search runs a free-text query
func (a *CoursesAPI) Search(ctx context.Context, query string) ([]models.Course, error) {
	return a.list(ctx, "/courses/search?q="+url.QueryEscape(query))
}

// Popular returns the most enrolled courses
func (a *CoursesAPI) Popular(ctx context.Context) ([]models.Course, error) {
	return a.list(ctx, "/courses/popular")
}

// Recent returns the newest courses
func (a *CoursesAPI) Recent(ctx context.Context) ([]models.Course, error) {
	return a.list(ctx, "/courses/recent")
}
