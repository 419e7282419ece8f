package gateway

import (
	"context"
	"net/http"

	"github.com/eduquest/client/internal/app/models"
	"github.com/eduquest/client/internal/app/models/dto"
)

// EnrollmentsAPI wraps /enroll
type EnrollmentsAPI struct {
	c *Client
}

func (a *EnrollmentsAPI) one(ctx context.Context, method, path string, body interface{}) (*models.Enrollment, error) {
	var e models.Enrollment
	if err := a.c.do(ctx, "enrollments", method, path, body, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (a *EnrollmentsAPI) list(ctx context.Context, path string) ([]models.Enrollment, error) {
	var out []models.Enrollment
	if err := a.c.do(ctx, "enrollments", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Enroll enrolls the caller in a course
func (a *EnrollmentsAPI) Enroll(ctx context.Context, courseID int64) (*models.Enrollment, error) {
	return a.one(ctx, http.MethodPost, joinPath("enroll", id(courseID)), nil)
}

// UpdateProgress sets the caller's progress in a course
func (a *EnrollmentsAPI) UpdateProgress(ctx context.Context, courseID int64, progress int) (*models.Enrollment, error) {
	return a.one(ctx, http.MethodPut, joinPath("enroll", id(courseID), "progress"), dto.ProgressUpdateRequest{Progress: progress})
}

// MyCourses lists the caller's enrollments
func (a *EnrollmentsAPI) MyCourses(ctx context.Context) ([]models.Enrollment, error) {
	return a.list(ctx, "/enroll/my-courses")
}

// MyCourse returns the caller's enrollment in one course
func (a *EnrollmentsAPI) MyCourse(ctx context.Context, courseID int64) (*models.Enrollment, error) {
	return a.one(ctx, http.MethodGet, joinPath("enroll", "my-courses", id(courseID)), nil)
}

// Unenroll leaves a course
func (a *EnrollmentsAPI) Unenroll(ctx context.Context, courseID int64) error {
	return a.c.do(ctx, "enrollments", http.MethodDelete, joinPath("enroll", id(courseID)), nil, nil)
}

// CourseEnrollments lists every enrollment of a course; instructors and admins only
func (a *EnrollmentsAPI) CourseEnrollments(ctx context.Context, courseID int64) ([]models.Enrollment, error) {
	return a.list(ctx, joinPath("enroll", "course", id(courseID)))
}

// CourseStats returns the enrollment count of a course
func (a *EnrollmentsAPI) CourseStats(ctx context.Context, courseID int64) (*dto.EnrollmentStats, error) {
	var stats dto.EnrollmentStats
	if err := a.c.do(ctx, "enrollments", http.MethodGet, joinPath("enroll", "stats", id(courseID)), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
