package dto

import "github.com/eduquest/client/internal/app/models"

// DashboardView is the dashboard page: the summary plus the caller's
// enrollments and achievements
type DashboardView struct {
	User         *models.User         `json:"user,omitempty"`
	Dashboard    *models.Dashboard    `json:"dashboard"`
	Enrollments  []models.Enrollment  `json:"enrollments"`
	Achievements []models.Achievement `json:"achievements"`
}

// HomeView is the landing page
type HomeView struct {
	Popular       []models.Course `json:"popular"`
	Recent        []models.Course `json:"recent"`
	Authenticated bool            `json:"authenticated"`
}

// EnrollView is the enroll page for one course
type EnrollView struct {
	Course     *models.Course     `json:"course"`
	Enrollment *models.Enrollment `json:"enrollment,omitempty"`
}
