package dto

import "github.com/eduquest/client/internal/app/models"

// CourseRequest is the body of course create and update calls
type CourseRequest struct {
	Title       string       `json:"title" validate:"required,min=3,max=200"`
	Description string       `json:"description" validate:"required"`
	Category    string       `json:"category" validate:"required"`
	Level       models.Level `json:"level" validate:"required,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Duration    int          `json:"duration" validate:"min=0"`
	Lessons     int          `json:"lessons" validate:"min=0"`
}

// CourseDetailView combines a course with the caller's enrollment, if any
type CourseDetailView struct {
	Course     *models.Course     `json:"course"`
	Enrollment *models.Enrollment `json:"enrollment,omitempty"`
	Enrolled   bool               `json:"enrolled"`
}
