package dto

// ProgressUpdateRequest sets the progress of an enrollment
type ProgressUpdateRequest struct {
	Progress int `json:"progress" validate:"min=0,max=100"`
}

// EnrollmentStats is returned by /enroll/stats/{courseId}
type EnrollmentStats struct {
	EnrollmentCount int64 `json:"enrollmentCount"`
}

// AchievementCount is returned by /achievements/count
type AchievementCount struct {
	AchievementCount int64 `json:"achievementCount"`
}
