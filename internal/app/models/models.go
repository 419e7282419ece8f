package models

import "strings"

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent    RoleType = "STUDENT"
	RoleInstructor RoleType = "INSTRUCTOR"
	RoleAdmin      RoleType = "ADMIN"
)

// ParseRole normalizes a backend role string. Unknown values map to STUDENT,
// the backend's default role for new accounts.
func ParseRole(s string) RoleType {
	switch RoleType(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleInstructor:
		return RoleInstructor
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleStudent
	}
}

// Valid reports whether r is one of the known roles
func (r RoleType) Valid() bool {
	return r == RoleStudent || r == RoleInstructor || r == RoleAdmin
}

// Level is the difficulty level of a course
type Level string

const (
	LevelBeginner     Level = "BEGINNER"
	LevelIntermediate Level = "INTERMEDIATE"
	LevelAdvanced     Level = "ADVANCED"
)

// ParseLevel accepts a level in any case; ok is false for unknown levels.
func ParseLevel(s string) (Level, bool) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return l, true
	}
	return "", false
}

// CompletionStatus tracks how far a student got through a course
type CompletionStatus string

const (
	StatusNotStarted CompletionStatus = "NOT_STARTED"
	StatusInProgress CompletionStatus = "IN_PROGRESS"
	StatusCompleted  CompletionStatus = "COMPLETED"
)

// AchievementType is left open: the backend may add types without a client release.
type AchievementType string

const (
	AchievementFirstCourseCompleted AchievementType = "FIRST_COURSE_COMPLETED"
	AchievementStreak7Days          AchievementType = "STREAK_7_DAYS"
	AchievementStreak30Days         AchievementType = "STREAK_30_DAYS"
	AchievementCoursesCompleted5    AchievementType = "COURSES_COMPLETED_5"
	AchievementCoursesCompleted10   AchievementType = "COURSES_COMPLETED_10"
	AchievementPerfectProgress      AchievementType = "PERFECT_PROGRESS"
	AchievementEarlyBird            AchievementType = "EARLY_BIRD"
	AchievementNightOwl             AchievementType = "NIGHT_OWL"
)
