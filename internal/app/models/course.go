package models

// Course is a catalog entry
type Course struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	Level            Level     `json:"level"`
	InstructorID     int64     `json:"instructorId"`
	InstructorName   string    `json:"instructorName"`
	Duration         int       `json:"duration"` // hours
	Lessons          int       `json:"lessons"`
	StudentsEnrolled int       `json:"studentsEnrolled"`
	CreatedAt        Timestamp `json:"createdAt"`
	UpdatedAt        Timestamp `json:"updatedAt"`
}

// Enrollment links a user to a course with their progress
type Enrollment struct {
	ID               int64            `json:"id"`
	UserID           int64            `json:"userId"`
	UserName         string           `json:"userName"`
	CourseID         int64            `json:"courseId"`
	CourseTitle      string           `json:"courseTitle"`
	Progress         int              `json:"progress"`
	CompletionStatus CompletionStatus `json:"completionStatus"`
	CreatedAt        Timestamp        `json:"createdAt"`
	UpdatedAt        Timestamp        `json:"updatedAt"`
}

// Achievement is a badge awarded by the backend
type Achievement struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	UserName    string          `json:"userName"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        AchievementType `json:"type"`
	EarnedDate  Timestamp       `json:"earnedDate"`
}

// Dashboard is the per-user summary computed by the backend
type Dashboard struct {
	UserID               int64         `json:"userId"`
	UserName             string        `json:"userName"`
	TotalEnrolledCourses int           `json:"totalEnrolledCourses"`
	CompletedCourses     int           `json:"completedCourses"`
	InProgressCourses    int           `json:"inProgressCourses"`
	TotalHours           int           `json:"totalHours"`
	CurrentStreak        int           `json:"currentStreak"`
	TotalAchievements    int           `json:"totalAchievements"`
	RecentEnrollments    []Enrollment  `json:"recentEnrollments"`
	RecentAchievements   []Achievement `json:"recentAchievements"`
	LastActivityDate     *Timestamp    `json:"lastActivityDate,omitempty"`
}
