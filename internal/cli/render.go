package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/eduquest/client/internal/app/models"
	"github.com/eduquest/client/internal/app/models/dto"
	"github.com/eduquest/client/internal/pkg/apperrors"
)

const dateLayout = "2006-01-02"

// view renders v as JSON when --json is set, otherwise through text
func (r *runner) view(v interface{}, text func(w io.Writer)) error {
	if r.asJSON {
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	text(tw)
	return tw.Flush()
}

func (r *runner) message(format string, args ...interface{}) error {
	if r.asJSON {
		return r.view(dto.SuccessResponse{Message: fmt.Sprintf(format, args...)}, nil)
	}
	_, err := fmt.Fprintf(r.out, format+"\n", args...)
	return err
}

func formatDate(t models.Timestamp) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

func writeUser(w io.Writer, u *models.User) {
	if u == nil {
		fmt.Fprintln(w, "No user")
		return
	}
	fmt.Fprintf(w, "ID\t%d\n", u.ID)
	fmt.Fprintf(w, "Name\t%s\n", u.Name)
	fmt.Fprintf(w, "Email\t%s\n", u.Email)
	fmt.Fprintf(w, "Role\t%s\n", u.Role)
	fmt.Fprintf(w, "Member since\t%s\n", formatDate(u.CreatedAt))
	if u.CurrentStreak != nil {
		fmt.Fprintf(w, "Streak\t%d days\n", *u.CurrentStreak)
	}
}

func writeCourses(w io.Writer, courses []models.Course) {
	if len(courses) == 0 {
		fmt.Fprintln(w, "No courses found")
		return
	}
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tLEVEL\tHOURS\tSTUDENTS\tINSTRUCTOR")
	for _, c := range courses {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%s\n",
			c.ID, c.Title, c.Category, c.Level, c.Duration, c.StudentsEnrolled, c.InstructorName)
	}
}

func writeCourse(w io.Writer, c *models.Course) {
	fmt.Fprintf(w, "ID\t%d\n", c.ID)
	fmt.Fprintf(w, "Title\t%s\n", c.Title)
	fmt.Fprintf(w, "Category\t%s\n", c.Category)
	fmt.Fprintf(w, "Level\t%s\n", c.Level)
	fmt.Fprintf(w, "Instructor\t%s\n", c.InstructorName)
	fmt.Fprintf(w, "Duration\t%d hours, %d lessons\n", c.Duration, c.Lessons)
	fmt.Fprintf(w, "Students\t%d\n", c.StudentsEnrolled)
	if c.Description != "" {
		fmt.Fprintf(w, "Description\t%s\n", c.Description)
	}
}

func writeEnrollments(w io.Writer, enrollments []models.Enrollment) {
	if len(enrollments) == 0 {
		fmt.Fprintln(w, "No enrollments")
		return
	}
	fmt.Fprintln(w, "COURSE\tTITLE\tSTUDENT\tPROGRESS\tSTATUS\tSINCE")
	for _, e := range enrollments {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d%%\t%s\t%s\n",
			e.CourseID, e.CourseTitle, e.UserName, e.Progress, e.CompletionStatus, formatDate(e.CreatedAt))
	}
}

func writeEnrollment(w io.Writer, e *models.Enrollment) {
	fmt.Fprintf(w, "Course\t%d %s\n", e.CourseID, e.CourseTitle)
	fmt.Fprintf(w, "Progress\t%d%%\n", e.Progress)
	fmt.Fprintf(w, "Status\t%s\n", e.CompletionStatus)
	fmt.Fprintf(w, "Enrolled\t%s\n", formatDate(e.CreatedAt))
}

func writeAchievements(w io.Writer, achievements []models.Achievement) {
	if len(achievements) == 0 {
		fmt.Fprintln(w, "No achievements yet")
		return
	}
	fmt.Fprintln(w, "TITLE\tTYPE\tEARNED\tDESCRIPTION")
	for _, a := range achievements {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Title, a.Type, formatDate(a.EarnedDate), a.Description)
	}
}

func writeDashboard(w io.Writer, d *models.Dashboard) {
	if d == nil {
		fmt.Fprintln(w, "No dashboard data")
		return
	}
	fmt.Fprintf(w, "Learner\t%s\n", d.UserName)
	fmt.Fprintf(w, "Enrolled\t%d\n", d.TotalEnrolledCourses)
	fmt.Fprintf(w, "Completed\t%d\n", d.CompletedCourses)
	fmt.Fprintf(w, "In progress\t%d\n", d.InProgressCourses)
	fmt.Fprintf(w, "Hours\t%d\n", d.TotalHours)
	fmt.Fprintf(w, "Streak\t%d days\n", d.CurrentStreak)
	fmt.Fprintf(w, "Achievements\t%d\n", d.TotalAchievements)
	if d.LastActivityDate != nil {
		fmt.Fprintf(w, "Last activity\t%s\n", formatDate(*d.LastActivityDate))
	}
}

func formatValidation(err *apperrors.CustomError) string {
	keys := make([]string, 0, len(err.Details))
	for k := range err.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("  %s: %v", k, err.Details[k]))
	}
	return "invalid input:\n" + strings.Join(lines, "\n")
}
