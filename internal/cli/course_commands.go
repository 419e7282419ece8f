package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/eduquest/client/internal/app/models"
	"github.com/eduquest/client/internal/app/models/dto"
	"github.com/eduquest/client/internal/middleware"
	"github.com/eduquest/client/internal/pkg/apperrors"
	"github.com/eduquest/client/internal/pkg/validation"
)

var instructorPolicy = middleware.Roles(models.RoleInstructor, models.RoleAdmin)

// idArg reads the first positional argument as a positive id
func idArg(c *cli.Context, what string) (int64, error) {
	raw := c.Args().First()
	if raw == "" {
		return 0, apperrors.NewBadRequestError(what + " id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequestError(fmt.Sprintf("invalid %s id %q", what, raw))
	}
	return id, nil
}

func courseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Usage: "course title"},
		&cli.StringFlag{Name: "description", Usage: "course description"},
		&cli.StringFlag{Name: "category", Usage: "course category"},
		&cli.StringFlag{Name: "level", Usage: "BEGINNER, INTERMEDIATE or ADVANCED"},
		&cli.IntFlag{Name: "duration", Usage: "duration in hours"},
		&cli.IntFlag{Name: "lessons", Usage: "number of lessons"},
	}
}

// applyCourseFlags overlays the flags that were set onto req
func applyCourseFlags(c *cli.Context, req *dto.CourseRequest) {
	if c.IsSet("title") {
		req.Title = c.String("title")
	}
	if c.IsSet("description") {
		req.Description = c.String("description")
	}
	if c.IsSet("category") {
		req.Category = c.String("category")
	}
	if c.IsSet("level") {
		req.Level = models.Level(strings.ToUpper(c.String("level")))
	}
	if c.IsSet("duration") {
		req.Duration = c.Int("duration")
	}
	if c.IsSet("lessons") {
		req.Lessons = c.Int("lessons")
	}
}

func (r *runner) listCourses(courses []models.Course, err error) error {
	if err != nil {
		return fail(err)
	}
	return r.view(courses, func(w io.Writer) { writeCourses(w, courses) })
}

func (r *runner) coursesCommand() *cli.Command {
	return &cli.Command{
		Name:    "courses",
		Aliases: []string{"course"},
		Usage:   "browse and manage the course catalog",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list all courses",
				Action: func(c *cli.Context) error {
					courses, err := r.deps.LearningService.ListCourses(c.Context)
					return r.listCourses(courses, err)
				},
			},
			{
				Name:      "show",
				Usage:     "show a course and your enrollment in it",
				ArgsUsage: "<course-id>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, "course")
					if err != nil {
						return fail(err)
					}
					detail, err := r.deps.LearningService.CourseDetail(c.Context, id, r.deps.AuthService.IsAuthenticated(c.Context))
					if err != nil {
						return fail(err)
					}
					return r.view(detail, func(w io.Writer) {
						writeCourse(w, detail.Course)
						if detail.Enrolled && detail.Enrollment != nil {
							fmt.Fprintf(w, "Your progress\t%d%% (%s)\n", detail.Enrollment.Progress, detail.Enrollment.CompletionStatus)
						}
					})
				},
			},
			{
				Name:      "search",
				Usage:     "search courses by keyword",
				ArgsUsage: "<query>",
				Action: func(c *cli.Context) error {
					query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
					if query == "" {
						return fail(apperrors.NewBadRequestError("search query is required"))
					}
					courses, err := r.deps.LearningService.SearchCourses(c.Context, query)
					return r.listCourses(courses, err)
				},
			},
			{
				Name:      "category",
				Usage:     "list courses in a category",
				ArgsUsage: "<category>",
				Action: func(c *cli.Context) error {
					category := strings.TrimSpace(c.Args().First())
					if category == "" {
						return fail(apperrors.NewBadRequestError("category is required"))
					}
					courses, err := r.deps.LearningService.CoursesByCategory(c.Context, category)
					return r.listCourses(courses, err)
				},
			},
			{
				Name:      "level",
				Usage:     "list courses of a difficulty level",
				ArgsUsage: "<BEGINNER|INTERMEDIATE|ADVANCED>",
				Action: func(c *cli.Context) error {
					level, valid := models.ParseLevel(c.Args().First())
					if !valid {
						return fail(apperrors.NewBadRequestError(fmt.Sprintf("unknown level %q", c.Args().First())))
					}
					courses, err := r.deps.LearningService.CoursesByLevel(c.Context, level)
					return r.listCourses(courses, err)
				},
			},
			{
				Name:  "popular",
				Usage: "list the most popular courses",
				Action: func(c *cli.Context) error {
					courses, err := r.deps.LearningService.PopularCourses(c.Context)
					return r.listCourses(courses, err)
				},
			},
			{
				Name:  "recent",
				Usage: "list the newest courses",
				Action: func(c *cli.Context) error {
					courses, err := r.deps.LearningService.RecentCourses(c.Context)
					return r.listCourses(courses, err)
				},
			},
			{
				Name:  "create",
				Usage: "create a course (instructors and admins)",
				Flags: courseFlags(),
				Action: r.guarded(instructorPolicy, "/courses/new", func(c *cli.Context) error {
					var req dto.CourseRequest
					applyCourseFlags(c, &req)
					if err := validation.Struct(req); err != nil {
						return fail(err)
					}
					course, err := r.deps.LearningService.CreateCourse(c.Context, req)
					if err != nil {
						return fail(err)
					}
					return r.view(course, func(w io.Writer) { writeCourse(w, course) })
				}),
			},
			{
				Name:      "update",
				Usage:     "update a course; unset flags keep their value",
				ArgsUsage: "<course-id>",
				Flags:     courseFlags(),
				Action: r.guarded(instructorPolicy, "/courses/edit", func(c *cli.Context) error {
					id, err := idArg(c, "course")
					if err != nil {
						return fail(err)
					}
					current, err := r.deps.LearningService.GetCourse(c.Context, id)
					if err != nil {
						return fail(err)
					}
					req := dto.CourseRequest{
						Title:       current.Title,
						Description: current.Description,
						Category:    current.Category,
						Level:       current.Level,
						Duration:    current.Duration,
						Lessons:     current.Lessons,
					}
					applyCourseFlags(c, &req)
					if err := validation.Struct(req); err != nil {
						return fail(err)
					}
					course, err := r.deps.LearningService.UpdateCourse(c.Context, id, req)
					if err != nil {
						return fail(err)
					}
					return r.view(course, func(w io.Writer) { writeCourse(w, course) })
				}),
			},
			{
				Name:      "delete",
				Usage:     "delete a course",
				ArgsUsage: "<course-id>",
				Action: r.guarded(instructorPolicy, "/courses/delete", func(c *cli.Context) error {
					id, err := idArg(c, "course")
					if err != nil {
						return fail(err)
					}
					if err := r.deps.LearningService.DeleteCourse(c.Context, id); err != nil {
						return fail(err)
					}
					return r.message("Course %d deleted", id)
				}),
			},
		},
	}
}
