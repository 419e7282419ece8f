package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/eduquest/client/internal/app/models/dto"
	"github.com/eduquest/client/internal/middleware"
	"github.com/eduquest/client/internal/pkg/apperrors"
	"github.com/eduquest/client/internal/pkg/validation"
)

func (r *runner) enrollCommand() *cli.Command {
	return &cli.Command{
		Name:  "enroll",
		Usage: "enroll in courses and track progress",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "enroll in a course",
				ArgsUsage: "<course-id>",
				Action: r.guarded(middleware.Authenticated, "/enroll", func(c *cli.Context) error {
					id, err := idArg(c, "course")
					if err != nil {
						return fail(err)
					}
					enrollment, err := r.deps.LearningService.Enroll(c.Context, id)
					if err != nil {
						return fail(err)
					}
					return r.view(enrollment, func(w io.Writer) {
						fmt.Fprintf(w, "Enrolled in %s\n", enrollment.CourseTitle)
					})
				}),
			},
			{
				Name:      "remove",
				Usage:     "leave a course",
				ArgsUsage: "<course-id>",
				Action: r.guarded(middleware.Authenticated, "/enroll", func(c *cli.Context) error {
					id, err := idArg(c, "course")
					if err != nil {
						return fail(err)
					}
					if err := r.deps.LearningService.Unenroll(c.Context, id); err != nil {
						return fail(err)
					}
					return r.message("Left course %d", id)
				}),
			},
			{
				Name:      "progress",
				Usage:     "set your progress in a course",
				ArgsUsage: "<course-id> <percent>",
				Action: r.guarded(middleware.Authenticated, "/enroll/progress", func(c *cli.Context) error {
					id, err := idArg(c, "course")
					if err != nil {
						return fail(err)
					}
					progress, err := strconv.Atoi(c.Args().Get(1))
					if err != nil {
						return fail(apperrors.NewBadRequestError(fmt.Sprintf("invalid progress %q", c.Args().Get(1))))
					}
					req := dto.ProgressUpdateRequest{Progress: progress}
					if err := validation.Struct(req); err != nil {
						return fail(err)
					}
					enrollment, err := r.deps.LearningService.UpdateProgress(c.Context, id, req.Progress)
					if err != nil {
						return fail(err)
					}
					return r.view(enrollment, func(w io.Writer) { writeEnrollment(w, enrollment) })
				}),
			},
			{
				Name:  "mine",
				Usage: "list your enrollments",
				Action: r.guarded(middleware.Authenticated, "/enroll/my-courses", func(c *cli.Context) error {
					enrollments, err := r.deps.LearningService.MyEnrollments(c.Context)
					if err != nil {
						return fail(err)
					}
					return r.view(enrollments, func(w io.Writer) { writeEnrollments(w, enrollments) })
				}),
			},
			{
				Name:      "show",
				Usage:     "show your enrollment in a course",
				ArgsUsage: "<course-id>",
				Action: r.guarded(middleware.Authenticated, "/enroll/my-courses", func(c *cli.Context) error {
					id, err := idArg(c, "course")
					if err != nil {
						return fail(err)
					}
					enrollment, enrolled, err := r.deps.LearningService.MyEnrollment(c.Context, id)
					if err != nil {
						return fail(err)
					}
					if !enrolled {
						return r.message("Not enrolled in course %d", id)
					}
					return r.view(enrollment, func(w io.Writer) { writeEnrollment(w, enrollment) })
				}),
			},
			{
				Name:      "course",
				Usage:     "list the students of a course (instructors and admins)",
				ArgsUsage: "<course-id>",
				Action: r.guarded(instructorPolicy, "/courses/enrollments", func(c *cli.Context) error {
					id, err := idArg(c, "course")
					if err != nil {
						return fail(err)
					}
					enrollments, err := r.deps.LearningService.CourseEnrollments(c.Context, id)
					if err != nil {
						return fail(err)
					}
					return r.view(enrollments, func(w io.Writer) { writeEnrollments(w, enrollments) })
				}),
			},
			{
				Name:      "stats",
				Usage:     "count the students of a course (instructors and admins)",
				ArgsUsage: "<course-id>",
				Action: r.guarded(instructorPolicy, "/courses/enrollments", func(c *cli.Context) error {
					id, err := idArg(c, "course")
					if err != nil {
						return fail(err)
					}
					stats, err := r.deps.LearningService.CourseStats(c.Context, id)
					if err != nil {
						return fail(err)
					}
					return r.view(stats, func(w io.Writer) {
						fmt.Fprintf(w, "Course %d has %d enrollments\n", id, stats.EnrollmentCount)
					})
				}),
			},
		},
	}
}
