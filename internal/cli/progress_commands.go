package cli

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/eduquest/client/internal/app/models"
	"github.com/eduquest/client/internal/middleware"
)

var adminPolicy = middleware.Roles(models.RoleAdmin)

func (r *runner) achievementsCommand() *cli.Command {
	return &cli.Command{
		Name:  "achievements",
		Usage: "show earned badges",
		Subcommands: []*cli.Command{
			{
				Name:  "mine",
				Usage: "list your achievements",
				Action: r.guarded(middleware.Authenticated, "/achievements", func(c *cli.Context) error {
					achievements, err := r.deps.LearningService.MyAchievements(c.Context)
					if err != nil {
						return fail(err)
					}
					return r.view(achievements, func(w io.Writer) { writeAchievements(w, achievements) })
				}),
			},
			{
				Name:      "user",
				Usage:     "list a user's achievements (admins)",
				ArgsUsage: "<user-id>",
				Action: r.guarded(adminPolicy, "/users/achievements", func(c *cli.Context) error {
					id, err := idArg(c, "user")
					if err != nil {
						return fail(err)
					}
					achievements, err := r.deps.LearningService.UserAchievements(c.Context, id)
					if err != nil {
						return fail(err)
					}
					return r.view(achievements, func(w io.Writer) { writeAchievements(w, achievements) })
				}),
			},
			{
				Name:  "count",
				Usage: "count your achievements",
				Action: r.guarded(middleware.Authenticated, "/achievements", func(c *cli.Context) error {
					count, err := r.deps.LearningService.AchievementCount(c.Context)
					if err != nil {
						return fail(err)
					}
					return r.view(count, func(w io.Writer) {
						fmt.Fprintf(w, "%d achievements earned\n", count.AchievementCount)
					})
				}),
			},
			{
				Name:  "types",
				Usage: "list every achievement type",
				Action: r.guarded(middleware.Authenticated, "/achievements", func(c *cli.Context) error {
					types, err := r.deps.LearningService.AchievementTypes(c.Context)
					if err != nil {
						return fail(err)
					}
					return r.view(types, func(w io.Writer) {
						for _, t := range types {
							fmt.Fprintln(w, t)
						}
					})
				}),
			},
		},
	}
}

func (r *runner) dashboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "show learning progress",
		Subcommands: []*cli.Command{
			{
				Name:  "mine",
				Usage: "show your dashboard",
				Action: r.guarded(middleware.Authenticated, middleware.DashboardPath, func(c *cli.Context) error {
					view, err := r.deps.LearningService.Dashboard(c.Context)
					if err != nil {
						return fail(err)
					}
					return r.view(view, func(w io.Writer) {
						writeDashboard(w, view.Dashboard)
						fmt.Fprintln(w)
						writeEnrollments(w, view.Enrollments)
						fmt.Fprintln(w)
						writeAchievements(w, view.Achievements)
					})
				}),
			},
			{
				Name:      "user",
				Usage:     "show a user's dashboard (admins)",
				ArgsUsage: "<user-id>",
				Action: r.guarded(adminPolicy, "/users/dashboard", func(c *cli.Context) error {
					id, err := idArg(c, "user")
					if err != nil {
						return fail(err)
					}
					dashboard, err := r.deps.LearningService.UserDashboard(c.Context, id)
					if err != nil {
						return fail(err)
					}
					return r.view(dashboard, func(w io.Writer) { writeDashboard(w, dashboard) })
				}),
			},
		},
	}
}
