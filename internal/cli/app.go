// Package cli is the eduquest command line client. Every command is a view:
// it declares a guard policy and renders the result on stdout.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/eduquest/client/internal/bootstrap"
	"github.com/eduquest/client/internal/config"
	"github.com/eduquest/client/internal/middleware"
	"github.com/eduquest/client/internal/pkg/apperrors"
	"github.com/eduquest/client/internal/pkg/logger"
)

// Exit codes
const (
	ExitFailure = 1
	ExitGuard   = 2
	ExitUsage   = 3
)

// runner carries the dependencies built in Before to every action
type runner struct {
	deps   *bootstrap.Dependencies
	log    zerolog.Logger
	out    io.Writer
	asJSON bool
}

// NewApp builds the eduquest command tree. Output goes to out.
func NewApp(out io.Writer) *cli.App {
	if out == nil {
		out = os.Stdout
	}
	r := &runner{out: out, log: zerolog.Nop()}

	app := &cli.App{
		Name:                 "eduquest",
		Usage:                "browse courses and track your learning on EduQuest",
		Writer:               out,
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the config file",
				Value:   config.DefaultPath(),
				EnvVars: []string{"EDUQUEST_CONFIG"},
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print views as JSON",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "disable logging",
			},
		},
		Before: r.setup,
		After:  r.teardown,
		Commands: []*cli.Command{
			r.loginCommand(),
			r.signupCommand(),
			r.logoutCommand(),
			r.whoamiCommand(),
			r.coursesCommand(),
			r.enrollCommand(),
			r.achievementsCommand(),
			r.dashboardCommand(),
			r.serveCommand(),
		},
		// Run reports errors and picks the exit code
		ExitErrHandler: func(*cli.Context, error) {},
	}
	return app
}

// Run executes args and returns the process exit code. Error messages go to errOut.
func Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	err := NewApp(out).RunContext(ctx, args)
	if err == nil {
		return 0
	}

	code := ExitFailure
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(errOut, "eduquest:", msg)
	}
	return code
}

func (r *runner) setup(c *cli.Context) error {
	r.asJSON = c.Bool("json")

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(c.String("config"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("config: %v", err), ExitUsage)
	}
	if c.Bool("quiet") {
		lgr = logger.Configure(logger.Config{Level: logger.DisabledLevel})
	}
	r.log = lgr.With().Str("component", "cli").Logger()

	deps, err := bootstrap.BuildDependencies(c.Context, cfg, lgr)
	if err != nil {
		return cli.Exit(err.Error(), ExitFailure)
	}
	r.deps = deps
	return nil
}

func (r *runner) teardown(*cli.Context) error {
	if r.deps == nil {
		return nil
	}
	if err := r.deps.Close(); err != nil {
		r.log.Warn().Err(err).Msg("Failed to close session storage")
	}
	return nil
}

// guarded runs action only when the guard renders location for policy
func (r *runner) guarded(policy middleware.Policy, location string, action cli.ActionFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		decision := r.deps.Guard.Evaluate(c.Context, policy, location)
		if !decision.Render {
			r.log.Debug().Str("location", location).Str("redirect", decision.Location()).Msg("Guard redirected command")
			return cli.Exit(guardMessage(decision), ExitGuard)
		}
		return action(c)
	}
}

func guardMessage(d middleware.Decision) string {
	switch d.Rule {
	case middleware.RuleLoginRequired:
		if d.From != "" {
			return fmt.Sprintf("please log in first (eduquest login) to open %s", d.From)
		}
		return "please log in first (eduquest login)"
	case middleware.RuleGuestOnly:
		return "already logged in; run eduquest logout to switch accounts"
	case middleware.RuleRoleDenied:
		return "not permitted for your role"
	default:
		return "redirected to " + d.Location()
	}
}

// fail turns a service error into a command exit
func fail(err error) error {
	if err == nil {
		return nil
	}
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Details != nil {
		return cli.Exit(formatValidation(custom), ExitUsage)
	}
	if errors.Is(err, apperrors.ErrBadRequest) {
		return cli.Exit(err.Error(), ExitUsage)
	}
	if apiErr, ok := apperrors.AsAPIError(err); ok && apiErr.IsTransport() {
		return cli.Exit("backend unreachable: "+err.Error(), ExitFailure)
	}
	return cli.Exit(err.Error(), ExitFailure)
}
