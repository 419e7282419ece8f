package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/eduquest/client/internal/app/models"
	"github.com/eduquest/client/internal/app/models/dto"
	"github.com/eduquest/client/internal/middleware"
	"github.com/eduquest/client/internal/pkg/auth"
	"github.com/eduquest/client/internal/pkg/validation"
)

func (r *runner) loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "log in and remember the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "account email", EnvVars: []string{"EDUQUEST_EMAIL"}},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "account password", EnvVars: []string{"EDUQUEST_PASSWORD"}},
		},
		Action: r.guarded(middleware.GuestOnly, middleware.LoginPath, func(c *cli.Context) error {
			req := dto.LoginRequest{Email: c.String("email"), Password: c.String("password")}
			if err := validation.Struct(req); err != nil {
				return fail(err)
			}

			user, err := r.deps.AuthService.Login(c.Context, req.Email, req.Password)
			if err != nil {
				return fail(err)
			}
			return r.view(dto.AuthView{User: user, Authenticated: true}, func(w io.Writer) {
				fmt.Fprintf(w, "Welcome back, %s (%s)\n", user.Name, user.Role)
			})
		}),
	}
}

func (r *runner) signupCommand() *cli.Command {
	return &cli.Command{
		Name:  "signup",
		Usage: "create an account; log in afterwards",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "display name"},
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "account email", EnvVars: []string{"EDUQUEST_EMAIL"}},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "account password", EnvVars: []string{"EDUQUEST_PASSWORD"}},
		},
		Action: r.guarded(middleware.GuestOnly, "/signup", func(c *cli.Context) error {
			req := dto.SignupRequest{Name: c.String("name"), Email: c.String("email"), Password: c.String("password")}
			if err := validation.Struct(req); err != nil {
				return fail(err)
			}

			user, err := r.deps.AuthService.Signup(c.Context, req.Name, req.Email, req.Password)
			if err != nil {
				return fail(err)
			}
			return r.view(dto.AuthView{User: user, RedirectTo: middleware.LoginPath}, func(w io.Writer) {
				fmt.Fprintf(w, "Account created for %s. Run eduquest login to sign in.\n", user.Email)
			})
		}),
	}
}

func (r *runner) logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "forget the stored session",
		// Unguarded: a half session left by signup must be clearable too
		Action: func(c *cli.Context) error {
			if err := r.deps.AuthService.Logout(c.Context); err != nil {
				return fail(err)
			}
			return r.message("Logged out")
		},
	}
}

type whoamiView struct {
	User  *models.User `json:"user"`
	Token *tokenView   `json:"token,omitempty"`
}

type tokenView struct {
	Subject   string     `json:"subject,omitempty"`
	Issuer    string     `json:"issuer,omitempty"`
	Algorithm string     `json:"algorithm,omitempty"`
	IssuedAt  *time.Time `json:"issuedAt,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Expired   bool       `json:"expired"`
}

// optionalTime maps a missing claim to nil so it is left out of JSON
func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (r *runner) whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the logged-in user",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "refresh", Usage: "reload the user from the backend"},
		},
		Action: r.guarded(middleware.Authenticated, "/me", func(c *cli.Context) error {
			ctx := c.Context
			var user *models.User
			if c.Bool("refresh") {
				u, err := r.deps.AuthService.RefreshCurrentUser(ctx)
				if err != nil {
					return fail(fmt.Errorf("session is no longer valid, log in again: %w", err))
				}
				user = u
			} else {
				user, _ = r.deps.AuthService.CurrentUser(ctx)
			}

			out := whoamiView{User: user}
			// Claims are shown for information only; the backend decides validity
			if token, found := r.deps.Store.GetToken(ctx); found {
				if info, err := auth.Inspect(token); err == nil {
					out.Token = &tokenView{
						Subject:   info.Subject,
						Issuer:    info.Issuer,
						Algorithm: info.Algorithm,
						IssuedAt:  optionalTime(info.IssuedAt),
						ExpiresAt: optionalTime(info.ExpiresAt),
						Expired:   info.Expired(time.Now()),
					}
				}
			}

			return r.view(out, func(w io.Writer) {
				writeUser(w, user)
				if out.Token != nil && out.Token.ExpiresAt != nil {
					state := "valid until"
					if out.Token.Expired {
						state = "expired at"
					}
					fmt.Fprintf(w, "Token\t%s %s\n", state, out.Token.ExpiresAt.Local().Format(time.RFC1123))
				}
			})
		}),
	}
}
