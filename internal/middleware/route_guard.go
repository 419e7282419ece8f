package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eduquest/client/internal/app/models"
	"github.com/eduquest/client/internal/session"
)

// Well-known locations
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// Context keys set by Guard.Require
const (
	ContextSessionKey = "session"
	ContextUserKey    = "currentUser"
)

// Policy is what a route demands of the session
type Policy struct {
	RequireAuth bool
	// AllowedRoles restricts the route to these roles. nil means any role;
	// an empty non-nil slice admits nobody.
	AllowedRoles []models.RoleType
}

// GuestOnly is for the login and signup pages. Routes anyone may see are
// simply not guarded.
var GuestOnly = Policy{RequireAuth: false}

// Authenticated is for routes that need a session
var Authenticated = Policy{RequireAuth: true}

// Roles builds a policy limited to the given roles
func Roles(roles ...models.RoleType) Policy {
	if roles == nil {
		roles = []models.RoleType{}
	}
	return Policy{RequireAuth: true, AllowedRoles: roles}
}

// Rule identifies which guard rule produced a redirect
type Rule int

const (
	RuleNone Rule = iota
	RuleLoginRequired
	RuleGuestOnly
	RuleRoleDenied
)

// Decision is the outcome of a guard evaluation
type Decision struct {
	Render     bool
	RedirectTo string
	// From is the originally requested location, set on login redirects
	From    string
	Replace bool
	Rule    Rule
}

func render() Decision {
	return Decision{Render: true}
}

func redirect(rule Rule, to, from string) Decision {
	return Decision{RedirectTo: to, From: from, Replace: true, Rule: rule}
}

// SessionSource supplies a consistent session snapshot. *session.Store satisfies it.
type SessionSource interface {
	Snapshot(ctx context.Context) session.Session
}

// Guard decides whether a location may render for the current session
type Guard struct {
	sessions SessionSource
}

// NewGuard creates a Guard
func NewGuard(sessions SessionSource) *Guard {
	return &Guard{sessions: sessions}
}

// Evaluate applies the policy to the current session. It has no side effects.
func (g *Guard) Evaluate(ctx context.Context, policy Policy, location string) Decision {
	return Evaluate(g.sessions.Snapshot(ctx), policy, location)
}

// Evaluate applies policy to an already taken snapshot. Rules, first match wins:
// an anonymous caller on a protected route goes to the login page, an
// authenticated caller on a guest route goes to the dashboard, and an
// authenticated caller lacking an allowed role goes to the dashboard.
func Evaluate(sess session.Session, policy Policy, location string) Decision {
	authenticated := sess.Valid()

	if policy.RequireAuth && !authenticated {
		return redirect(RuleLoginRequired, LoginPath, location)
	}
	if !policy.RequireAuth && authenticated {
		return redirect(RuleGuestOnly, DashboardPath, "")
	}
	if policy.AllowedRoles != nil && authenticated && !sess.User.HasRole(policy.AllowedRoles...) {
		return redirect(RuleRoleDenied, DashboardPath, "")
	}
	return render()
}

// Require turns the guard into gin middleware. Redirects become 302s; a
// login redirect carries the requested location in ?from=.
func (g *Guard) Require(policy Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := g.sessions.Snapshot(c.Request.Context())
		decision := Evaluate(sess, policy, c.Request.URL.RequestURI())
		if !decision.Render {
			c.Redirect(http.StatusFound, decision.Location())
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, sess)
		if sess.User != nil {
			c.Set(ContextUserKey, sess.User)
		}
		c.Next()
	}
}

// Location renders the redirect target including the return path
func (d Decision) Location() string {
	if d.From == "" {
		return d.RedirectTo
	}
	return d.RedirectTo + "?from=" + url.QueryEscape(d.From)
}

// SafeReturnPath validates a ?from= value. Only local absolute paths are
// accepted; anything else falls back to the dashboard.
func SafeReturnPath(from string) string {
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.HasPrefix(from, "/\\") {
		return DashboardPath
	}
	u, err := url.Parse(from)
	if err != nil || u.IsAbs() || u.Host != "" {
		return DashboardPath
	}
	if u.Path == LoginPath || u.Path == "/signup" {
		return DashboardPath
	}
	return from
}

// SessionFromContext returns the snapshot stored by Require
func SessionFromContext(c *gin.Context) (session.Session, bool) {
	v, ok := c.Get(ContextSessionKey)
	if !ok {
		return session.Session{}, false
	}
	sess, ok := v.(session.Session)
	return sess, ok
}

// UserFromContext returns the user stored by Require
func UserFromContext(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
