package gateway

import (
	"context"
	"net/http"

	"github.com/eduquest/client/internal/app/models"
)

// DashboardAPI wraps /dashboard
type DashboardAPI struct {
	c *Client
}

// Mine returns the caller's dashboard
func (a *DashboardAPI) Mine(ctx context.Context) (*models.Dashboard, error) {
	return a.get(ctx, "/dashboard")
}

// ByUser returns another user's dashboard
func (a *DashboardAPI) ByUser(ctx context.Context, userID int64) (*models.Dashboard, error) {
	return a.get(ctx, joinPath("dashboard", "user", id(userID)))
}

func (a *DashboardAPI) get(ctx context.Context, path string) (*models.Dashboard, error) {
	var d models.Dashboard
	if err := a.c.do(ctx, "dashboard", http.MethodGet, path, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
