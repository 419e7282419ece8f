package gateway

import (
	"context"
	"net/http"

	"github.com/eduquest/client/internal/app/models"
	"github.com/eduquest/client/internal/app/models/dto"
)

// AchievementsAPI wraps /achievements
type AchievementsAPI struct {
	c *Client
}

func (a *AchievementsAPI) list(ctx context.Context, path string) ([]models.Achievement, error) {
	var out []models.Achievement
	if err := a.c.do(ctx, "achievements", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Mine lists the caller's achievements
func (a *AchievementsAPI) Mine(ctx context.Context) ([]models.Achievement, error) {
	return a.list(ctx, "/achievements")
}

// ByUser lists another user's achievements
func (a *AchievementsAPI) ByUser(ctx context.Context, userID int64) ([]models.Achievement, error) {
	return a.list(ctx, joinPath("achievements", "user", id(userID)))
}

// MyCount returns how many achievements the caller holds
func (a *AchievementsAPI) MyCount(ctx context.Context) (*dto.AchievementCount, error) {
	var count dto.AchievementCount
	if err := a.c.do(ctx, "achievements", http.MethodGet, "/achievements/count", nil, &count); err != nil {
		return nil, err
	}
	return &count, nil
}

// Types lists the achievement types known to the backend
func (a *AchievementsAPI) Types(ctx context.Context) ([]models.AchievementType, error) {
	var types []models.AchievementType
	if err := a.c.do(ctx, "achievements", http.MethodGet, "/achievements/types", nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}
