package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/eduquest/client/internal/app/models"
	"github.com/eduquest/client/internal/app/services"
	"github.com/eduquest/client/internal/middleware"
)

// DashboardController handles the dashboard and achievement views
type DashboardController struct {
	learning *services.LearningService
	logger   zerolog.Logger
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(learning *services.LearningService, logger zerolog.Logger) *DashboardController {
	return &DashboardController{
		learning: learning,
		logger:   logger,
	}
}

// Dashboard renders the caller's dashboard
func (c *DashboardController) Dashboard(ctx *gin.Context) {
	user, found := requireUser(ctx)
	if !found {
		return
	}
	view, err := c.learning.Dashboard(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	view.User = user
	ok(ctx, view)
}

type achievementsView struct {
	Achievements []models.Achievement     `json:"achievements"`
	Count        int64                    `json:"count"`
	Types        []models.AchievementType `json:"types,omitempty"`
}

// Achievements renders the caller's achievements
func (c *DashboardController) Achievements(ctx *gin.Context) {
	reqCtx := ctx.Request.Context()
	list, err := c.learning.MyAchievements(reqCtx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	view := achievementsView{Achievements: list, Count: int64(len(list))}
	if count, err := c.learning.AchievementCount(reqCtx); err == nil {
		view.Count = count.AchievementCount
	} else {
		c.logger.Debug().Err(err).Msg("Achievement count unavailable, using list length")
	}
	if types, err := c.learning.AchievementTypes(reqCtx); err == nil {
		view.Types = types
	} else {
		c.logger.Debug().Err(err).Msg("Achievement types unavailable")
	}
	ok(ctx, view)
}

// UserDashboard renders another user's dashboard
func (c *DashboardController) UserDashboard(ctx *gin.Context) {
	id, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}
	d, err := c.learning.UserDashboard(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, d)
}

// UserAchievements renders another user's achievements
func (c *DashboardController) UserAchievements(ctx *gin.Context) {
	id, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}
	list, err := c.learning.UserAchievements(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, achievementsView{Achievements: list, Count: int64(len(list))})
}
