// Package controllers renders the local view server's JSON view models
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eduquest/client/internal/app/models"
	"github.com/eduquest/client/internal/app/models/dto"
	"github.com/eduquest/client/internal/middleware"
	"github.com/eduquest/client/internal/pkg/apperrors"
)

// parseIDParam reads a positive integer path parameter
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Invalid "+name))
		return 0, false
	}
	return id, true
}

// requireUser returns the user the route guard attached. A route mounted
// without the guard answers 401.
func requireUser(ctx *gin.Context) (*models.User, bool) {
	user, found := middleware.UserFromContext(ctx)
	if !found || user == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrNotAuthenticated)
		return nil, false
	}
	return user, true
}

func respond(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, dto.DataResponse{Data: data})
}

func ok(ctx *gin.Context, data interface{}) {
	respond(ctx, http.StatusOK, data)
}
