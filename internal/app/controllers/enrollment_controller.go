package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/eduquest/client/internal/app/models/dto"
	"github.com/eduquest/client/internal/app/services"
	"github.com/eduquest/client/internal/middleware"
)

// EnrollmentController handles the enroll views
type EnrollmentController struct {
	learning *services.LearningService
	logger   zerolog.Logger
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(learning *services.LearningService, logger zerolog.Logger) *EnrollmentController {
	return &EnrollmentController{
		learning: learning,
		logger:   logger,
	}
}

// EnrollPage renders a course with the caller's enrollment, if any
func (c *EnrollmentController) EnrollPage(ctx *gin.Context) {
	id, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}
	reqCtx := ctx.Request.Context()
	course, err := c.learning.GetCourse(reqCtx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	e, _, err := c.learning.MyEnrollment(reqCtx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.EnrollView{Course: course, Enrollment: e})
}

// Enroll enrolls the caller in the course
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	id, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}
	e, err := c.learning.Enroll(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int64("courseId", id).Msg("Enrolled in course")
	respond(ctx, http.StatusCreated, e)
}

// Unenroll leaves the course
func (c *EnrollmentController) Unenroll(ctx *gin.Context) {
	id, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}
	if err := c.learning.Unenroll(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Unenrolled"})
}

// UpdateProgress records progress in the course
func (c *EnrollmentController) UpdateProgress(ctx *gin.Context) {
	id, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}
	var req dto.ProgressUpdateRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}
	e, err := c.learning.UpdateProgress(ctx.Request.Context(), id, req.Progress)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, e)
}
