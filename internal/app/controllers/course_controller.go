package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/eduquest/client/internal/app/models"
	"github.com/eduquest/client/internal/app/models/dto"
	"github.com/eduquest/client/internal/app/services"
	"github.com/eduquest/client/internal/middleware"
	"github.com/eduquest/client/internal/pkg/apperrors"
)

// CourseController handles the catalog views
type CourseController struct {
	learning *services.LearningService
	auth     *services.AuthService
	logger   zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(learning *services.LearningService, auth *services.AuthService, logger zerolog.Logger) *CourseController {
	return &CourseController{
		learning: learning,
		auth:     auth,
		logger:   logger,
	}
}

// Home renders the landing page
func (c *CourseController) Home(ctx *gin.Context) {
	home, err := c.learning.Home(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	home.Authenticated = c.auth.IsAuthenticated(ctx.Request.Context())
	ok(ctx, home)
}

// ListCourses renders the catalog, optionally filtered by ?category= or ?level=
func (c *CourseController) ListCourses(ctx *gin.Context) {
	var (
		courses []models.Course
		err     error
	)
	reqCtx := ctx.Request.Context()

	switch {
	case ctx.Query("level") != "":
		level, valid := models.ParseLevel(ctx.Query("level"))
		if !valid {
			middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("level must be one of BEGINNER, INTERMEDIATE, ADVANCED"))
			return
		}
		courses, err = c.learning.CoursesByLevel(reqCtx, level)
	case ctx.Query("category") != "":
		courses, err = c.learning.CoursesByCategory(reqCtx, ctx.Query("category"))
	case ctx.Query("sort") == "popular":
		courses, err = c.learning.PopularCourses(reqCtx)
	case ctx.Query("sort") == "recent":
		courses, err = c.learning.RecentCourses(reqCtx)
	default:
		courses, err = c.learning.ListCourses(reqCtx)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, courses)
}

// SearchCourses renders search results for ?q=
func (c *CourseController) SearchCourses(ctx *gin.Context) {
	q := strings.TrimSpace(ctx.Query("q"))
	if q == "" {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("q is required"))
		return
	}
	courses, err := c.learning.SearchCourses(ctx.Request.Context(), q)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, courses)
}

// GetCourse renders the course detail page
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}
	reqCtx := ctx.Request.Context()
	view, err := c.learning.CourseDetail(reqCtx, id, c.auth.IsAuthenticated(reqCtx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, view)
}

// CreateCourse adds a course
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CourseRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}
	course, err := c.learning.CreateCourse(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, course)
}

// UpdateCourse replaces a course
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}
	var req dto.CourseRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}
	course, err := c.learning.UpdateCourse(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, course)
}

// DeleteCourse removes a course
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}
	if err := c.learning.DeleteCourse(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Course deleted"})
}

type courseEnrollmentsView struct {
	CourseID        int64               `json:"courseId"`
	EnrollmentCount int64               `json:"enrollmentCount"`
	Enrollments     []models.Enrollment `json:"enrollments"`
}

// CourseEnrollments renders the roster of a course
func (c *CourseController) CourseEnrollments(ctx *gin.Context) {
	id, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}
	reqCtx := ctx.Request.Context()
	list, err := c.learning.CourseEnrollments(reqCtx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	stats, err := c.learning.CourseStats(reqCtx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, courseEnrollmentsView{CourseID: id, EnrollmentCount: stats.EnrollmentCount, Enrollments: list})
}
