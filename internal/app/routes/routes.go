package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eduquest/client/internal/app/controllers"
	"github.com/eduquest/client/internal/app/models"
	"github.com/eduquest/client/internal/middleware"
)

// Controllers groups the view controllers
type Controllers struct {
	Auth       *controllers.AuthController
	Course     *controllers.CourseController
	Enrollment *controllers.EnrollmentController
	Dashboard  *controllers.DashboardController
}

// SetupRouter configures all view routes. Each guarded route declares its policy.
func SetupRouter(router *gin.Engine, c Controllers, guard *middleware.Guard, gatherer prometheus.Gatherer) {
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	// --- Public routes ---
	router.GET("/", c.Course.Home)
	router.GET("/courses", c.Course.ListCourses)
	router.GET("/courses/search", c.Course.SearchCourses)
	router.GET("/courses/:id", c.Course.GetCourse)

	// --- Guest-only routes ---
	guest := router.Group("")
	guest.Use(guard.Require(middleware.GuestOnly))
	{
		guest.GET("/login", c.Auth.LoginPage)
		guest.POST("/login", c.Auth.Login)
		guest.GET("/signup", c.Auth.SignupPage)
		guest.POST("/signup", c.Auth.Signup)
	}

	// --- Authenticated routes ---
	authenticated := router.Group("")
	authenticated.Use(guard.Require(middleware.Authenticated))
	{
		authenticated.POST("/logout", c.Auth.Logout)
		authenticated.GET("/dashboard", c.Dashboard.Dashboard)
		authenticated.GET("/achievements", c.Dashboard.Achievements)

		enroll := authenticated.Group("/enroll")
		{
			enroll.GET("/:id", c.Enrollment.EnrollPage)
			enroll.POST("/:id", c.Enrollment.Enroll)
			enroll.DELETE("/:id", c.Enrollment.Unenroll)
			enroll.PUT("/:id/progress", c.Enrollment.UpdateProgress)
		}
	}

	// --- Instructor routes ---
	instructors := router.Group("/courses")
	instructors.Use(guard.Require(middleware.Roles(models.RoleInstructor, models.RoleAdmin)))
	{
		instructors.POST("", c.Course.CreateCourse)
		instructors.PUT("/:id", c.Course.UpdateCourse)
		instructors.DELETE("/:id", c.Course.DeleteCourse)
		instructors.GET("/:id/enrollments", c.Course.CourseEnrollments)
	}

	// --- Admin routes ---
	admin := router.Group("/users")
	admin.Use(guard.Require(middleware.Roles(models.RoleAdmin)))
	{
		admin.GET("/:id/dashboard", c.Dashboard.UserDashboard)
		admin.GET("/:id/achievements", c.Dashboard.UserAchievements)
	}
}
