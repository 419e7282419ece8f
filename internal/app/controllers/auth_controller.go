package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/eduquest/client/internal/app/models/dto"
	"github.com/eduquest/client/internal/app/services"
	"github.com/eduquest/client/internal/middleware"
)

// AuthController handles the login, signup and logout views
type AuthController struct {
	authService *services.AuthService
	learning    *services.LearningService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, learning *services.LearningService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		learning:    learning,
		logger:      logger,
	}
}

type formField struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	MinLen   int    `json:"minLength,omitempty"`
}

type formView struct {
	Form   string      `json:"form"`
	Action string      `json:"action"`
	From   string      `json:"from,omitempty"`
	Fields []formField `json:"fields"`
}

// LoginPage describes the login form
func (c *AuthController) LoginPage(ctx *gin.Context) {
	ok(ctx, formView{
		Form:   "login",
		Action: middleware.LoginPath,
		From:   ctx.Query("from"),
		Fields: []formField{
			{Name: "email", Type: "email", Required: true},
			{Name: "password", Type: "password", Required: true, MinLen: 1},
		},
	})
}

// SignupPage describes the signup form
func (c *AuthController) SignupPage(ctx *gin.Context) {
	ok(ctx, formView{
		Form:   "signup",
		Action: "/signup",
		Fields: []formField{
			{Name: "name", Type: "text", Required: true, MinLen: 2},
			{Name: "email", Type: "email", Required: true},
			{Name: "password", Type: "password", Required: true, MinLen: 6},
		},
	})
}

// Login authenticates and points the caller back to where they came from
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	user, err := c.authService.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.learning.ResetCache()

	ok(ctx, dto.AuthView{
		User:          user,
		Authenticated: true,
		RedirectTo:    middleware.SafeReturnPath(ctx.Query("from")),
	})
}

// Signup registers an account; the caller still has to log in afterwards
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	user, err := c.authService.Signup(ctx.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, dto.AuthView{
		User:          user,
		Authenticated: false,
		RedirectTo:    middleware.LoginPath,
	})
}

// Logout clears the session
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.authService.Logout(ctx.Request.Context()); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.learning.ResetCache()
	ok(ctx, dto.AuthView{Authenticated: false, RedirectTo: "/"})
}
