package dto

import (
	"strconv"

	"github.com/eduquest/client/internal/app/models"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// SignupRequest represents the self-registration form
type SignupRequest struct {
	Name     string `json:"name" form:"name" validate:"required,min=2"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

// LoginResponse is the body of a successful /auth/login call
type LoginResponse struct {
	Token string `json:"token"`
	Type  string `json:"type" example:"Bearer"`
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role" example:"STUDENT"`
}

// UserID returns the id as a string for log fields
func (r LoginResponse) UserID() string {
	return strconv.FormatInt(r.ID, 10)
}

// AuthView is what the view layer shows after a login or signup
type AuthView struct {
	User          *models.User `json:"user"`
	Authenticated bool         `json:"authenticated"`
	RedirectTo    string       `json:"redirectTo,omitempty"`
}
