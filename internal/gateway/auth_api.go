package gateway

import (
	"context"
	"net/http"

	"github.com/eduquest/client/internal/app/models"
	"github.com/eduquest/client/internal/app/models/dto"
)

// AuthAPI wraps /auth
type AuthAPI struct {
	c *Client
}

// Login exchanges credentials for a bearer token
func (a *AuthAPI) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	var resp dto.LoginResponse
	if err := a.c.do(ctx, "auth", http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a new account. The backend returns the user but no token.
func (a *AuthAPI) Signup(ctx context.Context, req dto.SignupRequest) (*models.User, error) {
	var user models.User
	if err := a.c.do(ctx, "auth", http.MethodPost, "/auth/signup", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUser returns the user owning the bearer token
func (a *AuthAPI) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := a.c.do(ctx, "auth", http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
