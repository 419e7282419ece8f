package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/eduquest/client/internal/app/models"
	"github.com/eduquest/client/internal/app/models/dto"
	"github.com/eduquest/client/internal/pkg/apperrors"
	"github.com/eduquest/client/internal/session"
)

// Fallback messages used when the backend gives no reason
const (
	MsgLoginFailed        = "Login failed"
	MsgRegistrationFailed = "Registration failed"
	MsgCurrentUserFailed  = "Failed to get current user"
)

// AuthState is the coarse auth lifecycle state
type AuthState int

const (
	StateAnonymous AuthState = iota
	StateAuthenticating
	StateAuthenticated
)

func (s AuthState) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// AuthBackend is the subset of the gateway the auth service calls.
// *gateway.AuthAPI satisfies it.
type AuthBackend interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Signup(ctx context.Context, req dto.SignupRequest) (*models.User, error)
	CurrentUser(ctx context.Context) (*models.User, error)
}

// AuthService owns every mutation of the persisted session
type AuthService struct {
	backend AuthBackend
	store   *session.Store
	logger  zerolog.Logger
	nowFunc func() time.Time

	submitting atomic.Bool
	pending    atomic.Int32
	refresh    singleflight.Group
}

// NewAuthService creates a new AuthService
func NewAuthService(backend AuthBackend, store *session.Store, logger zerolog.Logger) *AuthService {
	return &AuthService{
		backend: backend,
		store:   store,
		logger:  logger.With().Str("component", "auth").Logger(),
		nowFunc: time.Now,
	}
}

// Login authenticates with email and password and persists the token and user.
// On failure the existing session is left as it was.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return nil, apperrors.ErrAuthInProgress
	}
	defer s.submitting.Store(false)
	s.pending.Add(1)
	defer s.pending.Add(-1)

	gen := s.store.Generation()
	resp, err := s.backend.Login(ctx, dto.LoginRequest{Email: email, Password: password})
	if err != nil {
		s.logFailure(err, "Login failed")
		return nil, apperrors.NewCustomError(err, apperrors.BackendMessage(err, MsgLoginFailed))
	}

	// The login response carries no creation date
	user := models.User{
		ID:        resp.ID,
		Name:      resp.Name,
		Email:     resp.Email,
		Role:      models.ParseRole(resp.Role),
		CreatedAt: models.NewTimestamp(s.nowFunc().UTC()),
	}

	err = s.store.ApplyIf(ctx, gen, func(w session.Writer) error {
		return w.SetSession(ctx, resp.Token, user)
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrStaleResponse) {
			s.logger.Warn().Int64("user_id", user.ID).Msg("Dropping login response, session changed meanwhile")
		} else {
			s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to store session")
		}
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("User logged in")
	return &user, nil
}

// Signup registers an account and stores the returned user. It never stores a
// token, so the caller is still anonymous until it logs in.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*models.User, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return nil, apperrors.ErrAuthInProgress
	}
	defer s.submitting.Store(false)
	s.pending.Add(1)
	defer s.pending.Add(-1)

	gen := s.store.Generation()
	user, err := s.backend.Signup(ctx, dto.SignupRequest{Name: name, Email: email, Password: password})
	if err != nil {
		s.logFailure(err, "Signup failed")
		return nil, apperrors.NewCustomError(err, apperrors.BackendMessage(err, MsgRegistrationFailed))
	}
	user.Role = models.ParseRole(string(user.Role))

	err = s.store.ApplyIf(ctx, gen, func(w session.Writer) error {
		return w.SetUser(ctx, *user)
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrStaleResponse) {
			s.logger.Warn().Int64("user_id", user.ID).Msg("Dropping signup response, session changed meanwhile")
		}
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return user, nil
}

// RefreshCurrentUser reloads the user from the backend. Any failure clears the
// whole session. Concurrent callers share one round trip, which outlives any
// single caller; a caller whose ctx ends gets ctx.Err() and the session is
// left alone.
func (s *AuthService) RefreshCurrentUser(ctx context.Context) (*models.User, error) {
	s.pending.Add(1)
	defer s.pending.Add(-1)

	shared := context.WithoutCancel(ctx)
	ch := s.refresh.DoChan("me", func() (interface{}, error) {
		return s.refreshOnce(shared)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		user := *res.Val.(*models.User)
		return &user, nil
	}
}

func (s *AuthService) refreshOnce(ctx context.Context) (*models.User, error) {
	gen := s.store.Generation()
	user, err := s.backend.CurrentUser(ctx)
	if err != nil && errors.Is(err, context.Canceled) {
		s.logger.Debug().Msg("Refresh cancelled, keeping session")
		return nil, apperrors.NewCustomError(err, MsgCurrentUserFailed)
	}
	if err != nil {
		s.logFailure(err, "Refreshing current user failed, clearing session")
		clearErr := s.store.ApplyIf(ctx, gen, func(w session.Writer) error {
			return w.Clear(ctx)
		})
		if clearErr != nil && !apperrors.Is(clearErr, apperrors.ErrStaleResponse) {
			s.logger.Error().Err(clearErr).Msg("Failed to clear session")
		}
		return nil, apperrors.NewCustomError(err, apperrors.BackendMessage(err, MsgCurrentUserFailed))
	}
	user.Role = models.ParseRole(string(user.Role))

	err = s.store.ApplyIf(ctx, gen, func(w session.Writer) error {
		return w.SetUser(ctx, *user)
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrStaleResponse) {
			s.logger.Warn().Int64("user_id", user.ID).Msg("Dropping refreshed user, session changed meanwhile")
		}
		return nil, err
	}

	s.logger.Debug().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("Current user refreshed")
	return user, nil
}

// Logout clears the local session. The backend is not told.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info().Msg("User logged out")
	return nil
}

// IsAuthenticated reports whether both a token and a user are stored
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	return s.store.Snapshot(ctx).Valid()
}

// CurrentUser returns the stored user, which may exist without a token after signup
func (s *AuthService) CurrentUser(ctx context.Context) (*models.User, bool) {
	return s.store.GetUser(ctx)
}

// Session returns a consistent snapshot of the stored session
func (s *AuthService) Session(ctx context.Context) session.Session {
	return s.store.Snapshot(ctx)
}

// State reports the lifecycle state
func (s *AuthService) State(ctx context.Context) AuthState {
	if s.pending.Load() > 0 {
		return StateAuthenticating
	}
	if s.IsAuthenticated(ctx) {
		return StateAuthenticated
	}
	return StateAnonymous
}

func (s *AuthService) logFailure(err error, msg string) {
	evt := s.logger.Warn().Err(err)
	if apiErr, ok := apperrors.AsAPIError(err); ok {
		evt = evt.Int("status", apiErr.Status)
	}
	evt.Msg(msg)
}
