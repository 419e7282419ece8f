package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/eduquest/client/internal/app/models"
	"github.com/eduquest/client/internal/pkg/apperrors"
)

// Entry keys
const (
	UserKey  = "currentUser"
	TokenKey = "jwt_token"
)

// Session is a consistent view of both entries
type Session struct {
	Token string
	User  *models.User
}

// Valid reports whether both the token and the user are present
func (s Session) Valid() bool {
	return s.Token != "" && s.User != nil
}

// Writer mutates the store while ApplyIf holds its lock
type Writer interface {
	SetUser(ctx context.Context, user models.User) error
	SetToken(ctx context.Context, token string) error
	// SetSession writes both entries. On failure the previous entries are put back.
	SetSession(ctx context.Context, token string, user models.User) error
	Clear(ctx context.Context) error
}

// Store holds the current user and bearer token on top of a Storage backend.
// Readers never see half of a Clear.
type Store struct {
	storage Storage
	log     zerolog.Logger

	mu  sync.RWMutex
	gen uint64
}

// NewStore creates a store over storage
func NewStore(storage Storage, log zerolog.Logger) *Store {
	return &Store{
		storage: storage,
		log:     log.With().Str("component", "session").Logger(),
	}
}

// GetUser returns the persisted user. Malformed data and read failures are logged and reported as absent.
func (s *Store) GetUser(ctx context.Context) (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getUserLocked(ctx)
}

// SetUser replaces the persisted user
func (s *Store) SetUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setUserLocked(ctx, user)
}

// GetToken returns the persisted bearer token; an empty token counts as absent
func (s *Store) GetToken(ctx context.Context) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getTokenLocked(ctx)
}

// SetToken replaces the persisted bearer token
func (s *Store) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setTokenLocked(ctx, token)
}

// Clear removes both entries in one storage operation and bumps the generation
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked(ctx)
}

// Snapshot reads the token and the user under one lock
func (s *Store) Snapshot(ctx context.Context) Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sess Session
	if token, ok := s.getTokenLocked(ctx); ok {
		sess.Token = token
	}
	if user, ok := s.getUserLocked(ctx); ok {
		sess.User = user
	}
	return sess
}

// Generation changes every time the session is cleared
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// ApplyIf runs fn under the write lock if no Clear happened since gen was
// read. Otherwise fn is skipped and apperrors.ErrStaleResponse is returned.
func (s *Store) ApplyIf(ctx context.Context, gen uint64, fn func(w Writer) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		return apperrors.ErrStaleResponse
	}
	return fn(lockedWriter{s})
}

func (s *Store) getUserLocked(ctx context.Context) (*models.User, bool) {
	raw, ok, err := s.storage.Get(ctx, UserKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read stored user")
		return nil, false
	}
	if !ok || raw == "" {
		return nil, false
	}

	var user *models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.log.Warn().Err(err).Msg("Stored user is malformed, ignoring it")
		return nil, false
	}
	if user == nil || user.ID == 0 {
		s.log.Warn().Str("raw", raw).Msg("Stored user has no identity, ignoring it")
		return nil, false
	}
	return user, true
}

func (s *Store) setUserLocked(ctx context.Context, user models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.storage.Set(ctx, UserKey, string(raw)); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	return nil
}

func (s *Store) getTokenLocked(ctx context.Context) (string, bool) {
	token, ok, err := s.storage.Get(ctx, TokenKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read stored token")
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func (s *Store) setTokenLocked(ctx context.Context, token string) error {
	if err := s.storage.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

func (s *Store) setSessionLocked(ctx context.Context, token string, user models.User) error {
	prevToken, hadToken, err := s.storage.Get(ctx, TokenKey)
	if err != nil {
		return fmt.Errorf("read previous token: %w", err)
	}

	if err := s.setTokenLocked(ctx, token); err != nil {
		return err
	}
	err = s.setUserLocked(ctx, user)
	if err == nil {
		return nil
	}

	// a rejected Set leaves its key as it was, so only the token needs undoing
	var restoreErr error
	if hadToken {
		restoreErr = s.storage.Set(ctx, TokenKey, prevToken)
	} else {
		restoreErr = s.storage.Delete(ctx, TokenKey)
	}
	if restoreErr != nil {
		s.log.Error().Err(restoreErr).Msg("Failed to restore previous token")
		return errors.Join(err, fmt.Errorf("restore token: %w", restoreErr))
	}
	return err
}

func (s *Store) clearLocked(ctx context.Context) error {
	s.gen++
	if err := s.storage.Delete(ctx, UserKey, TokenKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.log.Debug().Uint64("generation", s.gen).Msg("Session cleared")
	return nil
}

type lockedWriter struct {
	s *Store
}

func (w lockedWriter) SetUser(ctx context.Context, user models.User) error {
	return w.s.setUserLocked(ctx, user)
}

func (w lockedWriter) SetToken(ctx context.Context, token string) error {
	return w.s.setTokenLocked(ctx, token)
}

func (w lockedWriter) SetSession(ctx context.Context, token string, user models.User) error {
	return w.s.setSessionLocked(ctx, token, user)
}

func (w lockedWriter) Clear(ctx context.Context) error {
	return w.s.clearLocked(ctx)
}
