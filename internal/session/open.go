package session

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/eduquest/client/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStorage builds the backend selected by session.backend.
// The returned closer releases backend resources.
func OpenStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Storage, io.Closer, error) {
	switch cfg.Session.Backend {
	case config.BackendMemory:
		return NewMemoryStorage(), nopCloser{}, nil
	case config.BackendFile:
		fs, err := NewFileStorage(cfg.Session.FilePath, log)
		if err != nil {
			return nil, nil, err
		}
		return fs, nopCloser{}, nil
	case config.BackendRedis:
		rs, err := NewRedisStorage(ctx, RedisOptions{
			Addr:     cfg.Session.RedisAddr,
			Password: cfg.Session.RedisPassword,
			DB:       cfg.Session.RedisDB,
			Prefix:   cfg.Session.RedisPrefix,
			Profile:  cfg.Session.Profile,
		})
		if err != nil {
			return nil, nil, err
		}
		return rs, rs, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}
