package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps entries in Redis under "<prefix><profile>:<key>",
// which lets several profiles share one server.
type RedisStorage struct {
	client redis.UniversalClient
	prefix string
}

// RedisOptions configures NewRedisStorage
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	Profile  string
}

// NewRedisStorage connects to Redis and verifies the connection with a PING.
func NewRedisStorage(ctx context.Context, opts RedisOptions) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	return NewRedisStorageWithClient(client, opts.Prefix, opts.Profile), nil
}

// NewRedisStorageWithClient wraps an existing client
func NewRedisStorageWithClient(client redis.UniversalClient, prefix, profile string) *RedisStorage {
	return &RedisStorage{
		client: client,
		prefix: prefix + profile + ":",
	}
}

func (r *RedisStorage) key(k string) string {
	return r.prefix + k
}

// Get returns the value stored under key; redis.Nil is reported as absent
func (r *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session: redis get %s: %w", key, err)
	}
	return val, true, nil
}

// Set stores value under key without expiry; the backend owns token lifetime
func (r *RedisStorage) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("session: redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes all keys with one DEL command
func (r *RedisStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}

// Close releases the connection pool
func (r *RedisStorage) Close() error {
	return r.client.Close()
}
