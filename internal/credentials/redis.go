// README: Redis-backed credential store with TTL.
package credentials

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"footy/internal/types"
)

const (
	accessKeyPrefix  = "credentials:%s:access"
	refreshKeyPrefix = "credentials:%s:refresh"
)

type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{redis: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, sessionID types.ID) (*Credentials, error) {
	access, err := s.redis.Get(ctx, accessKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	refresh, err := s.redis.Get(ctx, refreshKey(sessionID)).Result()
	if err == redis.Nil {
		refresh = ""
	} else if err != nil {
		return nil, err
	}
	return &Credentials{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *RedisStore) Set(ctx context.Context, sessionID types.ID, creds Credentials) error {
	pipe := s.redis.Pipeline()
	pipe.Set(ctx, accessKey(sessionID), creds.AccessToken, s.ttl)
	if creds.RefreshToken != "" {
		pipe.Set(ctx, refreshKey(sessionID), creds.RefreshToken, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Clear(ctx context.Context, sessionID types.ID) error {
	return s.redis.Del(ctx, accessKey(sessionID), refreshKey(sessionID)).Err()
}

func accessKey(sessionID types.ID) string {
	return fmt.Sprintf(accessKeyPrefix, string(sessionID))
}

func refreshKey(sessionID types.ID) string {
	return fmt.Sprintf(refreshKeyPrefix, string(sessionID))
}
