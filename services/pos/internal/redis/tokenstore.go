package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// TokenStore keeps the station bearer token under pos:token:<station>.
type TokenStore struct {
	rdb *redis.Client
	key string
}

func NewTokenStore(c *Client, stationID string) *TokenStore {
	return &TokenStore{rdb: c.rdb, key: key("token", stationID)}
}

func (s *TokenStore) Load(ctx context.Context) (string, error) {
	token, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("cannot load token: %w", err)
	}
	return token, nil
}

func (s *TokenStore) Save(ctx context.Context, token string) error {
	if err := s.rdb.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("cannot save token: %w", err)
	}
	return nil
}

func (s *TokenStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("cannot clear token: %w", err)
	}
	return nil
}
