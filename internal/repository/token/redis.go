package token

import (
	"context"
	"errors"
	"time"

	"crm-backoffice/internal/domain"
	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
}

// NewRedis returns a Store backed by Redis. Expiry is handled by key TTL,
// the way the original token collection aged entries out.
func NewRedis(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, key(token), userID, ttl).Err()
}

func (s *redisStore) Lookup(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return userID, nil
}

func (s *redisStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, key(token)).Err()
}

func key(token string) string {
	return "refresh:" + token
}
