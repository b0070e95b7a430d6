package token

import (
	"context"
	"time"
)

// Store keeps refresh tokens alive until they expire or are revoked.
type Store interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}
