package magiclink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "auth:magic-link:"

// Store keeps single-use sign-in tokens in Redis.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) TTL() time.Duration { return s.ttl }

// Issue returns a new token that resolves to userID until it expires or is
// consumed.
func (s *Store) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, keyPrefix+token, userID.String(), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store magic link: %w", err)
	}
	return token, nil
}

// Consume resolves and deletes token atomically.
func (s *Store) Consume(ctx context.Context, token string) (uuid.UUID, error) {
	if _, err := uuid.Parse(token); err != nil {
		return uuid.Nil, domain.ErrInvalidToken
	}
	val, err := s.rdb.GetDel(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, domain.ErrInvalidToken
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("consume magic link: %w", err)
	}
	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidToken
	}
	return userID, nil
}
