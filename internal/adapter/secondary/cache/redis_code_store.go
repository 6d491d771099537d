package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goshop/storefront/internal/port/output"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "verification_code:"

// RedisCodeStore is a secondary adapter that implements the
// VerificationCodeStore output port on Redis. Expiry is per entry, so
// codes stay valid exactly as long as their TTL no matter which process
// instance issued them.
type RedisCodeStore struct {
	rdb *redis.Client
}

// NewRedisCodeStore creates a new Redis-backed verification-code store
func NewRedisCodeStore(rdb *redis.Client) output.VerificationCodeStore {
	return &RedisCodeStore{rdb: rdb}
}

// Put stores a code for a subject with a per-entry expiry
func (s *RedisCodeStore) Put(ctx context.Context, subject, code string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, keyPrefix+subject, code, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	return nil
}

// Get returns the stored code for a subject
func (s *RedisCodeStore) Get(ctx context.Context, subject string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, keyPrefix+subject).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read verification code: %w", err)
	}
	return val, true, nil
}

// Delete removes a subject's code
func (s *RedisCodeStore) Delete(ctx context.Context, subject string) error {
	if err := s.rdb.Del(ctx, keyPrefix+subject).Err(); err != nil {
		return fmt.Errorf("failed to delete verification code: %w", err)
	}
	return nil
}
