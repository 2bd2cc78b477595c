package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lms_backend/internals/features/assessments/model"
)

// SessionStore menyimpan start marker di Redis:
//
//	SET attempt_session:{kind}:{assessment}:{learner} <RFC3339Nano> NX EX ttl
//
// ttl 0 berarti tanpa EX; key hanya hilang lewat Clear.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Begin is idempotent: the first start wins and is returned.
func (s *SessionStore) Begin(ctx context.Context, key model.SessionKey, startedAt time.Time, ttl time.Duration) (time.Time, error) {
	val := startedAt.UTC().Format(time.RFC3339Nano)
	ok, err := s.client.SetNX(ctx, key.String(), val, ttl).Result()
	if err != nil {
		return time.Time{}, err
	}
	if ok {
		return startedAt.UTC(), nil
	}

	existing, found, err := s.Get(ctx, key)
	if err != nil {
		return time.Time{}, err
	}
	if !found {
		// expired di antara SETNX dan GET
		if err := s.client.Set(ctx, key.String(), val, ttl).Err(); err != nil {
			return time.Time{}, err
		}
		return startedAt.UTC(), nil
	}
	return existing, nil
}

func (s *SessionStore) Get(ctx context.Context, key model.SessionKey) (time.Time, bool, error) {
	raw, err := s.client.Get(ctx, key.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("corrupt start marker %s: %w", key, err)
	}
	return t.UTC(), true, nil
}

func (s *SessionStore) Clear(ctx context.Context, key model.SessionKey) error {
	return s.client.Del(ctx, key.String()).Err()
}
