package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "dashboard:sessions:"

// RedisStore keeps sessions in Redis with the session lifetime as key TTL. Backend tokens are
// sealed before they are written.
type RedisStore struct {
	client redis.Cmdable
	sealer *Sealer
}

// NewRedisStore returns redis-backed store.
func NewRedisStore(client redis.Cmdable, sealer *Sealer) *RedisStore {
	return &RedisStore{client: client, sealer: sealer}
}

func (s *RedisStore) key(id string) string {
	return redisKeyPrefix + id
}

func (s *RedisStore) Save(ctx context.Context, rec Record, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrNonPositiveTTL
	}
	sealed, err := s.sealer.Seal(rec.Token)
	if err != nil {
		return err
	}
	rec.Token = sealed
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(rec.ID), data, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	result, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal([]byte(result), &rec); err != nil {
		return nil, fmt.Errorf("auth: decode session: %w", err)
	}
	if rec.Token, err = s.sealer.Open(rec.Token); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}
