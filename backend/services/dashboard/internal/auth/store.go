package auth

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// Store persists session records. Get returns ErrSessionNotFound for unknown ids.
type Store interface {
	Save(ctx context.Context, rec Record, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process; expired entries are swept by go-cache.
type MemoryStore struct {
	cache *cache.Cache
}

// NewMemoryStore returns a store sweeping expired entries every cleanup interval.
func NewMemoryStore(cleanup time.Duration) *MemoryStore {
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &MemoryStore{cache: cache.New(cache.NoExpiration, cleanup)}
}

func (s *MemoryStore) Save(_ context.Context, rec Record, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrNonPositiveTTL
	}
	s.cache.Set(rec.ID, rec, ttl)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	rec := v.(Record)
	return &rec, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}

// Len reports the number of live entries.
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}
