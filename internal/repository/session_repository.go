package repository

import (
	"biokuiz/internal/model"
	"biokuiz/internal/util"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "biokuiz:session:"

// RedisSessionRepository keeps sessions in Redis with a per-key TTL.
type RedisSessionRepository struct {
	Redis *redis.Client
}

func NewRedisSessionRepository(rdb *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{Redis: rdb}
}

func (r *RedisSessionRepository) Save(ctx context.Context, token string, p model.Principal, ttl time.Duration) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.Redis.Set(ctx, sessionKeyPrefix+token, data, ttl).Err()
}

func (r *RedisSessionRepository) Find(ctx context.Context, token string) (*model.Principal, error) {
	data, err := r.Redis.Get(ctx, sessionKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, util.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var p model.Principal
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, token string) error {
	return r.Redis.Del(ctx, sessionKeyPrefix+token).Err()
}

type memorySession struct {
	principal model.Principal
	expiresAt time.Time
}

// MemorySessionRepository is a process-local session store for single
// instance deployments and tests. Expired entries are dropped on lookup.
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

func (r *MemorySessionRepository) Save(_ context.Context, token string, p model.Principal, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[token] = memorySession{principal: p, expiresAt: r.now().Add(ttl)}
	return nil
}

func (r *MemorySessionRepository) Find(_ context.Context, token string) (*model.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[token]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	if !r.now().Before(s.expiresAt) {
		delete(r.sessions, token)
		return nil, util.ErrSessionNotFound
	}
	p := s.principal
	return &p, nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}
