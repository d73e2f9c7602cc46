// Package dedupe drops provider redeliveries of the same inbound message.
package dedupe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper reports whether a message id is seen for the first time and
// remembers it for a TTL. Empty ids are always treated as new.
type Deduper interface {
	FirstSeen(ctx context.Context, id string) (bool, error)
}

// Memory is an in-process Deduper.
type Memory struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
	now  func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, seen: map[string]time.Time{}, now: time.Now}
}

func (m *Memory) FirstSeen(_ context.Context, id string) (bool, error) {
	if id == "" {
		return true, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, exp := range m.seen {
		if !now.Before(exp) {
			delete(m.seen, k)
		}
	}

	if _, ok := m.seen[id]; ok {
		return false, nil
	}
	m.seen[id] = now.Add(m.ttl)
	return true, nil
}

const keyPrefix = "rsvp:msg:"

// Redis shares dedupe state across replicas using SET NX with expiry.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// NewRedisFromURL parses a redis:// URL and verifies connectivity.
func NewRedisFromURL(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedis(client, ttl), nil
}

func (r *Redis) FirstSeen(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return true, nil
	}
	return r.client.SetNX(ctx, keyPrefix+id, 1, r.ttl).Result()
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
