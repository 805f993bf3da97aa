package service

import (
	"context"
	"sync"
	"time"

	"paylink/shared/pkg/redis"
)

// ReceiptGuard lets only the first of several deliveries for the same session
// send a receipt.
type ReceiptGuard interface {
	// Claim reports true if the caller is the first to claim key within the TTL.
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type RedisReceiptGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisReceiptGuard(client *redis.Client, ttl time.Duration) *RedisReceiptGuard {
	return &RedisReceiptGuard{client: client, ttl: ttl}
}

func (g *RedisReceiptGuard) Claim(ctx context.Context, key string) (bool, error) {
	return g.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), g.ttl)
}

func (g *RedisReceiptGuard) Release(ctx context.Context, key string) error {
	return g.client.Delete(ctx, key)
}

// MemoryReceiptGuard is the single-process fallback used when no Redis is configured.
type MemoryReceiptGuard struct {
	mu     sync.Mutex
	claims map[string]time.Time
	ttl    time.Duration
	now    func() time.Time
}

func NewMemoryReceiptGuard(ttl time.Duration) *MemoryReceiptGuard {
	return &MemoryReceiptGuard{
		claims: make(map[string]time.Time),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (g *MemoryReceiptGuard) Claim(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.evictExpired(now)

	if _, ok := g.claims[key]; ok {
		return false, nil
	}
	g.claims[key] = now.Add(g.ttl)
	return true, nil
}

func (g *MemoryReceiptGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.claims, key)
	return nil
}

// evictExpired must be called with mu held.
func (g *MemoryReceiptGuard) evictExpired(now time.Time) {
	for k, exp := range g.claims {
		if now.After(exp) {
			delete(g.claims, k)
		}
	}
}
