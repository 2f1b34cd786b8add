package cache

import (
	"context"
	"sync"
	"time"

	"github.com/LavaJover/shvark-deal-service/internal/clock"
	"github.com/LavaJover/shvark-deal-service/internal/domain"
)

// InMemoryLease is the single-replica stand-in for RedisLease.
type InMemoryLease struct {
	mu        sync.Mutex
	clock     clock.Clock
	expiresAt time.Time
	held      bool
}

func NewInMemoryLease(clk clock.Clock) *InMemoryLease {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &InMemoryLease{clock: clk}
}

func (l *InMemoryLease) TryAcquire(_ context.Context, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if l.held && now.Before(l.expiresAt) {
		return false, nil
	}
	l.held = true
	l.expiresAt = now.Add(ttl)
	return true, nil
}

func (l *InMemoryLease) Release(_ context.Context) error {
	l.mu.Lock()
	l.held = false
	l.mu.Unlock()
	return nil
}

var _ domain.Lease = (*InMemoryLease)(nil)
