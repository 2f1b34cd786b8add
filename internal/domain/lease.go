package domain

import (
	"context"
	"time"
)

// Lease gives one process at a time the right to run a job across replicas.
type Lease interface {
	// TryAcquire returns false without error when another holder owns the lease.
	TryAcquire(ctx context.Context, ttl time.Duration) (bool, error)
	Release(ctx context.Context) error
}
