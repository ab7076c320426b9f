package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes session read-modify-write cycles across replicas.
type DistributedLocker interface {
	// Lock blocks until the lock for key (a rendered domain.SessionKey) is held or ctx ends.
	// The lock expires after ttl even if never released, so a crashed holder cannot
	// wedge a session. The returned UnlockFunc MUST be called.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
