package ports

import "context"

// RunLock serializes feed runs across processes so overlapping scheduled
// invocations cannot select the same unsent orders twice. Acquire returns
// false when another run currently holds the lock.
type RunLock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}
