// Package lock guards the single-writer rule for a session's ledger. A
// single process only needs the in-process implementation; deployments that
// share a ledger store across processes use the Redis one.
package lock

import (
	"context"
	"sync"
	"time"
)

type Lock interface {
	// Acquire blocks until the key is held, the context ends, or ttl-based
	// expiry (where supported) frees a stale holder.
	Acquire(ctx context.Context, key string, ttl time.Duration) error

	// TryAcquire returns immediately; true means the key is now held.
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees a held key.
	Release(ctx context.Context, key string) error

	Close() error
}

// Local is a per-key in-process lock. TTLs are ignored: a process that dies
// takes its locks with it.
type Local struct {
	mu   sync.Mutex
	keys map[string]chan struct{}
}

func NewLocal() *Local {
	return &Local{keys: make(map[string]chan struct{})}
}

func (l *Local) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.keys[key]
	if !ok {
		c = make(chan struct{}, 1)
		l.keys[key] = c
	}
	return c
}

func (l *Local) Acquire(ctx context.Context, key string, _ time.Duration) error {
	select {
	case l.slot(key) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Local) TryAcquire(_ context.Context, key string, _ time.Duration) (bool, error) {
	select {
	case l.slot(key) <- struct{}{}:
		return true, nil
	default:
		return false, nil
	}
}

func (l *Local) Release(_ context.Context, key string) error {
	select {
	case <-l.slot(key):
	default:
	}
	return nil
}

func (l *Local) Close() error { return nil }
