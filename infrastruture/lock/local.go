// Package lock provides i.Locker implementations.
package lock

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/beka-birhanu/vinom-mazebuilder/service/i"
)

var _ i.Locker = &LocalLocker{}

// LocalLocker serializes work per key within one process. Its leases never
// expire.
type LocalLocker struct {
	mu   sync.Mutex
	keys map[string]chan struct{}
}

// NewLocalLocker returns a LocalLocker with no keys held.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{keys: make(map[string]chan struct{})}
}

// Lock implements i.Locker.
func (l *LocalLocker) Lock(ctx context.Context, key string) (i.Lease, error) {
	l.mu.Lock()
	sem, ok := l.keys[key]
	if !ok {
		sem = make(chan struct{}, 1)
		l.keys[key] = sem
	}
	l.mu.Unlock()

	select {
	case sem <- struct{}{}:
		return &localLease{key: key, sem: sem}, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", i.ErrSessionLocked, ctx.Err())
	}
}

type localLease struct {
	key      string
	sem      chan struct{}
	released atomic.Bool
}

// Extend implements i.Lease.
func (l *localLease) Extend(ctx context.Context) error {
	if l.released.Load() {
		return fmt.Errorf("%w: lease on %s already released", i.ErrSessionLocked, l.key)
	}
	return ctx.Err()
}

// Unlock implements i.Lease.
func (l *localLease) Unlock() {
	if l.released.CompareAndSwap(false, true) {
		<-l.sem
	}
}
