package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-mazebuilder/domain"
	"github.com/google/uuid"
)

// SessionStore keeps maze build sessions between steps.
type SessionStore interface {
	// Save inserts or replaces the session.
	Save(ctx context.Context, s *dmn.Session) error

	// ByID returns the session, or an error wrapping ErrSessionNotFound.
	ByID(ctx context.Context, id uuid.UUID) (*dmn.Session, error)

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}

// Lease is a held lock.
type Lease interface {
	// Extend pushes back the expiry of the lease. It returns an error wrapping
	// ErrSessionLocked once the lease has been lost.
	Extend(ctx context.Context) error

	// Unlock releases the lease. Releasing twice is a no-op.
	Unlock()
}

// Locker serializes work on a key, across goroutines or processes depending
// on the implementation.
type Locker interface {
	// Lock blocks until the key is held or ctx is done.
	Lock(ctx context.Context, key string) (Lease, error)
}
