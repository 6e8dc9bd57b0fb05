package i

import (
	"context"
	"errors"
	"time"

	dmn "github.com/beka-birhanu/vinom-mazebuilder/domain"
	"github.com/beka-birhanu/vinom-mazebuilder/maze"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionLocked     = errors.New("session is busy")
	ErrDimensionTooLarge = errors.New("maze dimension too large")
)

// BuilderSessionManager drives maze generation for stored sessions.
type BuilderSessionManager interface {
	// NewSession creates and stores a fresh maze. A nil seed picks a random one.
	NewSession(ctx context.Context, owner string, width, height int, seed *uint64) (*dmn.Session, error)

	// Session returns the stored session.
	Session(ctx context.Context, id uuid.UUID) (*dmn.Session, error)

	// Step advances the maze by one merge. merged is false once the maze is complete.
	Step(ctx context.Context, id uuid.UUID) (s *dmn.Session, m maze.Merge, merged bool, err error)

	// Build steps until the maze is complete and returns the merges it applied.
	Build(ctx context.Context, id uuid.UUID) (*dmn.Session, int, error)

	// Play steps once per interval, calling onMerge after each merge, until
	// the maze is complete or ctx is done.
	Play(ctx context.Context, id uuid.UUID, interval time.Duration, onMerge func(*dmn.Session, maze.Merge)) (*dmn.Session, error)

	// Delete removes the session.
	Delete(ctx context.Context, id uuid.UUID) error
}
