// Package domain holds the records the service layer persists: maze build
// sessions and the users that own them.
package domain

import (
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-mazebuilder/maze"
	"github.com/google/uuid"
)

// Session is one maze generation run. The maze state and the random source
// state are stored together so that any process holding the record can
// continue the build exactly where it stopped.
type Session struct {
	ID          uuid.UUID  `json:"id"`
	Owner       string     `json:"owner"`
	Seed        uint64     `json:"seed"`
	RandomState []byte     `json:"random_state"`
	Maze        maze.State `json:"maze"`
	Attempts    int        `json:"attempts"` // walls drawn, including abandoned draws
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewSession creates a fresh width x height maze seeded with seed.
func NewSession(owner string, width, height int, seed uint64) (*Session, error) {
	src := maze.NewSource(seed)
	b, err := maze.New(width, height, src)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	s := &Session{
		ID:        uuid.New(),
		Owner:     owner,
		Seed:      seed,
		CreatedAt: now,
	}
	if err := s.Apply(b, src); err != nil {
		return nil, err
	}
	s.UpdatedAt = now
	return s, nil
}

// Builder restores the live builder and its random source.
func (s *Session) Builder() (*maze.Builder, *maze.Source, error) {
	src := &maze.Source{}
	if err := src.UnmarshalBinary(s.RandomState); err != nil {
		return nil, nil, fmt.Errorf("restoring random source of session %s: %w", s.ID, err)
	}

	b, err := maze.Restore(s.Maze, src)
	if err != nil {
		return nil, nil, fmt.Errorf("restoring maze of session %s: %w", s.ID, err)
	}
	return b, src, nil
}

// Apply records the builder and random source state in the session.
func (s *Session) Apply(b *maze.Builder, src *maze.Source) error {
	rngState, err := src.MarshalBinary()
	if err != nil {
		return fmt.Errorf("saving random source of session %s: %w", s.ID, err)
	}

	s.RandomState = rngState
	s.Maze = b.State()
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete reports whether the stored maze has a single group.
func (s *Session) Complete() bool {
	for _, c := range s.Maze.Cells {
		if c.Group != s.Maze.Cells[0].Group {
			return false
		}
	}
	return true
}
