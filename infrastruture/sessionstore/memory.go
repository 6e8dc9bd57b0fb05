// Package sessionstore keeps maze build sessions between steps.
package sessionstore

import (
	"context"
	"fmt"
	"slices"
	"sync"

	dmn "github.com/beka-birhanu/vinom-mazebuilder/domain"
	"github.com/beka-birhanu/vinom-mazebuilder/service/i"
	"github.com/google/uuid"
)

var _ i.SessionStore = &MemorySessionStore{}

// MemorySessionStore keeps sessions in process memory. It hands out copies,
// so callers never share cell slices with the store.
type MemorySessionStore struct {
	sessions map[uuid.UUID]dmn.Session
	sync.RWMutex
}

// NewMemorySessionStore returns an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[uuid.UUID]dmn.Session),
	}
}

// Save implements i.SessionStore.
func (m *MemorySessionStore) Save(_ context.Context, s *dmn.Session) error {
	m.Lock()
	defer m.Unlock()
	m.sessions[s.ID] = clone(s)
	return nil
}

// ByID implements i.SessionStore.
func (m *MemorySessionStore) ByID(_ context.Context, id uuid.UUID) (*dmn.Session, error) {
	m.RLock()
	defer m.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", i.ErrSessionNotFound, id)
	}
	c := clone(&s)
	return &c, nil
}

// Delete implements i.SessionStore.
func (m *MemorySessionStore) Delete(_ context.Context, id uuid.UUID) error {
	m.Lock()
	defer m.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len returns the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.sessions)
}

func clone(s *dmn.Session) dmn.Session {
	c := *s
	c.RandomState = slices.Clone(s.RandomState)
	c.Maze.Cells = slices.Clone(s.Maze.Cells)
	return c
}
