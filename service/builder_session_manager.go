package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/beka-birhanu/vinom-mazebuilder/config"
	dmn "github.com/beka-birhanu/vinom-mazebuilder/domain"
	"github.com/beka-birhanu/vinom-mazebuilder/maze"
	"github.com/beka-birhanu/vinom-mazebuilder/service/i"
	"github.com/google/uuid"
)

const (
	defaultMaxDimension = 100
	defaultPlayInterval = 100 * time.Millisecond
	defaultLockRefresh  = 2 * time.Second

	sessionLockKeyFmt = "session:%s"
)

var (
	ErrMissingDependency = errors.New("missing dependency")
	ErrInvalidInterval   = errors.New("play interval must be positive")
)

var _ i.BuilderSessionManager = &BuilderSessionManager{}

// BuilderSessionManager runs maze generation for sessions kept in a SessionStore.
// Every mutation of a session happens while holding its lock, so concurrent
// callers never interleave inside a step.
type BuilderSessionManager struct {
	store        i.SessionStore
	locker       i.Locker
	maxDimension int
	seeder       func() uint64
	lockRefresh  time.Duration
	logger       *log.Logger
}

// Config holds the dependencies of a BuilderSessionManager.
type Config struct {
	Store        i.SessionStore
	Locker       i.Locker
	MaxDimension int           // Largest width or height accepted; defaults to 100.
	Seeder       func() uint64 // Seed source for sessions created without one.
	LockRefresh  time.Duration // How often Build extends its lease; must be well below the lock expiry.
	Logger       *log.Logger
}

// NewBuilderSessionManager validates c and returns a manager.
func NewBuilderSessionManager(c *Config) (*BuilderSessionManager, error) {
	if c == nil || c.Store == nil || c.Locker == nil {
		return nil, fmt.Errorf("%w: session store and locker are required", ErrMissingDependency)
	}

	gsm := &BuilderSessionManager{
		store:        c.Store,
		locker:       c.Locker,
		maxDimension: c.MaxDimension,
		seeder:       c.Seeder,
		lockRefresh:  c.LockRefresh,
		logger:       c.Logger,
	}

	if gsm.maxDimension <= 0 {
		gsm.maxDimension = defaultMaxDimension
	}
	if gsm.lockRefresh <= 0 {
		gsm.lockRefresh = defaultLockRefresh
	}
	if gsm.seeder == nil {
		gsm.seeder = rand.Uint64
	}
	if gsm.logger == nil {
		gsm.logger = log.New(os.Stderr, "builder: ", log.LstdFlags)
	}

	return gsm, nil
}

// NewSession implements i.BuilderSessionManager.
func (g *BuilderSessionManager) NewSession(ctx context.Context, owner string, width, height int, seed *uint64) (*dmn.Session, error) {
	if max(width, height) > g.maxDimension {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d", i.ErrDimensionTooLarge, width, height, g.maxDimension)
	}

	s := g.seeder()
	if seed != nil {
		s = *seed
	}

	session, err := dmn.NewSession(owner, width, height, s)
	if err != nil {
		return nil, err
	}

	if err := g.store.Save(ctx, session); err != nil {
		g.logger.Printf("%s[ERROR]%s saving new session: %s", config.LogErrorColor, config.LogColorReset, err)
		return nil, err
	}

	g.logger.Printf("%s[INFO]%s created %dx%d maze session %s (seed %d) for %s", config.LogInfoColor, config.LogColorReset, width, height, session.ID, s, owner)
	return session, nil
}

// Session implements i.BuilderSessionManager.
func (g *BuilderSessionManager) Session(ctx context.Context, id uuid.UUID) (*dmn.Session, error) {
	return g.store.ByID(ctx, id)
}

// Step implements i.BuilderSessionManager.
func (g *BuilderSessionManager) Step(ctx context.Context, id uuid.UUID) (*dmn.Session, maze.Merge, bool, error) {
	lease, err := g.lock(ctx, id)
	if err != nil {
		return nil, maze.Merge{}, false, err
	}
	defer lease.Unlock()

	session, b, src, err := g.load(ctx, id)
	if err != nil {
		return nil, maze.Merge{}, false, err
	}

	m, merged := b.Step()
	if !merged {
		return session, m, false, nil
	}

	session.Attempts += m.Attempts
	if err := g.save(ctx, session, b, src); err != nil {
		return nil, maze.Merge{}, false, err
	}

	if b.IsComplete() {
		g.logger.Printf("%s[INFO]%s maze session %s complete after %d merges", config.LogInfoColor, config.LogColorReset, id, b.Merges())
	}
	return session, m, true, nil
}

// Build implements i.BuilderSessionManager. The lease is extended every
// lockRefresh while building and once more before saving; a lost lease aborts
// the build without saving.
func (g *BuilderSessionManager) Build(ctx context.Context, id uuid.UUID) (*dmn.Session, int, error) {
	lease, err := g.lock(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	defer lease.Unlock()

	session, b, src, err := g.load(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	merges := 0
	refreshed := time.Now()
	for {
		m, merged := b.Step()
		if !merged {
			break
		}
		session.Attempts += m.Attempts
		merges++

		if time.Since(refreshed) >= g.lockRefresh {
			if err := g.extend(ctx, lease, id); err != nil {
				return nil, 0, err
			}
			refreshed = time.Now()
		}
	}

	if merges == 0 {
		return session, 0, nil
	}

	if err := g.extend(ctx, lease, id); err != nil {
		return nil, 0, err
	}
	if err := g.save(ctx, session, b, src); err != nil {
		return nil, 0, err
	}

	g.logger.Printf("%s[INFO]%s built maze session %s with %d merges", config.LogInfoColor, config.LogColorReset, id, merges)
	return session, merges, nil
}

// Play implements i.BuilderSessionManager. Each tick takes the session lock
// for one step only, so other callers may step the same session in between.
func (g *BuilderSessionManager) Play(ctx context.Context, id uuid.UUID, interval time.Duration, onMerge func(*dmn.Session, maze.Merge)) (*dmn.Session, error) {
	if interval < 0 {
		return nil, ErrInvalidInterval
	}
	if interval == 0 {
		interval = defaultPlayInterval
	}

	session, err := g.store.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for !session.Complete() {
		if err := ctx.Err(); err != nil {
			return session, err
		}

		select {
		case <-ctx.Done():
			return session, ctx.Err()
		case <-ticker.C:
		}

		next, m, merged, err := g.Step(ctx, id)
		if err != nil {
			return session, err
		}
		session = next
		if !merged {
			break
		}
		if onMerge != nil {
			onMerge(session, m)
		}
	}

	return session, nil
}

// Delete implements i.BuilderSessionManager.
func (g *BuilderSessionManager) Delete(ctx context.Context, id uuid.UUID) error {
	lease, err := g.lock(ctx, id)
	if err != nil {
		return err
	}
	defer lease.Unlock()

	if err := g.store.Delete(ctx, id); err != nil {
		g.logger.Printf("%s[ERROR]%s deleting session %s: %s", config.LogErrorColor, config.LogColorReset, id, err)
		return err
	}

	g.logger.Printf("%s[INFO]%s deleted maze session %s", config.LogInfoColor, config.LogColorReset, id)
	return nil
}

func (g *BuilderSessionManager) lock(ctx context.Context, id uuid.UUID) (i.Lease, error) {
	lease, err := g.locker.Lock(ctx, fmt.Sprintf(sessionLockKeyFmt, id))
	if err != nil {
		g.logger.Printf("%s[ERROR]%s obtaining lock for session %s: %s", config.LogErrorColor, config.LogColorReset, id, err)
		return nil, err
	}
	return lease, nil
}

func (g *BuilderSessionManager) extend(ctx context.Context, lease i.Lease, id uuid.UUID) error {
	if err := lease.Extend(ctx); err != nil {
		g.logger.Printf("%s[WARN]%s lost lock on session %s, discarding build: %s", config.LogWarnColor, config.LogColorReset, id, err)
		return err
	}
	return nil
}

func (g *BuilderSessionManager) load(ctx context.Context, id uuid.UUID) (*dmn.Session, *maze.Builder, *maze.Source, error) {
	session, err := g.store.ByID(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}

	b, src, err := session.Builder()
	if err != nil {
		g.logger.Printf("%s[ERROR]%s %s", config.LogErrorColor, config.LogColorReset, err)
		return nil, nil, nil, err
	}
	return session, b, src, nil
}

func (g *BuilderSessionManager) save(ctx context.Context, session *dmn.Session, b *maze.Builder, src *maze.Source) error {
	if err := session.Apply(b, src); err != nil {
		return err
	}
	if err := g.store.Save(ctx, session); err != nil {
		g.logger.Printf("%s[ERROR]%s saving session %s: %s", config.LogErrorColor, config.LogColorReset, session.ID, err)
		return err
	}
	return nil
}
