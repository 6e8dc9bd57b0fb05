package lock

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-mazebuilder/config"
	"github.com/beka-birhanu/vinom-mazebuilder/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "mazebuilder"
	defaultExpiry = 8 * time.Second

	lockKeyFmt = "%s:%s:step_lock"
)

var _ i.Locker = &RedsyncLocker{}

// RedsyncLocker serializes work per key across every process sharing the Redis server.
type RedsyncLocker struct {
	locker *redsync.Redsync
	prefix string
	expiry time.Duration
	logger *log.Logger
}

// NewRedsyncLocker creates a RedsyncLocker on client. The lock expires after
// expiry if its holder dies without releasing it.
func NewRedsyncLocker(client *redis.Client, prefix string, expiry time.Duration, logger *log.Logger) *RedsyncLocker {
	if prefix == "" {
		prefix = defaultPrefix
	}
	if expiry <= 0 {
		expiry = defaultExpiry
	}
	if logger == nil {
		logger = log.Default()
	}

	pool := goredis.NewPool(client)
	return &RedsyncLocker{
		locker: redsync.New(pool),
		prefix: prefix,
		expiry: expiry,
		logger: logger,
	}
}

// Lock implements i.Locker.
func (r *RedsyncLocker) Lock(ctx context.Context, key string) (i.Lease, error) {
	mutex := r.locker.NewMutex(fmt.Sprintf(lockKeyFmt, r.prefix, key), redsync.WithExpiry(r.expiry))
	if err := mutex.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", i.ErrSessionLocked, err)
	}
	return &redsyncLease{mutex: mutex, logger: r.logger}, nil
}

// redsyncLease is a held redsync mutex. It is lost when its expiry passes
// without an Extend.
type redsyncLease struct {
	mutex  *redsync.Mutex
	logger *log.Logger
	once   sync.Once
}

// Extend implements i.Lease.
func (l *redsyncLease) Extend(ctx context.Context) error {
	ok, err := l.mutex.ExtendContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: extending %s: %w", i.ErrSessionLocked, l.mutex.Name(), err)
	}
	if !ok {
		return fmt.Errorf("%w: extending %s: lease lost", i.ErrSessionLocked, l.mutex.Name())
	}
	return nil
}

// Unlock implements i.Lease.
func (l *redsyncLease) Unlock() {
	l.once.Do(func() {
		ok, err := l.mutex.Unlock()
		if err != nil {
			l.logger.Printf("%s[WARN]%s releasing lock %s: %s", config.LogWarnColor, config.LogColorReset, l.mutex.Name(), err)
			return
		}
		if !ok {
			l.logger.Printf("%s[WARN]%s releasing lock %s: %s", config.LogWarnColor, config.LogColorReset, l.mutex.Name(), "redis eval func returned 0 while releasing")
		}
	})
}
