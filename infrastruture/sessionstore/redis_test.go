package sessionstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	dmn "github.com/beka-birhanu/vinom-mazebuilder/domain"
	"github.com/beka-birhanu/vinom-mazebuilder/service/i"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSessionStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store, err := NewRedisSessionStore(client, "test", time.Minute)
	require.NoError(t, err)

	s, err := dmn.NewSession("alice", 4, 2, 5)
	require.NoError(t, err)
	key := fmt.Sprintf(sessionKeyFmt, "test", s.ID)

	t.Run("requires a client", func(t *testing.T) {
		_, err := NewRedisSessionStore(nil, "", 0)
		assert.Error(t, err)
	})

	t.Run("missing session", func(t *testing.T) {
		_, err := store.ByID(ctx, uuid.New())
		assert.ErrorIs(t, err, i.ErrSessionNotFound)
	})

	t.Run("save and load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, s))
		assert.True(t, mr.Exists(key))
		assert.Equal(t, time.Minute, mr.TTL(key))

		got, err := store.ByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.Maze, got.Maze)
		assert.Equal(t, s.RandomState, got.RandomState)
		assert.Equal(t, s.Owner, got.Owner)
	})

	t.Run("sessions expire when idle", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, s))
		mr.FastForward(2 * time.Minute)
		_, err := store.ByID(ctx, s.ID)
		assert.ErrorIs(t, err, i.ErrSessionNotFound)
	})

	t.Run("corrupt payload", func(t *testing.T) {
		require.NoError(t, mr.Set(key, "not json"))
		_, err := store.ByID(ctx, s.ID)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, i.ErrSessionNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, s))
		require.NoError(t, store.Delete(ctx, s.ID))
		assert.False(t, mr.Exists(key))
	})
}
