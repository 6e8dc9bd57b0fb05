package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	dmn "github.com/beka-birhanu/vinom-mazebuilder/domain"
	"github.com/beka-birhanu/vinom-mazebuilder/infrastruture/token"
	"github.com/beka-birhanu/vinom-mazebuilder/service/i"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUserRepo struct {
	users map[uuid.UUID]*dmn.User
	sync.Mutex
}

func (m *memUserRepo) Save(user *dmn.User) error {
	m.Lock()
	defer m.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) ByID(id uuid.UUID) (*dmn.User, error) {
	m.Lock()
	defer m.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, i.ErrUserNotFound
}

func (m *memUserRepo) ByUsername(username string) (*dmn.User, error) {
	m.Lock()
	defer m.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, i.ErrUserNotFound
}

type failingRepo struct{ memUserRepo }

func (f *failingRepo) ByUsername(string) (*dmn.User, error) {
	return nil, errors.New("connection refused")
}

func TestAuth(t *testing.T) {
	const password = "correct-horse-battery-staple-42"

	tokenizer := token.NewJwtService("test-secret", "mazebuilder")
	auth, err := NewAuthService(&memUserRepo{users: map[uuid.UUID]*dmn.User{}}, tokenizer)
	require.NoError(t, err)

	t.Run("register then sign in", func(t *testing.T) {
		require.NoError(t, auth.Register("maze_maker", password))

		user, tok, err := auth.SignIn("maze_maker", password)
		require.NoError(t, err)
		assert.Equal(t, "maze_maker", user.Username)

		claims, err := tokenizer.Decode(tok)
		require.NoError(t, err)
		assert.Equal(t, "maze_maker", claims["username"])
		assert.Equal(t, user.ID.String(), claims["userID"])

		exp, ok := claims["exp"].(float64)
		require.True(t, ok)
		assert.InDelta(t, time.Now().Add(tokenTTL).Unix(), int64(exp), 5)
	})

	t.Run("duplicate username", func(t *testing.T) {
		assert.ErrorIs(t, auth.Register("maze_maker", password), i.ErrUsernameTaken)
	})

	t.Run("invalid user", func(t *testing.T) {
		assert.ErrorIs(t, auth.Register("x", password), dmn.ErrUsernameTooShort)
	})

	t.Run("bad credentials", func(t *testing.T) {
		_, _, err := auth.SignIn("maze_maker", "wrong-password")
		assert.ErrorIs(t, err, dmn.ErrInvalidCredentials)

		_, _, err = auth.SignIn("nobody", password)
		assert.ErrorIs(t, err, dmn.ErrInvalidCredentials)
	})

	t.Run("repository failure", func(t *testing.T) {
		broken, err := NewAuthService(&failingRepo{memUserRepo{users: map[uuid.UUID]*dmn.User{}}}, tokenizer)
		require.NoError(t, err)
		assert.ErrorContains(t, broken.Register("maze_maker", password), "connection refused")
	})

	t.Run("missing dependencies", func(t *testing.T) {
		_, err := NewAuthService(nil, tokenizer)
		assert.ErrorIs(t, err, ErrMissingDependency)
	})
}
