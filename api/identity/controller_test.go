package identity

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	dmn "github.com/beka-birhanu/vinom-mazebuilder/domain"
	"github.com/beka-birhanu/vinom-mazebuilder/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	registerErr error
	user        *dmn.User
	token       string
	signInErr   error
}

func (f *fakeAuth) Register(username, password string) error { return f.registerErr }

func (f *fakeAuth) SignIn(username, password string) (*dmn.User, string, error) {
	return f.user, f.token, f.signInErr
}

var _ i.Authenticator = &fakeAuth{}

func serve(t *testing.T, a i.Authenticator, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewIdentityServer(a).RegisterPublic(engine.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	const body = `{"username": "maze_maker", "password": "correct-horse-battery-staple-42"}`

	cases := []struct {
		name string
		err  error
		body string
		want int
	}{
		{name: "created", body: body, want: http.StatusCreated},
		{name: "taken", err: i.ErrUsernameTaken, body: body, want: http.StatusConflict},
		{name: "weak password", err: dmn.ErrWeakPassword, body: body, want: http.StatusBadRequest},
		{name: "bad username", err: dmn.ErrInvalidUsername, body: body, want: http.StatusBadRequest},
		{name: "repository failure", err: errors.New("connection reset"), body: body, want: http.StatusInternalServerError},
		{name: "missing password", body: `{"username": "maze_maker"}`, want: http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(t, &fakeAuth{registerErr: tc.err}, "/api/v1/auth/register", tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestLogin(t *testing.T) {
	const body = `{"username": "maze_maker", "password": "correct-horse-battery-staple-42"}`

	t.Run("success", func(t *testing.T) {
		user := &dmn.User{ID: uuid.New(), Username: "maze_maker"}
		w := serve(t, &fakeAuth{user: user, token: "signed"}, "/api/v1/auth/login", body)
		require.Equal(t, http.StatusOK, w.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, AuthResponse{ID: user.ID.String(), Username: "maze_maker", Token: "signed"}, resp)
	})

	t.Run("bad credentials", func(t *testing.T) {
		w := serve(t, &fakeAuth{signInErr: dmn.ErrInvalidCredentials}, "/api/v1/auth/login", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("repository failure", func(t *testing.T) {
		w := serve(t, &fakeAuth{signInErr: errors.New("timeout")}, "/api/v1/auth/login", body)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
