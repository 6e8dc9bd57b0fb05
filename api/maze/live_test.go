package mazeapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialLive(t *testing.T, srv *httptest.Server, id, user string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/mazes/" + id + "/live"
	return websocket.DefaultDialer.Dial(url, http.Header{userHeader: {user}})
}

func TestLive(t *testing.T) {
	engine := newTestEngine(t)
	srv := httptest.NewServer(engine)
	defer srv.Close()

	m := createMaze(t, engine, "alice", 2, 2)

	t.Run("drives the build", func(t *testing.T) {
		conn, _, err := dialLive(t, srv, m.ID.String(), "alice")
		require.NoError(t, err)
		defer conn.Close()

		for n := 1; n <= 3; n++ {
			require.NoError(t, conn.WriteJSON(liveCommand{Action: actionStep}))
			var step StepResponse
			require.NoError(t, conn.ReadJSON(&step))
			assert.True(t, step.Merged)
			assert.Equal(t, n, step.Maze.Merges)
		}

		require.NoError(t, conn.WriteJSON(liveCommand{Action: actionStep}))
		var step StepResponse
		require.NoError(t, conn.ReadJSON(&step))
		assert.False(t, step.Merged)
		assert.True(t, step.Maze.Complete)

		require.NoError(t, conn.WriteJSON(liveCommand{Action: actionState}))
		var state MazeResponse
		require.NoError(t, conn.ReadJSON(&state))
		assert.Equal(t, 1, state.Groups)
	})

	t.Run("reports bad commands without closing", func(t *testing.T) {
		conn, _, err := dialLive(t, srv, m.ID.String(), "alice")
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
		var reply map[string]any
		require.NoError(t, conn.ReadJSON(&reply))
		assert.Equal(t, "malformed command", reply["error"])

		require.NoError(t, conn.WriteJSON(liveCommand{Action: "fly"}))
		reply = nil
		require.NoError(t, conn.ReadJSON(&reply))
		assert.Contains(t, reply["error"], "unknown action")

		require.NoError(t, conn.WriteJSON(liveCommand{Action: actionBuild}))
		var built BuildResponse
		require.NoError(t, conn.ReadJSON(&built))
		assert.Equal(t, 0, built.Merges)
	})

	t.Run("service errors are reported like the REST routes", func(t *testing.T) {
		doomed := createMaze(t, engine, "alice", 2, 2)
		conn, _, err := dialLive(t, srv, doomed.ID.String(), "alice")
		require.NoError(t, err)
		defer conn.Close()

		require.Equal(t, http.StatusNoContent, do(t, engine, http.MethodDelete, "/api/v1/mazes/"+doomed.ID.String(), "alice", nil).Code)

		require.NoError(t, conn.WriteJSON(liveCommand{Action: actionStep}))
		var reply map[string]any
		require.NoError(t, conn.ReadJSON(&reply))
		assert.Equal(t, map[string]any{"error": "maze not found"}, reply)
	})

	t.Run("foreign sessions are hidden", func(t *testing.T) {
		_, resp, err := dialLive(t, srv, m.ID.String(), "mallory")
		require.ErrorIs(t, err, websocket.ErrBadHandshake)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
