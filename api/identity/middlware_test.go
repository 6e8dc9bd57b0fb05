package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-mazebuilder/infrastruture/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ts := token.NewJwtService("secret", "vinom")

	engine := gin.New()
	engine.GET("/whoami", Authorize(ts), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUsername))
	})

	call := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	valid, err := ts.Generate(map[string]any{"username": "alice"}, time.Hour)
	require.NoError(t, err)
	expired, err := ts.Generate(map[string]any{"username": "alice"}, -time.Hour)
	require.NoError(t, err)
	foreign, err := token.NewJwtService("other", "vinom").Generate(map[string]any{"username": "alice"}, time.Hour)
	require.NoError(t, err)

	w := call("Bearer " + valid)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())

	for name, header := range map[string]string{
		"missing":      "",
		"wrong scheme": "Basic " + valid,
		"no token":     "Bearer",
		"expired":      "Bearer " + expired,
		"wrong key":    "Bearer " + foreign,
		"not a jwt":    "Bearer abc.def",
	} {
		assert.Equal(t, http.StatusUnauthorized, call(header).Code, name)
	}
}
