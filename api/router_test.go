package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/beka-birhanu/vinom-mazebuilder/api/i"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type pingController struct{}

func (pingController) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/open", func(c *gin.Context) { c.Status(http.StatusOK) })
}

func (pingController) RegisterProtected(route *gin.RouterGroup) {
	route.GET("/closed", func(c *gin.Context) { c.Status(http.StatusOK) })
}

func TestRouterEngine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	engine := NewRouter(Config{
		BaseURL:                 "/api",
		Controllers:             []i.Controller{pingController{}},
		AuthorizationMiddleware: deny,
	}).Engine()

	for path, want := range map[string]int{
		"/api/v1/open":   http.StatusOK,
		"/api/v1/closed": http.StatusUnauthorized,
		"/v1/open":       http.StatusNotFound,
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}
