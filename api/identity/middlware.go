package identity

import (
	"net/http"
	"strings"

	"github.com/beka-birhanu/vinom-mazebuilder/service/i"
	"github.com/gin-gonic/gin"
)

const (
	// ContextUserClaims is the key used to store user claims in the Gin context.
	ContextUserClaims = "userClaims"
	// ContextUsername is the key used to store the caller's username in the Gin context.
	ContextUsername = "username"
)

// Authorize rejects requests without a valid bearer token and stores the
// token claims and username in the context.
func Authorize(ts i.Tokenizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := ts.Decode(parts[1])
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		username, _ := claims["username"].(string)
		c.Set(ContextUserClaims, claims)
		c.Set(ContextUsername, username)
		c.Next()
	}
}
