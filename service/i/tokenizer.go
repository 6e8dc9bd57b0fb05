package i

import (
	"errors"
	"time"
)

var ErrInvalidToken = errors.New("invalid token")

// Tokenizer issues and verifies the bearer tokens guarding maze routes.
type Tokenizer interface {
	// Generate signs claims into a token that expires after ttl.
	Generate(claims map[string]any, ttl time.Duration) (string, error)

	// Decode verifies a token and returns its claims, or an error wrapping ErrInvalidToken.
	Decode(token string) (map[string]any, error)
}
