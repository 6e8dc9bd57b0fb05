package token

import (
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-mazebuilder/service/i"
	"github.com/dgrijalva/jwt-go"
)

var _ i.Tokenizer = &JwtService{}

// JwtService signs and verifies HS256 tokens.
type JwtService struct {
	secretKey string
	issuer    string
}

// NewJwtService creates a JwtService with the given secret and issuer.
func NewJwtService(secretKey, issuer string) *JwtService {
	return &JwtService{
		secretKey: secretKey,
		issuer:    issuer,
	}
}

// Generate implements i.Tokenizer. The issuer and expiry claims are always
// set by the service and override any caller value.
func (s *JwtService) Generate(claims map[string]any, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	jwtClaims := jwt.MapClaims{}
	for key, val := range claims {
		jwtClaims[key] = val
	}
	jwtClaims["iss"] = s.issuer
	jwtClaims["iat"] = now.Unix()
	jwtClaims["exp"] = now.Add(ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims)
	return token.SignedString([]byte(s.secretKey))
}

// Decode implements i.Tokenizer.
func (s *JwtService) Decode(tokenString string) (map[string]any, error) {
	token, err := jwt.Parse(tokenString, s.getSigningKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", i.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, i.ErrInvalidToken
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return nil, fmt.Errorf("%w: unexpected issuer", i.ErrInvalidToken)
	}

	return claims, nil
}

// getSigningKey returns the signing key for token validation.
func (s *JwtService) getSigningKey(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return []byte(s.secretKey), nil
}
