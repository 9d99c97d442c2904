package auth

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer   = "self"
	tokenLifetime = 3600 * time.Second
)

// Role authorities carried in the token scope.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// Claims are the JWT claims shared by all services.
// Roles travel as a space-separated scope string.
type Claims struct {
	UserID uint   `json:"user_id"`
	Scope  string `json:"scope"`
	jwt.RegisteredClaims
}

// HasRole reports whether the scope contains the given authority.
func (c *Claims) HasRole(role string) bool {
	for _, r := range strings.Fields(c.Scope) {
		if r == role {
			return true
		}
	}
	return false
}

// Username returns the token subject.
func (c *Claims) Username() string {
	return c.Subject
}

func signingKey() []byte {
	if key := os.Getenv("JWT_SECRET"); key != "" {
		return []byte(key)
	}
	return []byte("development-secret-change-me")
}

// GenerateToken issues a signed bearer token for the user.
func GenerateToken(userID uint, username string, roles []string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Scope:  strings.Join(roles, " "),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(signingKey())
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a bearer token.
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return signingKey(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// TokenLifetimeSeconds is exposed for login responses.
func TokenLifetimeSeconds() int64 {
	return int64(tokenLifetime / time.Second)
}
