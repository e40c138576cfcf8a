// Package token issues and verifies the signed session tokens shared by the
// kiosk session stub and the order service's kitchen endpoints.
package token

import (
	"errors"
	"fmt"
	"time"

	"menugenius/domain"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid session token")

type Claims struct {
	Role        string   `json:"role"`
	FullName    string   `json:"fullName,omitempty"`
	Permissions []string `json:"permissions"`
	jwt.StandardClaims
}

// HasPermission reports whether the token grants permission.
func (c *Claims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func Issue(secret []byte, user domain.User, issuedAt, expiresAt time.Time) (string, error) {
	claims := Claims{
		Role:        string(user.Role),
		FullName:    user.FullName,
		Permissions: user.Permissions,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Subject:   user.Username,
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and expiry of raw.
func Parse(secret []byte, raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
