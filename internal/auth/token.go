// Package auth mints and verifies the bearer tokens attached to every
// authenticated request.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const tokenLifetime = 7 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// Manager signs and parses HS256 tokens carrying the user id claim.
type Manager struct {
	secret []byte
}

func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// CreateToken issues a token for the user, valid for seven days.
func (m *Manager) CreateToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		ID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	})
	return token.SignedString(m.secret)
}

// ParseToken verifies the signature and expiry and returns the user id.
func (m *Manager) ParseToken(raw string) (string, error) {
	var c claims
	token, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid || c.ID == "" {
		return "", ErrInvalidToken
	}
	return c.ID, nil
}
