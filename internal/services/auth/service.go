// Package auth issues and verifies the opaque per-player tokens that let a
// client re-claim its player identity after a page reload or reconnect.
// Tokens are random, returned to the client exactly once, and stored only as
// bcrypt hashes.
package auth

import (
	"crypto/rand"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"

	"github.com/playgrid/sudoku-together/internal/model"
)

// Service issues and checks player tokens
type Service struct {
	cost int
}

// New creates a new token service using the default bcrypt cost
func New() *Service {
	return &Service{cost: bcrypt.DefaultCost}
}

// NewWithCost creates a token service with an explicit bcrypt cost
// (tests use bcrypt.MinCost to stay fast)
func NewWithCost(cost int) *Service {
	return &Service{cost: cost}
}

// Issue generates a fresh token, returning the plaintext to hand to the
// client and the hash to persist on the Player record
func (s *Service) Issue() (token, hash string, err error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	token = base64.RawURLEncoding.EncodeToString(b)

	h, err := bcrypt.GenerateFromPassword([]byte(token), s.cost)
	if err != nil {
		return "", "", err
	}
	return token, string(h), nil
}

// Verify checks a presented token against a player's stored hash
func (s *Service) Verify(player *model.Player, token string) error {
	if token == "" || player.TokenHash == "" {
		return model.ErrInvalidToken
	}
	if err := bcrypt.CompareHashAndPassword([]byte(player.TokenHash), []byte(token)); err != nil {
		return model.ErrInvalidToken
	}
	return nil
}
