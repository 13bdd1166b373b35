// Package session keeps per-browser state on the server, referenced by a
// signed cookie carrying only the session id.
//
// Every request gets a session: the middleware loads the one named by the
// cookie or starts a fresh one, hands it to handlers through the echo
// context and persists it once the response is about to be written. The
// cookie and the stored record are refreshed on each request, so the
// lifetime is a sliding window.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID       string `json:"-"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	ReturnTo string `json:"returnTo,omitempty"`

	destroyed bool
	previous  string
}

func (s *Session) Authenticated() bool { return s != nil && s.Username != "" }

func (s *Session) HasRole(role string) bool { return s.Authenticated() && s.Role == role }

// SignIn records the identity and returns the path the user originally
// asked for, or "/" when there is none.
func (s *Session) SignIn(username, role string) string {
	s.Username = username
	s.Role = role
	target := s.ReturnTo
	s.ReturnTo = ""
	if target == "" {
		target = "/"
	}
	return target
}

func (s *Session) Destroy() { s.destroyed = true }

func (s *Session) Destroyed() bool { return s.destroyed }

// Regenerate issues a new id for the same data; the old record is dropped
// when the session is persisted.
func (s *Session) Regenerate() error {
	id, err := NewID()
	if err != nil {
		return err
	}
	if s.previous == "" {
		s.previous = s.ID
	}
	s.ID = id
	return nil
}

type Store interface {
	// Load returns ErrNotFound for unknown or expired ids.
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

func NewID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
