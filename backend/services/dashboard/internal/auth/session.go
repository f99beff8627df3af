package auth

import (
	"errors"
	"time"

	"greendash/backend/services/dashboard/internal/models"
)

var (
	// ErrSessionNotFound is returned for unknown or already invalidated sessions.
	ErrSessionNotFound = errors.New("auth: session not found")
	// ErrSessionExpired is returned when a session outlived its expiry.
	ErrSessionExpired = errors.New("auth: session expired")
	// ErrInvalidCredentials represents a rejected login.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrInvalidCookie is returned for cookies that fail signature or claim checks.
	ErrInvalidCookie = errors.New("auth: invalid session cookie")
	// ErrNonPositiveTTL guards stores against entries that would never expire.
	ErrNonPositiveTTL = errors.New("auth: session ttl must be positive")
)

// Record is the persisted form of a session.
type Record struct {
	ID        string      `json:"id"`
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	CreatedAt time.Time   `json:"createdAt"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// Session is an authenticated dashboard login. Only Service creates sessions; consumers read it.
type Session struct {
	rec Record
}

func newSession(rec Record) *Session {
	rec.User.Password = ""
	return &Session{rec: rec}
}

func (s *Session) ID() string { return s.rec.ID }

// Token is the backend bearer credential.
func (s *Session) Token() string { return s.rec.Token }

// User returns a copy of the account.
func (s *Session) User() models.User { return s.rec.User }

func (s *Session) Role() models.Role { return s.rec.User.Role }

func (s *Session) IsOperator() bool { return s.rec.User.Role == models.RoleOperator }

func (s *Session) CreatedAt() time.Time { return s.rec.CreatedAt }

func (s *Session) ExpiresAt() time.Time { return s.rec.ExpiresAt }

// Expired reports whether now is at or past the expiry.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.rec.ExpiresAt)
}
