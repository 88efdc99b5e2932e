package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminSession represents an authenticated admin session. The token is the
// session ID itself and is only ever handed out in an HttpOnly cookie.
type AdminSession struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	CreatedAt      time.Time `json:"createdAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
	LastActivityAt time.Time `json:"lastActivityAt"`
}

// NewAdminSession creates a new session for the admin principal
func NewAdminSession(email string, duration time.Duration) *AdminSession {
	now := time.Now().UTC()
	return &AdminSession{
		ID:             uuid.New().String(),
		Email:          email,
		CreatedAt:      now,
		ExpiresAt:      now.Add(duration),
		LastActivityAt: now,
	}
}

// IsExpired checks if the session has expired
func (s *AdminSession) IsExpired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}

// Touch updates the last activity timestamp
func (s *AdminSession) Touch() {
	s.LastActivityAt = time.Now().UTC()
}

// SessionResponse is the safe response format for session introspection
type SessionResponse struct {
	Email          string    `json:"email"`
	ExpiresAt      time.Time `json:"expiresAt"`
	LastActivityAt time.Time `json:"lastActivityAt"`
}

// Session errors
var (
	ErrSessionNotFound    = SessionError{"session not found"}
	ErrSessionExpired     = SessionError{"session has expired"}
	ErrInvalidCredentials = SessionError{"invalid email or password"}
)

type SessionError struct {
	Message string
}

func (e SessionError) Error() string {
	return e.Message
}
