package services

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/barelands/server/internal/models"
	"github.com/barelands/server/internal/observability"
)

// AuthService authenticates the single admin principal and owns the
// in-memory session store. Credentials come from configuration only: the
// password is checked against a bcrypt hash, never a plaintext literal.
type AuthService struct {
	adminEmail   string
	passwordHash string
	duration     time.Duration

	mu       sync.RWMutex
	sessions map[string]*models.AdminSession

	done      chan struct{}
	closeOnce sync.Once
}

// NewAuthService creates an AuthService. An empty passwordHash disables
// login entirely rather than falling back to any default credential.
func NewAuthService(adminEmail, passwordHash string, sessionHours int) *AuthService {
	if sessionHours <= 0 {
		sessionHours = 24
	}
	if passwordHash == "" {
		observability.Warnf("ADMIN_PASSWORD_HASH not set; admin login is disabled")
	}

	s := &AuthService{
		adminEmail:   strings.ToLower(adminEmail),
		passwordHash: passwordHash,
		duration:     time.Duration(sessionHours) * time.Hour,
		sessions:     make(map[string]*models.AdminSession),
		done:         make(chan struct{}),
	}

	go s.sweepExpired()

	return s
}

// Login verifies the admin credentials and issues a new session
func (s *AuthService) Login(email, password string) (*models.AdminSession, error) {
	if s.passwordHash == "" {
		return nil, models.ErrInvalidCredentials
	}
	if strings.ToLower(strings.TrimSpace(email)) != s.adminEmail {
		return nil, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	session := models.NewAdminSession(s.adminEmail, s.duration)

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	observability.WithField("session_id", session.ID).Info("Admin logged in")
	return session, nil
}

// Validate looks up a session token and returns the live session. Expired
// sessions are removed on sight.
func (s *AuthService) Validate(token string) (*models.AdminSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, models.ErrSessionNotFound
	}
	if session.IsExpired() {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, models.ErrSessionExpired
	}

	s.mu.Lock()
	session.Touch()
	s.mu.Unlock()

	return session, nil
}

// Logout invalidates a session token; unknown tokens are a no-op
func (s *AuthService) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// SessionDuration returns the configured session lifetime
func (s *AuthService) SessionDuration() time.Duration {
	return s.duration
}

// Close stops the expiry sweeper. Safe to call more than once; the service
// still validates and logs out sessions afterwards.
func (s *AuthService) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// sweepExpired runs periodically to remove expired sessions until Close
func (s *AuthService) sweepExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			for token, session := range s.sessions {
				if session.IsExpired() {
					delete(s.sessions, token)
				}
			}
			s.mu.Unlock()
		}
	}
}
