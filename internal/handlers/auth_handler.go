package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/barelands/server/internal/middleware"
	"github.com/barelands/server/internal/models"
	"github.com/barelands/server/internal/observability"
	"github.com/barelands/server/internal/services"
)

// AuthHandler handles admin authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles admin login
// @Summary Admin login
// @Description Verify the admin credentials and issue an HttpOnly session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Admin credentials"
// @Success 200 {object} models.SessionResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 401 {object} models.ErrorResponse "Invalid credentials"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, models.KindValidation, "Invalid JSON body.")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, models.KindValidation, "Email and password are required.")
		return
	}

	session, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		// Same answer regardless of which check failed
		respondError(w, http.StatusUnauthorized, models.KindUnauthenticated, "Invalid email or password.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, models.SessionResponse{
		Email:          session.Email,
		ExpiresAt:      session.ExpiresAt,
		LastActivityAt: session.LastActivityAt,
	})
}

// Logout handles admin logout
// @Summary Admin logout
// @Description Invalidate the current session and clear the cookie. Safe to call without a session.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		h.authService.Logout(cookie.Value)
		observability.WithContext(r.Context()).Info("Admin logged out")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Session handles session introspection
// @Summary Current session
// @Description Report the authenticated admin session, or 401 when none exists.
// @Tags auth
// @Produce json
// @Success 200 {object} models.SessionResponse
// @Failure 401 {object} models.ErrorResponse "No valid session"
// @Router /api/auth/session [get]
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		respondError(w, http.StatusUnauthorized, models.KindUnauthenticated, "Authentication required.")
		return
	}

	session, err := h.authService.Validate(cookie.Value)
	if err != nil {
		respondError(w, http.StatusUnauthorized, models.KindUnauthenticated, "Session expired or invalid.")
		return
	}

	respondJSON(w, http.StatusOK, models.SessionResponse{
		Email:          session.Email,
		ExpiresAt:      session.ExpiresAt,
		LastActivityAt: session.LastActivityAt,
	})
}
