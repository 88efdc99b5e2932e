package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/barelands/server/internal/models"
	"github.com/barelands/server/internal/services"
)

type contextKey string

// SessionContextKey is the request context key holding the admin session
const SessionContextKey contextKey = "admin_session"

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "session_token"

// AdminAuth creates middleware requiring a valid admin session
func AdminAuth(auth *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				writeUnauthorized(w, "Authentication required.")
				return
			}

			session, err := auth.Validate(cookie.Value)
			if err != nil {
				if errors.Is(err, models.ErrSessionExpired) {
					writeUnauthorized(w, "Session expired.")
					return
				}
				writeUnauthorized(w, "Session invalid.")
				return
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the admin session stored by AdminAuth, or nil
func SessionFromContext(ctx context.Context) *models.AdminSession {
	session, _ := ctx.Value(SessionContextKey).(*models.AdminSession)
	return session
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: msg, Kind: models.KindUnauthenticated})
}
