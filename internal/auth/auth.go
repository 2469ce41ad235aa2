// Package auth handles login sessions and password hashing.
// Sessions are kept behind the SessionStore interface so the server can
// choose between a stateless signed cookie and a revocable Redis record.
package auth

import (
	"context"
	"net/http"
)

type ctxKey string

const (
	sessionCookieName = "session"
	userIDCtxKey      = ctxKey("userID")
)

// SessionStore binds a browser to a user id.
type SessionStore interface {
	// Create starts a session for userID and writes the cookie.
	Create(ctx context.Context, w http.ResponseWriter, userID uint) error
	// Lookup returns the user bound to the request's session, if any.
	Lookup(ctx context.Context, r *http.Request) (uint, bool)
	// Destroy ends the request's session and clears the cookie.
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// WithUserID stores user id in context.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDCtxKey).(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

// Middleware attaches the session's user id to the request context when present.
// It never rejects; route gating is done downstream.
func Middleware(store SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if uid, ok := store.Lookup(r.Context(), r); ok {
				r = r.WithContext(WithUserID(r.Context(), uid))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clearCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
