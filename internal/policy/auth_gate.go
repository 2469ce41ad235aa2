// Package policy binds the role gate to HTTP routes.
package policy

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/go-backoffice/internal/auth"
	"github.com/diewo77/go-backoffice/internal/gate"
	"github.com/diewo77/go-backoffice/internal/logger"
	"github.com/diewo77/go-backoffice/internal/middleware"
)

// AuthGate holds the role gate with its profile cache.
type AuthGate struct {
	Gate          *gate.Gate[uint]
	CacheResolver *gate.CachedResolver[uint]
	sessions      auth.SessionStore
}

// NewAuthGate creates a gate resolving roles from the users table.
// - cacheTTL: how long to cache user profiles (e.g., 5*time.Minute)
func NewAuthGate(db *gorm.DB, sessions auth.SessionStore, cacheTTL time.Duration) *AuthGate {
	cached := gate.NewCachedResolver[uint](NewDBProfileResolver(db), cacheTTL)
	return &AuthGate{
		Gate:          gate.NewGate[uint](cached),
		CacheResolver: cached,
		sessions:      sessions,
	}
}

// InvalidateUser clears the cache for a specific user.
// Call this when a user's role is changed or the user is deleted.
func (ag *AuthGate) InvalidateUser(userID uint) {
	ag.CacheResolver.Invalidate(userID)
}

// Require returns middleware admitting only the roles in allowed.
// Anonymous callers are sent to /login, and a session whose user was
// deleted is destroyed first. Wrong roles get 403.
func (ag *AuthGate) Require(allowed gate.AllowList) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				middleware.Flash(w, r, middleware.FlashWarning, "login_required")
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			profile, err := ag.Gate.Authorize(r.Context(), userID, allowed)
			switch {
			case errors.Is(err, gate.ErrUnauthenticated):
				_ = ag.sessions.Destroy(r.Context(), w, r)
				middleware.Flash(w, r, middleware.FlashWarning, "login_required")
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			case errors.Is(err, gate.ErrForbidden):
				logger.FromContext(r.Context()).Info("forbidden",
					zap.Uint("user_id", userID),
					zap.String("role", string(profile.Role())),
					zap.String("path", r.URL.Path))
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			case err != nil:
				logger.FromContext(r.Context()).Error("authorize", zap.Error(err))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(gate.WithProfile(r.Context(), profile)))
		})
	}
}

// RequireFunc is Require for a plain handler function.
func (ag *AuthGate) RequireFunc(allowed gate.AllowList, h http.HandlerFunc) http.Handler {
	return ag.Require(allowed)(h)
}
