package handlers

import (
	"errors"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/go-backoffice/internal/auth"
	"github.com/diewo77/go-backoffice/internal/logger"
	"github.com/diewo77/go-backoffice/internal/middleware"
	"github.com/diewo77/go-backoffice/internal/models"
)

type AuthHandler struct {
	db       *gorm.DB
	sessions auth.SessionStore
}

func NewAuthHandler(db *gorm.DB, sessions auth.SessionStore) *AuthHandler {
	return &AuthHandler{db: db, sessions: sessions}
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// burnCompare spends the same bcrypt time as a real check so unknown
// usernames are not distinguishable by latency.
func burnCompare(password string) {
	dummyHashOnce.Do(func() { dummyHash, _ = auth.HashPassword("not-a-real-password") })
	auth.CheckPassword(dummyHash, password)
}

// LoginForm: GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	render(w, r, http.StatusOK, "login.html", nil)
}

// Login: POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := field(r, "username")
	password := r.FormValue("password")

	failed := func() {
		render(w, r, http.StatusOK, "login.html", map[string]any{"Error": "login_failed", "Username": username})
	}

	var user models.User
	err := h.db.WithContext(r.Context()).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		burnCompare(password)
		failed()
		return
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		failed()
		return
	}
	if err := h.sessions.Create(r.Context(), w, user.ID); err != nil {
		fail(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("login", zap.Uint("user_id", user.ID), zap.String("role", user.Role))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout: GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		logger.FromContext(r.Context()).Warn("logout", zap.Error(err))
	}
	done(w, r, "/login", middleware.FlashInfo, "logged_out")
}
