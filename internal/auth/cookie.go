package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CookieStore keeps the user id in an HMAC-SHA256 signed cookie ("<uid>.<sig>").
// It is stateless: Destroy only clears the browser cookie.
type CookieStore struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewCookieStore returns a store signing with secret. A zero ttl means 14 days.
func NewCookieStore(secret string, ttl time.Duration, secure bool) *CookieStore {
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}
	return &CookieStore{secret: []byte(secret), ttl: ttl, secure: secure}
}

func (s *CookieStore) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (s *CookieStore) Create(_ context.Context, w http.ResponseWriter, userID uint) error {
	uid := strconv.FormatUint(uint64(userID), 10)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    uid + "." + s.sign(uid),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(s.ttl),
	})
	return nil
}

func (s *CookieStore) Lookup(_ context.Context, r *http.Request) (uint, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return 0, false
	}
	uid, sig, ok := strings.Cut(c.Value, ".")
	if !ok {
		return 0, false
	}
	if !hmac.Equal([]byte(sig), []byte(s.sign(uid))) {
		return 0, false
	}
	id, err := strconv.ParseUint(uid, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (s *CookieStore) Destroy(_ context.Context, w http.ResponseWriter, _ *http.Request) error {
	clearCookie(w, s.secure)
	return nil
}
