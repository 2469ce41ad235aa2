package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"
)

func extractCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestCookieStore_RoundTrip(t *testing.T) {
	s := NewCookieStore("secret", time.Hour, false)
	rr := httptest.NewRecorder()
	if err := s.Create(context.Background(), rr, 7); err != nil {
		t.Fatalf("create: %v", err)
	}
	c := extractCookie(rr, "session")
	if c == nil {
		t.Fatalf("missing session cookie")
	}
	if !regexp.MustCompile(`^[0-9]+\.[A-Za-z0-9_-]+$`).MatchString(c.Value) {
		t.Fatalf("bad cookie format: %s", c.Value)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	uid, ok := s.Lookup(context.Background(), req)
	if !ok || uid != 7 {
		t.Fatalf("Lookup() = %d, %v; want 7, true", uid, ok)
	}
}

func TestCookieStore_RejectsTampering(t *testing.T) {
	s := NewCookieStore("secret", time.Hour, false)
	other := NewCookieStore("other-secret", time.Hour, false)

	rr := httptest.NewRecorder()
	_ = other.Create(context.Background(), rr, 1)
	forged := extractCookie(rr, "session")

	tests := []struct {
		name  string
		value string
	}{
		{"wrong key", forged.Value},
		{"no signature", "1"},
		{"changed uid", "2." + forged.Value[2:]},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: "session", Value: tt.value})
			if _, ok := s.Lookup(context.Background(), req); ok {
				t.Errorf("Lookup accepted %q", tt.value)
			}
		})
	}
}

func TestCookieStore_DestroyClearsCookie(t *testing.T) {
	s := NewCookieStore("secret", time.Hour, false)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	if err := s.Destroy(context.Background(), rr, req); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	c := extractCookie(rr, "session")
	if c == nil || c.Value != "" || c.MaxAge >= 0 {
		t.Fatalf("expected expired cookie, got %+v", c)
	}
}

func TestMiddleware_AttachesUserID(t *testing.T) {
	s := NewCookieStore("secret", time.Hour, false)
	rr := httptest.NewRecorder()
	_ = s.Create(context.Background(), rr, 42)

	var seen uint
	h := Middleware(s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(extractCookie(rr, "session"))
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != 42 {
		t.Fatalf("expected uid 42 in context, got %d", seen)
	}
}

func TestUserIDFromContext_Zero(t *testing.T) {
	if _, ok := UserIDFromContext(WithUserID(context.Background(), 0)); ok {
		t.Fatal("zero id must not count as authenticated")
	}
	if _, ok := UserIDFromContext(context.Background()); ok {
		t.Fatal("empty context must not be authenticated")
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "s3cret") {
		t.Error("expected match")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("expected mismatch")
	}
}
