package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/diewo77/go-backoffice/internal/i18n"
	"github.com/diewo77/go-backoffice/internal/logger"
)

func TestPrefsQueryWinsAndPersists(t *testing.T) {
	var gotLang, gotTheme string
	h := Prefs(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLang = LangFrom(r)
		gotTheme = ThemeFrom(r)
	}))
	req := httptest.NewRequest(http.MethodGet, "/?lang=en&theme=dark", nil)
	req.AddCookie(&http.Cookie{Name: "lang", Value: "fr"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if gotLang != "en" || gotTheme != "dark" {
		t.Fatalf("got lang=%q theme=%q", gotLang, gotTheme)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected lang and theme cookies, got %d", len(cookies))
	}
}

func TestPrefsFallsBackToHeader(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{"unsupported cookie uses header", "de", "en-US,en;q=0.9", "en"},
		{"no hints", "", "", "fr"},
		{"cookie kept", "en", "fr-FR", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := Prefs(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = i18n.LangFrom(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "lang", Value: tt.cookie})
			}
			req.Header.Set("Accept-Language", tt.header)
			h.ServeHTTP(httptest.NewRecorder(), req)
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFlashRoundTrip(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/clients/add", nil)
	req = req.WithContext(i18n.WithLang(req.Context(), "en"))
	rr := httptest.NewRecorder()
	Flash(rr, req, FlashSuccess, "client_added")

	set := rr.Result().Cookies()
	if len(set) != 1 || set[0].Name != "flash" {
		t.Fatalf("expected flash cookie, got %+v", set)
	}

	next := httptest.NewRequest(http.MethodGet, "/clients", nil)
	next.AddCookie(set[0])
	rr2 := httptest.NewRecorder()
	msg, ok := PopFlash(rr2, next)
	if !ok {
		t.Fatal("expected a flash message")
	}
	if msg.Category != FlashSuccess {
		t.Errorf("category = %q", msg.Category)
	}
	if msg.Message != i18n.T("en", "client_added") {
		t.Errorf("message = %q", msg.Message)
	}
	cleared := rr2.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge != -1 {
		t.Errorf("flash cookie not cleared: %+v", cleared)
	}
}

func TestPopFlashWithoutCookie(t *testing.T) {
	if _, ok := PopFlash(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Fatal("no flash expected")
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rr.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("generated id not propagated: %q / %q", seen, rr.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if seen != "abc-123" {
		t.Fatalf("incoming id not reused: %q", seen)
	}
}

func TestLoggingWritesFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusTeapot)
	}), RequestID, Logging(zap.New(core)))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tea", nil))

	if logs.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", logs.Len())
	}
	entry := logs.All()[1]
	if entry.Level != zapcore.WarnLevel {
		t.Errorf("4xx should log at warn, got %v", entry.Level)
	}
	fields := entry.ContextMap()
	if fields["status"] != int64(http.StatusTeapot) || fields["path"] != "/tea" {
		t.Errorf("unexpected fields: %v", fields)
	}
	if id, _ := fields["request_id"].(string); id == "" {
		t.Errorf("request_id missing")
	}
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Internal Server Error") {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mk := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}), mk("a"), mk("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if strings.Join(order, ",") != "a,b" {
		t.Fatalf("order = %v", order)
	}
}
