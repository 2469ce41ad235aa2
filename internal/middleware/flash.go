package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/diewo77/go-backoffice/internal/i18n"
)

const flashCookie = "flash"

// Flash categories understood by the layout.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// FlashMessage is a one-shot notice shown on the next rendered page.
type FlashMessage struct {
	Category string
	Message  string
}

// Flash sets a translated flash message cookie using translation code (or literal if missing).
func Flash(w http.ResponseWriter, r *http.Request, category, code string) {
	msg := i18n.T(LangFrom(r), code)
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(category + "|" + msg),
		Path:     "/",
		HttpOnly: true,
	})
}

// PopFlash reads the pending flash message and clears the cookie.
func PopFlash(w http.ResponseWriter, r *http.Request) (FlashMessage, bool) {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return FlashMessage{}, false
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return FlashMessage{}, false
	}
	category, msg, ok := strings.Cut(raw, "|")
	if !ok {
		return FlashMessage{Category: FlashInfo, Message: raw}, true
	}
	return FlashMessage{Category: category, Message: msg}, true
}
