// Package httpx writes the JSON bodies of the machine-facing endpoints.
package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
)

// Status is the body of /health and /healthz.
type Status struct {
	State  string            `json:"status"`
	Uptime string            `json:"uptime,omitempty"`
	Checks map[string]string `json:"checks,omitempty"`
}

// WriteJSON encodes v before touching w, so an encoding failure still
// yields a clean 500 instead of a truncated body.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}
