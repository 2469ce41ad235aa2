// Package handlers implements the back-office HTTP operations.
package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/go-backoffice/internal/auth"
	"github.com/diewo77/go-backoffice/internal/export"
	"github.com/diewo77/go-backoffice/internal/logger"
	"github.com/diewo77/go-backoffice/internal/middleware"
	"github.com/diewo77/go-backoffice/internal/validation"
	"github.com/diewo77/go-backoffice/internal/view"
)

// pathID parses the {id} wildcard. ok is false for anything but a positive integer.
func pathID(r *http.Request) (uint, bool) {
	n, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func currentUserID(r *http.Request) uint {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}

func field(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

// fail maps a storage error to 404 or a logged 500.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.NotFound(w, r)
		return
	}
	logger.FromContext(r.Context()).Error("request failed",
		zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// render writes a page and logs template failures.
func render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if err := view.RenderStatus(w, r, status, name, data); err != nil {
		logger.FromContext(r.Context()).Error("render", zap.String("template", name), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// invalid re-renders a form with its violations and a 422 status.
func invalid(w http.ResponseWriter, r *http.Request, name string, v validation.Violations, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["Errors"] = v
	if _, ok := data["Form"]; !ok {
		data["Form"] = r.Form
	}
	render(w, r, http.StatusUnprocessableEntity, name, data)
}

// done flashes code and redirects with 303 (post/redirect/get).
func done(w http.ResponseWriter, r *http.Request, to, category, code string) {
	middleware.Flash(w, r, category, code)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// Helpers filling url.Values from stored entities, for edit forms.

func setDate(v url.Values, key string, t time.Time) {
	if !t.IsZero() {
		v.Set(key, t.Format(validation.DateLayout))
	}
}

func setOptDate(v url.Values, key string, t *time.Time) {
	if t != nil {
		setDate(v, key, *t)
	}
}

func setFloat(v url.Values, key string, f float64) {
	v.Set(key, strconv.FormatFloat(f, 'f', -1, 64))
}

func setID(v url.Values, key string, id *uint) {
	if id != nil {
		v.Set(key, strconv.FormatUint(uint64(*id), 10))
	}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// writeXLSX streams a workbook as an attachment.
func writeXLSX(w http.ResponseWriter, r *http.Request, filename string, s export.Sheet) {
	var buf bytes.Buffer
	if err := export.Write(&buf, s); err != nil {
		fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = buf.WriteTo(w)
}
