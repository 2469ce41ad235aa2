// Package view renders html/template pages inside the shared layout.
package view

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/diewo77/go-backoffice/internal/auth"
	"github.com/diewo77/go-backoffice/internal/gate"
	"github.com/diewo77/go-backoffice/internal/i18n"
	"github.com/diewo77/go-backoffice/internal/middleware"
	"github.com/diewo77/go-backoffice/internal/validation"
)

var (
	baseDir  string
	once     sync.Once
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}
)

func detectBase() {
	candidates := []string{"templates", "../templates", "../../templates"}
	for _, c := range candidates {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			baseDir = filepath.Clean(c)
			return
		}
	}
	baseDir = "templates"
}

// SetBaseDir overrides the template base directory (useful for tests or custom setups).
func SetBaseDir(path string) {
	if path == "" {
		return
	}
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
	baseDir = filepath.Clean(path)
	once = sync.Once{}
}

// ResetForTests clears caches and forces base dir detection to rerun.
func ResetForTests() {
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
	baseDir = ""
	once = sync.Once{}
}

func currentRole(r *http.Request) (gate.Profile, bool) {
	if r == nil {
		return nil, false
	}
	return gate.ProfileFrom(r.Context())
}

// Funcs returns the standard func map including i18n, role checks and formatting helpers.
func Funcs(r *http.Request) template.FuncMap {
	lang := i18n.DefaultLang
	theme := "system"
	if r != nil {
		lang = middleware.LangFrom(r)
		theme = middleware.ThemeFrom(r)
	}
	profile, hasProfile := currentRole(r)
	return template.FuncMap{
		"t":     func(code string) string { return i18n.T(lang, code) },
		"lang":  func() string { return lang },
		"theme": func() string { return theme },
		// can reports whether the current user's role is in roles; no roles means any signed-in user.
		"can": func(roles ...string) bool {
			if !hasProfile {
				return false
			}
			return gate.Allow(roles...).Permits(profile.Role())
		},
		"role": func() string {
			if !hasProfile {
				return ""
			}
			return string(profile.Role())
		},
		"year":     func() int { return time.Now().Year() },
		"asset":    versionedAsset,
		"money":    Money,
		"date":     Date,
		"datetime": DateTime,
		"inputDate": func(v any) string {
			if t, ok := asTime(v); ok {
				return t.Format("2006-01-02")
			}
			return ""
		},
		"inputDateTime": func(v any) string {
			if t, ok := asTime(v); ok {
				return t.Format("2006-01-02T15:04")
			}
			return ""
		},
		"contains": func(list []uint, id uint) bool { return slices.Contains(list, id) },
		"val":      FormValue,
		"checked":  FormHas,
		// err translates the violation recorded for a field, if any.
		"err": func(errs any, name string) string {
			if v, ok := errs.(validation.Violations); ok {
				if code, ok := v[name]; ok {
					return i18n.T(lang, code)
				}
			}
			return ""
		},
		"lower": strings.ToLower,
		"add":   func(a, b int) int { return a + b },
		// dict creates a map from key-value pairs for passing to sub-templates.
		// Usage: {{ template "partial" (dict "Key1" val1 "Key2" val2) }}
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	default:
		return time.Time{}, false
	}
}

// FormValue reads name from url.Values carried in page data; anything else yields "".
func FormValue(form any, name string) string {
	if v, ok := form.(url.Values); ok {
		return v.Get(name)
	}
	return ""
}

// FormHas reports whether form holds value under name. Used for selects and checkboxes.
func FormHas(form any, name, value string) bool {
	if v, ok := form.(url.Values); ok {
		return slices.Contains(v[name], value)
	}
	return false
}

// Date formats a time.Time or *time.Time as YYYY-MM-DD, or "-" when unset.
func Date(v any) string {
	if t, ok := asTime(v); ok {
		return t.Format("2006-01-02")
	}
	return "-"
}

// DateTime formats a time as YYYY-MM-DD HH:MM.
func DateTime(v any) string {
	if t, ok := asTime(v); ok {
		return t.Format("2006-01-02 15:04")
	}
	return "-"
}

// Money formats an amount with two decimals and the euro sign.
func Money(v any) string {
	switch n := v.(type) {
	case float64:
		return fmt.Sprintf("%.2f €", n)
	case *float64:
		if n == nil {
			return "-"
		}
		return fmt.Sprintf("%.2f €", *n)
	case int:
		return fmt.Sprintf("%d.00 €", n)
	default:
		return "-"
	}
}

// versionedAsset returns /static/<name>?v=<hash> for cache busting.
func versionedAsset(rel string) string {
	if strings.HasPrefix(rel, "http://") || strings.HasPrefix(rel, "https://") || strings.HasPrefix(rel, "//") {
		return rel
	}
	b, err := os.ReadFile(filepath.Join("static", rel))
	if err != nil {
		return "/static/" + rel
	}
	h := sha1.Sum(b)
	return "/static/" + rel + "?v=" + fmt.Sprintf("%x", h[:8])
}

// Render executes a page with status 200.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	return RenderStatus(w, r, http.StatusOK, name, data)
}

// RenderStatus parses (once) and executes a page template inside layout.html.
// Output is buffered so a template error never leaves a half-written page.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	if baseDir == "" {
		once.Do(detectBase)
	}
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	if _, exists := data["IsLoggedIn"]; !exists {
		_, loggedIn := auth.UserIDFromContext(r.Context())
		data["IsLoggedIn"] = loggedIn
	}
	if p, ok := gate.ProfileFrom(r.Context()); ok {
		data["CurrentUser"] = p.Name()
		data["CurrentRole"] = string(p.Role())
	}
	if _, exists := data["Flash"]; !exists {
		if msg, ok := middleware.PopFlash(w, r); ok {
			data["Flash"] = msg
		}
	}

	base, err := load(r, name)
	if err != nil {
		return err
	}
	t, err := base.Clone()
	if err != nil {
		return err
	}
	t.Funcs(Funcs(r))

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// load returns the cached, never executed template set for name.
func load(r *http.Request, name string) (*template.Template, error) {
	devMode := os.Getenv("DEV") == "1"
	if !devMode {
		tplCache.RLock()
		t, ok := tplCache.m[name]
		tplCache.RUnlock()
		if ok {
			return t, nil
		}
	}

	mainPath := filepath.Join(baseDir, name)
	if _, err := os.Stat(mainPath); err != nil {
		return nil, err
	}
	files := []string{filepath.Join(baseDir, "layout.html"), mainPath}
	partials, _ := filepath.Glob(filepath.Join(baseDir, "partials", "*.html"))
	files = append(files, partials...)

	t, err := template.New("layout.html").Funcs(Funcs(r)).ParseFiles(files...)
	if err != nil {
		return nil, err
	}
	if !devMode {
		tplCache.Lock()
		tplCache.m[name] = t
		tplCache.Unlock()
	}
	return t, nil
}
