package handlers

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/diewo77/go-backoffice/internal/gate"
	"github.com/diewo77/go-backoffice/internal/storage"
)

type FileHandler struct {
	store  storage.Store
	access map[string]gate.AllowList
}

// NewFileHandler serves objects whose key prefix has an entry in access.
func NewFileHandler(store storage.Store, access map[string]gate.AllowList) *FileHandler {
	return &FileHandler{store: store, access: access}
}

// allowed reports whether the request's profile may read key.
func (h *FileHandler) allowed(r *http.Request, key string) bool {
	prefix, _, _ := strings.Cut(key, "/")
	list, ok := h.access[prefix]
	if !ok {
		return false
	}
	p, ok := gate.ProfileFrom(r.Context())
	return ok && list.Permits(p.Role())
}

// Serve: GET /files/{key...}
func (h *FileHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key, err := storage.CleanKey(r.PathValue("key"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if !h.allowed(r, key) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	obj, err := h.store.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		fail(w, r, err)
		return
	}
	defer obj.Close()
	ct := obj.ContentType
	if ct == "" {
		ct = storage.ContentTypeFor(key)
	}
	w.Header().Set("Content-Type", ct)
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	disposition := "attachment"
	if ct == "application/pdf" {
		disposition = "inline"
	}
	w.Header().Set("Content-Disposition", disposition+`; filename="`+path.Base(key)+`"`)
	_, _ = io.Copy(w, obj)
}
