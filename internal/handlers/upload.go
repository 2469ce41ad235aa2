package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/diewo77/go-backoffice/internal/logger"
	"github.com/diewo77/go-backoffice/internal/storage"
)

var (
	errNoUpload      = errors.New("no file uploaded")
	errUploadTooBig  = errors.New("upload too large")
	errBadUploadType = errors.New("file type not allowed")
)

// Uploads stores multipart files through a storage.Store.
type Uploads struct {
	store    storage.Store
	maxBytes int64
	now      func() time.Time
}

func NewUploads(store storage.Store, maxBytes int64) *Uploads {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &Uploads{store: store, maxBytes: maxBytes, now: time.Now}
}

// parse reads a multipart or urlencoded body, capped at maxBytes.
func (u *Uploads) parse(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, u.maxBytes)
	var err error
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "multipart/form-data" {
		err = r.ParseMultipartForm(u.maxBytes)
	} else {
		err = r.ParseForm()
	}
	if err == nil {
		return nil
	}
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return errUploadTooBig
	}
	return err
}

// save stores the file posted as name under prefix and returns its key and
// original file name. allowed, when set, restricts the extension.
func (u *Uploads) save(r *http.Request, name, prefix string, allowed ...string) (key, filename string, err error) {
	file, header, err := r.FormFile(name)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", "", errNoUpload
		}
		return "", "", err
	}
	defer file.Close()
	if header.Filename == "" || header.Size == 0 {
		return "", "", errNoUpload
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if len(allowed) > 0 && !containsString(allowed, ext) {
		return "", "", errBadUploadType
	}
	key = storage.ObjectKey(prefix, header.Filename, u.now())
	if err := u.store.Put(r.Context(), key, file, header.Size, storage.ContentTypeFor(key)); err != nil {
		return "", "", fmt.Errorf("store %s: %w", key, err)
	}
	return key, filepath.Base(header.Filename), nil
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// discard removes an object saved for a row that was never written.
func (u *Uploads) discard(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := u.store.Delete(ctx, key); err != nil {
		logger.FromContext(ctx).Warn("orphaned upload", zap.String("key", key), zap.Error(err))
	}
}

// fileURL is where Files.Serve exposes a stored key.
func fileURL(key string) string { return "/files/" + key }
