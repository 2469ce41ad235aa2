package storage

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestObjectKey(t *testing.T) {
	now := time.Date(2025, 4, 9, 12, 0, 0, 0, time.UTC)
	key := ObjectKey("factures", "Scan.PDF", now)
	if !regexp.MustCompile(`^factures/2025/04/09/[0-9a-f]{8}\.pdf$`).MatchString(key) {
		t.Fatalf("unexpected key %q", key)
	}
	if ObjectKey("documents", "a.txt", now) == ObjectKey("documents", "a.txt", now) {
		t.Fatal("keys must be unique")
	}
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		key string
		ok  bool
	}{
		{"documents/2025/01/01/abc.pdf", true},
		{"", false},
		{"/etc/passwd", false},
		{"../secret", false},
		{"documents/../../x", false},
		{"documents//x", false},
		{`documents\x`, false},
	}
	for _, tt := range tests {
		_, err := CleanKey(tt.key)
		if (err == nil) != tt.ok {
			t.Errorf("CleanKey(%q) err = %v, want ok=%v", tt.key, err, tt.ok)
		}
	}
}

func TestLocalRoundTrip(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	key := "documents/2025/01/01/abcd1234.pdf"
	if err := store.Put(ctx, key, strings.NewReader("%PDF-1.4"), 8, "application/pdf"); err != nil {
		t.Fatal(err)
	}
	obj, err := store.Get(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(obj)
	obj.Close()
	if string(body) != "%PDF-1.4" || obj.Size != 8 || obj.ContentType != "application/pdf" {
		t.Fatalf("got %q size=%d type=%q", body, obj.Size, obj.ContentType)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("deleting a missing key should be a no-op: %v", err)
	}
}

func TestLocalRejectsTraversal(t *testing.T) {
	store, _ := NewLocal(t.TempDir())
	err := store.Put(context.Background(), "../escape.txt", strings.NewReader("x"), 1, "")
	if !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}
