package storage_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/mind-engage/mindengage-portal/internal/storage"
)

func TestFSStorePutGet(t *testing.T) {
	s, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	key, err := s.Put(ctx, "certificates/LP-1.html", strings.NewReader("<html>ok</html>"))
	if err != nil || key != "certificates/LP-1.html" {
		t.Fatalf("put: %q, %v", key, err)
	}
	rc, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != "<html>ok</html>" {
		t.Fatalf("content = %q", b)
	}
}

func TestFSStoreRejectsBadKeys(t *testing.T) {
	s, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, k := range []string{"", "/", "../escape", "a/../../b"} {
		if _, err := s.Put(context.Background(), k, strings.NewReader("x")); !errors.Is(err, storage.ErrBadKey) {
			t.Errorf("Put(%q) err = %v", k, err)
		}
	}
	if _, err := s.Get(context.Background(), "missing"); err == nil {
		t.Errorf("get of missing key succeeded")
	}
}
