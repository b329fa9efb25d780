package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s, err := New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "transactions"); ok || err != nil {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "transactions", `[{"id":1}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get(ctx, "transactions")
	if err != nil || !ok || v != `[{"id":1}]` {
		t.Fatalf("unexpected get: v=%q ok=%v err=%v", v, ok, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "transactions.json" {
		t.Fatalf("expected only the blob file, got %v", entries)
	}
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, key := range []string{"", "../x", "a/b", ".."} {
		if err := s.Set(context.Background(), key, "x"); err == nil {
			t.Fatalf("%q: expected error", key)
		}
	}
}
