package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"financehub/internal/storage/storagetest"
)

func TestStoreContract(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	storagetest.Run(t, s)
}

func TestStoreRejectsPathKeys(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
		if err := s.SaveRaw(ctx, key, []byte("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "slots")
	s, err := New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	if err := s.SaveRaw(ctx, "users_data", []byte(`[]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	reopened, err := New(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, found, err := reopened.LoadRaw(ctx, "users_data")
	if err != nil || !found || string(got) != "[]" {
		t.Fatalf("reload: %s found=%v err=%v", got, found, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the slot file, found %d entries", len(entries))
	}
}
