// Package storagetest holds the behaviour every storage.Store driver must share.
package storagetest

import (
	"bytes"
	"context"
	"testing"

	"financehub/internal/storage"
)

// Run exercises a driver against the slot contract. Keys are prefixed with
// the test name so shared backends can be reused between runs.
func Run(t *testing.T, store storage.Store) {
	t.Helper()
	ctx := context.Background()
	key := "storagetest_" + t.Name()
	other := key + "_other"

	if _, found, err := store.LoadRaw(ctx, key+"_missing"); err != nil || found {
		t.Fatalf("missing key: found=%v err=%v", found, err)
	}

	first := []byte(`[{"id":"1"}]`)
	if err := store.SaveRaw(ctx, key, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, found, err := store.LoadRaw(ctx, key)
	if err != nil || !found {
		t.Fatalf("load after save: found=%v err=%v", found, err)
	}
	if !bytes.Equal(got, first) {
		t.Fatalf("round trip mismatch: %s", got)
	}

	second := []byte(`[]`)
	if err := store.SaveRaw(ctx, key, second); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got, _, err = store.LoadRaw(ctx, key); err != nil || !bytes.Equal(got, second) {
		t.Fatalf("overwrite not visible: %s err=%v", got, err)
	}

	if err := store.SaveRaw(ctx, other, first); err != nil {
		t.Fatalf("save other: %v", err)
	}
	if got, _, err = store.LoadRaw(ctx, key); err != nil || !bytes.Equal(got, second) {
		t.Fatalf("slots are not independent: %s err=%v", got, err)
	}
}
