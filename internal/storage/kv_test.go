package storage

import (
	"context"
	"path/filepath"
	"testing"

	applog "kharcha/internal/log"
)

func newTestKV(t *testing.T) *KV {
	t.Helper()
	kv, err := New(filepath.Join(t.TempDir(), "kharcha.db"), applog.New(applog.Config{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestKVGetMissing(t *testing.T) {
	kv := newTestKV(t)

	_, ok, err := kv.Get(context.Background(), "expense-tracker.v1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expected missing key")
	}
}

func TestKVPutGet(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	if err := kv.Put(ctx, "expense-tracker.theme", "dark"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := kv.Get(ctx, "expense-tracker.theme")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || got != "dark" {
		t.Fatalf("Get = %q, %v; want dark, true", got, ok)
	}

	// Overwrite is last-write-wins
	if err := kv.Put(ctx, "expense-tracker.theme", "light"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, _, err = kv.Get(ctx, "expense-tracker.theme")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "light" {
		t.Fatalf("Get after overwrite = %q, want light", got)
	}
}

func TestKVKeysAreIndependent(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	if err := kv.Put(ctx, "expense-tracker.v1", `[]`); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := kv.Put(ctx, "expense-tracker.theme", "system"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	records, ok, err := kv.Get(ctx, "expense-tracker.v1")
	if err != nil || !ok || records != `[]` {
		t.Fatalf("records blob = %q, %v, %v", records, ok, err)
	}
	theme, ok, err := kv.Get(ctx, "expense-tracker.theme")
	if err != nil || !ok || theme != "system" {
		t.Fatalf("theme blob = %q, %v, %v", theme, ok, err)
	}
}
