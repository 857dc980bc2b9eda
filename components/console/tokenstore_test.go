package console

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileTokenStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileTokenStore(dir)
	if err != nil {
		t.Fatalf("NewFileTokenStore: %v", err)
	}

	if token, err := store.Load(); err != nil || token != "" {
		t.Fatalf("empty store: token=%q err=%v", token, err)
	}

	if err := store.Save("session-token"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	token, err := store.Load()
	if err != nil || token != "session-token" {
		t.Fatalf("Load: token=%q err=%v", token, err)
	}

	info, err := os.Stat(filepath.Join(dir, TokenFileName))
	if err != nil {
		t.Fatalf("stat token file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("token file perm = %o, want 600", perm)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if token, _ := store.Load(); token != "" {
		t.Fatalf("token survived clear: %q", token)
	}
	// Clearing again stays a no-op.
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}

func TestMemoryTokenStore(t *testing.T) {
	store := NewMemoryTokenStore()
	if err := store.Save("tok"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if token, _ := store.Load(); token != "tok" {
		t.Fatalf("token = %q", token)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if token, _ := store.Load(); token != "" {
		t.Fatalf("token = %q after clear", token)
	}
}
