package console

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenFileName is the single well-known key the session token lives under.
const TokenFileName = "admin_token"

// FileTokenStore persists the token as a single file on disk. Only the
// opaque token is written; no identity or expiry metadata accompanies it.
type FileTokenStore struct {
	path string
	mu   sync.Mutex
}

// NewFileTokenStore builds a store rooted at dir. An empty dir resolves to
// the user config directory under an "admin-console" folder.
func NewFileTokenStore(dir string) (*FileTokenStore, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("console: resolve config dir: %w", err)
		}
		dir = filepath.Join(base, "admin-console")
	}
	return &FileTokenStore{path: filepath.Join(dir, TokenFileName)}, nil
}

// Load reads the persisted token. A missing file is not an error; it simply
// means no session survives from a previous run.
func (s *FileTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("console: read token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token with owner-only permissions.
func (s *FileTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("console: mkdir token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("console: write token: %w", err)
	}
	return nil
}

// Clear removes the persisted token. Clearing an absent token is a no-op.
func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("console: remove token: %w", err)
	}
	return nil
}

// MemoryTokenStore is a concurrency-safe in-memory store for tests and
// example programs.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryTokenStore creates an empty in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// Load returns the held token, empty when none was saved.
func (s *MemoryTokenStore) Load() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

// Save replaces the held token.
func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear drops the held token.
func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
