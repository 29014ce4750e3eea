package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// TokenKey is the key the admin token is stored under.
const TokenKey = "admin_token"

// TokenFile persists the admin token in a small JSON file so the CLI stays
// logged in between runs. It implements Credentials; Clear removes the key
// from disk.
type TokenFile struct {
	path string
	mu   sync.Mutex

	store *TokenStore
}

// Ensure TokenFile implements Credentials.
var _ Credentials = (*TokenFile)(nil)

// OpenTokenFile loads the token stored at path. A missing file means no token.
func OpenTokenFile(path string) (*TokenFile, error) {
	tf := &TokenFile{path: path, store: NewTokenStore("")}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return tf, nil
		}
		return nil, fmt.Errorf("reading token file: %w", err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parsing token file: %w", err)
	}
	tf.store.Set(values[TokenKey])
	return tf, nil
}

// Path returns the file location.
func (f *TokenFile) Path() string { return f.path }

func (f *TokenFile) Token() (string, bool) { return f.store.Token() }

// Set stores token in memory only; call Save to persist it.
func (f *TokenFile) Set(token string) { f.store.Set(token) }

func (f *TokenFile) OnInvalidated(fn func()) { f.store.OnInvalidated(fn) }

// Clear drops the token and removes it from disk.
func (f *TokenFile) Clear() {
	f.store.Clear()
	f.mu.Lock()
	defer f.mu.Unlock()
	_ = f.remove()
}

// Save writes the current token to disk with owner-only permissions.
func (f *TokenFile) Save() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	token, ok := f.store.Token()
	if !ok {
		return f.remove()
	}

	data, err := json.MarshalIndent(map[string]string{TokenKey: token}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling token file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

func (f *TokenFile) remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}
