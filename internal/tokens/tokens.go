// Package tokens centralizes storage of the access/refresh token pair.
//
// Every read and write of the credential pair goes through a [Store] so the
// persistence side effects live in one place and tests can swap in a
// [MemStore]. [FileStore] is the durable implementation, keeping the pair in
// a 0600 JSON file under the zx data directory.
package tokens

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileName is the token file name inside the zx data directory.
const FileName = "tokens.json"

// Store defines the get/set/clear contract for the persisted token pair.
//
// An empty string means "no token". Implementations must be safe for
// concurrent use; the HTTP transport reads tokens on every request while the
// session container writes them on login/logout.
type Store interface {
	Access() string
	Refresh() string
	SetPair(access, refresh string) error
	SetAccess(access string) error
	Clear() error
}

type tokenFile struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// FileStore persists tokens to a JSON file. Reads are served from memory;
// the file is the source of truth across restarts.
type FileStore struct {
	path string
	mu   sync.RWMutex
	cur  tokenFile
}

var _ Store = (*FileStore)(nil)

// NewFileStore loads (or initializes) a token store backed by the file at
// dir/tokens.json. A missing file is not an error, it is the logged-out state.
func NewFileStore(dir string) (*FileStore, error) {
	s := &FileStore{path: filepath.Join(dir, FileName)}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	if err := json.Unmarshal(data, &s.cur); err != nil {
		// A corrupt token file is treated as logged out rather than fatal.
		s.cur = tokenFile{}
	}

	return s, nil
}

func (s *FileStore) Access() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Access
}

func (s *FileStore) Refresh() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Refresh
}

// SetPair stores a new access/refresh pair and persists it.
func (s *FileStore) SetPair(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = tokenFile{Access: access, Refresh: refresh}
	return s.flush()
}

// SetAccess replaces only the access token, keeping the refresh token.
// Used after a successful refresh exchange.
func (s *FileStore) SetAccess(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.Access = access
	return s.flush()
}

// Clear removes both tokens and deletes the backing file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = tokenFile{}

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// flush writes the current pair to disk. Caller holds the lock.
func (s *FileStore) flush() error {
	data, err := json.Marshal(s.cur)
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

var _ Store = (*MemStore)(nil)

func NewMemStore(access, refresh string) *MemStore {
	return &MemStore{access: access, refresh: refresh}
}

func (s *MemStore) Access() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *MemStore) Refresh() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

func (s *MemStore) SetPair(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh = access, refresh
	return nil
}

func (s *MemStore) SetAccess(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh = "", ""
	return nil
}
