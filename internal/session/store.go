// Package session persists the access and refresh tokens of the logged-in user.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// Kind selects which token of the session is read or written.
type Kind int

const (
	// Access is the short-lived token sent as the bearer credential.
	Access Kind = iota

	// Refresh is the long-lived token used only to mint new access tokens.
	Refresh
)

func (k Kind) String() string {
	switch k {
	case Access:
		return "access_token"
	case Refresh:
		return "refresh_token"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Store holds the session tokens.
// An absent token is reported as ("", false), never as an error.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the token of the given kind, if present.
	Get(kind Kind) (string, bool)

	// Set stores a token. Setting an empty token removes it.
	Set(kind Kind, token string) error

	// Clear removes both tokens.
	Clear() error
}

// Token returns the stored session as an oauth2 token.
// Returns nil when no access token is stored.
func Token(s Store) *oauth2.Token {
	access, ok := s.Get(Access)
	if !ok {
		return nil
	}
	refresh, _ := s.Get(Refresh)
	return &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
	}
}

// MemoryStore keeps tokens in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[Kind]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[Kind]string)}
}

// Get implements Store.
func (m *MemoryStore) Get(kind Kind) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tok, ok := m.tokens[kind]
	return tok, ok && tok != ""
}

// Set implements Store.
func (m *MemoryStore) Set(kind Kind, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token == "" {
		delete(m.tokens, kind)
		return nil
	}
	m.tokens[kind] = token
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = make(map[Kind]string)
	return nil
}

// FileStore persists tokens to a JSON file in oauth2.Token format.
// The file is written with mode 0600 and its directory with mode 0700.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by the file at path.
// The file does not need to exist.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Get implements Store. A missing or corrupt file reads as no tokens.
func (f *FileStore) Get(kind Kind) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tok, err := f.load()
	if err != nil {
		return "", false
	}

	var value string
	switch kind {
	case Access:
		value = tok.AccessToken
	case Refresh:
		value = tok.RefreshToken
	}
	return value, value != ""
}

// Set implements Store.
func (f *FileStore) Set(kind Kind, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tok, err := f.load()
	if err != nil {
		// Overwrite whatever unreadable content was there
		tok = &oauth2.Token{}
	}

	switch kind {
	case Access:
		tok.AccessToken = token
	case Refresh:
		tok.RefreshToken = token
	default:
		return fmt.Errorf("unknown token kind: %s", kind)
	}

	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return f.remove()
	}
	if tok.TokenType == "" {
		tok.TokenType = "Bearer"
	}
	return f.save(tok)
}

// Clear implements Store. Clearing an absent file is not an error.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remove()
}

func (f *FileStore) load() (*oauth2.Token, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", filepath.Base(f.path), err)
	}
	return &tok, nil
}

func (f *FileStore) save(tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0600)
}

func (f *FileStore) remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}
