package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/warrenZY/folderpad/internal/model"
)

// ErrParse signals that the persisted bookmark file is malformed. Callers
// recover with an empty set; the error is surfaced as a message, never as a
// fatal condition.
var ErrParse = errors.New("bookmark file is malformed")

// Store defines the interface for persisting the bookmark token set.
// All three operations return the resulting set. Mutations are serialized,
// so concurrent Add/Remove calls cannot lose each other's update.
type Store interface {
	Load() (model.TokenSet, error)
	Add(token string) (model.TokenSet, error)
	Remove(token string) (model.TokenSet, error)
}

// JSONStore implements Store using a single JSON array file.
type JSONStore struct {
	mu   sync.Mutex
	path string
}

// NewJSONStore creates a JSONStore persisting to the given file path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the store file path.
func (s *JSONStore) Path() string {
	return s.path
}

// Load reads the token set from the JSON file.
// A missing file yields an empty set with no error. Malformed content
// yields an empty set together with ErrParse.
func (s *JSONStore) Load() (model.TokenSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Add inserts token into the set and persists the full resulting set.
// Adding a token that is already present changes nothing. If the write
// fails, the on-disk file is left as it was before the call.
func (s *JSONStore) Add(token string) (model.TokenSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.load()
	if err != nil && !errors.Is(err, ErrParse) {
		return nil, err
	}

	tokens = tokens.Add(token)
	if err := s.save(tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// Remove deletes token from the set if present and persists the result.
// Removing an absent token is a no-op that still rewrites the file.
func (s *JSONStore) Remove(token string) (model.TokenSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.load()
	if err != nil && !errors.Is(err, ErrParse) {
		return nil, err
	}

	tokens = tokens.Remove(token)
	if err := s.save(tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// load reads and decodes the file. Callers must hold mu.
func (s *JSONStore) load() (model.TokenSet, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewTokenSet(), nil
		}
		return model.NewTokenSet(), fmt.Errorf("read bookmark file: %w", err)
	}

	var tokens model.TokenSet
	if err := json.Unmarshal(data, &tokens); err != nil {
		return model.NewTokenSet(), fmt.Errorf("%w: %v", ErrParse, err)
	}

	return tokens.Normalize(), nil
}

// save writes the full set as a whole-file replacement. The data goes to a
// temp file in the same directory first and is renamed into place, so a
// failed write never leaves a partial file behind. Callers must hold mu.
func (s *JSONStore) save(tokens model.TokenSet) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	if tokens == nil {
		tokens = model.NewTokenSet()
	}
	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("write bookmark file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write bookmark file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("write bookmark file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return fmt.Errorf("write bookmark file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write bookmark file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("write bookmark file: %w", err)
	}
	return nil
}

// DefaultStorePath returns the default store path:
// ~/.config/folderpad/bookmarkDemo.json
func DefaultStorePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "folderpad", "bookmarkDemo.json"), nil
}
