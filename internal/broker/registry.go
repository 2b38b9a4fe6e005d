package broker

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/warrenZY/folderpad/internal/model"
)

// Registry persists the broker's consent records: which token grants access
// to which folder. It is host-side state, separate from the bookmark store
// the application keeps.
type Registry interface {
	Get(token string) (model.Grant, error)
	Put(grant model.Grant) error
	Delete(token string) error
	All() ([]model.Grant, error)
	Touch(token string) error
}

// JSONRegistry implements Registry using a JSON file of grant records.
type JSONRegistry struct {
	mu   sync.Mutex
	path string
}

// NewJSONRegistry creates a JSONRegistry persisting to the given file path.
func NewJSONRegistry(path string) *JSONRegistry {
	return &JSONRegistry{path: path}
}

// Path returns the registry file path.
func (r *JSONRegistry) Path() string {
	return r.path
}

// Get returns the grant for token, or ErrNotFound.
func (r *JSONRegistry) Get(token string) (model.Grant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	grants, err := r.load()
	if err != nil {
		return model.Grant{}, err
	}
	for _, g := range grants {
		if g.Token == token {
			return g, nil
		}
	}
	return model.Grant{}, fmt.Errorf("%w: %s", ErrNotFound, token)
}

// Put inserts the grant, replacing any existing record for the same token.
func (r *JSONRegistry) Put(grant model.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	grants, err := r.load()
	if err != nil {
		return err
	}
	replaced := false
	for i, g := range grants {
		if g.Token == grant.Token {
			grants[i] = grant
			replaced = true
			break
		}
	}
	if !replaced {
		grants = append(grants, grant)
	}
	return r.save(grants)
}

// Delete removes the grant for token. Deleting an absent token is a no-op.
func (r *JSONRegistry) Delete(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	grants, err := r.load()
	if err != nil {
		return err
	}
	out := grants[:0]
	for _, g := range grants {
		if g.Token != token {
			out = append(out, g)
		}
	}
	return r.save(out)
}

// All returns every grant in insertion order.
func (r *JSONRegistry) All() ([]model.Grant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Touch records that the grant for token was just resolved.
func (r *JSONRegistry) Touch(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	grants, err := r.load()
	if err != nil {
		return err
	}
	for i, g := range grants {
		if g.Token == token {
			now := time.Now()
			grants[i].ResolvedAt = &now
			return r.save(grants)
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, token)
}

// load reads and decodes the registry file. Callers must hold mu.
func (r *JSONRegistry) load() ([]model.Grant, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Grant{}, nil
		}
		return nil, fmt.Errorf("read grant registry: %w", err)
	}

	var grants []model.Grant
	if err := json.Unmarshal(data, &grants); err != nil {
		return nil, fmt.Errorf("parse grant registry: %w", err)
	}
	if grants == nil {
		grants = []model.Grant{}
	}
	return grants, nil
}

// save writes the registry file. Callers must hold mu.
func (r *JSONRegistry) save(grants []model.Grant) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	if grants == nil {
		grants = []model.Grant{}
	}
	data, err := json.MarshalIndent(grants, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(r.path, data, 0644)
}

// DefaultRegistryDir returns the default registry directory:
// ~/.config/folderpad
func DefaultRegistryDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "folderpad"), nil
}

// OpenRegistry opens the appropriate registry backend in dir.
// Prefers SQLite if the database file exists, otherwise falls back to JSON.
func OpenRegistry(dir string) (Registry, error) {
	sqlitePath := filepath.Join(dir, "grants.db")

	// If the SQLite database exists, use it
	if _, err := os.Stat(sqlitePath); err == nil {
		return NewSQLiteRegistry(sqlitePath)
	}

	// Fall back to JSON
	return NewJSONRegistry(filepath.Join(dir, "grants.json")), nil
}
