package broker

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/warrenZY/folderpad/internal/model"
)

// Local is a reference Broker for ordinary filesystems. Tokens are UUIDs
// bound to absolute folder paths in a Registry. Picker dialogs belong to the
// host UI: it primes the next pick result before dispatching the action that
// consumes it, and an unprimed pick reports ErrCanceled.
type Local struct {
	registry Registry

	mu         sync.Mutex
	pickedPath string
	havePick   bool
	savePath   string
	haveSave   bool
}

// NewLocal creates a Local broker over the given grant registry.
func NewLocal(registry Registry) *Local {
	return &Local{registry: registry}
}

// PrimePick arms the next PickFolder call with the directory the user chose.
func (b *Local) PrimePick(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pickedPath = path
	b.havePick = true
}

// PrimeSave arms the next PickSaveDestination call with the file path the
// user chose.
func (b *Local) PrimeSave(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.savePath = path
	b.haveSave = true
}

// PickFolder consumes the primed folder choice.
func (b *Local) PickFolder() (FolderHandle, error) {
	b.mu.Lock()
	path, ok := b.pickedPath, b.havePick
	b.pickedPath, b.havePick = "", false
	b.mu.Unlock()

	if !ok {
		return nil, ErrCanceled
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open folder: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open folder: %s is not a directory", abs)
	}

	return &osFolder{path: abs}, nil
}

// PickSaveDestination consumes the primed save choice. The suggested name is
// advisory; the host dialog already used it to seed its input.
func (b *Local) PickSaveDestination(suggested string) (FileHandle, error) {
	b.mu.Lock()
	path, ok := b.savePath, b.haveSave
	b.savePath, b.haveSave = "", false
	b.mu.Unlock()

	if !ok {
		return nil, ErrCanceled
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("save destination: %w", err)
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		abs = filepath.Join(abs, suggested)
	}

	return &osFile{path: abs}, nil
}

// MintToken records durable consent for the folder and returns the minted
// token. The filesystem root is never granted.
func (b *Local) MintToken(folder FolderHandle) (string, error) {
	if folder == nil {
		return "", ErrDenied
	}

	path := folder.Path()
	if path == string(filepath.Separator) || filepath.Dir(path) == path {
		return "", fmt.Errorf("%w: %s", ErrDenied, path)
	}

	grant := model.NewGrant(model.NewGrantParams{Path: path})
	if err := b.registry.Put(grant); err != nil {
		return "", fmt.Errorf("record grant: %w", err)
	}
	return grant.Token, nil
}

// ResolveToken returns a live handle for the folder the token grants,
// verifying the folder is still reachable.
func (b *Local) ResolveToken(token string) (FolderHandle, error) {
	grant, err := b.registry.Get(token)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(grant.Path)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRevoked, grant.Path)
	}

	// Best effort bookkeeping; a failed touch never blocks the resolve
	_ = b.registry.Touch(token)

	return &osFolder{path: grant.Path}, nil
}

// ReleaseToken withdraws consent for the token. Releasing an unknown token
// is a no-op.
func (b *Local) ReleaseToken(token string) error {
	return b.registry.Delete(token)
}

// osFolder is a FolderHandle over an ordinary directory.
type osFolder struct {
	path string
}

func (f *osFolder) Path() string {
	return f.path
}

// List enumerates the folder's direct children in host order, skipping
// subdirectories.
func (f *osFolder) List() ([]FileEntry, error) {
	entries, err := os.ReadDir(f.path)
	if err != nil {
		return nil, fmt.Errorf("list folder: %w", err)
	}

	files := []FileEntry{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		files = append(files, FileEntry{
			Name: name,
			File: &osFile{path: filepath.Join(f.path, name)},
		})
	}
	return files, nil
}

// osFile is a FileHandle over an ordinary file.
type osFile struct {
	path string
}

func (f *osFile) Name() string {
	return filepath.Base(f.path)
}

func (f *osFile) Read() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Name(), err)
	}
	return string(data), nil
}

func (f *osFile) Write(content string) error {
	if err := os.WriteFile(f.path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", f.Name(), err)
	}
	return nil
}

func (f *osFile) Remove() error {
	if err := os.Remove(f.path); err != nil {
		return fmt.Errorf("delete %s: %w", f.Name(), err)
	}
	return nil
}
