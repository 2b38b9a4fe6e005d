package broker_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/warrenZY/folderpad/internal/broker"
)

func newTestBroker(t *testing.T) *broker.Local {
	t.Helper()
	registry := broker.NewJSONRegistry(filepath.Join(t.TempDir(), "grants.json"))
	return broker.NewLocal(registry)
}

func TestLocal_PickFolderUnprimed(t *testing.T) {
	b := newTestBroker(t)

	_, err := b.PickFolder()
	if !errors.Is(err, broker.ErrCanceled) {
		t.Errorf("expected ErrCanceled for unprimed pick, got %v", err)
	}
}

func TestLocal_PickFolderPrimed(t *testing.T) {
	b := newTestBroker(t)
	dir := t.TempDir()

	b.PrimePick(dir)
	h, err := b.PickFolder()
	if err != nil {
		t.Fatalf("failed to pick folder: %v", err)
	}
	if h.Path() != dir {
		t.Errorf("expected path %q, got %q", dir, h.Path())
	}

	// The prime is consumed; a second pick is a cancel
	if _, err := b.PickFolder(); !errors.Is(err, broker.ErrCanceled) {
		t.Errorf("expected ErrCanceled after prime consumed, got %v", err)
	}
}

func TestLocal_PickFolderRejectsFiles(t *testing.T) {
	b := newTestBroker(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(file, []byte("hi"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	b.PrimePick(file)
	if _, err := b.PickFolder(); err == nil {
		t.Error("expected error when picking a regular file")
	}
}

func TestLocal_MintAndResolve(t *testing.T) {
	b := newTestBroker(t)
	dir := t.TempDir()

	b.PrimePick(dir)
	h, err := b.PickFolder()
	if err != nil {
		t.Fatalf("failed to pick folder: %v", err)
	}

	token, err := b.MintToken(h)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	resolved, err := b.ResolveToken(token)
	if err != nil {
		t.Fatalf("failed to resolve token: %v", err)
	}
	if resolved.Path() != dir {
		t.Errorf("expected resolved path %q, got %q", dir, resolved.Path())
	}
}

func TestLocal_MintDeniedForRoot(t *testing.T) {
	b := newTestBroker(t)

	b.PrimePick(string(filepath.Separator))
	h, err := b.PickFolder()
	if err != nil {
		t.Fatalf("failed to pick root: %v", err)
	}

	_, err = b.MintToken(h)
	if !errors.Is(err, broker.ErrDenied) {
		t.Errorf("expected ErrDenied for root folder, got %v", err)
	}
}

func TestLocal_ResolveUnknownToken(t *testing.T) {
	b := newTestBroker(t)

	_, err := b.ResolveToken("never-minted")
	if !errors.Is(err, broker.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLocal_ResolveRevokedFolder(t *testing.T) {
	b := newTestBroker(t)
	parent := t.TempDir()
	dir := filepath.Join(parent, "gone")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	b.PrimePick(dir)
	h, err := b.PickFolder()
	if err != nil {
		t.Fatalf("failed to pick folder: %v", err)
	}
	token, err := b.MintToken(h)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}

	// Folder disappears out from under the grant
	if err := os.Remove(dir); err != nil {
		t.Fatalf("failed to remove dir: %v", err)
	}

	_, err = b.ResolveToken(token)
	if !errors.Is(err, broker.ErrRevoked) {
		t.Errorf("expected ErrRevoked after folder removal, got %v", err)
	}
}

func TestLocal_ReleaseToken(t *testing.T) {
	b := newTestBroker(t)
	dir := t.TempDir()

	b.PrimePick(dir)
	h, _ := b.PickFolder()
	token, err := b.MintToken(h)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}

	if err := b.ReleaseToken(token); err != nil {
		t.Fatalf("failed to release token: %v", err)
	}

	if _, err := b.ResolveToken(token); !errors.Is(err, broker.ErrNotFound) {
		t.Errorf("expected ErrNotFound after release, got %v", err)
	}

	// Releasing again is a no-op
	if err := b.ReleaseToken(token); err != nil {
		t.Errorf("expected released release to be a no-op, got %v", err)
	}
}

func TestLocal_PickSaveDestination(t *testing.T) {
	b := newTestBroker(t)
	dir := t.TempDir()

	if _, err := b.PickSaveDestination("new.txt"); !errors.Is(err, broker.ErrCanceled) {
		t.Errorf("expected ErrCanceled for unprimed save, got %v", err)
	}

	// Priming with a directory appends the suggested name
	b.PrimeSave(dir)
	fh, err := b.PickSaveDestination("new.txt")
	if err != nil {
		t.Fatalf("failed to pick save destination: %v", err)
	}
	if fh.Name() != "new.txt" {
		t.Errorf("expected file name %q, got %q", "new.txt", fh.Name())
	}

	if err := fh.Write("saved"); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "new.txt"))
	if err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	if string(data) != "saved" {
		t.Errorf("expected content %q, got %q", "saved", data)
	}
}

func TestFolderHandle_ListSkipsDirectories(t *testing.T) {
	b := newTestBroker(t)
	dir := t.TempDir()

	for _, name := range []string{"a.txt", "b.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatalf("failed to create subdir: %v", err)
	}

	b.PrimePick(dir)
	h, err := b.PickFolder()
	if err != nil {
		t.Fatalf("failed to pick folder: %v", err)
	}

	entries, err := h.List()
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Name == "sub" {
			t.Error("expected subdirectory to be skipped")
		}
	}
}

func TestFileHandle_ReadWriteRemove(t *testing.T) {
	b := newTestBroker(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(path, []byte("first"), 0644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	b.PrimePick(dir)
	h, _ := b.PickFolder()
	entries, err := h.List()
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	file := entries[0].File
	content, err := file.Read()
	if err != nil {
		t.Fatalf("failed to read: %v", err)
	}
	if content != "first" {
		t.Errorf("expected content %q, got %q", "first", content)
	}

	if err := file.Write("second"); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	content, _ = file.Read()
	if content != "second" {
		t.Errorf("expected content %q after write, got %q", "second", content)
	}

	if err := file.Remove(); err != nil {
		t.Fatalf("failed to remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected file to be deleted")
	}
}
