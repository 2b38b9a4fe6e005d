// Package broker defines the host permission surface the folder session
// consumes: dialogs for picking folders and save destinations, and durable
// access grants minted, resolved, and released as opaque tokens. The session
// never inspects token content; it only passes tokens back to the broker.
package broker

import "errors"

var (
	// ErrCanceled reports that the user dismissed a picker dialog.
	ErrCanceled = errors.New("selection canceled")

	// ErrDenied reports that the host refused to mint a grant.
	ErrDenied = errors.New("permission denied")

	// ErrNotFound reports a token the broker holds no grant for.
	ErrNotFound = errors.New("grant not found")

	// ErrRevoked reports a grant whose folder is no longer reachable.
	ErrRevoked = errors.New("grant revoked")
)

// FileHandle is a live read/write capability for one file.
type FileHandle interface {
	Name() string
	Read() (string, error)
	Write(content string) error
	Remove() error
}

// FolderHandle is a live capability to enumerate files within one folder.
type FolderHandle interface {
	Path() string
	List() ([]FileEntry, error)
}

// FileEntry is one file inside a folder together with its capability.
type FileEntry struct {
	Name string
	File FileHandle
}

// Broker is the permission surface. Picks report ErrCanceled when the user
// dismisses the dialog, MintToken reports ErrDenied when the host refuses
// consent, and ResolveToken reports ErrNotFound or ErrRevoked when a token
// no longer maps to a reachable folder.
type Broker interface {
	PickFolder() (FolderHandle, error)
	PickSaveDestination(suggested string) (FileHandle, error)
	MintToken(folder FolderHandle) (string, error)
	ResolveToken(token string) (FolderHandle, error)
	ReleaseToken(token string) error
}
