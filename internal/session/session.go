// Package session implements the folder session state machine: which folder
// is active, which file is selected, the edited content, and the bookmark
// token mirror, together with the derived flags the UI layer binds to.
//
// A session is owned by a single logical thread. Transitions run their
// synchronous part on that thread and hand long-running work back as a
// Command; the produced Completion must be committed with Apply on the
// owning thread again. Nothing in this package starts goroutines itself.
package session

import (
	"github.com/warrenZY/folderpad/internal/broker"
	"github.com/warrenZY/folderpad/internal/listing"
	"github.com/warrenZY/folderpad/internal/model"
	"github.com/warrenZY/folderpad/internal/storage"
)

// Session holds the live folder/file/edit context.
type Session struct {
	broker broker.Broker
	store  storage.Store
	cache  *listing.Cache

	folder        broker.FolderHandle // nil = no active folder
	path          string
	activeToken   string
	selected      broker.FileEntry
	hasSelected   bool
	content       string
	tokens        model.TokenSet // mirror of the persisted set
	selectedToken string
	message       Message

	derived   Derived
	observers []registeredObserver
	nextObsID int
}

// Params holds parameters for creating a new Session.
type Params struct {
	Broker broker.Broker
	Store  storage.Store
	Cache  *listing.Cache
}

// New creates an empty Session.
func New(params Params) *Session {
	s := &Session{
		broker: params.Broker,
		store:  params.Store,
		cache:  params.Cache,
		tokens: model.NewTokenSet(),
	}
	s.recompute()
	return s
}

// Derived are the read-only flags the UI layer binds to. They are pure
// functions of session fields, recomputed on every commit before observers
// run.
type Derived struct {
	CanOverwrite            bool
	CanSaveBookmark         bool
	CanReleaseBookmark      bool
	CanLoadSelectedBookmark bool
	CanDeleteFile           bool
	HasError                bool
}

// Snapshot is an immutable view of the session handed to observers.
type Snapshot struct {
	Active        bool
	Path          string
	ActiveToken   string
	Files         []string // names in enumeration order
	SelectedFile  string
	Content       string
	Tokens        model.TokenSet
	SelectedToken string
	Message       Message
	Derived       Derived
}

// Observer receives a snapshot after every commit.
type Observer func(Snapshot)

type registeredObserver struct {
	id int
	fn Observer
}

// Subscribe registers fn and returns an id for Unsubscribe. Observers run
// synchronously on the session's owning thread, after derived state has
// been recomputed.
func (s *Session) Subscribe(fn Observer) int {
	s.nextObsID++
	s.observers = append(s.observers, registeredObserver{id: s.nextObsID, fn: fn})
	return s.nextObsID
}

// Unsubscribe removes the observer with the given id.
func (s *Session) Unsubscribe(id int) {
	for i, o := range s.observers {
		if o.id == id {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Active reports whether a folder is active.
func (s *Session) Active() bool {
	return s.folder != nil
}

// Path returns the active folder path, or "" when empty.
func (s *Session) Path() string {
	return s.path
}

// ActiveToken returns the token the active folder was opened under, or ""
// for a manually picked or absent folder.
func (s *Session) ActiveToken() string {
	return s.activeToken
}

// Files returns the current file list in enumeration order.
func (s *Session) Files() []broker.FileEntry {
	return s.cache.Entries()
}

// FileSuffix returns the suffix the file list is filtered by.
func (s *Session) FileSuffix() string {
	return s.cache.Suffix()
}

// SelectedFile returns the selected file entry, if any.
func (s *Session) SelectedFile() (broker.FileEntry, bool) {
	return s.selected, s.hasSelected
}

// Content returns the edited content buffer.
func (s *Session) Content() string {
	return s.content
}

// Tokens returns the bookmark token mirror in insertion order.
func (s *Session) Tokens() model.TokenSet {
	return s.tokens
}

// SelectedToken returns the token selected in the bookmark list, or "".
func (s *Session) SelectedToken() string {
	return s.selectedToken
}

// LastMessage returns the current status message.
func (s *Session) LastMessage() Message {
	return s.message
}

// Derived returns the current derived flags.
func (s *Session) Derived() Derived {
	return s.derived
}

// Snapshot builds an observer view of the current state.
func (s *Session) Snapshot() Snapshot {
	entries := s.cache.Entries()
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		files = append(files, e.Name)
	}

	selected := ""
	if s.hasSelected {
		selected = s.selected.Name
	}

	return Snapshot{
		Active:        s.folder != nil,
		Path:          s.path,
		ActiveToken:   s.activeToken,
		Files:         files,
		SelectedFile:  selected,
		Content:       s.content,
		Tokens:        s.tokens.Clone(),
		SelectedToken: s.selectedToken,
		Message:       s.message,
		Derived:       s.derived,
	}
}

// commit finishes a batch of field mutations: recompute derived flags, then
// notify observers. Always in that order.
func (s *Session) commit() {
	s.recompute()
	if len(s.observers) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, o := range s.observers {
		o.fn(snap)
	}
}

func (s *Session) recompute() {
	s.derived = Derived{
		CanOverwrite:            s.hasSelected,
		CanSaveBookmark:         s.folder != nil,
		CanReleaseBookmark:      s.selectedToken != "",
		CanLoadSelectedBookmark: s.selectedToken != "",
		CanDeleteFile:           s.hasSelected,
		HasError:                s.message.Text != "" && s.message.Kind == MessageError,
	}
}

// reconcileSelection re-validates the selected file against the refreshed
// list, clearing selection and content when the file is gone.
func (s *Session) reconcileSelection() {
	if !s.hasSelected {
		return
	}
	if entry, ok := s.cache.Find(s.selected.Name); ok {
		s.selected = entry
		return
	}
	s.selected = broker.FileEntry{}
	s.hasSelected = false
	s.content = ""
}
