package session

import (
	"errors"
	"fmt"

	"github.com/warrenZY/folderpad/internal/broker"
	"github.com/warrenZY/folderpad/internal/model"
	"github.com/warrenZY/folderpad/internal/storage"
)

// Completion is the result of an asynchronous step, produced off-thread and
// committed on the session's owning thread via Apply.
type Completion interface {
	apply(s *Session)
}

// Command produces a Completion. Run it on any goroutine; hand the result
// back to Apply. Transitions whose preconditions fail return a nil Command
// after surfacing the refusal.
type Command func() Completion

// Apply commits a completed asynchronous step. Must be called from the
// thread that owns the session.
func (s *Session) Apply(c Completion) {
	if c == nil {
		return
	}
	c.apply(s)
	s.commit()
}

// SelectFolder begins the manual folder pick flow: broker dialog, then file
// enumeration. Cancel leaves the session untouched.
func (s *Session) SelectFolder() Command {
	s.clearMessage()
	s.commit()

	b, cache := s.broker, s.cache
	return func() Completion {
		folder, err := b.PickFolder()
		if err != nil {
			return folderPicked{err: err}
		}
		entries, err := cache.Scan(folder)
		if err != nil {
			return folderPicked{err: err}
		}
		return folderPicked{folder: folder, entries: entries}
	}
}

type folderPicked struct {
	folder  broker.FolderHandle
	entries []broker.FileEntry
	err     error
}

func (c folderPicked) apply(s *Session) {
	if c.err != nil {
		if errors.Is(c.err, broker.ErrCanceled) {
			s.setMessage(MessageInfo, "Folder selection canceled")
			return
		}
		s.setMessage(MessageError, "Could not open folder: "+c.err.Error())
		return
	}

	s.folder = c.folder
	s.path = c.folder.Path()
	// A manual pick abandons any bookmark context
	s.activeToken = ""
	s.tokens = model.NewTokenSet()
	s.selectedToken = ""
	s.cache.Replace(c.entries)
	s.reconcileSelection()
	s.setMessage(MessageSuccess, "Opened "+s.path)
}

// SaveBookmark mints a durable token for the active folder and persists it.
func (s *Session) SaveBookmark() Command {
	s.clearMessage()
	if s.folder == nil {
		s.refuse("No active folder to bookmark")
		return nil
	}
	s.commit()

	b, store, folder := s.broker, s.store, s.folder
	return func() Completion {
		token, err := b.MintToken(folder)
		if err != nil {
			return tokenMinted{err: err}
		}
		set, err := store.Add(token)
		if err != nil {
			return tokenMinted{token: token, err: err}
		}
		return tokenMinted{token: token, tokens: set}
	}
}

type tokenMinted struct {
	token  string
	tokens model.TokenSet
	err    error
}

func (c tokenMinted) apply(s *Session) {
	if c.err != nil {
		if errors.Is(c.err, broker.ErrDenied) {
			s.setMessage(MessageError, "The host denied bookmark access for this folder")
			return
		}
		s.setMessage(MessageError, "Could not save bookmark: "+c.err.Error())
		return
	}

	s.activeToken = c.token
	s.tokens = c.tokens
	s.setMessage(MessageSuccess, "Bookmark saved")
}

// LoadBookmarkList reads the persisted token set into the mirror.
func (s *Session) LoadBookmarkList() Command {
	s.clearMessage()
	s.commit()

	store := s.store
	return func() Completion {
		set, err := store.Load()
		return tokensLoaded{tokens: set, err: err}
	}
}

type tokensLoaded struct {
	tokens model.TokenSet
	err    error
}

func (c tokensLoaded) apply(s *Session) {
	if c.err != nil {
		if errors.Is(c.err, storage.ErrParse) {
			// Corrupt bookmarks are data loss, never fatal
			s.tokens = model.NewTokenSet()
			s.dropStaleTokenSelection()
			s.setMessage(MessageWarning, "Bookmark file was unreadable; starting with an empty list")
			return
		}
		s.setMessage(MessageError, "Could not load bookmarks: "+c.err.Error())
		return
	}

	s.tokens = c.tokens
	s.dropStaleTokenSelection()
	if len(c.tokens) == 0 {
		s.setMessage(MessageInfo, "No bookmarks saved yet")
		return
	}
	s.setMessage(MessageSuccess, fmt.Sprintf("Loaded %d bookmark(s)", len(c.tokens)))
}

func (s *Session) dropStaleTokenSelection() {
	if s.selectedToken != "" && !s.tokens.Contains(s.selectedToken) {
		s.selectedToken = ""
	}
}

// SelectToken marks token as the selection in the bookmark list. An empty
// token clears the selection.
func (s *Session) SelectToken(token string) {
	s.clearMessage()
	if token != "" && !s.tokens.Contains(token) {
		s.refuse("Unknown bookmark selected")
		return
	}
	s.selectedToken = token
	s.commit()
}

// LoadSelectedBookmark resolves the selected token into a live folder. A
// failed resolve never tears down an already active session.
func (s *Session) LoadSelectedBookmark() Command {
	s.clearMessage()
	if s.selectedToken == "" {
		s.refuse("No bookmark selected")
		return nil
	}
	s.commit()

	b, cache, token := s.broker, s.cache, s.selectedToken
	return func() Completion {
		folder, err := b.ResolveToken(token)
		if err != nil {
			return tokenResolved{token: token, err: err}
		}
		entries, err := cache.Scan(folder)
		if err != nil {
			return tokenResolved{token: token, err: err}
		}
		return tokenResolved{token: token, folder: folder, entries: entries}
	}
}

type tokenResolved struct {
	token   string
	folder  broker.FolderHandle
	entries []broker.FileEntry
	err     error
}

func (c tokenResolved) apply(s *Session) {
	if c.err != nil {
		if s.activeToken == c.token {
			s.activeToken = ""
		}
		s.setMessage(MessageError, "Could not access the bookmarked folder; pick it again to renew access")
		return
	}

	s.folder = c.folder
	s.path = c.folder.Path()
	s.activeToken = c.token
	s.cache.Replace(c.entries)
	s.reconcileSelection()
	s.setMessage(MessageSuccess, "Opened "+s.path)
}

// ReleaseBookmark withdraws consent for the selected token and removes it
// from the store. Releasing the active token closes the whole session;
// releasing any other token only shrinks the store.
func (s *Session) ReleaseBookmark() Command {
	s.clearMessage()
	if s.selectedToken == "" {
		s.refuse("No bookmark selected")
		return nil
	}
	s.commit()

	b, store, token := s.broker, s.store, s.selectedToken
	return func() Completion {
		// Consent is withdrawn before the store entry
		if err := b.ReleaseToken(token); err != nil {
			return tokenReleased{token: token, err: err}
		}
		set, err := store.Remove(token)
		if err != nil {
			return tokenReleased{token: token, err: err}
		}
		return tokenReleased{token: token, tokens: set}
	}
}

type tokenReleased struct {
	token  string
	tokens model.TokenSet
	err    error
}

func (c tokenReleased) apply(s *Session) {
	if c.err != nil {
		s.setMessage(MessageError, "Could not release bookmark: "+c.err.Error())
		return
	}

	if s.activeToken == c.token {
		// The active folder's consent is gone; drop every capability
		s.folder = nil
		s.path = ""
		s.activeToken = ""
		s.cache.Clear()
		s.selected = broker.FileEntry{}
		s.hasSelected = false
		s.content = ""
	}
	s.selectedToken = ""
	s.tokens = c.tokens
	s.setMessage(MessageSuccess, "Bookmark released")
}

// SelectFile marks name as selected and begins loading its content.
func (s *Session) SelectFile(name string) Command {
	s.clearMessage()
	entry, ok := s.cache.Find(name)
	if !ok {
		s.refuse("File is no longer in the folder")
		return nil
	}

	s.selected = entry
	s.hasSelected = true
	s.content = ""
	s.commit()

	return func() Completion {
		text, err := entry.File.Read()
		return contentLoaded{name: entry.Name, text: text, err: err}
	}
}

type contentLoaded struct {
	name string
	text string
	err  error
}

func (c contentLoaded) apply(s *Session) {
	// Stale guard: the user may have moved to another file while the read
	// was in flight; a completion for the old file is dropped silently
	if !s.hasSelected || s.selected.Name != c.name {
		return
	}

	if c.err != nil {
		s.setMessage(MessageError, "Could not read "+c.name+": "+c.err.Error())
		return
	}

	s.content = c.text
	s.setMessage(MessageInfo, "Loaded "+c.name)
}

// SetContent replaces the edited buffer with user input. Typing is not a
// transition; the message slot is left alone. Input without a selected file
// is ignored.
func (s *Session) SetContent(text string) {
	if !s.hasSelected {
		return
	}
	s.content = text
	s.commit()
}

// Overwrite writes the edited content back to the selected file in place.
func (s *Session) Overwrite() Command {
	s.clearMessage()
	if !s.hasSelected || s.content == "" {
		s.refuse("Nothing to save")
		return nil
	}
	s.commit()

	entry, content := s.selected, s.content
	return func() Completion {
		err := entry.File.Write(content)
		return contentWritten{name: entry.Name, err: err}
	}
}

type contentWritten struct {
	name string
	err  error
}

func (c contentWritten) apply(s *Session) {
	if c.err != nil {
		s.setMessage(MessageError, "Could not save "+c.name+": "+c.err.Error())
		return
	}
	s.setMessage(MessageSuccess, "Saved "+c.name)
}

// SaveAs writes the edited content to a destination chosen via the broker's
// save dialog, seeded with the selected file's name, then refreshes the
// file list when a folder is active.
func (s *Session) SaveAs() Command {
	s.clearMessage()
	if s.content == "" {
		s.refuse("Nothing to save")
		return nil
	}
	s.commit()

	suggested := "untitled" + s.cache.Suffix()
	if s.hasSelected {
		suggested = s.selected.Name
	}

	b, cache, folder, content := s.broker, s.cache, s.folder, s.content
	return func() Completion {
		dest, err := b.PickSaveDestination(suggested)
		if err != nil {
			return savedAs{err: err}
		}
		if err := dest.Write(content); err != nil {
			return savedAs{name: dest.Name(), err: err}
		}
		c := savedAs{name: dest.Name()}
		if folder != nil {
			if entries, err := cache.Scan(folder); err == nil {
				c.entries = entries
				c.refreshed = true
			}
		}
		return c
	}
}

type savedAs struct {
	name      string
	entries   []broker.FileEntry
	refreshed bool
	err       error
}

func (c savedAs) apply(s *Session) {
	if c.err != nil {
		if errors.Is(c.err, broker.ErrCanceled) {
			s.setMessage(MessageInfo, "Save canceled")
			return
		}
		s.setMessage(MessageError, "Could not save: "+c.err.Error())
		return
	}

	if c.refreshed {
		s.cache.Replace(c.entries)
		s.reconcileSelection()
	}
	s.setMessage(MessageSuccess, "Saved "+c.name)
}

// DeleteSelectedFile deletes the selected file through its capability,
// clears the selection, and refreshes the file list.
func (s *Session) DeleteSelectedFile() Command {
	s.clearMessage()
	if !s.hasSelected || s.folder == nil {
		s.refuse("No file selected")
		return nil
	}
	s.commit()

	entry, cache, folder := s.selected, s.cache, s.folder
	return func() Completion {
		if err := entry.File.Remove(); err != nil {
			return fileDeleted{name: entry.Name, err: err}
		}
		entries, err := cache.Scan(folder)
		if err != nil {
			return fileDeleted{name: entry.Name, removed: true, err: err}
		}
		return fileDeleted{name: entry.Name, removed: true, entries: entries}
	}
}

type fileDeleted struct {
	name    string
	removed bool
	entries []broker.FileEntry
	err     error
}

func (c fileDeleted) apply(s *Session) {
	if !c.removed {
		s.setMessage(MessageError, "Could not delete "+c.name+": "+c.err.Error())
		return
	}

	// The file is gone even when the follow-up refresh failed
	if s.hasSelected && s.selected.Name == c.name {
		s.selected = broker.FileEntry{}
		s.hasSelected = false
		s.content = ""
	}
	if c.err != nil {
		s.setMessage(MessageError, "Deleted "+c.name+" but could not refresh the list: "+c.err.Error())
		return
	}

	s.cache.Replace(c.entries)
	s.reconcileSelection()
	s.setMessage(MessageSuccess, "Deleted "+c.name)
}
