package tui

import (
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/warrenZY/folderpad/internal/search"
	"github.com/warrenZY/folderpad/internal/tui/layout"
)

// BrowserState holds cursor state for the two list panes.
type BrowserState struct {
	TokenCursor int // selected row in the bookmarks pane
	FileCursor  int // selected row in the files pane
}

// Reset moves both cursors back to the top.
func (b *BrowserState) Reset() {
	b.TokenCursor = 0
	b.FileCursor = 0
}

// PickState wraps the folder picker dialog.
type PickState struct {
	Picker filepicker.Model
}

// NewPickState creates a PickState rooted at startDir. Height is managed by
// the app, so the picker's own resize handling is disabled.
func NewPickState(startDir string, showHidden bool) PickState {
	fp := filepicker.New()
	fp.CurrentDirectory = startDir
	fp.DirAllowed = true
	fp.FileAllowed = false
	fp.ShowHidden = showHidden
	fp.AutoHeight = false
	return PickState{Picker: fp}
}

// SaveAsState holds the save destination name input.
type SaveAsState struct {
	Input textinput.Model
}

// NewSaveAsState creates a SaveAsState with initialized input.
func NewSaveAsState(cfg layout.LayoutConfig) SaveAsState {
	input := textinput.New()
	input.Placeholder = "file name"
	input.CharLimit = cfg.Input.FileNameCharLimit
	input.Width = cfg.Input.StandardWidth
	return SaveAsState{Input: input}
}

// Reset clears the input for a new save dialog.
func (s *SaveAsState) Reset() {
	s.Input.Reset()
}

// FilterState holds the file list quick filter.
type FilterState struct {
	Input   textinput.Model
	Query   string             // active query (persists after closing the input)
	Matches []search.NameMatch // files matching Query, best first
}

// NewFilterState creates a FilterState with initialized input.
func NewFilterState(cfg layout.LayoutConfig) FilterState {
	input := textinput.New()
	input.Placeholder = "filter..."
	input.CharLimit = cfg.Input.FilterCharLimit
	input.Width = cfg.Input.FilterWidth
	return FilterState{Input: input}
}

// Reset clears the filter completely.
func (f *FilterState) Reset() {
	f.Input.Reset()
	f.Query = ""
	f.Matches = nil
}

// EditorState wraps the content textarea.
type EditorState struct {
	Area textarea.Model
}

// NewEditorState creates an EditorState for plain text files.
func NewEditorState() EditorState {
	area := textarea.New()
	area.ShowLineNumbers = false
	area.CharLimit = 0
	return EditorState{Area: area}
}

// ConfirmAction identifies what a confirmation modal will do.
type ConfirmAction int

const (
	ConfirmNone ConfirmAction = iota
	ConfirmDeleteFile
	ConfirmRelease
)

// ConfirmState holds the pending destructive action.
type ConfirmState struct {
	Action ConfirmAction
	Target string // file name or abbreviated token, for display
}

// Reset clears the pending action.
func (c *ConfirmState) Reset() {
	c.Action = ConfirmNone
	c.Target = ""
}
