package tui

import (
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/warrenZY/folderpad/internal/search"
	"github.com/warrenZY/folderpad/internal/session"
	"github.com/warrenZY/folderpad/internal/tui/layout"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeBrowse Mode = iota
	ModePickFolder
	ModeEdit
	ModeSaveAs
	ModeFilter
	ModeConfirm
	ModeHelp
)

// Pane identifies one of the three columns.
type Pane int

const (
	PaneBookmarks Pane = iota
	PaneFiles
	PaneEditor
)

// Primer seeds the broker's next dialog result. The TUI runs its own picker
// and save dialogs, hands the chosen path to the broker, then dispatches the
// session transition that consumes it. A transition dispatched without a
// primed path reports a canceled dialog.
type Primer interface {
	PrimePick(path string)
	PrimeSave(path string)
}

// completionMsg carries a finished session step back onto the UI thread,
// where Apply commits it.
type completionMsg struct {
	c session.Completion
}

// dispatch wraps a session command into a bubbletea command. A nil session
// command means the transition refused; its message is already set.
func dispatch(cmd session.Command) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg {
		return completionMsg{c: cmd()}
	}
}

// App is the main bubbletea model for folderpad.
type App struct {
	session      *session.Session
	primer       Primer
	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig

	mode        Mode
	focusedPane Pane

	browser BrowserState
	pick    PickState
	saveAs  SaveAsState
	filter  FilterState
	editor  EditorState
	confirm ConfirmState

	// For gg command
	lastKeyWasG bool

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Session      *session.Session
	Primer       Primer
	PickerStart  string               // initial directory for the folder picker
	ShowHidden   bool                 // show dotfiles in the folder picker
	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutConfig := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutConfig = *params.LayoutConfig
	}

	start := params.PickerStart
	if start == "" {
		start = "."
	}

	app := App{
		session:      params.Session,
		primer:       params.Primer,
		keys:         keys,
		styles:       styles,
		layoutConfig: layoutConfig,
		mode:         ModeBrowse,
		focusedPane:  PaneBookmarks,
		pick:         NewPickState(start, params.ShowHidden),
		saveAs:       NewSaveAsState(layoutConfig),
		filter:       NewFilterState(layoutConfig),
		editor:       NewEditorState(),
		width:        80,
		height:       24,
	}

	app.resize(app.width, app.height)
	return app
}

// WithDimensions returns a copy of the app with the given dimensions set.
func (a App) WithDimensions(width, height int) App {
	a.resize(width, height)
	return a
}

// Mode returns the current UI mode.
func (a App) Mode() Mode {
	return a.mode
}

// FocusedPane returns the focused list pane.
func (a App) FocusedPane() Pane {
	return a.focusedPane
}

// TokenCursor returns the cursor position in the bookmarks pane.
func (a App) TokenCursor() int {
	return a.browser.TokenCursor
}

// FileCursor returns the cursor position in the files pane.
func (a App) FileCursor() int {
	return a.browser.FileCursor
}

// FilterQuery returns the active file filter query.
func (a App) FilterQuery() string {
	return a.filter.Query
}

// VisibleFiles returns the file names shown in the files pane, honoring the
// active filter query.
func (a App) VisibleFiles() []string {
	names := a.fileNames()
	if a.filter.Query == "" {
		return names
	}
	out := make([]string, 0, len(a.filter.Matches))
	for _, m := range a.filter.Matches {
		out = append(out, m.Name)
	}
	return out
}

// fileNames returns the session file list as plain names.
func (a App) fileNames() []string {
	entries := a.session.Files()
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

// tokenItems builds the bookmarks pane rows from the session mirror.
func (a App) tokenItems() []Item {
	tokens := a.session.Tokens()
	items := make([]Item, 0, len(tokens))
	for _, t := range tokens {
		items = append(items, Item{Kind: ItemToken, Token: t})
	}
	return items
}

// fileItems builds the files pane rows, honoring the filter.
func (a App) fileItems() []Item {
	files := a.VisibleFiles()
	items := make([]Item, 0, len(files))
	for _, name := range files {
		items = append(items, Item{Kind: ItemFile, Name: name})
	}
	return items
}

// Init implements tea.Model. The bookmark list loads immediately so the
// mirror is populated before the first keypress.
func (a App) Init() tea.Cmd {
	return dispatch(a.session.LoadBookmarkList())
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case completionMsg:
		a.session.Apply(msg.c)
		a.refreshAfterApply()
		return a, nil

	case tea.KeyMsg:
		switch a.mode {
		case ModePickFolder:
			return a.updatePickFolder(msg)
		case ModeEdit:
			return a.updateEdit(msg)
		case ModeSaveAs:
			return a.updateSaveAs(msg)
		case ModeFilter:
			return a.updateFilter(msg)
		case ModeConfirm:
			return a.updateConfirm(msg)
		case ModeHelp:
			return a.updateHelp(msg)
		default:
			return a.updateBrowse(msg)
		}
	}

	// Remaining messages are the folder picker's directory reads.
	if a.mode == ModePickFolder {
		var cmd tea.Cmd
		a.pick.Picker, cmd = a.pick.Picker.Update(msg)
		return a, cmd
	}

	return a, nil
}

// resize records the terminal dimensions and propagates them to the
// components that keep their own size.
func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	widths := layout.CalculatePaneWidths(width, a.layoutConfig.Pane)
	paneHeight := layout.CalculatePaneHeight(height, a.layoutConfig.Pane)
	a.editor.Area.SetWidth(layout.CalculateItemWidth(widths.Editor, a.layoutConfig.Pane))
	a.editor.Area.SetHeight(layout.CalculateVisibleHeight(paneHeight, 1))

	a.pick.Picker.Height = layout.CalculatePickerHeight(height, a.layoutConfig.Modal)
}

// refreshAfterApply re-clamps cursors and re-runs the filter after a session
// step landed, since the file list or token mirror may have changed.
func (a *App) refreshAfterApply() {
	if a.filter.Query != "" {
		a.filter.Matches = search.FuzzySearchNames(a.fileNames(), a.filter.Query)
	}
	a.clampCursors()
	if a.mode != ModeEdit {
		a.editor.Area.SetValue(a.session.Content())
	}
}

func (a *App) clampCursors() {
	if n := len(a.session.Tokens()); a.browser.TokenCursor >= n {
		a.browser.TokenCursor = n - 1
	}
	if a.browser.TokenCursor < 0 {
		a.browser.TokenCursor = 0
	}

	if n := len(a.VisibleFiles()); a.browser.FileCursor >= n {
		a.browser.FileCursor = n - 1
	}
	if a.browser.FileCursor < 0 {
		a.browser.FileCursor = 0
	}
}

// listLength returns the row count of the focused list pane.
func (a App) listLength() int {
	if a.focusedPane == PaneBookmarks {
		return len(a.session.Tokens())
	}
	return len(a.VisibleFiles())
}

func (a *App) setCursor(idx int) {
	n := a.listLength()
	if n == 0 {
		idx = 0
	} else {
		if idx < 0 {
			idx = 0
		}
		if idx >= n {
			idx = n - 1
		}
	}

	if a.focusedPane == PaneBookmarks {
		a.browser.TokenCursor = idx
	} else {
		a.browser.FileCursor = idx
	}
}

func (a *App) moveCursor(delta int) {
	if a.focusedPane == PaneBookmarks {
		a.setCursor(a.browser.TokenCursor + delta)
	} else {
		a.setCursor(a.browser.FileCursor + delta)
	}
}

func (a App) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			// This is the second g - go to top
			a.setCursor(0)
			a.lastKeyWasG = false
			return a, nil
		}
		// First g - wait for second
		a.lastKeyWasG = true
		return a, nil
	}

	// Reset g flag for any other key
	a.lastKeyWasG = false

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp

	case key.Matches(msg, a.keys.Down):
		a.moveCursor(1)

	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-1)

	case key.Matches(msg, a.keys.Bottom):
		a.setCursor(a.listLength() - 1)

	case key.Matches(msg, a.keys.NextPane), key.Matches(msg, a.keys.PrevPane):
		if a.focusedPane == PaneBookmarks {
			a.focusedPane = PaneFiles
		} else {
			a.focusedPane = PaneBookmarks
		}

	case key.Matches(msg, a.keys.Open):
		return a.openUnderCursor()

	case key.Matches(msg, a.keys.OpenFolder):
		return a.enterPickFolder()

	case key.Matches(msg, a.keys.SaveBookmark):
		return a, dispatch(a.session.SaveBookmark())

	case key.Matches(msg, a.keys.ReloadBookmarks):
		return a, dispatch(a.session.LoadBookmarkList())

	case key.Matches(msg, a.keys.ReleaseBookmark):
		return a.enterConfirmRelease()

	case key.Matches(msg, a.keys.Edit):
		return a.enterEdit()

	case key.Matches(msg, a.keys.Save):
		return a, dispatch(a.session.Overwrite())

	case key.Matches(msg, a.keys.SaveAs):
		return a.enterSaveAs()

	case key.Matches(msg, a.keys.Delete):
		return a.enterConfirmDelete()

	case key.Matches(msg, a.keys.YankPath):
		a.yankPath()

	case key.Matches(msg, a.keys.Filter):
		a.focusedPane = PaneFiles
		a.mode = ModeFilter
		return a, a.filter.Input.Focus()
	}

	return a, nil
}

// openUnderCursor runs the Open action for the focused pane: resolve the
// bookmark under the cursor, or load the file under the cursor.
func (a App) openUnderCursor() (tea.Model, tea.Cmd) {
	if a.focusedPane == PaneBookmarks {
		tokens := a.session.Tokens()
		if len(tokens) == 0 {
			return a, nil
		}
		a.session.SelectToken(tokens[a.browser.TokenCursor])
		return a, dispatch(a.session.LoadSelectedBookmark())
	}

	files := a.VisibleFiles()
	if len(files) == 0 {
		return a, nil
	}
	return a, dispatch(a.session.SelectFile(files[a.browser.FileCursor]))
}

// enterPickFolder opens the folder picker dialog, starting from the active
// folder when there is one.
func (a App) enterPickFolder() (tea.Model, tea.Cmd) {
	if a.session.Active() {
		a.pick.Picker.CurrentDirectory = a.session.Path()
	}
	a.mode = ModePickFolder
	return a, a.pick.Picker.Init()
}

func (a App) updatePickFolder(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		a.mode = ModeBrowse
		// Nothing primed, so the transition reports the canceled dialog.
		return a, dispatch(a.session.SelectFolder())
	}

	var cmd tea.Cmd
	a.pick.Picker, cmd = a.pick.Picker.Update(msg)

	if ok, path := a.pick.Picker.DidSelectFile(msg); ok {
		a.primer.PrimePick(path)
		a.mode = ModeBrowse
		return a, dispatch(a.session.SelectFolder())
	}

	return a, cmd
}

// enterEdit focuses the content editor. Editing only makes sense with a
// selected file, since content follows the selection.
func (a App) enterEdit() (tea.Model, tea.Cmd) {
	if _, ok := a.session.SelectedFile(); !ok {
		a.session.Post(session.MessageError, "No file selected")
		return a, nil
	}
	a.editor.Area.SetValue(a.session.Content())
	a.mode = ModeEdit
	return a, a.editor.Area.Focus()
}

func (a App) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.session.SetContent(a.editor.Area.Value())
		a.editor.Area.Blur()
		a.mode = ModeBrowse
		return a, nil
	case tea.KeyCtrlS:
		a.session.SetContent(a.editor.Area.Value())
		return a, dispatch(a.session.Overwrite())
	}

	var cmd tea.Cmd
	a.editor.Area, cmd = a.editor.Area.Update(msg)
	return a, cmd
}

// enterSaveAs opens the save destination dialog, seeded with the selected
// file's name. With nothing to save the transition refuses instead.
func (a App) enterSaveAs() (tea.Model, tea.Cmd) {
	if a.session.Content() == "" {
		return a, dispatch(a.session.SaveAs())
	}

	a.saveAs.Reset()
	if entry, ok := a.session.SelectedFile(); ok {
		a.saveAs.Input.SetValue(entry.Name)
	}
	a.mode = ModeSaveAs
	return a, a.saveAs.Input.Focus()
}

func (a App) updateSaveAs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.saveAs.Input.Blur()
		a.mode = ModeBrowse
		// Nothing primed, so the transition reports the canceled dialog.
		return a, dispatch(a.session.SaveAs())

	case tea.KeyEnter:
		name := strings.TrimSpace(a.saveAs.Input.Value())
		if name == "" {
			return a, nil
		}
		dest := name
		if a.session.Active() {
			dest = filepath.Join(a.session.Path(), name)
		}
		a.primer.PrimeSave(dest)
		a.saveAs.Input.Blur()
		a.mode = ModeBrowse
		return a, dispatch(a.session.SaveAs())
	}

	var cmd tea.Cmd
	a.saveAs.Input, cmd = a.saveAs.Input.Update(msg)
	return a, cmd
}

func (a App) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.filter.Reset()
		a.filter.Input.Blur()
		a.browser.FileCursor = 0
		a.mode = ModeBrowse
		return a, nil

	case tea.KeyEnter:
		a.filter.Input.Blur()
		a.mode = ModeBrowse
		return a, nil
	}

	var cmd tea.Cmd
	a.filter.Input, cmd = a.filter.Input.Update(msg)
	a.filter.Query = a.filter.Input.Value()
	a.filter.Matches = search.FuzzySearchNames(a.fileNames(), a.filter.Query)
	a.browser.FileCursor = 0
	return a, cmd
}

// enterConfirmDelete asks before deleting the selected file. Without a
// selection the transition refuses and its message explains why.
func (a App) enterConfirmDelete() (tea.Model, tea.Cmd) {
	entry, ok := a.session.SelectedFile()
	if !ok {
		return a, dispatch(a.session.DeleteSelectedFile())
	}
	a.confirm.Action = ConfirmDeleteFile
	a.confirm.Target = entry.Name
	a.mode = ModeConfirm
	return a, nil
}

// enterConfirmRelease asks before releasing the bookmark under the cursor.
// Release always goes through the confirm modal; a stale token selection from
// an earlier open must never release on a bare keypress.
func (a App) enterConfirmRelease() (tea.Model, tea.Cmd) {
	tokens := a.session.Tokens()
	if a.focusedPane != PaneBookmarks || len(tokens) == 0 {
		a.session.Post(session.MessageError, "No bookmark selected")
		return a, nil
	}
	token := tokens[a.browser.TokenCursor]
	a.session.SelectToken(token)
	a.confirm.Action = ConfirmRelease
	a.confirm.Target = AbbreviateToken(token)
	a.mode = ModeConfirm
	return a, nil
}

func (a App) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEnter || msg.String() == "y":
		action := a.confirm.Action
		a.confirm.Reset()
		a.mode = ModeBrowse
		switch action {
		case ConfirmDeleteFile:
			return a, dispatch(a.session.DeleteSelectedFile())
		case ConfirmRelease:
			return a, dispatch(a.session.ReleaseBookmark())
		}
		return a, nil

	case msg.Type == tea.KeyEsc || msg.String() == "n":
		if a.confirm.Action == ConfirmRelease {
			// Leave the bookmark list as it was
			a.session.SelectToken("")
		}
		a.confirm.Reset()
		a.mode = ModeBrowse
		return a, nil
	}

	return a, nil
}

func (a App) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Help) || key.Matches(msg, a.keys.Quit) || msg.Type == tea.KeyEsc {
		a.mode = ModeBrowse
	}
	return a, nil
}

// yankPath copies the active folder path to the system clipboard.
func (a App) yankPath() {
	path := a.session.Path()
	if path == "" {
		a.session.Post(session.MessageError, "No active folder to yank")
		return
	}
	if err := clipboard.WriteAll(path); err != nil {
		a.session.Post(session.MessageError, "Could not copy path: "+err.Error())
		return
	}
	a.session.Post(session.MessageSuccess, "Copied "+path)
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
