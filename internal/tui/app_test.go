package tui_test

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/warrenZY/folderpad/internal/broker"
	"github.com/warrenZY/folderpad/internal/listing"
	"github.com/warrenZY/folderpad/internal/session"
	"github.com/warrenZY/folderpad/internal/storage"
	"github.com/warrenZY/folderpad/internal/tui"
)

// newTestApp wires a full app over real components rooted in a temp dir.
func newTestApp(t *testing.T) (tui.App, *session.Session, *broker.Local, string) {
	t.Helper()
	root := t.TempDir()

	reg := broker.NewJSONRegistry(filepath.Join(root, "grants.json"))
	local := broker.NewLocal(reg)
	store := storage.NewJSONStore(filepath.Join(root, "bookmarkDemo.json"))
	cache := listing.NewCache(".txt")
	ses := session.New(session.Params{Broker: local, Store: store, Cache: cache})

	app := tui.NewApp(tui.AppParams{
		Session:     ses,
		Primer:      local,
		PickerStart: root,
	})
	app = settle(t, app, app.Init())

	return app, ses, local, root
}

// settle executes a dispatched session command and feeds its completion back
// into Update, the way the bubbletea runtime would.
func settle(t *testing.T, app tui.App, cmd tea.Cmd) tui.App {
	t.Helper()
	if cmd == nil {
		return app
	}
	msg := cmd()
	if msg == nil {
		return app
	}
	if _, ok := msg.(tea.QuitMsg); ok {
		return app
	}
	updated, _ := app.Update(msg)
	return updated.(tui.App)
}

func pressRune(t *testing.T, app tui.App, r rune) tui.App {
	t.Helper()
	updated, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return settle(t, updated.(tui.App), cmd)
}

func pressKey(t *testing.T, app tui.App, typ tea.KeyType) tui.App {
	t.Helper()
	updated, cmd := app.Update(tea.KeyMsg{Type: typ})
	return settle(t, updated.(tui.App), cmd)
}

// typeString feeds runes one at a time without settling, for text inputs.
func typeString(t *testing.T, app tui.App, s string) tui.App {
	t.Helper()
	for _, r := range s {
		updated, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		app = updated.(tui.App)
	}
	return app
}

// writeFolder creates a named folder under root with the given text files.
func writeFolder(t *testing.T, root, name string, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create folder: %v", err)
	}
	for fname, content := range files {
		if err := os.WriteFile(filepath.Join(dir, fname), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", fname, err)
		}
	}
	return dir
}

// openFolder drives the open-folder flow with the dialog result primed, so
// the picker itself never has to run.
func openFolder(t *testing.T, app tui.App, local *broker.Local, dir string) tui.App {
	t.Helper()
	local.PrimePick(dir)
	updated, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'o'}})
	app = updated.(tui.App)
	return pressKey(t, app, tea.KeyEsc)
}

func TestApp_StartsEmpty(t *testing.T) {
	app, ses, _, _ := newTestApp(t)

	if ses.Active() {
		t.Error("session should start with no active folder")
	}
	if app.Mode() != tui.ModeBrowse {
		t.Error("expected to start in browse mode")
	}
	if app.FocusedPane() != tui.PaneBookmarks {
		t.Error("expected bookmarks pane focused at start")
	}
	if msg := ses.LastMessage(); msg.Text != "No bookmarks saved yet" {
		t.Errorf("expected empty-list message after startup load, got %q", msg.Text)
	}
}

func TestApp_OpenFolder(t *testing.T) {
	app, ses, local, root := newTestApp(t)
	dir := writeFolder(t, root, "docs", map[string]string{
		"a.txt": "alpha",
		"b.txt": "beta",
	})

	app = openFolder(t, app, local, dir)

	if !ses.Active() {
		t.Fatal("expected active session after opening folder")
	}
	if ses.Path() != dir {
		t.Errorf("expected path %q, got %q", dir, ses.Path())
	}
	if got := len(app.VisibleFiles()); got != 2 {
		t.Errorf("expected 2 files, got %d", got)
	}
	if msg := ses.LastMessage(); msg.Text != "Opened "+dir {
		t.Errorf("expected opened message, got %q", msg.Text)
	}
}

func TestApp_OpenFolder_Cancel(t *testing.T) {
	app, ses, _, _ := newTestApp(t)

	// Enter the picker, then Esc with nothing primed
	updated, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'o'}})
	app = updated.(tui.App)

	if app.Mode() != tui.ModePickFolder {
		t.Fatal("expected picker mode after o")
	}

	app = pressKey(t, app, tea.KeyEsc)

	if app.Mode() != tui.ModeBrowse {
		t.Error("expected browse mode after cancel")
	}
	if ses.Active() {
		t.Error("canceled pick should leave session empty")
	}
	msg := ses.LastMessage()
	if msg.Text != "Folder selection canceled" {
		t.Errorf("expected cancel message, got %q", msg.Text)
	}
	if msg.Kind != session.MessageInfo {
		t.Error("cancel should be informational, not an error")
	}
}

func TestApp_Navigation_JK(t *testing.T) {
	app, _, local, root := newTestApp(t)
	dir := writeFolder(t, root, "docs", map[string]string{
		"a.txt": "", "b.txt": "", "c.txt": "",
	})
	app = openFolder(t, app, local, dir)

	// Move focus to the files pane
	app = pressKey(t, app, tea.KeyTab)
	if app.FocusedPane() != tui.PaneFiles {
		t.Fatal("expected files pane focused after tab")
	}

	if app.FileCursor() != 0 {
		t.Errorf("expected initial cursor 0, got %d", app.FileCursor())
	}

	app = pressRune(t, app, 'j')
	if app.FileCursor() != 1 {
		t.Errorf("after j, expected cursor 1, got %d", app.FileCursor())
	}

	app = pressRune(t, app, 'k')
	if app.FileCursor() != 0 {
		t.Errorf("after k, expected cursor 0, got %d", app.FileCursor())
	}

	// Press k at top should stay at 0 (no wrap)
	app = pressRune(t, app, 'k')
	if app.FileCursor() != 0 {
		t.Errorf("k at top should stay at 0, got %d", app.FileCursor())
	}
}

func TestApp_Navigation_JK_AtBounds(t *testing.T) {
	app, _, local, root := newTestApp(t)
	dir := writeFolder(t, root, "docs", map[string]string{"a.txt": "", "b.txt": ""})
	app = openFolder(t, app, local, dir)
	app = pressKey(t, app, tea.KeyTab)

	app = pressRune(t, app, 'j')
	if app.FileCursor() != 1 {
		t.Errorf("expected cursor 1, got %d", app.FileCursor())
	}

	// Press j at bottom should stay at bottom
	app = pressRune(t, app, 'j')
	if app.FileCursor() != 1 {
		t.Errorf("j at bottom should stay at 1, got %d", app.FileCursor())
	}
}

func TestApp_Navigation_GG_G(t *testing.T) {
	app, _, local, root := newTestApp(t)
	dir := writeFolder(t, root, "docs", map[string]string{
		"a.txt": "", "b.txt": "", "c.txt": "", "d.txt": "", "e.txt": "",
	})
	app = openFolder(t, app, local, dir)
	app = pressKey(t, app, tea.KeyTab)

	app = pressRune(t, app, 'G')
	if app.FileCursor() != 4 {
		t.Errorf("G should go to last item (4), got %d", app.FileCursor())
	}

	// Press g twice for gg
	app = pressRune(t, app, 'g')
	app = pressRune(t, app, 'g')
	if app.FileCursor() != 0 {
		t.Errorf("gg should go to first item (0), got %d", app.FileCursor())
	}
}

func TestApp_Navigation_G_SingleG(t *testing.T) {
	app, _, local, root := newTestApp(t)
	dir := writeFolder(t, root, "docs", map[string]string{"a.txt": "", "b.txt": ""})
	app = openFolder(t, app, local, dir)
	app = pressKey(t, app, tea.KeyTab)

	app = pressRune(t, app, 'j')

	// Single g followed by different key should not jump to top
	app = pressRune(t, app, 'g')
	app = pressRune(t, app, 'j')

	// The g was cancelled by j, which keeps the cursor at the bottom
	if app.FileCursor() != 1 {
		t.Errorf("single g followed by j should cancel gg, cursor at %d", app.FileCursor())
	}
}

func TestApp_SaveBookmark(t *testing.T) {
	app, ses, local, root := newTestApp(t)
	dir := writeFolder(t, root, "docs", map[string]string{"a.txt": ""})
	app = openFolder(t, app, local, dir)

	app = pressRune(t, app, 'b')

	if got := len(ses.Tokens()); got != 1 {
		t.Fatalf("expected 1 token after bookmarking, got %d", got)
	}
	if msg := ses.LastMessage(); msg.Text != "Bookmark saved" {
		t.Errorf("expected save message, got %q", msg.Text)
	}
}

func TestApp_SaveBookmark_NoFolder(t *testing.T) {
	app, ses, _, _ := newTestApp(t)

	app = pressRune(t, app, 'b')

	if len(ses.Tokens()) != 0 {
		t.Error("bookmarking without a folder should not mint a token")
	}
	msg := ses.LastMessage()
	if msg.Text != "No active folder to bookmark" {
		t.Errorf("expected refusal message, got %q", msg.Text)
	}
	if msg.Kind != session.MessageError {
		t.Error("refusal should surface as an error")
	}
}

func TestApp_OpenBookmark(t *testing.T) {
	app, ses, local, root := newTestApp(t)
	first := writeFolder(t, root, "first", map[string]string{"a.txt": ""})
	second := writeFolder(t, root, "second", map[string]string{"b.txt": ""})

	app = openFolder(t, app, local, first)
	app = pressRune(t, app, 'b')
	app = openFolder(t, app, local, second)

	if ses.Path() != second {
		t.Fatalf("expected to be in %q, got %q", second, ses.Path())
	}
	// The manual pick abandoned the bookmark context
	if len(ses.Tokens()) != 0 {
		t.Fatal("expected an empty token mirror after a manual pick")
	}

	app = pressRune(t, app, 'R')
	if got := len(ses.Tokens()); got != 1 {
		t.Fatalf("expected 1 token after reload, got %d", got)
	}

	// Open the saved bookmark from the bookmarks pane
	if app.FocusedPane() != tui.PaneBookmarks {
		app = pressKey(t, app, tea.KeyTab)
	}
	app = pressRune(t, app, 'l')

	if ses.Path() != first {
		t.Errorf("expected bookmark to resolve back to %q, got %q", first, ses.Path())
	}
	if ses.ActiveToken() == "" {
		t.Error("folder opened via bookmark should record its token")
	}
}

func TestApp_ReleaseBookmark(t *testing.T) {
	app, ses, local, root := newTestApp(t)
	dir := writeFolder(t, root, "docs", map[string]string{"a.txt": ""})
	app = openFolder(t, app, local, dir)
	app = pressRune(t, app, 'b')

	if len(ses.Tokens()) != 1 {
		t.Fatal("expected 1 token before release")
	}

	app = pressRune(t, app, 'r')
	if app.Mode() != tui.ModeConfirm {
		t.Fatal("expected confirm mode after r")
	}

	app = pressKey(t, app, tea.KeyEnter)

	if app.Mode() != tui.ModeBrowse {
		t.Error("expected browse mode after confirm")
	}
	if len(ses.Tokens()) != 0 {
		t.Errorf("expected 0 tokens after release, got %d", len(ses.Tokens()))
	}
	if msg := ses.LastMessage(); msg.Text != "Bookmark released" {
		t.Errorf("expected release message, got %q", msg.Text)
	}
}

func TestApp_ReleaseBookmark_Cancel(t *testing.T) {
	app, ses, local, root := newTestApp(t)
	dir := writeFolder(t, root, "docs", map[string]string{"a.txt": ""})
	app = openFolder(t, app, local, dir)
	app = pressRune(t, app, 'b')

	app = pressRune(t, app, 'r')
	app = pressKey(t, app, tea.KeyEsc)

	if app.Mode() != tui.ModeBrowse {
		t.Error("expected browse mode after cancel")
	}
	if len(ses.Tokens()) != 1 {
		t.Errorf("cancel should keep the token, got %d tokens", len(ses.Tokens()))
	}
}

func TestApp_SelectFile(t *testing.T) {
	app, ses, local, root := newTestApp(t)
	dir := writeFolder(t, root, "docs", map[string]string{"a.txt": "hello"})
	app = openFolder(t, app, local, dir)
	app = pressKey(t, app, tea.KeyTab)

	app = pressRune(t, app, 'l')

	entry, ok := ses.SelectedFile()
	if !ok {
		t.Fatal("expected a selected file after l")
	}
	if entry.Name != "a.txt" {
		t.Errorf("expected a.txt selected, got %q", entry.Name)
	}
	if ses.Content() != "hello" {
		t.Errorf("expected loaded content %q, got %q", "hello", ses.Content())
	}
	if msg := ses.LastMessage(); msg.Text != "Loaded a.txt" {
		t.Errorf("expected loaded message, got %q", msg.Text)
	}
}

func TestApp_EditAndSave(t *testing.T) {
	app, ses, local, root := newTestApp(t)
	dir := writeFolder(t, root, "docs", map[string]string{"a.txt": "hello"})
	app = openFolder(t, app, local, dir)
	app = pressKey(t, app, tea.KeyTab)
	app = pressRune(t, app, 'l')

	app = pressRune(t, app, 'e')
	if app.Mode() != tui.ModeEdit {
		t.Fatal("expected edit mode after e")
	}

	app = typeString(t, app, "!")
	app = pressKey(t, app, tea.KeyCtrlS)

	if ses.Content() != "hello!" {
		t.Errorf("expected content %q, got %q", "hello!", ses.Content())
	}
	data, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}
	if string(data) != "hello!" {
		t.Errorf("expected %q on disk, got %q", "hello!", string(data))
	}
	if msg := ses.LastMessage(); msg.Text != "Saved a.txt" {
		t.Errorf("expected save message, got %q", msg.Text)
	}
}

func TestApp_Edit_EscKeepsDraft(t *testing.T) {
	app, ses, local, root := newTestApp(t)
	dir := writeFolder(t, root, "docs", map[string]string{"a.txt": "hello"})
	app = openFolder(t, app, local, dir)
	app = pressKey(t, app, tea.KeyTab)
	app = pressRune(t, app, 'l')

	app = pressRune(t, app, 'e')
	app = typeString(t, app, " world")
	app = pressKey(t, app, tea.KeyEsc)

	if app.Mode() != tui.ModeBrowse {
		t.Error("expected browse mode after Esc")
	}
	// Draft is kept in the session, but not written to disk
	if ses.Content() != "hello world" {
		t.Errorf("expected draft kept, got %q", ses.Content())
	}
	data, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("Esc should not write to disk, got %q", string(data))
	}
}

func TestApp_SaveAs(t *testing.T) {
	app, ses, local, root := newTestApp(t)
	dir := writeFolder(t, root, "docs", map[string]string{"a.txt": "hello"})
	app = openFolder(t, app, local, dir)
	app = pressKey(t, app, tea.KeyTab)
	app = pressRune(t, app, 'l')

	app = pressRune(t, app, 'S')
	if app.Mode() != tui.ModeSaveAs {
		t.Fatal("expected save-as mode after S")
	}

	// Input is seeded with the selected name; replace it
	for range "a.txt" {
		app = pressKey(t, app, tea.KeyBackspace)
	}
	app = typeString(t, app, "copy.txt")
	app = pressKey(t, app, tea.KeyEnter)

	if app.Mode() != tui.ModeBrowse {
		t.Error("expected browse mode after save")
	}
	data, err := os.ReadFile(filepath.Join(dir, "copy.txt"))
	if err != nil {
		t.Fatalf("failed to read saved copy: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("expected %q in copy, got %q", "hello", string(data))
	}
	if msg := ses.LastMessage(); msg.Text != "Saved copy.txt" {
		t.Errorf("expected save message, got %q", msg.Text)
	}
}

func TestApp_SaveAs_Cancel(t *testing.T) {
	app, ses, local, root := newTestApp(t)
	dir := writeFolder(t, root, "docs", map[string]string{"a.txt": "hello"})
	app = openFolder(t, app, local, dir)
	app = pressKey(t, app, tea.KeyTab)
	app = pressRune(t, app, 'l')

	app = pressRune(t, app, 'S')
	app = pressKey(t, app, tea.KeyEsc)

	if app.Mode() != tui.ModeBrowse {
		t.Error("expected browse mode after cancel")
	}
	msg := ses.LastMessage()
	if msg.Text != "Save canceled" {
		t.Errorf("expected cancel message, got %q", msg.Text)
	}
	if msg.Kind != session.MessageInfo {
		t.Error("cancel should be informational, not an error")
	}
}

func TestApp_DeleteFile(t *testing.T) {
	app, ses, local, root := newTestApp(t)
	dir := writeFolder(t, root, "docs", map[string]string{"a.txt": "x", "b.txt": "y"})
	app = openFolder(t, app, local, dir)
	app = pressKey(t, app, tea.KeyTab)
	app = pressRune(t, app, 'l')

	app = pressRune(t, app, 'd')
	if app.Mode() != tui.ModeConfirm {
		t.Fatal("expected confirm mode after d")
	}

	app = pressRune(t, app, 'y')

	if app.Mode() != tui.ModeBrowse {
		t.Error("expected browse mode after confirm")
	}
	if _, err := os.Stat(filepath.Join(dir, "a.txt")); !os.IsNotExist(err) {
		t.Error("expected a.txt to be deleted from disk")
	}
	if _, ok := ses.SelectedFile(); ok {
		t.Error("selection should clear after deleting the selected file")
	}
	if got := len(app.VisibleFiles()); got != 1 {
		t.Errorf("expected 1 file left, got %d", got)
	}
}

func TestApp_DeleteFile_Cancel(t *testing.T) {
	app, _, local, root := newTestApp(t)
	dir := writeFolder(t, root, "docs", map[string]string{"a.txt": "x"})
	app = openFolder(t, app, local, dir)
	app = pressKey(t, app, tea.KeyTab)
	app = pressRune(t, app, 'l')

	app = pressRune(t, app, 'd')
	app = pressRune(t, app, 'n')

	if app.Mode() != tui.ModeBrowse {
		t.Error("expected browse mode after cancel")
	}
	if _, err := os.Stat(filepath.Join(dir, "a.txt")); err != nil {
		t.Error("cancel should keep the file on disk")
	}
}

func TestApp_Filter(t *testing.T) {
	app, _, local, root := newTestApp(t)
	dir := writeFolder(t, root, "docs", map[string]string{
		"alpha.txt": "", "beta.txt": "", "gamma.txt": "",
	})
	app = openFolder(t, app, local, dir)

	updated, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	app = updated.(tui.App)

	if app.Mode() != tui.ModeFilter {
		t.Fatal("expected filter mode after /")
	}
	if app.FocusedPane() != tui.PaneFiles {
		t.Error("filter should focus the files pane")
	}

	app = typeString(t, app, "gam")
	files := app.VisibleFiles()
	if len(files) != 1 || files[0] != "gamma.txt" {
		t.Errorf("expected [gamma.txt], got %v", files)
	}

	// Enter keeps the filter applied
	app = pressKey(t, app, tea.KeyEnter)
	if app.Mode() != tui.ModeBrowse {
		t.Error("expected browse mode after Enter")
	}
	if got := len(app.VisibleFiles()); got != 1 {
		t.Errorf("filter should stay applied, got %d files", got)
	}

	// Esc from filter mode clears it
	updated, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	app = updated.(tui.App)
	app = pressKey(t, app, tea.KeyEsc)
	if got := len(app.VisibleFiles()); got != 3 {
		t.Errorf("expected all 3 files after clearing filter, got %d", got)
	}
	if app.FilterQuery() != "" {
		t.Errorf("expected empty query after Esc, got %q", app.FilterQuery())
	}
}

func TestApp_Overwrite_NothingLoaded(t *testing.T) {
	app, ses, local, root := newTestApp(t)
	dir := writeFolder(t, root, "docs", map[string]string{"a.txt": ""})
	app = openFolder(t, app, local, dir)

	app = pressRune(t, app, 's')

	msg := ses.LastMessage()
	if msg.Text != "Nothing to save" {
		t.Errorf("expected refusal message, got %q", msg.Text)
	}
	if msg.Kind != session.MessageError {
		t.Error("refusal should surface as an error")
	}
}

func TestApp_Help(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	app = pressRune(t, app, '?')
	if app.Mode() != tui.ModeHelp {
		t.Fatal("expected help mode after ?")
	}

	app = pressKey(t, app, tea.KeyEsc)
	if app.Mode() != tui.ModeBrowse {
		t.Error("expected browse mode after closing help")
	}
}

func TestApp_Quit(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected q to quit")
	}
}
