package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/warrenZY/folderpad/internal/session"
	"github.com/warrenZY/folderpad/internal/tui/layout"
)

// renderView creates the complete three-column view.
func (a App) renderView() string {
	// Check if we're in a modal mode (ModeFilter and ModeEdit stay inline)
	switch a.mode {
	case ModePickFolder, ModeSaveAs, ModeConfirm:
		return a.renderModal()
	case ModeHelp:
		return a.renderHelpOverlay()
	}

	paneHeight := layout.CalculatePaneHeight(a.height, a.layoutConfig.Pane)
	widths := layout.CalculatePaneWidths(a.width, a.layoutConfig.Pane)

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.renderBookmarksPane(widths.Bookmarks, paneHeight),
		a.renderFilesPane(widths.Files, paneHeight),
		a.renderEditorPane(widths.Editor, paneHeight),
	)

	// Add breadcrumb above columns
	breadcrumb := a.renderBreadcrumb()

	// Add help bar at bottom
	helpBar := a.renderHelpBar()

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left, breadcrumb, columns, helpBar),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

// renderBreadcrumb renders the active folder path above the columns.
func (a App) renderBreadcrumb() string {
	path := "folderpad"
	if a.session.Active() {
		path = a.session.Path()
		if a.session.ActiveToken() != "" {
			path += "  [bookmark]"
		}
	}

	// Calculate available width (terminal width minus app padding: left=2, right=2)
	availableWidth := a.width - 4

	// Truncate from left so the folder name stays visible
	path = layout.TruncatePathFromLeft(path, availableWidth, a.layoutConfig.Text)

	return a.styles.Breadcrumb.Render(path)
}

// renderBookmarksPane renders the left pane with persisted bookmark tokens.
func (a App) renderBookmarksPane(width, height int) string {
	var content strings.Builder

	content.WriteString(a.styles.Title.Render("bookmarks") + "\n")

	visibleHeight := layout.CalculateVisibleHeight(height, 1)
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)

	items := a.tokenItems()
	if len(items) == 0 {
		content.WriteString(a.styles.Empty.Render("(no bookmarks)"))
	} else {
		// Calculate viewport offset to keep cursor visible
		offset := layout.CalculateViewportOffset(a.browser.TokenCursor, len(items), visibleHeight)

		for i, item := range items {
			if i < offset {
				continue
			}
			if i >= offset+visibleHeight {
				break
			}
			// Highlight cursor only when this pane is focused
			isCursor := a.focusedPane == PaneBookmarks && i == a.browser.TokenCursor
			marked := item.Token != "" && item.Token == a.session.ActiveToken()
			line := a.renderListItem(item, isCursor, marked, itemWidth)
			content.WriteString(line + "\n")
		}
	}

	if a.focusedPane == PaneBookmarks {
		return a.styles.PaneActive.
			Width(width).
			Height(height).
			Render(strings.TrimRight(content.String(), "\n"))
	}
	return a.styles.Pane.
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

// renderFilesPane renders the middle pane with the active folder's file list.
func (a App) renderFilesPane(width, height int) string {
	var content strings.Builder

	content.WriteString(a.styles.Title.Render("files") + "\n")

	// Header lines: title, plus the filter row when filtering
	headerLines := 1
	if a.mode == ModeFilter || a.filter.Query != "" {
		headerLines = 2
	}
	visibleHeight := layout.CalculateVisibleHeight(height, headerLines)
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)

	// Show filter input or indicator below the title
	if a.mode == ModeFilter {
		content.WriteString("/" + a.filter.Input.View() + "\n")
	} else if a.filter.Query != "" {
		content.WriteString(a.styles.Empty.Render("/"+a.filter.Query) + "\n")
	}

	items := a.fileItems()
	selected, hasSelected := a.session.SelectedFile()

	switch {
	case !a.session.Active():
		content.WriteString(a.styles.Empty.Render("(no folder)"))
	case len(items) == 0 && a.filter.Query != "":
		content.WriteString(a.styles.Empty.Render("(no matches)"))
	case len(items) == 0:
		content.WriteString(a.styles.Empty.Render("(no " + a.session.FileSuffix() + " files)"))
	default:
		offset := layout.CalculateViewportOffset(a.browser.FileCursor, len(items), visibleHeight)

		for i, item := range items {
			if i < offset {
				continue
			}
			if i >= offset+visibleHeight {
				break
			}
			isCursor := a.focusedPane == PaneFiles && i == a.browser.FileCursor
			marked := hasSelected && item.Name == selected.Name
			line := a.renderListItem(item, isCursor, marked, itemWidth)
			content.WriteString(line + "\n")
		}
	}

	if a.focusedPane == PaneFiles {
		return a.styles.PaneActive.
			Width(width).
			Height(height).
			Render(strings.TrimRight(content.String(), "\n"))
	}
	return a.styles.Pane.
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

// renderEditorPane renders the right pane with the selected file's content.
func (a App) renderEditorPane(width, height int) string {
	var content strings.Builder

	title := "content"
	entry, hasSelected := a.session.SelectedFile()
	if hasSelected {
		title = entry.Name
	}
	content.WriteString(a.styles.Title.Render(title) + "\n")

	if a.mode == ModeEdit {
		content.WriteString(a.editor.Area.View())
	} else if !hasSelected {
		content.WriteString(a.styles.Empty.Render("(no file selected)"))
	} else if a.session.Content() == "" {
		content.WriteString(a.styles.Empty.Render("(empty)"))
	} else {
		visibleHeight := layout.CalculateVisibleHeight(height, 1)
		itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)

		lines := strings.Split(a.session.Content(), "\n")
		if len(lines) > visibleHeight {
			lines = lines[:visibleHeight]
		}
		for i, line := range lines {
			lines[i], _ = layout.TruncateText(line, itemWidth, a.layoutConfig.Text)
		}
		content.WriteString(a.styles.Content.Render(strings.Join(lines, "\n")))
	}

	if a.mode == ModeEdit {
		return a.styles.PaneActive.
			Width(width).
			Height(height).
			Render(strings.TrimRight(content.String(), "\n"))
	}
	return a.styles.Pane.
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

// renderListItem renders one row of a list pane. Marked rows carry a "*"
// prefix: the bookmark the active folder came from, or the loaded file.
func (a App) renderListItem(item Item, isCursor, marked bool, maxWidth int) string {
	var prefix string
	if marked {
		prefix = "* "
	}

	// Truncate if too long using layout function
	line, _ := layout.TruncateWithPrefixSuffix(item.Label(), maxWidth, prefix, "", a.layoutConfig.Text)

	if isCursor {
		// Pad to fill width for selection highlight
		for len(line) < maxWidth {
			line += " "
		}
		return a.styles.ItemSelected.Render(line)
	}
	if marked {
		return a.styles.Token.Render(line)
	}
	return a.styles.Item.Render(line)
}

// renderModal renders the current modal dialog.
func (a App) renderModal() string {
	var title, content strings.Builder

	// Industrial style: thick borders, teal accent
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}
	modalWidth := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal.DefaultWidthPercent, a.layoutConfig.Modal)
	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Width(modalWidth)

	switch a.mode {
	case ModePickFolder:
		modalWidth = layout.CalculateModalWidth(a.width, a.layoutConfig.Modal.LargeWidthPercent, a.layoutConfig.Modal)
		modalStyle = modalStyle.Width(modalWidth)

		title.WriteString("Open Folder\n\n")
		content.WriteString(a.pick.Picker.View())
		content.WriteString("\n")
		content.WriteString(a.renderHintsInline([]Hint{
			{Key: "Enter", Desc: "choose"},
			{Key: "l", Desc: "descend"},
			{Key: "h", Desc: "parent"},
			{Key: "Esc", Desc: "cancel"},
		}))

	case ModeSaveAs:
		title.WriteString("Save As\n\n")
		content.WriteString("File name:\n")
		content.WriteString(a.saveAs.Input.View())
		content.WriteString("\n\n")
		if a.session.Active() {
			content.WriteString(a.styles.Path.Render("in "+a.session.Path()) + "\n\n")
		}
		content.WriteString(a.renderHintsInline([]Hint{
			{Key: "Enter", Desc: "save"},
			{Key: "Esc", Desc: "cancel"},
		}))

	case ModeConfirm:
		switch a.confirm.Action {
		case ConfirmRelease:
			title.WriteString("Release Bookmark?\n\n")
		default:
			title.WriteString("Delete File?\n\n")
		}
		content.WriteString("\"" + a.confirm.Target + "\"\n\n")
		content.WriteString(a.styles.Help.Render("This action cannot be undone.") + "\n\n")
		content.WriteString(a.renderHintsInline([]Hint{
			{Key: "Enter/y", Desc: "confirm"},
			{Key: "Esc/n", Desc: "cancel"},
		}))
	}

	modalContent := a.styles.Title.Render(title.String()) + content.String()

	// Place modal in center, then add help bar at bottom
	modal := lipgloss.Place(
		a.width,
		a.height-3, // Leave room for help bar
		lipgloss.Center,
		lipgloss.Center,
		modalStyle.Render(modalContent),
	)

	return lipgloss.JoinVertical(lipgloss.Left, modal, a.renderHelpBar())
}

func (a App) renderHelpBar() string {
	var lines []string

	// Line 1: Empty spacer OR message (message replaces the gap)
	msg := a.session.LastMessage()
	if !msg.IsZero() {
		lines = append(lines, a.renderMessageLine(msg))
	} else {
		lines = append(lines, "") // Empty line provides gap when no message
	}

	// Line 2: Local (contextual) keyboard hints
	localHints := a.renderHints(a.getContextualHints())
	if localHints != "" {
		lines = append(lines, a.styles.HintLabel.Render("Local  ")+localHints)
	}

	// Line 3: Global keyboard hints (only in browse mode - modals have their own flow)
	if a.mode == ModeBrowse {
		globalHints := a.renderHintSlice(a.getGlobalHints())
		if globalHints != "" {
			lines = append(lines, a.styles.HintLabel.Render("Global ")+globalHints)
		}
	}

	return strings.Join(lines, "\n")
}

// renderMessageLine renders the styled message with prefix icon based on kind.
func (a App) renderMessageLine(msg session.Message) string {
	var msgStyle lipgloss.Style
	var prefix string

	switch msg.Kind {
	case session.MessageError:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC3333", Dark: "#FF6666"}).
			Bold(true)
		prefix = "✗ "
	case session.MessageWarning:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC8800", Dark: "#FFAA00"}).
			Bold(true)
		prefix = "⚠ "
	case session.MessageSuccess:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#338833", Dark: "#66CC66"}).
			Bold(true)
		prefix = "✓ "
	default: // MessageInfo
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}).
			Bold(true)
	}

	return msgStyle.Render(prefix + msg.Text)
}

// renderHelpOverlay renders the help overlay.
func (a App) renderHelpOverlay() string {
	// Brutalist style: no border, just raw columns
	modalStyle := lipgloss.NewStyle().
		Padding(1, 2)

	// Left column: Navigation + Folder + Bookmarks
	var left strings.Builder
	left.WriteString(a.styles.Title.Render("nav") + "\n")
	left.WriteString("j/k  move\n")
	left.WriteString("gg   top\n")
	left.WriteString("G    bottom\n")
	left.WriteString("Tab  switch pane\n")
	left.WriteString("\n")
	left.WriteString(a.styles.Title.Render("folder") + "\n")
	left.WriteString("o    open folder\n")
	left.WriteString("y    yank path\n")
	left.WriteString("\n")
	left.WriteString(a.styles.Title.Render("bookmarks") + "\n")
	left.WriteString("l    open bookmark\n")
	left.WriteString("b    save bookmark\n")
	left.WriteString("r    release\n")
	left.WriteString("R    reload list\n")

	// Right column: Files + Edit
	var right strings.Builder
	right.WriteString(a.styles.Title.Render("files") + "\n")
	right.WriteString("l    load file\n")
	right.WriteString("/    filter\n")
	right.WriteString("d    delete\n")
	right.WriteString("\n")
	right.WriteString(a.styles.Title.Render("edit") + "\n")
	right.WriteString("e/i  edit content\n")
	right.WriteString("s    save\n")
	right.WriteString("S    save as\n")
	right.WriteString("\n")
	right.WriteString(a.styles.Help.Render("[?/q/esc] close"))

	// Join columns
	leftCol := lipgloss.NewStyle().Width(a.layoutConfig.Modal.HelpLeftColumnWidth).Render(left.String())
	rightCol := lipgloss.NewStyle().Width(a.layoutConfig.Modal.HelpRightColumnWidth).Render(right.String())
	cols := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, "  ", rightCol)

	// Top-left aligned, brutalist style
	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Left,
		lipgloss.Top,
		modalStyle.Render(cols),
	)
}
