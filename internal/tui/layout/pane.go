package layout

// PaneWidths holds the calculated widths of the three columns.
type PaneWidths struct {
	Bookmarks int
	Files     int
	Editor    int
}

// CalculatePaneHeight computes the content height for panes.
// Returns at least MinHeight.
func CalculatePaneHeight(terminalHeight int, cfg PaneConfig) int {
	height := terminalHeight - cfg.HeightReduction
	if height < cfg.MinHeight {
		return cfg.MinHeight
	}
	return height
}

// CalculatePaneWidths splits the terminal into the three columns:
// bookmarks | files | editor. The two list columns take ListWidthPercent
// each and the editor keeps the remainder, so wide terminals go to the
// editor rather than the lists.
func CalculatePaneWidths(terminalWidth int, cfg PaneConfig) PaneWidths {
	usable := terminalWidth - cfg.WidthOffset

	list := usable * cfg.ListWidthPercent / 100
	if list < cfg.MinListWidth {
		list = cfg.MinListWidth
	}

	editor := usable - 2*list
	if editor < cfg.MinEditorWidth {
		editor = cfg.MinEditorWidth
	}

	return PaneWidths{
		Bookmarks: list,
		Files:     list,
		Editor:    editor,
	}
}

// CalculateItemWidth computes the width available for item content.
func CalculateItemWidth(paneWidth int, cfg PaneConfig) int {
	return paneWidth - cfg.ContentPadding
}

// CalculateVisibleHeight computes the visible item count in a pane.
func CalculateVisibleHeight(paneHeight, headerLines int) int {
	height := paneHeight - headerLines
	if height < 1 {
		return 1
	}
	return height
}

// CalculateViewportOffset calculates the scroll offset needed to keep the
// selected item visible within the viewport.
func CalculateViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}

	// Keep selection roughly centered, but clamp to valid range
	offset := selected - viewportHeight/2
	if offset < 0 {
		offset = 0
	}

	maxOffset := total - viewportHeight
	if offset > maxOffset {
		offset = maxOffset
	}

	return offset
}
