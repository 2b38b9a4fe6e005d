package tui

import "strings"

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "Enter")
	Desc string // Short description (e.g., "move", "open")
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for bottom bar: "j/k:move l:open"
func (a App) renderHints(hints HintSet) string {
	allHints := hints.All()
	if len(allHints) == 0 {
		return ""
	}

	parts := make([]string, len(allHints))
	for i, h := range allHints {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// renderHintSlice renders a slice of hints in horizontal format.
func (a App) renderHintSlice(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints in inline format for modals: "Enter confirm  Esc cancel"
func (a App) renderHintsInline(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint // Navigation hints (j/k, Tab)
	Action []Hint // Pane actions (l, r, /)
	Edit   []Hint // Edit hints (b, e, s, d)
	System []Hint // System hints (?, q, Esc)
}

// All returns all hints flattened in display order: Nav + Action + Edit + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.Edit)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.Edit...)
	result = append(result, h.System...)
	return result
}

// getContextualHints returns the appropriate hints for the current mode.
func (a App) getContextualHints() HintSet {
	switch a.mode {
	case ModeBrowse:
		return a.getBrowseHints()
	case ModeEdit:
		return HintSet{
			Action: []Hint{{Key: "ctrl+s", Desc: "save"}},
			System: []Hint{{Key: "Esc", Desc: "done"}},
		}
	case ModeFilter:
		return HintSet{
			Nav:    []Hint{{Key: "type", Desc: "filter"}},
			Action: []Hint{{Key: "Enter", Desc: "apply"}},
			System: []Hint{{Key: "Esc", Desc: "clear"}},
		}
	case ModePickFolder, ModeSaveAs, ModeConfirm:
		// Hints are shown inside the modal itself.
		return HintSet{}
	case ModeHelp:
		// Help overlay covers screen, minimal hints
		return HintSet{
			System: []Hint{{Key: "?/q/Esc", Desc: "close"}},
		}
	default:
		return HintSet{}
	}
}

// getBrowseHints builds the browse hint set from the session's derived
// flags, so only actions that would currently succeed are advertised.
func (a App) getBrowseHints() HintSet {
	d := a.session.Derived()

	hints := HintSet{
		Nav: []Hint{
			{Key: "j/k", Desc: "move"},
			{Key: "Tab", Desc: "pane"},
		},
	}

	if a.focusedPane == PaneBookmarks {
		if len(a.session.Tokens()) > 0 {
			hints.Action = append(hints.Action,
				Hint{Key: "l", Desc: "open"},
				Hint{Key: "r", Desc: "release"},
			)
		}
		hints.Action = append(hints.Action, Hint{Key: "R", Desc: "reload"})
	} else {
		if len(a.VisibleFiles()) > 0 {
			hints.Action = append(hints.Action, Hint{Key: "l", Desc: "open"})
		}
		hints.Action = append(hints.Action, Hint{Key: "/", Desc: "filter"})
	}

	if d.CanSaveBookmark {
		hints.Edit = append(hints.Edit, Hint{Key: "b", Desc: "bookmark"})
	}
	if d.CanOverwrite {
		hints.Edit = append(hints.Edit,
			Hint{Key: "e", Desc: "edit"},
			Hint{Key: "s", Desc: "save"},
			Hint{Key: "S", Desc: "save as"},
		)
	}
	if d.CanDeleteFile {
		hints.Edit = append(hints.Edit, Hint{Key: "d", Desc: "del"})
	}

	hints.System = []Hint{
		{Key: "?", Desc: "help"},
		{Key: "q", Desc: "quit"},
	}

	return hints
}

// getGlobalHints returns hints that apply across browse panes.
func (a App) getGlobalHints() []Hint {
	return []Hint{
		{Key: "o", Desc: "open folder"},
		{Key: "y", Desc: "yank path"},
		{Key: "?", Desc: "help"},
		{Key: "q", Desc: "quit"},
	}
}
