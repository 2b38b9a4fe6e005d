package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Pane  PaneConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// PaneConfig holds pane dimension configuration.
type PaneConfig struct {
	// HeightReduction is subtracted from terminal height for pane content.
	// Accounts for: app padding (1) + breadcrumb (1) + pane borders (2) + help bar (3) = 7
	HeightReduction int

	// MinHeight is the minimum pane height.
	MinHeight int

	// WidthOffset is subtracted from terminal width before splitting.
	// Accounts for borders and spacing between the three columns.
	WidthOffset int

	// ListWidthPercent is the share of usable width given to each of the
	// two list columns (bookmarks, files). The editor takes the rest.
	ListWidthPercent int

	// MinListWidth is the minimum width of a list column.
	MinListWidth int

	// MinEditorWidth is the minimum width of the editor column.
	MinEditorWidth int

	// ContentPadding is subtracted from pane width for item rendering.
	// Accounts for pane border/padding on each side.
	ContentPadding int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// DefaultWidthPercent is the standard modal width as percentage of terminal width.
	DefaultWidthPercent int

	// LargeWidthPercent is used for modals needing more space (folder picker).
	LargeWidthPercent int

	// MinWidth is the minimum modal width in characters.
	MinWidth int

	// MaxWidth is the maximum modal width in characters.
	MaxWidth int

	// PickerHeightReduction: lines reserved around the folder picker list.
	PickerHeightReduction int

	// HelpLeftColumnWidth: width for help overlay left column.
	HelpLeftColumnWidth int

	// HelpRightColumnWidth: width for help overlay right column.
	HelpRightColumnWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	// Character limits
	FileNameCharLimit int
	FilterCharLimit   int

	// Display widths
	StandardWidth int // Used for the save-as name input
	FilterWidth   int // Used for the file filter input (narrower)
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Pane: PaneConfig{
			HeightReduction:  7, // app padding (1) + breadcrumb (1) + pane borders (2) + help bar (3)
			MinHeight:        5,
			WidthOffset:      10,
			ListWidthPercent: 26,
			MinListWidth:     18,
			MinEditorWidth:   24,
			ContentPadding:   4,
		},
		Modal: ModalConfig{
			DefaultWidthPercent:   40,
			LargeWidthPercent:     60,
			MinWidth:              50,
			MaxWidth:              80,
			PickerHeightReduction: 10,
			HelpLeftColumnWidth:   22,
			HelpRightColumnWidth:  22,
		},
		Input: InputConfig{
			FileNameCharLimit: 100,
			FilterCharLimit:   50,
			StandardWidth:     40,
			FilterWidth:       30,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
