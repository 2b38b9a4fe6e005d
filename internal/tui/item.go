package tui

import "strings"

// ItemKind distinguishes rows in the two list panes.
type ItemKind int

const (
	ItemToken ItemKind = iota
	ItemFile
)

// Item is one selectable row in a list pane: a bookmark token or a file name.
type Item struct {
	Kind  ItemKind
	Token string // set for ItemToken
	Name  string // set for ItemFile
}

// Label returns the display text for the row. Tokens are opaque, so they are
// shown abbreviated; the folder behind one is only known after resolving it.
func (i Item) Label() string {
	if i.Kind == ItemToken {
		return AbbreviateToken(i.Token)
	}
	return i.Name
}

// IsToken returns true if the item is a bookmark token.
func (i Item) IsToken() bool {
	return i.Kind == ItemToken
}

// AbbreviateToken shortens an opaque token for list display. UUID-shaped
// tokens collapse to their first segment.
func AbbreviateToken(token string) string {
	if idx := strings.IndexByte(token, '-'); idx > 0 && idx < len(token)-1 {
		return token[:idx] + "…"
	}
	if len(token) > 12 {
		return token[:12] + "…"
	}
	return token
}
