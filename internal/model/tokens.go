package model

// TokenSet is the deduplicated collection of opaque access tokens persisted
// by the bookmark store. Insertion order is kept so list mirrors stay stable;
// on disk the set is a plain JSON array of strings.
type TokenSet []string

// NewTokenSet creates an empty, non-nil set so it marshals as [] rather
// than null.
func NewTokenSet() TokenSet {
	return TokenSet{}
}

// Contains reports whether token is a member of the set.
func (s TokenSet) Contains(token string) bool {
	for _, t := range s {
		if t == token {
			return true
		}
	}
	return false
}

// Add returns the set with token appended. Adding a token that is already
// present returns the set unchanged.
func (s TokenSet) Add(token string) TokenSet {
	if s.Contains(token) {
		return s
	}
	return append(s, token)
}

// Remove returns the set without token. Removing an absent token is a no-op.
func (s TokenSet) Remove(token string) TokenSet {
	for i, t := range s {
		if t == token {
			return append(s[:i:i], s[i+1:]...)
		}
	}
	return s
}

// Clone returns an independent, non-nil copy of the set.
func (s TokenSet) Clone() TokenSet {
	out := make(TokenSet, len(s))
	copy(out, s)
	return out
}

// Normalize collapses duplicates (first occurrence wins) and guarantees a
// non-nil slice, recovering sets written by other tools.
func (s TokenSet) Normalize() TokenSet {
	out := NewTokenSet()
	for _, t := range s {
		out = out.Add(t)
	}
	return out
}
