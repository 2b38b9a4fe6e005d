// Package listing maintains the filtered file list for the active folder.
package listing

import (
	"strings"

	"github.com/warrenZY/folderpad/internal/broker"
)

// Cache holds the most recent enumeration of the active folder, narrowed to
// names ending in the configured suffix. Each refresh fully replaces the
// contents; enumeration order is kept exactly as the host reported it, and
// callers must tolerate that order shifting between refreshes.
type Cache struct {
	suffix  string
	entries []broker.FileEntry
}

// NewCache creates a Cache filtering on suffix, matched case-insensitively.
func NewCache(suffix string) *Cache {
	return &Cache{
		suffix:  strings.ToLower(suffix),
		entries: []broker.FileEntry{},
	}
}

// Suffix returns the configured inclusion suffix.
func (c *Cache) Suffix() string {
	return c.suffix
}

// Scan enumerates the folder's direct children and returns the matching
// entries in enumeration order. The cache itself is untouched; pair with
// Replace to commit the result on the owning thread.
func (c *Cache) Scan(folder broker.FolderHandle) ([]broker.FileEntry, error) {
	entries, err := folder.List()
	if err != nil {
		return nil, err
	}
	return c.Filter(entries), nil
}

// Filter returns the entries whose names end in the configured suffix,
// case-insensitively, preserving their order.
func (c *Cache) Filter(entries []broker.FileEntry) []broker.FileEntry {
	matched := []broker.FileEntry{}
	for _, e := range entries {
		if strings.HasSuffix(strings.ToLower(e.Name), c.suffix) {
			matched = append(matched, e)
		}
	}
	return matched
}

// Replace commits a scan result, fully replacing the previous contents.
func (c *Cache) Replace(entries []broker.FileEntry) {
	if entries == nil {
		entries = []broker.FileEntry{}
	}
	c.entries = entries
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.entries = []broker.FileEntry{}
}

// Entries returns the current contents in enumeration order.
func (c *Cache) Entries() []broker.FileEntry {
	return c.entries
}

// Find returns the cached entry with the given name, if present.
func (c *Cache) Find(name string) (broker.FileEntry, bool) {
	for _, e := range c.entries {
		if e.Name == name {
			return e, true
		}
	}
	return broker.FileEntry{}, false
}
