package search

import (
	"github.com/sahilm/fuzzy"
	"github.com/warrenZY/folderpad/internal/model"
)

// SearchResult represents a fuzzy match against a grant's folder path.
type SearchResult struct {
	Grant          model.Grant
	MatchedIndexes []int
	Score          int
}

// grantPaths implements fuzzy.Source for a grant slice.
type grantPaths []model.Grant

func (gp grantPaths) String(i int) string {
	return gp[i].Path
}

func (gp grantPaths) Len() int {
	return len(gp)
}

// FuzzySearchGrants searches grants by folder path using fuzzy matching.
// Returns results sorted by match score (best first).
func FuzzySearchGrants(grants []model.Grant, query string) []SearchResult {
	if query == "" {
		return nil
	}

	matches := fuzzy.FindFrom(query, grantPaths(grants))

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Grant:          grants[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}

// NameMatch represents a fuzzy match against a plain name list.
type NameMatch struct {
	Name           string
	Index          int
	MatchedIndexes []int
	Score          int
}

// FuzzySearchNames filters names by fuzzy match, best first. The file pane's
// quick filter runs on this.
func FuzzySearchNames(names []string, query string) []NameMatch {
	if query == "" {
		return nil
	}

	matches := fuzzy.Find(query, names)

	results := make([]NameMatch, len(matches))
	for i, m := range matches {
		results[i] = NameMatch{
			Name:           names[m.Index],
			Index:          m.Index,
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
