// Package search derives the filtered entry view for the session: a pure
// function of the full entry list, the selected namespace, and the query
// text.
package search

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/seivan/hoard/internal/trove"
)

// Filter returns the entries of the given namespace that match the query.
// A match requires the query, case-insensitively, to be a substring of the
// entry name, any tag, or the description. Entries whose name starts with
// the query sort before entries matching elsewhere; store order is preserved
// inside each tier. An empty query returns the whole namespace in store
// order.
func Filter(entries []trove.CommandEntry, namespace, query string) []trove.CommandEntry {
	scoped := make([]trove.CommandEntry, 0, len(entries))
	for _, e := range entries {
		if e.Namespace == namespace {
			scoped = append(scoped, e)
		}
	}
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return scoped
	}
	lower := strings.ToLower(trimmed)
	prefix := make([]trove.CommandEntry, 0, len(scoped))
	rest := make([]trove.CommandEntry, 0, len(scoped))
	for _, e := range scoped {
		if !matches(e, lower) {
			continue
		}
		if strings.HasPrefix(strings.ToLower(e.Name), lower) {
			prefix = append(prefix, e)
		} else {
			rest = append(rest, e)
		}
	}
	return append(prefix, rest...)
}

func matches(e trove.CommandEntry, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(e.Name), lowerQuery) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), lowerQuery) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(e.Description), lowerQuery)
}

// BestMatchIndex returns the index of the strongest match for the query
// among the provided entries: exact name, then name prefix, then name
// substring, then the best fuzzy rank. Returns 0 for a non-empty list with
// no match, -1 for an empty list.
func BestMatchIndex(entries []trove.CommandEntry, query string) int {
	if len(entries) == 0 {
		return -1
	}
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return 0
	}
	lower := strings.ToLower(trimmed)
	for i, e := range entries {
		if strings.EqualFold(e.Name, trimmed) {
			return i
		}
	}
	for i, e := range entries {
		if strings.HasPrefix(strings.ToLower(e.Name), lower) {
			return i
		}
	}
	for i, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), lower) {
			return i
		}
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, names)
	if len(ranks) == 0 {
		return 0
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance {
			best = rank
			continue
		}
		if rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex {
			best = rank
		}
	}
	if best.OriginalIndex < 0 || best.OriginalIndex >= len(entries) {
		return 0
	}
	return best.OriginalIndex
}
