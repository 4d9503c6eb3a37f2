// Package matcher decides whether a configured selector applies to a node
// visited during a document walk.
//
// Each PathMappingStrategy has its own predicate:
//
//   - EXACT_MATCH: the selector is the whole path, or just its final segment
//     ("Text" matches "TestMessage.Text" at any depth).
//   - STARTS_WITH: the selector is a string prefix of the path.
//   - ENDS_WITH: the selector is a string suffix of the path, or its final segment.
package matcher

import (
	"strings"

	"github.com/mcncl/jsonrewrite/internal/models"
)

// Matches reports whether selector applies to the rendered path under strategy.
// last is the rendered final segment of the same path.
func Matches(selector, path, last string, strategy models.PathMappingStrategy) bool {
	switch strategy {
	case models.ExactMatch:
		return MatchExact(selector, path, last)
	case models.StartsWith:
		return MatchPrefix(selector, path)
	case models.EndsWith:
		return MatchSuffix(selector, path, last)
	default:
		return false
	}
}

// MatchExact is the EXACT_MATCH predicate.
func MatchExact(selector, path, last string) bool {
	return selector == path || selector == last
}

// MatchPrefix is the STARTS_WITH predicate.
func MatchPrefix(selector, path string) bool {
	return strings.HasPrefix(path, selector)
}

// MatchSuffix is the ENDS_WITH predicate.
func MatchSuffix(selector, path, last string) bool {
	return strings.HasSuffix(path, selector) || selector == last
}

// FirstMatch returns the first entry, in configured order, whose selector
// applies to path. Later entries are never consulted for the same node.
func FirstMatch(entries models.Mappings, path Path, strategy models.PathMappingStrategy) (models.MappingEntry, bool) {
	if len(entries) == 0 {
		return models.MappingEntry{}, false
	}
	rendered, last := path.String(), path.Last()
	for _, entry := range entries {
		if Matches(entry.Selector, rendered, last, strategy) {
			return entry, true
		}
	}
	return models.MappingEntry{}, false
}
