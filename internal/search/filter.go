// Package search filters session timelines and link sets by substring and
// runs cross-session queries.
package search

import (
	"strings"

	"github.com/starford/classlog/internal/parser"
	"github.com/starford/classlog/internal/timeline"
)

// Contains reports whether haystack contains needle, folding case when
// caseInsensitive is set.
func Contains(haystack, needle string, caseInsensitive bool) bool {
	if caseInsensitive {
		return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
	}
	return strings.Contains(haystack, needle)
}

// Map returns the entries of m whose label contains query.
func Map(m *timeline.Map, query string, caseInsensitive bool) *timeline.Map {
	out := timeline.New()
	for k, l := range m.All() {
		if Contains(l, query, caseInsensitive) {
			out.Set(k, l)
		}
	}
	return out
}

// Links returns "name: value" for each link whose name or value contains
// query.
func Links(links parser.Links, query string, caseInsensitive bool) []string {
	var out []string
	for _, kv := range links.Entries() {
		if Contains(kv[0], query, caseInsensitive) || Contains(kv[1], query, caseInsensitive) {
			out = append(out, kv[0]+": "+kv[1])
		}
	}
	return out
}

// Raw matches query against a session identifier.
func Raw(id, query string, caseInsensitive bool) []string {
	if Contains(id, query, caseInsensitive) {
		return []string{id}
	}
	return nil
}
