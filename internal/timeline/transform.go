package timeline

import (
	"regexp"
	"strings"
	"time"
)

var (
	slideRefRe   = regexp.MustCompile(`^#\d+\s+`)
	eventEndRe   = regexp.MustCompile(`(?i) (started|ended)$`)
	qotdPrefix   = "Question of the Day"
	privateDelim = "|"
)

// Offset returns a copy of m with every key shifted by delta.
func Offset(m *Map, delta time.Duration) *Map {
	out := New()
	for k, l := range m.All() {
		out.Set(k+delta, l)
	}
	return out
}

// Rebase shifts m so its first entry sits at zero and drops that entry.
func Rebase(m *Map) *Map {
	first, ok := m.First()
	if !ok {
		return New()
	}
	out := Offset(m, -first.At)
	delete(out.labels, 0)
	return out
}

// StripPrivate removes a "| note" suffix from a label.
func StripPrivate(label string) string {
	if i := strings.Index(label, privateDelim); i >= 0 {
		return strings.TrimSpace(label[:i])
	}
	return label
}

// Public reports whether a label may be shared outside the class.
func Public(label string) bool {
	return strings.HasPrefix(label, qotdPrefix) ||
		slideRefRe.MatchString(label) ||
		eventEndRe.MatchString(label)
}

// FilterPublic returns the publishable subset of m with private notes removed.
func FilterPublic(m *Map) *Map {
	out := New()
	for k, l := range m.All() {
		l = StripPrivate(l)
		if Public(l) {
			out.Set(k, l)
		}
	}
	return out
}
