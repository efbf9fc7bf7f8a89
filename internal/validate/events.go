// Package validate checks marker timelines for Started/Ended pairing and
// reports what each session is missing.
package validate

import (
	"regexp"
	"strings"
)

// EventKind is the role a marker plays in a Started/Ended pair.
type EventKind int

const (
	NoEvent EventKind = iota
	Start
	End
)

// Event is a marker recognised as the start or end of something.
type Event struct {
	Kind    EventKind
	Subject string
	// Word is the suffix exactly as written, e.g. "started" or "Started".
	Word string
}

// Canonical reports whether the suffix word uses the expected casing.
func (e Event) Canonical() bool {
	switch e.Kind {
	case Start:
		return e.Word == "Started"
	case End:
		return e.Word == "Ended"
	}
	return true
}

// EventMatcher recognises event markers. It is the single place the
// pairing convention lives.
type EventMatcher func(label string) (Event, bool)

var eventSuffixRe = regexp.MustCompile(`(?i)^(.*) (started|ended)$`)

func matchSuffix(label string) (prefix string, ev Event, ok bool) {
	g := eventSuffixRe.FindStringSubmatch(label)
	if g == nil {
		return "", Event{}, false
	}
	ev = Event{Kind: Start, Word: g[2]}
	if strings.EqualFold(g[2], "ended") {
		ev.Kind = End
	}
	return g[1], ev, true
}

// SuffixEvents is the default matcher: a label ending in " started" or
// " ended" in any case, whose subject is the word right before the suffix.
func SuffixEvents(label string) (Event, bool) {
	prefix, ev, ok := matchSuffix(label)
	if !ok {
		return Event{}, false
	}
	words := strings.Fields(prefix)
	if len(words) > 0 {
		ev.Subject = words[len(words)-1]
	}
	return ev, true
}

// PhraseEvents matches like SuffixEvents but uses the whole text before
// the suffix as the subject.
func PhraseEvents(label string) (Event, bool) {
	prefix, ev, ok := matchSuffix(label)
	if !ok {
		return Event{}, false
	}
	ev.Subject = strings.TrimSpace(prefix)
	return ev, true
}
