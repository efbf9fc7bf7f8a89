// Package timeline holds the seconds-indexed map every session source is
// normalised into, plus the transforms applied before publishing it.
package timeline

import (
	"encoding/json"
	"iter"
	"slices"
	"time"
)

// Entry is one labelled point on a session timeline.
type Entry struct {
	At    time.Duration `json:"-"`
	Label string        `json:"label"`
}

// MarshalJSON encodes At as fractional seconds.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Seconds float64 `json:"seconds"`
		Label   string  `json:"label"`
	}{e.At.Seconds(), e.Label})
}

// Map is a set of labels keyed by their offset from session start.
// Keys are unique: setting an existing key replaces its label.
// A nil *Map is empty.
type Map struct {
	labels map[time.Duration]string
}

// New returns an empty map.
func New() *Map {
	return &Map{labels: make(map[time.Duration]string)}
}

// FromEntries builds a map from entries in order; later duplicates win.
func FromEntries(entries ...Entry) *Map {
	m := New()
	for _, e := range entries {
		m.Set(e.At, e.Label)
	}
	return m
}

// Set stores label at offset at, replacing any existing label.
func (m *Map) Set(at time.Duration, label string) {
	if m.labels == nil {
		m.labels = make(map[time.Duration]string)
	}
	m.labels[at] = label
}

// Get returns the label stored at offset at.
func (m *Map) Get(at time.Duration) (string, bool) {
	if m == nil {
		return "", false
	}
	l, ok := m.labels[at]
	return l, ok
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.labels)
}

// Keys returns the offsets in ascending order.
func (m *Map) Keys() []time.Duration {
	if m == nil {
		return nil
	}
	keys := make([]time.Duration, 0, len(m.labels))
	for k := range m.labels {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Entries returns every entry in ascending time order.
func (m *Map) Entries() []Entry {
	keys := m.Keys()
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, Entry{At: k, Label: m.labels[k]})
	}
	return out
}

// All iterates entries in ascending time order.
func (m *Map) All() iter.Seq2[time.Duration, string] {
	return func(yield func(time.Duration, string) bool) {
		for _, k := range m.Keys() {
			if !yield(k, m.labels[k]) {
				return
			}
		}
	}
}

// First returns the earliest entry.
func (m *Map) First() (Entry, bool) {
	keys := m.Keys()
	if len(keys) == 0 {
		return Entry{}, false
	}
	return Entry{At: keys[0], Label: m.labels[keys[0]]}, true
}

// Last returns the latest entry.
func (m *Map) Last() (Entry, bool) {
	keys := m.Keys()
	if len(keys) == 0 {
		return Entry{}, false
	}
	k := keys[len(keys)-1]
	return Entry{At: k, Label: m.labels[k]}, true
}

// Equal reports whether both maps hold the same entries.
func (m *Map) Equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}
	for k, l := range m.All() {
		ol, ok := other.Get(k)
		if !ok || ol != l {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the map as an ordered array of entries.
func (m *Map) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Entries())
}
