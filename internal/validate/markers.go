package validate

import (
	"fmt"
	"iter"
	"time"

	"github.com/starford/classlog/internal/timecode"
	"github.com/starford/classlog/internal/timeline"
)

// Kind classifies a finding.
type Kind string

const (
	KindBlank        Kind = "blank"
	KindOverlap      Kind = "overlap"
	KindCase         Kind = "capitalization"
	KindOrphanEnd    Kind = "orphan_end"
	KindMismatch     Kind = "mismatch"
	KindUnterminated Kind = "unterminated"
	KindChatTail     Kind = "chat_tail"
)

// Finding is one consistency problem found in a marker timeline.
type Finding struct {
	At      time.Duration `json:"-"`
	Seconds float64       `json:"seconds"`
	Kind    Kind          `json:"kind"`
	Message string        `json:"message"`
}

func finding(at time.Duration, kind Kind, format string, args ...any) Finding {
	return Finding{At: at, Seconds: at.Seconds(), Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Format renders the finding as "<timestamp>\t<message>".
func (f Finding) Format(places int) string {
	return timecode.Display(f.At, places) + "\t" + f.Message
}

type options struct {
	match EventMatcher
}

// Option configures Walk.
type Option func(*options)

// WithMatcher replaces the event matcher.
func WithMatcher(m EventMatcher) Option {
	return func(o *options) { o.match = m }
}

// Walk checks Started/Ended pairing over m in ascending time order and
// yields each problem as it is found. Walking never modifies m and can be
// repeated.
func Walk(m *timeline.Map, opts ...Option) iter.Seq[Finding] {
	o := options{match: SuffixEvents}
	for _, opt := range opts {
		opt(&o)
	}

	return func(yield func(Finding) bool) {
		var (
			open    bool
			subject string
			startAt time.Duration
		)
		for at, label := range m.All() {
			if label == "" {
				if !yield(finding(at, KindBlank, "Blank line within")) {
					return
				}
				continue
			}

			ev, ok := o.match(label)
			if !ok {
				continue
			}

			var found []Finding
			switch ev.Kind {
			case Start:
				if open {
					found = append(found, finding(at, KindOverlap, "Expected %s to end before starting another", subject))
				}
				if !ev.Canonical() {
					found = append(found, finding(at, KindCase, "Expected Started to be capitalized"))
				}
				open, subject, startAt = true, ev.Subject, at
			case End:
				if !open {
					found = append(found, finding(at, KindOrphanEnd, "Expected start before an end"))
				} else if subject != ev.Subject {
					found = append(found, finding(at, KindMismatch, "Expected end to match start"))
				}
				if !ev.Canonical() {
					found = append(found, finding(at, KindCase, "Expected Ended to be capitalized"))
				}
				open, subject = false, ""
			}
			for _, f := range found {
				if !yield(f) {
					return
				}
			}
		}
		if open {
			yield(finding(startAt, KindUnterminated, "%s never ended", subject))
		}
	}
}

// Markers collects every finding of Walk.
func Markers(m *timeline.Map, opts ...Option) []Finding {
	var out []Finding
	for f := range Walk(m, opts...) {
		out = append(out, f)
	}
	return out
}

// ChatTail reports a marker placed at or after the last chat message,
// which usually means the chat export was cut short.
func ChatTail(markers, chat *timeline.Map) (Finding, bool) {
	lastMarker, ok := markers.Last()
	if !ok {
		return Finding{}, false
	}
	lastChat, ok := chat.Last()
	if !ok || lastMarker.At < lastChat.At {
		return Finding{}, false
	}
	gap := lastMarker.At - lastChat.At
	return finding(lastMarker.At, KindChatTail, "has a marker %.2f seconds after the last chat", gap.Seconds()), true
}
