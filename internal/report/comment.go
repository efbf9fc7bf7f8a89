// Package report renders marker timelines into the text shared outside the
// class: YouTube comments, Discord messages, spreadsheet rows and
// cross-session listings.
package report

import (
	"strings"

	"github.com/starford/classlog/internal/session"
	"github.com/starford/classlog/internal/timecode"
	"github.com/starford/classlog/internal/timeline"
)

// CommentPrefix opens every generated YouTube comment.
const CommentPrefix = "Here are timestamps for the slides, for whomever needs them:\n\n"

// DisplayLines renders m as "<timestamp>\t<label>" lines sharing the
// component count of the last entry.
func DisplayLines(m *timeline.Map) []string {
	last, ok := m.Last()
	if !ok {
		return nil
	}
	places := timecode.Places(last.At)
	out := make([]string, 0, m.Len())
	for at, label := range m.All() {
		out = append(out, timecode.Display(at, places)+"\t"+label)
	}
	return out
}

// Comment builds the YouTube comment text from the public markers of m.
// Entries before zero are left out. An empty string means nothing is
// publishable.
func Comment(markers *timeline.Map) string {
	public := timeline.New()
	for at, label := range timeline.FilterPublic(markers).All() {
		if at >= 0 {
			public.Set(at, label)
		}
	}
	lines := DisplayLines(public)
	if len(lines) == 0 {
		return ""
	}
	return CommentPrefix + strings.Join(lines, "\n")
}

// YouTubeMarkers shifts markers from stream time to upload time using the
// t= offset of the session's YouTube link.
func YouTubeMarkers(s session.Session, markers *timeline.Map) *timeline.Map {
	return timeline.Offset(markers, -s.Links.YouTubeStart())
}

// CommentFile wraps a comment between two copies of the video URL so it
// can be pasted with the link at hand.
func CommentFile(url, comment string) string {
	return "\t" + url + "\n" + comment + "\n\t" + url
}
