package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/starford/classlog/internal/session"
	"github.com/starford/classlog/internal/timecode"
	"github.com/starford/classlog/internal/timeline"
)

// SimilarKind selects which recurring marker to collect across sessions.
type SimilarKind string

const (
	SimilarRaid SimilarKind = "raid"
	SimilarQOTD SimilarKind = "qotd"
)

// ParseSimilarKind validates a kind name.
func ParseSimilarKind(s string) (SimilarKind, error) {
	switch k := SimilarKind(strings.ToLower(s)); k {
	case SimilarRaid, SimilarQOTD:
		return k, nil
	}
	return "", fmt.Errorf("report: unknown marker kind %q (want raid or qotd)", s)
}

func (k SimilarKind) keyword() string {
	if k == SimilarQOTD {
		return "question of the day"
	}
	return "raiding"
}

// SimilarRow is the first matching marker of one session, if any.
type SimilarRow struct {
	Session session.Session `json:"session"`
	Found   bool            `json:"found"`
	Entry   timeline.Entry  `json:"entry"`
}

// Line renders "<slug>\t<timestamp>\t<label>", or just the slug and a tab
// when the session has no such marker.
func (r SimilarRow) Line() string {
	if !r.Found {
		return r.Session.Slug() + "\t"
	}
	return r.Session.Slug() + "\t" + timecode.Display(r.Entry.At, 1) + "\t" + r.Entry.Label
}

// Similar finds the first raid or question-of-the-day marker of every
// session with markers. Questions of the day are only asked in classes.
func Similar(loader *session.Loader, sessions []session.Session, kind SimilarKind) ([]SimilarRow, error) {
	keyword := kind.keyword()
	var (
		out  []SimilarRow
		errs []error
	)
	for _, s := range sessions {
		if kind == SimilarQOTD && s.OfficeHours {
			continue
		}
		markers, err := loader.Markers(s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !markers.Present() {
			continue
		}
		row := SimilarRow{Session: s}
		for at, label := range markers.Value.All() {
			if strings.Contains(strings.ToLower(label), keyword) {
				row.Found, row.Entry = true, timeline.Entry{At: at, Label: label}
				break
			}
		}
		out = append(out, row)
	}
	return out, errors.Join(errs...)
}
