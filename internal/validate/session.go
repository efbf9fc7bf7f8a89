package validate

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/starford/classlog/internal/parser"
	"github.com/starford/classlog/internal/session"
	"github.com/starford/classlog/internal/timecode"
)

// Missing lists, in a fixed order, the artifacts a session should have but
// does not. Office hours need a video instead of captions and class links.
func Missing(s session.Session) []string {
	var out []string
	add := func(missing bool, label string) {
		if missing {
			out = append(out, label)
		}
	}
	add(!s.Files.Chat, session.ChatFile)
	add(!s.Files.Markers, session.MarkersFile)
	if !s.OfficeHours {
		add(!s.Files.Captions, session.CaptionsDir)
		add(s.Links[parser.YouTube] == "", "YouTube link")
		add(s.Links[parser.Tweet] == "", "Tweet link")
		add(s.Links[parser.Slides] == "", "Slides link")
	} else {
		add(s.Files.Video == "", "Video")
	}
	add(s.Links[parser.Twitch] == "", "Twitch link")
	add(s.Links[parser.Discord] == "", "Discord link")
	return out
}

// Report is the full check of one session.
type Report struct {
	Session  session.Session `json:"session"`
	Missing  []string        `json:"missing"`
	Findings []Finding       `json:"findings"`
	// Places is the timestamp width used by Lines.
	Places int   `json:"-"`
	Err    error `json:"-"`
}

// Clean reports whether nothing was found.
func (r Report) Clean() bool {
	return len(r.Missing) == 0 && len(r.Findings) == 0 && r.Err == nil
}

// Lines renders the report for display.
func (r Report) Lines() []string {
	var out []string
	if len(r.Missing) > 0 {
		out = append(out, "missing "+strings.Join(r.Missing, ", "))
	}
	for _, f := range r.Findings {
		out = append(out, f.Format(r.Places))
	}
	if r.Err != nil {
		out = append(out, "error: "+r.Err.Error())
	}
	return out
}

// Check validates one session: missing artifacts, marker pairing and the
// chat tail. Parse failures end up in Report.Err.
func Check(loader *session.Loader, s session.Session, opts ...Option) Report {
	r := Report{Session: s, Missing: Missing(s), Places: 1}

	markers, err := loader.Markers(s)
	if err != nil {
		r.Err = err
		return r
	}
	if !markers.Present() {
		return r
	}
	if last, ok := markers.Value.Last(); ok {
		r.Places = timecode.Places(last.At)
	}
	r.Findings = Markers(markers.Value, opts...)

	chat, err := loader.ChatMap(s)
	if err != nil {
		r.Err = err
		return r
	}
	if chat.Present() {
		if f, ok := ChatTail(markers.Value, chat.Value); ok {
			r.Findings = append(r.Findings, f)
		}
	}
	return r
}

// CheckAll checks every session concurrently and returns the reports in
// input order.
func CheckAll(ctx context.Context, loader *session.Loader, sessions []session.Session, limit int, opts ...Option) ([]Report, error) {
	if limit <= 0 {
		limit = 8
	}
	reports := make([]Report, len(sessions))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, s := range sessions {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			reports[i] = Check(loader, s, opts...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// Errors joins the parse failures of a batch.
func Errors(reports []Report) error {
	var errs []error
	for _, r := range reports {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}
