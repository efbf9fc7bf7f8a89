package search

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/sync/errgroup"

	"github.com/starford/classlog/internal/parser"
	"github.com/starford/classlog/internal/session"
	"github.com/starford/classlog/internal/timecode"
	"github.com/starford/classlog/internal/timeline"
)

// Source names a searchable session artifact.
type Source string

const (
	SourceMarkers  Source = "markers"
	SourceCaptions Source = "captions"
	SourceChat     Source = "chat"
	SourceLinks    Source = "links"
	SourceSlides   Source = "slides"
)

// AllSources lists every searchable source.
var AllSources = []Source{SourceMarkers, SourceCaptions, SourceChat, SourceLinks, SourceSlides}

// DefaultSources are searched when a query names none.
var DefaultSources = []Source{SourceMarkers, SourceLinks}

// ParseSources converts names to sources, rejecting unknown ones.
func ParseSources(names []string) ([]Source, error) {
	var out []Source
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			part = strings.TrimSpace(strings.ToLower(part))
			if part == "" {
				continue
			}
			src := Source(part)
			switch src {
			case SourceMarkers, SourceCaptions, SourceChat, SourceLinks, SourceSlides:
				out = append(out, src)
			default:
				return nil, fmt.Errorf("search: unknown source %q", part)
			}
		}
	}
	return out, nil
}

const slideSnippetWidth = 50

// Query is a cross-session search request.
type Query struct {
	Text            string
	Sources         []Source
	CaseInsensitive bool
	Concurrency     int
}

func (q Query) has(s Source) bool {
	for _, x := range q.Sources {
		if x == s {
			return true
		}
	}
	return false
}

// Matches holds the rendered hits of one session, per source.
type Matches struct {
	Markers  []string `json:"markers,omitempty"`
	Captions []string `json:"captions,omitempty"`
	Links    []string `json:"links,omitempty"`
	Chat     []string `json:"chat,omitempty"`
	Raw      []string `json:"raw,omitempty"`
	Slides   []string `json:"slides,omitempty"`
}

// Section is one named group of hits.
type Section struct {
	Name  string
	Lines []string
}

// Sections returns the non-empty groups in display order.
func (m Matches) Sections() []Section {
	all := []Section{
		{"markers", m.Markers},
		{"captions", m.Captions},
		{"links", m.Links},
		{"chat", m.Chat},
		{"raw", m.Raw},
		{"slides", m.Slides},
	}
	var out []Section
	for _, s := range all {
		if len(s.Lines) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Empty reports whether nothing matched.
func (m Matches) Empty() bool {
	return len(m.Sections()) == 0
}

// Abbr summarises hit counts, e.g. "(ch:2, lnk:1)".
func (m Matches) Abbr() string {
	var parts []string
	add := func(tag string, lines []string) {
		if len(lines) > 0 {
			parts = append(parts, tag+":"+strconv.Itoa(len(lines)))
		}
	}
	add("ch", m.Markers)
	add("cap", m.Captions)
	add("lnk", m.Links)
	add("ct", m.Chat)
	add("raw", m.Raw)
	add("sl", m.Slides)
	return "(" + strings.Join(parts, ", ") + ")"
}

// Result is the outcome of a query against one session.
type Result struct {
	Session session.Session `json:"session"`
	URL     string          `json:"url"`
	Matches Matches         `json:"matches"`
	Err     error           `json:"-"`
}

// Lines renders m as "<url>?t=<compact>\t<label>" lines, all sharing the
// component count of the last entry. Without a url the display
// timestamp is used instead.
func Lines(url string, m *timeline.Map) []string {
	last, ok := m.Last()
	if !ok {
		return nil
	}
	places := timecode.Places(last.At)
	out := make([]string, 0, m.Len())
	for at, label := range m.All() {
		if url == "" {
			out = append(out, timecode.Display(at, places)+"\t"+label)
			continue
		}
		out = append(out, url+"?t="+timecode.Compact(at, places)+"\t"+label)
	}
	return out
}

// Run evaluates q against every session concurrently. Sessions with no
// hits are left out; sessions whose files fail to parse are returned with
// Err set so one bad session never hides the others. Results are sorted
// by session id.
func Run(ctx context.Context, loader *session.Loader, sessions []session.Session, q Query) ([]Result, error) {
	if q.Text == "" {
		return nil, errors.New("search: empty query")
	}
	if len(q.Sources) == 0 {
		q.Sources = DefaultSources
	}
	if q.Concurrency <= 0 {
		q.Concurrency = 8
	}

	results := make([]Result, len(sessions))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(q.Concurrency)
	for i, s := range sessions {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = runOne(loader, s, q)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := results[:0]
	for _, r := range results {
		if r.Err != nil || !r.Matches.Empty() {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b Result) int { return strings.Compare(a.Session.ID, b.Session.ID) })
	return out, nil
}

func runOne(loader *session.Loader, s session.Session, q Query) Result {
	r := Result{Session: s, URL: s.Links.Primary()}
	var errs []error
	ci := q.CaseInsensitive

	r.Matches.Raw = Raw(s.ID, q.Text, ci)

	timelineHits := func(src Source, load func(session.Session) (session.Result[*timeline.Map], error)) []string {
		if !q.has(src) {
			return nil
		}
		res, err := load(s)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if !res.Present() {
			return nil
		}
		return Lines(r.URL, Map(res.Value, q.Text, ci))
	}
	r.Matches.Markers = timelineHits(SourceMarkers, loader.Markers)
	r.Matches.Captions = timelineHits(SourceCaptions, loader.Captions)
	r.Matches.Chat = timelineHits(SourceChat, loader.ChatMap)

	if q.has(SourceLinks) {
		r.Matches.Links = Links(s.Links, q.Text, ci)
	}

	if q.has(SourceSlides) && s.Links[parser.Slides] != "" {
		lines, err := slideHits(loader, s, r.URL, q)
		if err != nil {
			errs = append(errs, err)
		}
		r.Matches.Slides = lines
	}

	r.Err = errors.Join(errs...)
	return r
}

// slideHits matches "#NN: text" for every slide. A hit with a marker
// pointing at that slide renders as the marker's line.
func slideHits(loader *session.Loader, s session.Session, url string, q Query) ([]string, error) {
	res, err := loader.Slides(s)
	if err != nil || !res.Present() {
		return nil, err
	}
	markers, err := loader.Markers(s)
	if err != nil {
		return nil, err
	}

	width := len(strconv.Itoa(len(res.Value)))
	var out []string
	for i, text := range res.Value {
		n := i + 1
		number := fmt.Sprintf("#%0*d", width, n)
		if !Contains(number+": "+text, q.Text, q.CaseInsensitive) {
			continue
		}
		if line, ok := slideMarkerLine(url, markers.Value, n); ok {
			out = append(out, line)
			continue
		}
		out = append(out, number+": "+runewidth.Truncate(text, slideSnippetWidth, ""))
	}
	return out, nil
}

func slideMarkerLine(url string, markers *timeline.Map, n int) (string, bool) {
	for at, label := range markers.All() {
		ref, ok := parser.ParseSlideRef(label)
		if ok && ref.Number == n {
			return Lines(url, timeline.FromEntries(timeline.Entry{At: at, Label: label}))[0], true
		}
	}
	return "", false
}
