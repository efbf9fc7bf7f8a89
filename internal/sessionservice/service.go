// Package sessionservice is the read side shared by the HTTP API, the MCP
// server and the CLI: it resolves sessions from the catalog and runs the
// timeline, validation, search and report operations over them.
package sessionservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/starford/classlog/internal/apperr"
	"github.com/starford/classlog/internal/index"
	"github.com/starford/classlog/internal/parser"
	"github.com/starford/classlog/internal/report"
	"github.com/starford/classlog/internal/search"
	"github.com/starford/classlog/internal/session"
	"github.com/starford/classlog/internal/timeline"
	"github.com/starford/classlog/internal/validate"
)

// SessionListItem is a lightweight item in a list response.
type SessionListItem struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Number      int       `json:"number"`
	Date        time.Time `json:"date"`
	OfficeHours bool      `json:"office_hours"`
	Missing     []string  `json:"missing"`
}

// SessionDetail is the full representation of a session.
type SessionDetail struct {
	session.Session
	Slug    string            `json:"slug"`
	Missing []string          `json:"missing"`
	Sources map[string]string `json:"sources"`
}

// TimelineOptions transform a timeline before it is returned.
type TimelineOptions struct {
	// Offset is added to every timestamp.
	Offset time.Duration
	// Rebase shifts the timeline so its first entry sits at zero.
	Rebase bool
	// Public keeps only publishable entries with private notes stripped.
	Public bool
	// Query keeps only entries whose label contains it.
	Query           string
	CaseInsensitive bool
}

// TimelineView is one transformed timeline of a session.
type TimelineView struct {
	Session string           `json:"session"`
	Source  string           `json:"source"`
	Entries []timeline.Entry `json:"entries"`
	Lines   []string         `json:"lines"`
}

// CommentView is the generated YouTube comment of a session.
type CommentView struct {
	Session   string `json:"session"`
	URL       string `json:"url"`
	CommentID string `json:"comment_id,omitempty"`
	Text      string `json:"text"`
	Hash      string `json:"hash"`
}

// Service coordinates the catalog and the index.
type Service struct {
	cat         *session.Catalog
	db          index.SessionIndex
	concurrency int
}

// NewService creates a new session service. db may be nil when no index
// is kept; IndexSearch then reports ErrNotFound.
func NewService(cat *session.Catalog, db index.SessionIndex, concurrency int) *Service {
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Service{cat: cat, db: db, concurrency: concurrency}
}

// Catalog returns the session catalog.
func (s *Service) Catalog() *session.Catalog { return s.cat }

// Reload rediscovers the sessions on disk.
func (s *Service) Reload(ctx context.Context) error { return s.cat.Reload(ctx) }

func (s *Service) session(id string) (session.Session, error) {
	sess, ok := s.cat.Get(id)
	if !ok {
		return session.Session{}, fmt.Errorf("session %s: %w", id, apperr.ErrNotFound)
	}
	return sess, nil
}

// ListSessions returns every session in id order.
func (s *Service) ListSessions(_ context.Context) []SessionListItem {
	all := s.cat.Sessions()
	items := make([]SessionListItem, len(all))
	for i, sess := range all {
		items[i] = SessionListItem{
			ID:          sess.ID,
			Slug:        sess.Slug(),
			Number:      sess.Number,
			Date:        sess.Date,
			OfficeHours: sess.OfficeHours,
			Missing:     nonNilSlice(validate.Missing(sess)),
		}
	}
	return items
}

// GetSession returns a session with the load state of each timeline.
func (s *Service) GetSession(_ context.Context, id string) (*SessionDetail, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	cache := s.cat.Loader().Cache()
	sources := make(map[string]string)
	for _, f := range []session.Field{session.FieldMarkers, session.FieldCaptions, session.FieldChat, session.FieldSlides} {
		sources[string(f)] = cache.Peek(sess.ID, f).String()
	}
	return &SessionDetail{
		Session: sess,
		Slug:    sess.Slug(),
		Missing: nonNilSlice(validate.Missing(sess)),
		Sources: sources,
	}, nil
}

// Timeline loads one source of a session (markers, captions or chat) and
// applies opts. The offset is applied before the public filter so private
// entries never leak through a rebase.
func (s *Service) Timeline(_ context.Context, id, source string, opts TimelineOptions) (*TimelineView, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	switch session.Field(source) {
	case session.FieldMarkers, session.FieldCaptions, session.FieldChat:
	default:
		return nil, fmt.Errorf("source %q: %w", source, apperr.ErrInvalid)
	}
	res, err := s.cat.Loader().Source(sess, source)
	if err != nil {
		return nil, err
	}
	if !res.Present() {
		return nil, fmt.Errorf("session %s %s: %w", id, source, apperr.ErrAbsent)
	}

	m := res.Value
	if opts.Rebase {
		m = timeline.Rebase(m)
	}
	if opts.Offset != 0 {
		m = timeline.Offset(m, opts.Offset)
	}
	if opts.Public {
		m = timeline.FilterPublic(m)
	}
	if opts.Query != "" {
		m = search.Map(m, opts.Query, opts.CaseInsensitive)
	}
	return &TimelineView{
		Session: sess.ID,
		Source:  source,
		Entries: nonNilSlice(m.Entries()),
		Lines:   nonNilSlice(report.DisplayLines(m)),
	}, nil
}

// Validate checks one session.
func (s *Service) Validate(_ context.Context, id string, opts ...validate.Option) (validate.Report, error) {
	sess, err := s.session(id)
	if err != nil {
		return validate.Report{}, err
	}
	return validate.Check(s.cat.Loader(), sess, opts...), nil
}

// ValidateAll checks every session concurrently.
func (s *Service) ValidateAll(ctx context.Context, opts ...validate.Option) ([]validate.Report, error) {
	return validate.CheckAll(ctx, s.cat.Loader(), s.cat.Sessions(), s.concurrency, opts...)
}

// Search runs a cross-source query over every session.
func (s *Service) Search(ctx context.Context, q search.Query) ([]search.Result, error) {
	if q.Text == "" {
		return nil, fmt.Errorf("empty query: %w", apperr.ErrInvalid)
	}
	if q.Concurrency <= 0 {
		q.Concurrency = s.concurrency
	}
	return search.Run(ctx, s.cat.Loader(), s.cat.Sessions(), q)
}

// IndexSearch delegates full-text search to the index.
func (s *Service) IndexSearch(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	if s.db == nil {
		return nil, fmt.Errorf("index: %w", apperr.ErrNotFound)
	}
	if query == "" {
		return nil, fmt.Errorf("empty query: %w", apperr.ErrInvalid)
	}
	results, err := s.db.Search(query, limit)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(results), nil
}

// markers loads the markers of a session, reporting a missing file as
// ErrAbsent.
func (s *Service) markers(sess session.Session) (*timeline.Map, error) {
	res, err := s.cat.Loader().Markers(sess)
	if err != nil {
		return nil, err
	}
	if !res.Present() {
		return nil, fmt.Errorf("session %s markers: %w", sess.ID, apperr.ErrAbsent)
	}
	return res.Value, nil
}

// Comment builds the YouTube comment of a session. Markers are shifted by
// the YouTube link's start offset unless offset overrides it.
func (s *Service) Comment(_ context.Context, id string, offset *time.Duration) (*CommentView, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	m, err := s.markers(sess)
	if err != nil {
		return nil, err
	}
	if offset != nil {
		m = timeline.Offset(m, *offset)
	} else {
		m = report.YouTubeMarkers(sess, m)
	}
	text := report.Comment(m)
	return &CommentView{
		Session:   sess.ID,
		URL:       sess.Links.Primary(),
		CommentID: sess.Links[parser.YouTubeComment],
		Text:      text,
		Hash:      report.HashComment(text),
	}, nil
}

// Discord splits the markers of a session into Discord-sized messages.
func (s *Service) Discord(_ context.Context, id string) ([]string, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	m, err := s.markers(sess)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(report.DiscordMessages(m)), nil
}

// Sheet renders the spreadsheet tab of a session.
func (s *Service) Sheet(_ context.Context, id string) (report.Worksheet, error) {
	sess, err := s.session(id)
	if err != nil {
		return report.Worksheet{}, err
	}
	m, err := s.markers(sess)
	if err != nil {
		return report.Worksheet{}, err
	}
	return report.BuildWorksheet(sess, m), nil
}

// Sheets renders the worksheet of every session with markers. Sessions
// whose markers fail to load are skipped; their errors are joined and
// returned alongside the worksheets that did build.
func (s *Service) Sheets(_ context.Context) ([]report.Worksheet, error) {
	var (
		out  []report.Worksheet
		errs []error
	)
	for _, sess := range s.cat.Sessions() {
		res, err := s.cat.Loader().Markers(sess)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if res.Present() {
			out = append(out, report.BuildWorksheet(sess, res.Value))
		}
	}
	return out, errors.Join(errs...)
}

// Similar collects the first raid or question-of-the-day marker of every
// session.
func (s *Service) Similar(_ context.Context, kind string) ([]report.SimilarRow, error) {
	k, err := report.ParseSimilarKind(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrInvalid, err)
	}
	rows, err := report.Similar(s.cat.Loader(), s.cat.Sessions(), k)
	return nonNilSlice(rows), err
}

// PendingComments lists the YouTube comments that need posting or
// verifying according to state.
func (s *Service) PendingComments(_ context.Context, state report.HashState) ([]report.PendingComment, error) {
	return report.PendingComments(s.cat.Loader(), s.cat.Sessions(), state)
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
