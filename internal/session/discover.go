package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/classlog/internal/parser"
	"github.com/starford/classlog/internal/storage"
)

// DiscoverOptions tune directory discovery.
type DiscoverOptions struct {
	SlidesPage  string
	Concurrency int
}

// Discover lists every session directory under the store root, probing
// them concurrently. Sessions are returned sorted by id. Problems with a
// single session (an unreadable links file, an impossible date) are
// returned in problems and never stop the others; err is set only when
// the root itself cannot be read.
func Discover(ctx context.Context, store storage.Provider, opts DiscoverOptions) (sessions []Session, problems []error, err error) {
	if opts.SlidesPage == "" {
		opts.SlidesPage = DefaultSlidesPage
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}

	dirs, err := store.Dirs("")
	if err != nil {
		return nil, nil, fmt.Errorf("session: discover: %w", err)
	}
	ids := slices.DeleteFunc(dirs, func(d string) bool { return !ValidID(d) })

	found := make([]*Session, len(ids))
	errs := make([]error, len(ids))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, id := range ids {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			found[i], errs[i] = inspect(store, id, opts.SlidesPage)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	for i := range ids {
		if found[i] != nil {
			sessions = append(sessions, *found[i])
		}
		if errs[i] != nil {
			problems = append(problems, errs[i])
		}
	}
	return sessions, problems, nil
}

// inspect builds one session from its directory listing. A session with a
// broken links file is still returned, with blank links.
func inspect(store storage.Provider, id, slidesPage string) (*Session, error) {
	date, err := time.ParseInLocation(DateLayout, id, time.Local)
	if err != nil {
		return nil, fmt.Errorf("session %s: bad date: %w", id, err)
	}

	names, err := store.Names(id)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}

	s := &Session{
		ID:    id,
		Date:  date,
		Path:  filepath.Join(store.Root(), id),
		Links: parser.EmptyLinks(),
	}
	for _, n := range names {
		switch {
		case n == LinksFile:
			s.Files.Links = true
		case n == MarkersFile:
			s.Files.Markers = true
		case n == CaptionsDir:
			s.Files.Captions = true
		case n == ChatFile:
			s.Files.Chat = true
		case n == OfficeHoursFile:
			s.Files.OfficeHours = true
		case n == slidesPage:
			s.Files.SlidesPage = true
		case s.Files.Video == "" && storage.IsVideo(n) && !strings.HasPrefix(n, "."):
			s.Files.Video = n
		}
	}
	s.OfficeHours = date.Weekday() == time.Sunday || s.Files.OfficeHours

	var problem error
	if s.Files.Links {
		data, err := store.Read(s.File(LinksFile))
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			problem = fmt.Errorf("session %s: %w", id, err)
		default:
			links, err := parser.ParseLinks(data)
			if err != nil {
				problem = parser.WithSource(err, filepath.Join(s.Path, LinksFile))
			} else {
				s.Links = links
			}
		}
	}
	return s, problem
}
