package session

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/starford/classlog/internal/parser"
	"github.com/starford/classlog/internal/storage"
	"github.com/starford/classlog/internal/timeline"
)

// SlideExtractor turns a cached slide deck page into one plain-text string
// per slide, in slide order.
type SlideExtractor interface {
	Extract(page []byte) ([]string, error)
}

// Loader reads session artifacts on demand through a shared Cache.
type Loader struct {
	store      storage.Provider
	cache      *Cache
	slides     SlideExtractor
	slidesPage string
}

// NewLoader creates a loader. extractor may be nil, in which case slides
// are always absent.
func NewLoader(store storage.Provider, cache *Cache, extractor SlideExtractor, slidesPage string) *Loader {
	if slidesPage == "" {
		slidesPage = DefaultSlidesPage
	}
	if cache == nil {
		cache = NewCache()
	}
	return &Loader{store: store, cache: cache, slides: extractor, slidesPage: slidesPage}
}

// Cache exposes the loader's cache.
func (l *Loader) Cache() *Cache { return l.cache }

// read loads a session file, reporting Absent when it does not exist.
func (l *Loader) read(s Session, name string) ([]byte, State, error) {
	p := s.File(name)
	data, err := l.store.Read(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, Absent, nil
	}
	if err != nil {
		return nil, NotAttempted, err
	}
	return data, Present, nil
}

func (l *Loader) timeline(s Session, name string, parse func([]byte) (*timeline.Map, error)) (*timeline.Map, State, error) {
	data, st, err := l.read(s, name)
	if st != Present {
		return nil, st, err
	}
	m, err := parse(data)
	if err != nil {
		return nil, NotAttempted, parser.WithSource(err, filepath.Join(l.store.Root(), s.File(name)))
	}
	return m, Present, nil
}

// Markers returns the session's marker timeline.
func (l *Loader) Markers(s Session) (Result[*timeline.Map], error) {
	return Lookup(l.cache, s.ID, FieldMarkers, func() (*timeline.Map, State, error) {
		return l.timeline(s, MarkersFile, parser.ParseMarkers)
	})
}

// Captions returns the session's caption timeline.
func (l *Loader) Captions(s Session) (Result[*timeline.Map], error) {
	return Lookup(l.cache, s.ID, FieldCaptions, func() (*timeline.Map, State, error) {
		names, err := l.store.Names(s.File(CaptionsDir))
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Absent, nil
		}
		if err != nil {
			return nil, NotAttempted, err
		}
		name, ok := parser.CaptionFile(names)
		if !ok {
			return nil, Absent, nil
		}
		return l.timeline(s, path.Join(CaptionsDir, name), parser.ParseCaptions)
	})
}

// Chat returns the session's chat transcript.
func (l *Loader) Chat(s Session) (Result[*parser.ChatTranscript], error) {
	return Lookup(l.cache, s.ID, FieldChat, func() (*parser.ChatTranscript, State, error) {
		data, st, err := l.read(s, ChatFile)
		if st != Present {
			return nil, st, err
		}
		tr, err := parser.ParseChat(data)
		if err != nil {
			return nil, NotAttempted, parser.WithSource(err, filepath.Join(l.store.Root(), s.File(ChatFile)))
		}
		return tr, Present, nil
	})
}

// ChatMap returns the chat transcript as a timeline.
func (l *Loader) ChatMap(s Session) (Result[*timeline.Map], error) {
	r, err := l.Chat(s)
	if err != nil || !r.Present() {
		return Result[*timeline.Map]{State: r.State}, err
	}
	return Result[*timeline.Map]{State: Present, Value: r.Value.Map()}, nil
}

// Slides returns the text of each slide from the cached slide page.
func (l *Loader) Slides(s Session) (Result[[]string], error) {
	return Lookup(l.cache, s.ID, FieldSlides, func() ([]string, State, error) {
		if l.slides == nil {
			return nil, Absent, nil
		}
		data, st, err := l.read(s, l.slidesPage)
		if st != Present {
			return nil, st, err
		}
		texts, err := l.slides.Extract(data)
		if err != nil {
			return nil, NotAttempted, fmt.Errorf("session: extract slides %s: %w", s.ID, err)
		}
		return texts, Present, nil
	})
}

// Source loads a timeline by source name: markers, captions or chat.
func (l *Loader) Source(s Session, source string) (Result[*timeline.Map], error) {
	switch source {
	case string(FieldMarkers):
		return l.Markers(s)
	case string(FieldCaptions):
		return l.Captions(s)
	case string(FieldChat):
		return l.ChatMap(s)
	}
	return Result[*timeline.Map]{}, fmt.Errorf("session: unknown source %q", source)
}
