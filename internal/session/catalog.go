package session

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/starford/classlog/internal/storage"
)

// Catalog is the numbered set of discovered sessions plus the loader used
// to read their timelines.
type Catalog struct {
	store  storage.Provider
	loader *Loader
	opts   DiscoverOptions
	logger *slog.Logger

	mu       sync.RWMutex
	sessions []Session
	byID     map[string]int
}

// NewCatalog creates an empty catalog; call Reload to populate it.
func NewCatalog(store storage.Provider, loader *Loader, opts DiscoverOptions, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		store:  store,
		loader: loader,
		opts:   opts,
		logger: logger,
		byID:   map[string]int{},
	}
}

// Reload rediscovers and renumbers every session. Per-session problems
// are logged and do not fail the reload.
func (c *Catalog) Reload(ctx context.Context) error {
	found, problems, err := Discover(ctx, c.store, c.opts)
	if err != nil {
		return err
	}
	for _, p := range problems {
		c.logger.Warn("session problem", slog.String("error", p.Error()))
	}

	numbered := Number(found)
	byID := make(map[string]int, len(numbered))
	for i, s := range numbered {
		byID[s.ID] = i
	}

	c.mu.Lock()
	c.sessions = numbered
	c.byID = byID
	c.mu.Unlock()
	return nil
}

// Sessions returns a copy of every session, sorted by id.
func (c *Catalog) Sessions() []Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.sessions)
}

// Get returns the session with the given id.
func (c *Catalog) Get(id string) (Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return Session{}, false
	}
	return c.sessions[i], true
}

// Loader returns the shared loader.
func (c *Catalog) Loader() *Loader { return c.loader }

// Store returns the sessions store.
func (c *Catalog) Store() storage.Provider { return c.store }

// Invalidate drops the cached timelines of a session.
func (c *Catalog) Invalidate(id string) {
	c.loader.Cache().Invalidate(id)
}
