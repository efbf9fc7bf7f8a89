package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/classlog/internal/index"
	"github.com/starford/classlog/internal/session"
	"github.com/starford/classlog/internal/sessionservice"
	"github.com/starford/classlog/internal/slides"
	"github.com/starford/classlog/internal/storage"
)

// Runtime is the wired set of components shared by the server and the
// CLI commands.
type Runtime struct {
	Config  *Config
	Logger  *slog.Logger
	Store   *storage.FS
	Output  *storage.FS
	Catalog *session.Catalog
	DB      *index.DB
	Service *sessionservice.Service
}

// Open builds the runtime from cfg: storage over the sessions and output
// directories, the session catalog and the timeline index. withIndex
// controls whether the index is opened and synced.
func Open(ctx context.Context, cfg *Config, logger *slog.Logger, withIndex bool) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Ensure directories exist.
	for _, dir := range []string{cfg.Sessions.Path, cfg.Output.Path} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir %s: %w", dir, err)
		}
	}

	store, err := storage.NewFS(cfg.Sessions.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	output, err := storage.NewFS(cfg.Output.Path)
	if err != nil {
		return nil, fmt.Errorf("init output: %w", err)
	}

	loader := session.NewLoader(store, session.NewCache(), slides.HTMLExtractor{}, cfg.Sessions.SlidesPage)
	cat := session.NewCatalog(store, loader, session.DiscoverOptions{
		SlidesPage:  cfg.Sessions.SlidesPage,
		Concurrency: cfg.Sessions.Concurrency,
	}, logger)
	if err := cat.Reload(ctx); err != nil {
		return nil, fmt.Errorf("discover sessions: %w", err)
	}

	rt := &Runtime{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Output:  output,
		Catalog: cat,
	}

	var idx index.SessionIndex
	if withIndex {
		db, err := index.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("init index: %w", err)
		}
		if err := index.Sync(ctx, db, cat, logger); err != nil {
			logger.Warn("initial sync failed", slog.String("error", err.Error()))
		}
		rt.DB, idx = db, db
	}

	rt.Service = sessionservice.NewService(cat, idx, cfg.Sessions.Concurrency)
	return rt, nil
}

// Close releases the index.
func (r *Runtime) Close() error {
	if r.DB != nil {
		return r.DB.Close()
	}
	return nil
}
