package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/starford/classlog/internal/session"
)

// EventCallback is called after a watcher-driven index change.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind string, id string)

// debounce is how long the watcher waits after the last file event before
// reindexing the touched sessions.
const debounce = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the sessions root and processes file
// change events until ctx is cancelled. Events are grouped by session
// directory; once they settle the catalog is reloaded, each touched
// session is reindexed and cb (if non-nil) is called.
//
// New directories created at runtime are automatically added to the watch
// list.
func Watch(ctx context.Context, db SessionIndex, cat *session.Catalog, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	root := cat.Store().Root()
	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			ids := pending
			pending = make(map[string]struct{})
			reconcile(ctx, db, cat, ids, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", ev.Name))
					}
				}
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}

			id, ok := sessionOf(root, ev.Name)
			if !ok {
				continue
			}
			pending[id] = struct{}{}
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// sessionOf maps an absolute path under root to the session id that owns it.
func sessionOf(root, abs string) (string, bool) {
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	id, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	if !session.ValidID(id) {
		return "", false
	}
	return id, true
}

// reconcile reloads the catalog and reindexes the given sessions.
func reconcile(ctx context.Context, db SessionIndex, cat *session.Catalog, ids map[string]struct{}, logger *slog.Logger, cb EventCallback) {
	if err := cat.Reload(ctx); err != nil {
		logger.Warn("reconcile: reload failed", slog.String("error", err.Error()))
		return
	}
	for id := range ids {
		cat.Invalidate(id)
		old, err := db.GetChecksum(id)
		if err != nil {
			logger.Warn("reconcile: checksum lookup failed", slog.String("session", id), slog.String("error", err.Error()))
			continue
		}

		s, ok := cat.Get(id)
		if !ok {
			if old == "" {
				continue
			}
			if err := db.DeleteSession(id); err != nil {
				logger.Warn("reconcile: delete failed", slog.String("session", id), slog.String("error", err.Error()))
				continue
			}
			logger.Debug("reconcile: removed", slog.String("session", id))
			if cb != nil {
				cb("deleted", id)
			}
			continue
		}

		cs, err := sessionChecksum(cat, id)
		if err != nil {
			logger.Warn("reconcile: checksum failed", slog.String("session", id), slog.String("error", err.Error()))
			continue
		}
		if cs == old {
			continue
		}
		if err := indexSession(db, cat, s, cs, logger); err != nil {
			logger.Warn("reconcile: index failed", slog.String("session", id), slog.String("error", err.Error()))
			continue
		}
		kind := "updated"
		if old == "" {
			kind = "created"
		}
		logger.Debug("reconcile: indexed", slog.String("session", id), slog.String("op", kind))
		if cb != nil {
			cb(kind, id)
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
