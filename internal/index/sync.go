package index

import (
	"context"
	"log/slog"

	"github.com/starford/classlog/internal/checksum"
	"github.com/starford/classlog/internal/models"
	"github.com/starford/classlog/internal/session"
)

// indexedSources are the timelines copied into the index for each session.
var indexedSources = []session.Field{session.FieldMarkers, session.FieldCaptions, session.FieldChat}

// Sync brings the index up to date with the catalog:
//   - new/changed sessions are loaded and upserted
//   - sessions no longer in the catalog are deleted from the index
func Sync(ctx context.Context, db SessionIndex, cat *session.Catalog, logger *slog.Logger) error {
	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	live := make(map[string]struct{})
	for _, s := range cat.Sessions() {
		if err := ctx.Err(); err != nil {
			return err
		}
		live[s.ID] = struct{}{}
		cs, err := sessionChecksum(cat, s.ID)
		if err != nil {
			logger.Warn("sync: checksum failed", slog.String("session", s.ID), slog.String("error", err.Error()))
			continue
		}
		if checksums[s.ID] == cs {
			continue
		}
		cat.Invalidate(s.ID)
		if err := indexSession(db, cat, s, cs, logger); err != nil {
			logger.Warn("sync: index failed", slog.String("session", s.ID), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("session", s.ID))
		}
	}

	// Remove stale entries.
	for id := range checksums {
		if _, ok := live[id]; ok {
			continue
		}
		if err := db.DeleteSession(id); err != nil {
			logger.Warn("sync: delete failed", slog.String("session", id), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: removed stale", slog.String("session", id))
		}
	}
	return nil
}

// sessionChecksum folds the checksum of every file in a session directory
// into one value.
func sessionChecksum(cat *session.Catalog, id string) (string, error) {
	metas, err := cat.Store().List(id)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(metas))
	for _, m := range metas {
		parts = append(parts, m.Path+":"+m.Checksum)
	}
	return checksum.Lines(parts), nil
}

// indexSession loads every indexed source of s and upserts it. A source
// that fails to parse is logged and left out; the others are still indexed.
func indexSession(db SessionIndex, cat *session.Catalog, s session.Session, cs string, logger *slog.Logger) error {
	var entries []models.IndexedEntry
	for _, src := range indexedSources {
		res, err := cat.Loader().Source(s, string(src))
		if err != nil {
			logger.Warn("index: source unreadable",
				slog.String("session", s.ID),
				slog.String("source", string(src)),
				slog.String("error", err.Error()))
			continue
		}
		if !res.Present() {
			continue
		}
		for at, label := range res.Value.All() {
			entries = append(entries, models.IndexedEntry{
				Session: s.ID,
				Source:  string(src),
				Seconds: at.Seconds(),
				Label:   label,
			})
		}
	}
	return db.UpsertSession(SessionRow{
		ID:          s.ID,
		Slug:        s.Slug(),
		OfficeHours: s.OfficeHours,
		Checksum:    cs,
	}, entries)
}
