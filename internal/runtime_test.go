package internal

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/classlog/internal/testutil"
)

func TestOpenRuntime(t *testing.T) {
	root, _ := testutil.Files(t, testutil.ClassSession("2024-01-09"))
	cfg := NewDefaultConfig()
	cfg.Sessions.Path = root
	cfg.Output.Path = filepath.Join(t.TempDir(), "out")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rt, err := Open(context.Background(), cfg, logger, true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rt.Close()

	if n := len(rt.Catalog.Sessions()); n != 1 {
		t.Fatalf("sessions = %d", n)
	}
	if _, err := os.Stat(cfg.Output.Path); err != nil {
		t.Errorf("output dir not created: %v", err)
	}
	stats, err := rt.DB.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Sessions != 1 || stats.Entries == 0 {
		t.Errorf("stats = %+v", stats)
	}
	if _, err := rt.Service.IndexSearch(context.Background(), "Closures", 5); err != nil {
		t.Errorf("IndexSearch: %v", err)
	}
}

func TestOpenRuntimeWithoutIndex(t *testing.T) {
	root, _ := testutil.Files(t, testutil.ClassSession("2024-01-09"))
	cfg := NewDefaultConfig()
	cfg.Sessions.Path = root
	cfg.Output.Path = t.TempDir()

	rt, err := Open(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rt.Close()

	if rt.DB != nil {
		t.Error("index opened without being requested")
	}
	if _, err := rt.Service.IndexSearch(context.Background(), "Closures", 5); err == nil {
		t.Error("IndexSearch without an index should fail")
	}
}

func TestRunRequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Error("Run without config should fail")
	}
	if err := ServeMCP(context.Background()); err == nil {
		t.Error("ServeMCP without config should fail")
	}
}
