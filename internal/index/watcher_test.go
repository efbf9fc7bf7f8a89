package index

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/classlog/internal/testutil"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatcher_NewSessionIndexed(t *testing.T) {
	root, cat := testCatalog(t, map[string]string{"2024-01-07/markers": "00:10\tHello\n"})
	db := testDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var events []string

	go Watch(ctx, db, cat, quietLogger(), func(kind, id string) {
		mu.Lock()
		events = append(events, kind+":"+id)
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	dir := filepath.Join(root, "2024-01-09")
	_ = os.MkdirAll(dir, 0o755)
	_ = os.WriteFile(filepath.Join(dir, "markers"), []byte(testutil.SampleMarkers), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := db.GetChecksum("2024-01-09")
		return cs != ""
	}, "new session not indexed by watcher")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range events {
			if e == "created:2024-01-09" {
				return true
			}
		}
		return false
	}, "expected created:2024-01-09 callback")

	if _, ok := cat.Get("2024-01-09"); !ok {
		t.Error("catalog not reloaded")
	}
}

func TestWatcher_EditReindexes(t *testing.T) {
	root, cat := testCatalog(t, map[string]string{"2024-01-09/markers": "00:10\tHello\n"})
	db := testDB(t)
	logger := quietLogger()
	if err := Sync(context.Background(), db, cat, logger); err != nil {
		t.Fatal(err)
	}
	before, _ := db.GetChecksum("2024-01-09")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Watch(ctx, db, cat, logger, nil)
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(root, "2024-01-09", "markers"), []byte("00:10\tHello\n00:20\tGenerics\n"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := db.GetChecksum("2024-01-09")
		return cs != "" && cs != before
	}, "edited session not reindexed")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		hits, _ := db.Search("Generics", 10)
		return len(hits) == 1
	}, "new marker not searchable")
}

func TestWatcher_DeleteRemovesFromIndex(t *testing.T) {
	root, cat := testCatalog(t, testutil.ClassSession("2024-01-09"))
	db := testDB(t)
	logger := quietLogger()
	if err := Sync(context.Background(), db, cat, logger); err != nil {
		t.Fatal(err)
	}
	if cs, _ := db.GetChecksum("2024-01-09"); cs == "" {
		t.Fatal("precondition: session should be indexed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Watch(ctx, db, cat, logger, nil)
	time.Sleep(100 * time.Millisecond)

	_ = os.RemoveAll(filepath.Join(root, "2024-01-09"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := db.GetChecksum("2024-01-09")
		return cs == ""
	}, "deleted session still in index")
}
