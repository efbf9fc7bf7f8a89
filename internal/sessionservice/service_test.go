package sessionservice

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/starford/classlog/internal/apperr"
	"github.com/starford/classlog/internal/index"
	"github.com/starford/classlog/internal/parser"
	"github.com/starford/classlog/internal/search"
	"github.com/starford/classlog/internal/session"
	"github.com/starford/classlog/internal/testutil"
)

func testService(t *testing.T, files map[string]string) *Service {
	t.Helper()
	_, store := testutil.Files(t, files)
	cat := session.NewCatalog(store, session.NewLoader(store, nil, nil, ""), session.DiscoverOptions{}, nil)
	if err := cat.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	db, err := index.Open(index.MemoryDSN)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return NewService(cat, db, 4)
}

func TestListAndGet(t *testing.T) {
	svc := testService(t, testutil.Merge(
		testutil.ClassSession("2024-01-09"),
		map[string]string{"2024-01-07/markers": "00:10\tHello\n"},
	))
	ctx := context.Background()

	items := svc.ListSessions(ctx)
	if len(items) != 2 {
		t.Fatalf("items = %d", len(items))
	}
	if items[1].Slug != "CL #01 2024-01-09" {
		t.Errorf("slug = %q", items[1].Slug)
	}
	if len(items[1].Missing) != 0 {
		t.Errorf("complete session reported missing %v", items[1].Missing)
	}
	if len(items[0].Missing) == 0 {
		t.Error("bare session reported nothing missing")
	}

	if _, err := svc.Timeline(ctx, "2024-01-09", "markers", TimelineOptions{}); err != nil {
		t.Fatal(err)
	}
	d, err := svc.GetSession(ctx, "2024-01-09")
	if err != nil {
		t.Fatal(err)
	}
	if d.Sources["markers"] != "present" || d.Sources["chat"] != "not_attempted" {
		t.Errorf("sources = %v", d.Sources)
	}

	if _, err := svc.GetSession(ctx, "2020-01-01"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestTimeline(t *testing.T) {
	svc := testService(t, testutil.Merge(
		testutil.ClassSession("2024-01-09"),
		map[string]string{
			"2024-01-07/markers": "00:10\tHello\n",
			"2024-01-08/markers": "00:10\n",
		},
	))
	ctx := context.Background()

	v, err := svc.Timeline(ctx, "2024-01-09", "markers", TimelineOptions{Public: true, Offset: -10 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Entries) != 7 {
		t.Fatalf("entries = %d: %v", len(v.Entries), v.Lines)
	}
	if v.Lines[0] != "00:00\tIntro Started" || v.Lines[1] != "00:50\tQuestion of the Day: tabs or spaces?" {
		t.Errorf("lines = %q", v.Lines[:2])
	}
	if !strings.HasSuffix(v.Lines[3], "\t#1 Intro") {
		t.Errorf("private note kept: %q", v.Lines[3])
	}

	v, err = svc.Timeline(ctx, "2024-01-09", "captions", TimelineOptions{Query: "CLOSURES", CaseInsensitive: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Entries) != 1 || v.Entries[0].At != 5*time.Minute {
		t.Errorf("captions = %+v", v.Entries)
	}

	if _, err := svc.Timeline(ctx, "2024-01-07", "chat", TimelineOptions{}); !errors.Is(err, apperr.ErrAbsent) {
		t.Errorf("absent chat err = %v", err)
	}
	if _, err := svc.Timeline(ctx, "2024-01-09", "video", TimelineOptions{}); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("unknown source err = %v", err)
	}
	if _, err := svc.Timeline(ctx, "2024-01-08", "markers", TimelineOptions{}); !errors.Is(err, parser.ErrMalformed) {
		t.Errorf("malformed err = %v", err)
	}
}

func TestComment(t *testing.T) {
	svc := testService(t, testutil.ClassSession("2024-01-09"))
	ctx := context.Background()

	c, err := svc.Comment(ctx, "2024-01-09", nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.CommentID != "Ugx123" || c.Hash == "" {
		t.Errorf("comment = %+v", c)
	}
	if !strings.Contains(c.Text, "00:30\tQuestion of the Day") {
		t.Errorf("text not shifted by the YouTube start:\n%s", c.Text)
	}

	zero := time.Duration(0)
	c, err = svc.Comment(ctx, "2024-01-09", &zero)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(c.Text, "01:00\tQuestion of the Day") {
		t.Errorf("offset override ignored:\n%s", c.Text)
	}
}

func TestSearchAndReports(t *testing.T) {
	svc := testService(t, testutil.ClassSession("2024-01-09"))
	ctx := context.Background()

	results, err := svc.Search(ctx, search.Query{Text: "closures", CaseInsensitive: true, Sources: search.AllSources})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Matches.Empty() {
		t.Fatalf("results = %+v", results)
	}
	if _, err := svc.Search(ctx, search.Query{}); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("empty query err = %v", err)
	}

	msgs, err := svc.Discord(ctx, "2024-01-09")
	if err != nil || len(msgs) != 1 {
		t.Fatalf("discord = %v, %v", msgs, err)
	}

	ws, err := svc.Sheet(ctx, "2024-01-09")
	if err != nil {
		t.Fatal(err)
	}
	if ws.Title != "CL #01 2024-01-09" {
		t.Errorf("title = %q", ws.Title)
	}

	rows, err := svc.Similar(ctx, "raid")
	if err != nil || len(rows) != 1 || !rows[0].Found {
		t.Fatalf("similar = %+v, %v", rows, err)
	}
	if _, err := svc.Similar(ctx, "lunch"); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("bad kind err = %v", err)
	}

	reports, err := svc.ValidateAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 1 || !reports[0].Clean() {
		t.Errorf("reports = %+v", reports)
	}
}

func TestIndexSearch(t *testing.T) {
	svc := testService(t, testutil.ClassSession("2024-01-09"))
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	if err := index.Sync(ctx, svc.db, svc.Catalog(), logger); err != nil {
		t.Fatal(err)
	}
	hits, err := svc.IndexSearch(ctx, "Closures", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) == 0 {
		t.Error("no hits after sync")
	}
	for _, h := range hits {
		if h.Session != "2024-01-09" {
			t.Errorf("hit = %+v", h)
		}
	}
	if _, err := svc.IndexSearch(ctx, "", 10); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("empty query err = %v", err)
	}
}

func TestSheetsKeepsGoodSessions(t *testing.T) {
	svc := testService(t, testutil.Merge(
		testutil.ClassSession("2024-01-09"),
		map[string]string{"2024-01-10/markers": "xx:10\tHello\n"},
	))

	sheets, err := svc.Sheets(context.Background())
	if !errors.Is(err, parser.ErrMalformed) {
		t.Errorf("err = %v, want malformed", err)
	}
	if len(sheets) != 1 || sheets[0].Title != "CL #01 2024-01-09" {
		t.Fatalf("sheets = %+v", sheets)
	}
	if !strings.Contains(err.Error(), "2024-01-10") {
		t.Errorf("error does not name the bad session: %v", err)
	}
}
