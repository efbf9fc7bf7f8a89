// Package testutil provides shared test helpers for building session
// directories on disk.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/classlog/internal/storage"
)

// Sample artifacts for a class session.
const (
	SampleLinks = "Twitch: https://www.twitch.tv/videos/100\n" +
		"YouTube: https://youtu.be/abc?t=30\n" +
		"YouTube Comment: Ugx123\n" +
		"Slides: https://slides.example.com/deck\n" +
		"Tweet: https://twitter.com/x/status/1\n" +
		"Discord: https://discord.com/channels/1/2\n"

	SampleMarkers = "00:00:10\tIntro Started\n" +
		"00:01:00\tQuestion of the Day: tabs or spaces?\n" +
		"00:04:00\tIntro Ended\n" +
		"00:05:00\t#1 Intro | check mic\n" +
		"00:20:00\tBreak Started\n" +
		"00:30:00\tBreak Ended\n" +
		"00:45:00\t#2 Closures\n" +
		"01:02:03\tRaiding somestreamer\n"

	SampleCaptions = "00:01\nHello everyone\nwelcome back\n00:05\nToday we talk closures\n"

	SampleChat = `[
 {"created_at":"2024-01-09T18:00:00Z","commenter":{"display_name":"ann"},"message":{"body":"hi"}},
 {"created_at":"2024-01-09T18:05:00Z","commenter":{"display_name":"bob"},"message":{"body":"closures are neat"}},
 {"created_at":"2024-01-09T19:10:00Z","commenter":{"display_name":"ann"},"message":{"body":"bye"}}
]`

	SampleSlides = `<html><body><div class="reveal"><div class="slides">
<section><h1>Welcome</h1></section>
<section><h2>Closures</h2><p>Functions &amp; scope</p></section>
</div></div></body></html>`
)

// Files writes files (relative path → content) under a fresh temporary
// root and returns the root and a provider over it.
func Files(t *testing.T, files map[string]string) (string, *storage.FS) {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}

// ClassSession returns the files of a complete class session with the
// given id.
func ClassSession(id string) map[string]string {
	return map[string]string{
		id + "/links":           SampleLinks,
		id + "/markers":         SampleMarkers,
		id + "/captions/en.txt": SampleCaptions,
		id + "/chat.json":       SampleChat,
		id + "/slides.html":     SampleSlides,
	}
}

// Merge combines several file maps.
func Merge(sets ...map[string]string) map[string]string {
	out := map[string]string{}
	for _, s := range sets {
		for k, v := range s {
			out[k] = v
		}
	}
	return out
}
