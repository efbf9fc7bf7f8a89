package parser

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func sec(n int) time.Duration { return time.Duration(n) * time.Second }

func TestParseMarkers(t *testing.T) {
	m, err := ParseMarkers([]byte("01:02:03\tFoo Started\n01:02:10\tFoo Ended"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("len = %d, want 2", m.Len())
	}
	if l, _ := m.Get(sec(3723)); l != "Foo Started" {
		t.Errorf("3723 = %q", l)
	}
	if l, _ := m.Get(sec(3730)); l != "Foo Ended" {
		t.Errorf("3730 = %q", l)
	}
}

func TestParseMarkers_Arity(t *testing.T) {
	m, err := ParseMarkers([]byte("5\tseconds\n1:05\tminutes\r\n\n1:00:00\thours\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[time.Duration]string{sec(5): "seconds", sec(65): "minutes", sec(3600): "hours"}
	if m.Len() != len(want) {
		t.Fatalf("len = %d", m.Len())
	}
	for k, v := range want {
		if l, _ := m.Get(k); l != v {
			t.Errorf("%v = %q, want %q", k, l, v)
		}
	}
}

func TestParseMarkers_LabelVerbatim(t *testing.T) {
	m, err := ParseMarkers([]byte("10\t\n20\t  spaced\tlabel "))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l, ok := m.Get(sec(10)); !ok || l != "" {
		t.Errorf("empty label = %q, %v", l, ok)
	}
	if l, _ := m.Get(sec(20)); l != "  spaced\tlabel " {
		t.Errorf("label = %q", l)
	}
}

func TestParseMarkers_DuplicateKeyLastWins(t *testing.T) {
	m, err := ParseMarkers([]byte("00:10\tfirst\n00:10\tsecond"))
	if err != nil {
		t.Fatal(err)
	}
	if l, _ := m.Get(sec(10)); l != "second" || m.Len() != 1 {
		t.Errorf("got %q (len %d)", l, m.Len())
	}
}

func TestParseMarkers_Malformed(t *testing.T) {
	for _, in := range []string{"ab:10\tx", "1:2:3:4\tx", "-5\tx", "1::2\tx", "\tlabel"} {
		_, err := ParseMarkers([]byte("00:01\tok\n" + in))
		if err == nil {
			t.Errorf("%q: expected error", in)
			continue
		}
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("%q: error should wrap ErrMalformed: %v", in, err)
		}
		var pe *ParseError
		if !errors.As(err, &pe) || pe.Line != 2 || pe.Text != in {
			t.Errorf("%q: bad parse error %+v", in, pe)
		}
	}
}

func TestWithSource(t *testing.T) {
	_, err := ParseMarkers([]byte("x\ty"))
	err = WithSource(err, "/s/2024-01-01/markers")
	if !strings.Contains(err.Error(), "/s/2024-01-01/markers:1") {
		t.Errorf("error = %v", err)
	}
}

func TestParseCaptions(t *testing.T) {
	m, err := ParseCaptions([]byte("00:01\nHello\nworld\n00:02\nNext"))
	if err != nil {
		t.Fatal(err)
	}
	if m.Len() != 2 {
		t.Fatalf("len = %d", m.Len())
	}
	if l, _ := m.Get(sec(60)); l != "Hello world" {
		t.Errorf("60 = %q", l)
	}
	if l, _ := m.Get(sec(120)); l != "Next" {
		t.Errorf("120 = %q", l)
	}
}

func TestParseCaptions_LeadingContentDiscarded(t *testing.T) {
	m, err := ParseCaptions([]byte("preamble\n\n01:00\n  spoken  \n\nwords\n1:00\n"))
	if err != nil {
		t.Fatal(err)
	}
	if m.Len() != 1 {
		t.Fatalf("entries = %v", m.Entries())
	}
	if l, _ := m.Get(sec(3600)); l != "spoken words 1:00" {
		t.Errorf("3600 = %q", l)
	}
}

func TestCaptionFile(t *testing.T) {
	name, ok := CaptionFile([]string{"b.txt", "notes.md", "a.txt"})
	if !ok || name != "a.txt" {
		t.Errorf("got %q, %v", name, ok)
	}
	if _, ok := CaptionFile([]string{"x.vtt"}); ok {
		t.Error("expected no caption file")
	}
}

const chatJSON = `[
 {"created_at":"2024-01-09T18:00:00Z","commenter":{"display_name":"ann"},"message":{"body":"hi"}},
 {"created_at":"2024-01-09T18:00:01.5Z","commenter":{"display_name":"bob"},"message":{"body":"hello"}},
 {"created_at":"2024-01-09T18:01:00Z","commenter":{"display_name":"ann"},"message":{"body":"lol"}}
]`

func TestParseChat(t *testing.T) {
	tr, err := ParseChat([]byte(chatJSON))
	if err != nil {
		t.Fatal(err)
	}
	if len(tr.Messages) != 3 {
		t.Fatalf("messages = %d", len(tr.Messages))
	}
	m := tr.Map()
	if l, _ := m.Get(0); l != "ann: hi" {
		t.Errorf("0 = %q", l)
	}
	if l, _ := m.Get(1500 * time.Millisecond); l != "bob: hello" {
		t.Errorf("1.5 = %q", l)
	}
	if l, _ := m.Get(sec(60)); l != "ann: lol" {
		t.Errorf("60 = %q", l)
	}
}

func TestParseChat_Malformed(t *testing.T) {
	if _, err := ParseChat([]byte(`{"not":"an array"}`)); !errors.Is(err, ErrMalformed) {
		t.Errorf("err = %v", err)
	}
	_, err := ParseChat([]byte(`[{"created_at":"yesterday"}]`))
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("err = %v", err)
	}
}

func TestParseLinks(t *testing.T) {
	l, err := ParseLinks([]byte("Twitch: https://twitch.tv/videos/1\nYouTube: https://youtu.be/abc?t=42\nCustom: x:y\n"))
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range Platforms {
		if _, ok := l[p]; !ok {
			t.Errorf("missing key %q", p)
		}
	}
	if l[Twitch] != "https://twitch.tv/videos/1" {
		t.Errorf("twitch = %q", l[Twitch])
	}
	if l["Custom"] != "x:y" {
		t.Errorf("custom = %q", l["Custom"])
	}
	if l.Primary() != l[Twitch] {
		t.Errorf("primary = %q", l.Primary())
	}
	if l.YouTubeStart() != sec(42) {
		t.Errorf("youtube start = %v", l.YouTubeStart())
	}
	entries := l.Entries()
	if len(entries) != 7 || entries[6][0] != "Custom" {
		t.Errorf("entries = %v", entries)
	}
}

func TestParseLinks_Malformed(t *testing.T) {
	if _, err := ParseLinks([]byte("Twitch https://x")); !errors.Is(err, ErrMalformed) {
		t.Errorf("err = %v", err)
	}
}

func TestLinks_PrimaryFallsBackToYouTube(t *testing.T) {
	l := EmptyLinks()
	l[YouTube] = "https://youtu.be/abc"
	if l.Primary() != "https://youtu.be/abc" {
		t.Errorf("primary = %q", l.Primary())
	}
	if l.YouTubeStart() != 0 {
		t.Errorf("start = %v", l.YouTubeStart())
	}
}

func TestParseSlideRef(t *testing.T) {
	ref, ok := ParseSlideRef("#12 Closures | skip")
	if !ok || ref.Number != 12 || ref.Title != "Closures" {
		t.Errorf("got %+v, %v", ref, ok)
	}
	if _, ok := ParseSlideRef("#12"); ok {
		t.Error("bare number is not a slide ref")
	}
}
