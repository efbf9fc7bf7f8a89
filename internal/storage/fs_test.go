package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func tempRoot(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	s, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return s
}

func TestWriteAndRead(t *testing.T) {
	s := tempRoot(t)
	content := []byte("00:10\tIntro Started\n")
	if err := s.Write("2024-01-09/markers", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("2024-01-09/markers")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestReadMissingIsNotExist(t *testing.T) {
	s := tempRoot(t)
	_, err := s.Read("2024-01-09/chat.json")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want fs.ErrNotExist", err)
	}
	if s.Exists("2024-01-09/chat.json") {
		t.Error("Exists should be false")
	}
}

func TestDelete(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("youtube-comment", []byte("bye"))
	if err := s.Delete("youtube-comment"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s.Exists("youtube-comment") {
		t.Error("file should be gone")
	}
}

func TestDirsAndNames(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("2024-01-09/links", []byte("Twitch: x"))
	_ = s.Write("2024-01-07/markers", []byte(""))
	_ = s.Write("notes.txt", []byte(""))

	dirs, err := s.Dirs("")
	if err != nil {
		t.Fatalf("Dirs: %v", err)
	}
	if len(dirs) != 2 || dirs[0] != "2024-01-07" || dirs[1] != "2024-01-09" {
		t.Errorf("dirs = %v", dirs)
	}

	names, err := s.Names("2024-01-09")
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	if len(names) != 1 || names[0] != "links" {
		t.Errorf("names = %v", names)
	}
}

func TestList(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("2024-01-09/links", []byte("a"))
	_ = s.Write("2024-01-09/captions/en.txt", []byte("b"))
	_ = s.Write("2024-01-09/class.mp4", []byte("video bytes"))

	items, err := s.List("2024-01-09")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	for _, it := range items {
		if it.Checksum == "" {
			t.Errorf("%s has no checksum", it.Path)
		}
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempRoot(t)

	cases := []string{
		"../../etc/passwd",
		"../outside",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
	}
}

func TestAtomicWriteLeavesNoTemp(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("youtube-comment", []byte("original"))
	if err := s.Write("youtube-comment", []byte("updated")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("youtube-comment")
	if string(got) != "updated" {
		t.Errorf("expected updated content, got %q", got)
	}
	matches, _ := filepath.Glob(filepath.Join(s.Root(), ".classlog-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	if _, err := NewFS(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp(t.TempDir(), "classlog-test-*")
	_ = f.Close()
	if _, err := NewFS(f.Name()); err == nil {
		t.Error("expected error when root is a file")
	}
}

func TestIsVideo(t *testing.T) {
	if !IsVideo("Class.MP4") || IsVideo("chat.json") {
		t.Error("IsVideo misclassified")
	}
}
