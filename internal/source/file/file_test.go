package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/crimson-sun/panlogs/internal/source"
)

func collect(t *testing.T, ch <-chan source.Record) []string {
	t.Helper()
	var lines []string
	for rec := range ch {
		lines = append(lines, rec.Payload)
	}
	return lines
}

func TestStreamSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fw.log")
	if err := os.WriteFile(path, []byte("severity=high\nseverity=low\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s := &Source{}
	ch, err := s.Stream(context.Background(), source.Config{Path: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := collect(t, ch)
	if len(lines) != 2 || lines[0] != "severity=high" {
		t.Fatalf("unexpected lines: %v", lines)
	}
}

func TestStreamDirectorySorted(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "b.log"), []byte("second\n"), 0644)
	os.WriteFile(filepath.Join(dir, "a.log"), []byte("first\n"), 0644)

	s := &Source{}
	ch, err := s.Stream(context.Background(), source.Config{Path: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := collect(t, ch)
	if len(lines) != 2 || lines[0] != "first" || lines[1] != "second" {
		t.Fatalf("directory files not read in name order: %v", lines)
	}
}

func TestStreamMissingPath(t *testing.T) {
	s := &Source{}
	if _, err := s.Stream(context.Background(), source.Config{Path: "/does/not/exist"}); err == nil {
		t.Fatal("expected error for missing path")
	}
	if _, err := s.Stream(context.Background(), source.Config{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestRegistered(t *testing.T) {
	ctor, err := source.Get("file")
	if err != nil {
		t.Fatalf("file source not registered: %v", err)
	}
	if ctor() == nil {
		t.Fatal("constructor returned nil")
	}
}
