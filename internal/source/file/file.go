// Package file reads raw log records from local files, line by line.
package file

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/crimson-sun/panlogs/internal/source"
)

// Lines can be long in firewall exports; allow up to 1MB per record.
const maxLineBytes = 1 << 20

func init() {
	source.Register("file", func() source.Source {
		return &Source{}
	})
}

// Source streams lines from a file, or from every regular file in a
// directory (sorted by name, the export order of rotated logs).
type Source struct{}

// Stream opens cfg.Path and sends one Record per line.
func (s *Source) Stream(ctx context.Context, cfg source.Config) (<-chan source.Record, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("file source: missing path")
	}

	paths, err := expand(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("file source: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("file source: no files under %s", cfg.Path)
	}

	ch := make(chan source.Record, 256)
	go func() {
		defer close(ch)
		for _, p := range paths {
			if err := streamFile(ctx, p, ch); err != nil {
				slog.Error("file source: read failed", "path", p, "err", err)
				return
			}
		}
	}()
	return ch, nil
}

// expand resolves a path to the list of files to read.
func expand(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			paths = append(paths, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func streamFile(ctx context.Context, path string, ch chan<- source.Record) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	for sc.Scan() {
		rec := source.Record{Payload: sc.Text(), Collected: time.Now()}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ch <- rec:
		}
	}
	return sc.Err()
}
