package corpus

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lemmacorpus/internal/storage"
)

// Options controls flattening order.
type Options struct {
	// Canonical sorts chapter keys and verse addresses numeric-aware
	// instead of keeping stored key order.
	Canonical bool
}

// RecordFiles lists the persisted indexes of dir in directory-listing order.
func RecordFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), storage.IndexExt) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// Flatten returns one verse lemma record per verse across every index in
// recordsDir: files in listing order, then chapters, then verses.
func Flatten(recordsDir string, opts Options) ([]string, error) {
	files, err := RecordFiles(recordsDir)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, path := range files {
		index, err := storage.LoadIndex(path)
		if err != nil {
			return nil, err
		}
		if opts.Canonical {
			index = index.Canonical()
		}
		lines = append(lines, index.Records()...)
	}
	return lines, nil
}

// WriteFile flattens recordsDir into dest, one newline-terminated record per
// line, and returns the number of lines written.
func WriteFile(recordsDir, dest string, opts Options) (int, error) {
	lines, err := Flatten(recordsDir, opts)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory for %s: %w", dest, err)
	}
	f, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("failed to create corpus file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			return 0, fmt.Errorf("failed to write corpus: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("failed to write corpus: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to close corpus file: %w", err)
	}
	return len(lines), nil
}
