// Package catalog maps book stubs ("Gen", "1Sam") to their persisted lemma
// indexes. The records directory is scanned once when the catalog opens.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"lemmacorpus/internal/lemma"
	"lemmacorpus/internal/storage"
)

// UnknownBookError is returned when a stub names no record.
type UnknownBookError struct {
	Stub      string
	Available []string
}

func (e *UnknownBookError) Error() string {
	return fmt.Sprintf("book %q not recognized; available books are: %s", e.Stub, strings.Join(e.Available, ", "))
}

type Catalog struct {
	dir   string
	paths map[string]string
	stubs []string
}

// Stub returns the part of a record file name up to its first dot.
func Stub(name string) string {
	if i := strings.Index(name, "."); i >= 0 {
		return name[:i]
	}
	return name
}

// Open indexes the record files of dir by stub. When two files share a stub
// the first in listing order wins.
func Open(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open records directory: %w", err)
	}

	c := &Catalog{dir: dir, paths: make(map[string]string)}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != storage.IndexExt {
			continue
		}
		stub := Stub(name)
		if _, ok := c.paths[stub]; ok {
			continue
		}
		c.paths[stub] = filepath.Join(dir, name)
		c.stubs = append(c.stubs, stub)
	}
	sort.Strings(c.stubs)
	return c, nil
}

// Stubs returns the known book stubs, sorted.
func (c *Catalog) Stubs() []string {
	return append([]string(nil), c.stubs...)
}

// Lookup returns the record path of a book.
func (c *Catalog) Lookup(stub string) (string, error) {
	path, ok := c.paths[stub]
	if !ok {
		return "", &UnknownBookError{Stub: stub, Available: c.Stubs()}
	}
	return path, nil
}

// Load reads the lemma index of a book.
func (c *Catalog) Load(stub string) (*lemma.Index, error) {
	path, err := c.Lookup(stub)
	if err != nil {
		return nil, err
	}
	return storage.LoadIndex(path)
}
