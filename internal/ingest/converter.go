package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"lemmacorpus/internal/analysis"

	"github.com/bmatcuk/doublestar/v4"
)

// Converter runs the lemma extractor over every manuscript of a source
// directory and writes one record per book. A Converter runs once.
type Converter struct {
	WorkerPool *WorkerPool
	// Pattern, when set, restricts conversion to file names matching this
	// doublestar pattern (e.g. "{Gen,Exod}.xml").
	Pattern string
}

func NewConverter(workers int, outDir string) *Converter {
	return &Converter{
		WorkerPool: NewWorkerPool(workers, outDir),
	}
}

// Sources lists the convertible documents of dir (non-recursive, sorted)
// whose names match pattern. An empty pattern matches every document.
func Sources(dir, pattern string) ([]string, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid source pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := analysis.GetExtractor(filepath.Ext(entry.Name())); !ok {
			continue
		}
		if pattern != "" {
			if ok, _ := doublestar.Match(pattern, entry.Name()); !ok {
				continue
			}
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

// Run converts every document in srcDir. A failing book does not stop the
// others: all results are returned sorted by source path, together with
// the joined errors of the books that failed.
func (c *Converter) Run(ctx context.Context, srcDir string) ([]Result, error) {
	paths, err := Sources(srcDir, c.Pattern)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(c.WorkerPool.outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	c.WorkerPool.Start()
	var cancelled error
	for _, path := range paths {
		if ctx.Err() != nil {
			cancelled = ctx.Err()
			break
		}
		c.WorkerPool.Submit(path)
	}
	results := c.WorkerPool.Stop()

	sort.Slice(results, func(i, j int) bool {
		return results[i].Source < results[j].Source
	})

	if cancelled != nil {
		return results, cancelled
	}

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(r.Source), r.Err))
		}
	}
	return results, errors.Join(errs...)
}
