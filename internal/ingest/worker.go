package ingest

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"lemmacorpus/internal/analysis"
	"lemmacorpus/internal/storage"
)

// Result reports the conversion of one manuscript.
type Result struct {
	Source   string
	Output   string
	Chapters int
	Verses   int
	Err      error
}

type WorkerPool struct {
	workers int
	outDir  string
	jobChan chan string
	wg      sync.WaitGroup

	mu      sync.Mutex
	results []Result

	// OnResult, when set, is called once per finished document. Calls are
	// serialized.
	OnResult func(Result)
}

func NewWorkerPool(workers int, outDir string) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	return &WorkerPool{
		workers: workers,
		outDir:  outDir,
		jobChan: make(chan string, 100),
	}
}

func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for path := range wp.jobChan {
		res := wp.processFile(path)
		if res.Err != nil {
			log.Printf("Error processing file %s: %v", path, res.Err)
		}
		wp.record(res)
	}
}

func (wp *WorkerPool) record(res Result) {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	wp.results = append(wp.results, res)
	if wp.OnResult != nil {
		wp.OnResult(res)
	}
}

// OutputPath names the record of a source document after its stem.
func OutputPath(outDir, source string) string {
	name := filepath.Base(source)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(outDir, stem+storage.IndexExt)
}

func (wp *WorkerPool) processFile(path string) Result {
	res := Result{Source: path, Output: OutputPath(wp.outDir, path)}

	extractor, ok := analysis.GetExtractor(filepath.Ext(path))
	if !ok {
		res.Err = fmt.Errorf("no extractor for %s", filepath.Ext(path))
		return res
	}

	content, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("failed to read file: %w", err)
		return res
	}

	index, err := extractor.Extract(filepath.Base(path), content)
	if err != nil {
		res.Err = fmt.Errorf("failed to extract lemmas: %w", err)
		return res
	}

	if err := storage.SaveIndex(index, res.Output); err != nil {
		res.Err = err
		return res
	}

	res.Chapters = len(index.Chapters)
	res.Verses = index.Len()
	return res
}

func (wp *WorkerPool) Submit(filePath string) {
	wp.jobChan <- filePath
}

// Stop waits for submitted documents and returns their results in
// completion order.
func (wp *WorkerPool) Stop() []Result {
	close(wp.jobChan)
	wp.wg.Wait()

	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.results
}
