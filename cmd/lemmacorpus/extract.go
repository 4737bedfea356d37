package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"lemmacorpus/internal/corpus"
	"lemmacorpus/internal/ingest"

	"github.com/gosuri/uiprogress"
)

func handleExtract(args []string) error {
	fs, cfgPath := newFlagSet("extract")
	workersPtr := fs.Int("workers", 0, "Number of workers (default from config)")
	progressPtr := fs.Bool("progress", false, "Show a progress bar")
	onlyPtr := fs.String("only", "", "Only convert manuscripts whose file name matches this glob (e.g. '{Gen,Exod}.xml')")
	if err := parse(fs, args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	srcDir, outDir := cfg.SourceDir, cfg.RecordsDir
	switch fs.NArg() {
	case 0:
	case 2:
		srcDir, outDir = fs.Arg(0), fs.Arg(1)
	default:
		return usagef("extract takes <srcDir> <outDir> or no arguments")
	}
	workers := cfg.Workers
	if *workersPtr > 0 {
		workers = *workersPtr
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal...")
		cancel()
	}()

	converter := ingest.NewConverter(workers, outDir)
	converter.Pattern = *onlyPtr
	stopProgress := func() {}
	if *progressPtr {
		sources, err := ingest.Sources(srcDir, converter.Pattern)
		if err != nil {
			return err
		}
		uiprogress.Start()
		stopProgress = uiprogress.Stop
		bar := uiprogress.AddBar(len(sources))
		bar.AppendCompleted()
		bar.PrependElapsed()
		var last atomic.Value
		last.Store("")
		bar.AppendFunc(func(b *uiprogress.Bar) string {
			return last.Load().(string)
		})
		converter.WorkerPool.OnResult = func(r ingest.Result) {
			last.Store(filepath.Base(r.Source))
			bar.Incr()
		}
	}

	start := time.Now()
	log.Printf("Extracting %s into %s with %d workers...", srcDir, outDir, workers)
	results, err := converter.Run(ctx, srcDir)
	stopProgress()
	verses := 0
	for _, r := range results {
		verses += r.Verses
	}
	log.Printf("Converted %d books (%d verses) in %v.", len(results), verses, time.Since(start))
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	return nil
}

func handleFlatten(args []string) error {
	fs, cfgPath := newFlagSet("flatten")
	canonicalPtr := fs.Bool("canonical", false, "Sort chapters and verses numerically instead of stored order")
	if err := parse(fs, args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	recordsDir, outFile := cfg.RecordsDir, cfg.CorpusFile
	switch fs.NArg() {
	case 0:
	case 2:
		recordsDir, outFile = fs.Arg(0), fs.Arg(1)
	default:
		return usagef("flatten takes <recordsDir> <outFile> or no arguments")
	}

	n, err := corpus.WriteFile(recordsDir, outFile, corpus.Options{Canonical: *canonicalPtr})
	if err != nil {
		return err
	}
	log.Printf("Wrote %d lines to %s", n, outFile)
	return nil
}
