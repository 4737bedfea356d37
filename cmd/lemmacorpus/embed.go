package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"lemmacorpus/internal/catalog"
	"lemmacorpus/internal/cluster"
	"lemmacorpus/internal/config"
	"lemmacorpus/internal/embedding"
	"lemmacorpus/internal/lemma"
)

// loadEmbedder loads the tokenizer and ONNX model named by cfg.
func loadEmbedder(cfg config.Config) (*embedding.VerseEmbedder, error) {
	tok, err := embedding.LoadHFTokenizer(cfg.TokenizerPath(), cfg.MaxSequenceLength)
	if err != nil {
		return nil, err
	}
	model, err := embedding.LoadONNXModel(cfg.ModelPath(), embedding.ONNXOptions{
		SharedLibrary: cfg.OnnxLibrary,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded model %s", cfg.ModelPath())
	return embedding.NewVerseEmbedder(tok, model), nil
}

func openBook(cfg config.Config, stub string) (*lemma.Index, error) {
	books, err := catalog.Open(cfg.RecordsDir)
	if err != nil {
		return nil, err
	}
	return books.Load(stub)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func handleEmbed(args []string) error {
	fs, cfgPath := newFlagSet("embed")
	recordsPtr := fs.String("records", "", "Records directory (default from config)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 3 {
		return usagef("embed takes <bookStub> <chapter> <verse>")
	}
	stub, chapter, verse := fs.Arg(0), fs.Arg(1), fs.Arg(2)

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	if *recordsPtr != "" {
		cfg.RecordsDir = *recordsPtr
	}

	index, err := openBook(cfg, stub)
	if err != nil {
		return err
	}
	v, ok := index.Verse(chapter, verse)
	if !ok {
		return usagef("no lemma record for %s %s:%s", stub, chapter, verse)
	}

	embedder, err := setupEmbedder(cfg)
	if err != nil {
		return err
	}
	defer embedder.Close()

	vec, err := embedder.Embed(v.Record)
	if err != nil {
		return fmt.Errorf("failed to embed %s: %w", v.ID, err)
	}
	out, err := json.Marshal(vec)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func handleVerses(args []string) error {
	fs, cfgPath := newFlagSet("verses")
	recordsPtr := fs.String("records", "", "Records directory (default from config)")
	canonicalPtr := fs.Bool("canonical", false, "Sort chapters and verses numerically")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("verses takes <bookStub>")
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	if *recordsPtr != "" {
		cfg.RecordsDir = *recordsPtr
	}

	index, err := openBook(cfg, fs.Arg(0))
	if err != nil {
		return err
	}
	if *canonicalPtr {
		index = index.Canonical()
	}
	index.Each(func(_ string, v lemma.Verse) {
		fmt.Printf("%s\t%s\n", v.ID, v.Record)
	})
	return nil
}

func handleCluster(args []string) error {
	fs, cfgPath := newFlagSet("cluster")
	recordsPtr := fs.String("records", "", "Records directory (default from config)")
	kPtr := fs.Int("k", 0, "Number of clusters (0 picks about five verses per cluster)")
	seedPtr := fs.Int64("seed", 1, "Random seed for centroid selection")
	iterPtr := fs.Int("iterations", 50, "Maximum K-Means iterations")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("cluster takes <bookStub>")
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	if *recordsPtr != "" {
		cfg.RecordsDir = *recordsPtr
	}

	index, err := openBook(cfg, fs.Arg(0))
	if err != nil {
		return err
	}
	var verses []lemma.Verse
	index.Each(func(_ string, v lemma.Verse) {
		verses = append(verses, v)
	})

	embedder, err := setupEmbedder(cfg)
	if err != nil {
		return err
	}
	defer embedder.Close()

	clusterer := &cluster.VerseClusterer{
		Embedder:      embedder,
		K:             *kPtr,
		MaxIterations: *iterPtr,
		Seed:          *seedPtr,
	}
	clusters, err := clusterer.Cluster(verses)
	if err != nil {
		return err
	}
	log.Printf("Grouped %d verses into %d clusters", len(verses), len(clusters))
	return printJSON(clusters)
}
