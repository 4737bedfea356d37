package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"lemmacorpus/internal/catalog"
	"lemmacorpus/internal/graph"
	"lemmacorpus/internal/loader"
	"lemmacorpus/internal/query"
	"lemmacorpus/internal/storage"
)

func openEmitter(output, nodes, edges string) (storage.Emitter, error) {
	if nodes != "" || edges != "" {
		if nodes == "" || edges == "" {
			return nil, usagef("both -nodes and -edges must be provided for split output")
		}
		nodeFile, err := os.Create(nodes)
		if err != nil {
			return nil, fmt.Errorf("failed to create nodes file: %w", err)
		}
		edgeFile, err := os.Create(edges)
		if err != nil {
			nodeFile.Close()
			return nil, fmt.Errorf("failed to create edges file: %w", err)
		}
		return storage.NewSplitJSONLEmitter(nodeFile, edgeFile), nil
	}
	outFile, err := os.Create(output)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return storage.NewJSONLEmitter(outFile), nil
}

func handleGraph(args []string) error {
	fs, cfgPath := newFlagSet("graph")
	recordsPtr := fs.String("records", "", "Records directory (default from config)")
	outputPtr := fs.String("output", "graph.jsonl", "Output file path (combined)")
	nodesPtr := fs.String("nodes", "", "Output file path for nodes")
	edgesPtr := fs.String("edges", "", "Output file path for edges")
	if err := parse(fs, args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	if *recordsPtr != "" {
		cfg.RecordsDir = *recordsPtr
	}

	books, err := catalog.Open(cfg.RecordsDir)
	if err != nil {
		return err
	}
	stubs := fs.Args()
	if len(stubs) == 0 {
		stubs = books.Stubs()
	}

	emitter, err := openEmitter(*outputPtr, *nodesPtr, *edgesPtr)
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	totalNodes, totalEdges := 0, 0
	for _, stub := range stubs {
		index, err := books.Load(stub)
		if err != nil {
			emitter.Close()
			return err
		}
		nodes, edges := graph.BuildBookGraph(stub, index)

		// Lemma nodes are shared across books.
		kept := nodes[:0]
		for _, n := range nodes {
			if n.Label == graph.LabelLemma {
				if seen[n.ID] {
					continue
				}
				seen[n.ID] = true
			}
			kept = append(kept, n)
		}

		if err := storage.EmitGraph(emitter, kept, edges); err != nil {
			emitter.Close()
			return err
		}
		totalNodes += len(kept)
		totalEdges += len(edges)
	}
	if err := emitter.Close(); err != nil {
		return fmt.Errorf("failed to close graph output: %w", err)
	}

	log.Printf("Emitted %d nodes and %d edges for %d books", totalNodes, totalEdges, len(stubs))
	return nil
}

func readGraphFiles(paths ...string) ([]graph.Node, []graph.Edge, error) {
	var nodes []graph.Node
	var edges []graph.Edge
	for _, path := range paths {
		if path == "" {
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		n, e, err := storage.ReadJSONL(f)
		f.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		nodes = append(nodes, n...)
		edges = append(edges, e...)
	}
	return nodes, edges, nil
}

func handleLoad(args []string) error {
	fs, cfgPath := newFlagSet("load")
	inputPtr := fs.String("input", "graph.jsonl", "Input graph file (combined)")
	nodesPtr := fs.String("nodes", "", "Input file path for nodes")
	edgesPtr := fs.String("edges", "", "Input file path for edges")
	wipePtr := fs.Bool("wipe", false, "Delete all data before loading")
	dbPtr := fs.String("db", "", "Database name (default database when empty)")
	batchPtr := fs.Int("batch-size", loader.DefaultBatchSize, "Rows per UNWIND batch")
	if err := parse(fs, args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	if cfg.Neo4jURI == "" {
		return usagef("NEO4J_URI environment variable is not set")
	}

	paths := []string{*inputPtr}
	if *nodesPtr != "" || *edgesPtr != "" {
		paths = []string{*nodesPtr, *edgesPtr}
	}
	nodes, edges, err := readGraphFiles(paths...)
	if err != nil {
		return err
	}

	ctx := context.Background()
	driver, err := query.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer driver.Close(ctx)

	l := loader.NewNeo4jLoader(driver, *dbPtr)
	l.BatchSize = *batchPtr

	if *wipePtr {
		log.Println("Wiping database...")
		if err := l.Wipe(ctx); err != nil {
			return fmt.Errorf("failed to wipe database: %w", err)
		}
	}
	if err := l.Load(ctx, nodes, edges); err != nil {
		return err
	}
	log.Printf("Loaded %d nodes and %d edges", len(nodes), len(edges))
	return nil
}

func handleQuery(args []string) error {
	fs, cfgPath := newFlagSet("query")
	typePtr := fs.String("type", "", "Query type: books, verses, co-lemmas, following, node")
	targetPtr := fs.String("target", "", "Strong's number, verse address or node id")
	labelPtr := fs.String("label", graph.LabelVerse, "Node label for 'node'")
	limitPtr := fs.Int("limit", 10, "Result limit")
	depthPtr := fs.Int("depth", 1, "Number of verses for 'following'")
	if err := parse(fs, args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	switch *typePtr {
	case "books", "verses", "co-lemmas", "following", "node":
	default:
		return usagef("unknown query type: %q", *typePtr)
	}
	if cfg.Neo4jURI == "" {
		return usagef("NEO4J_URI environment variable is not set")
	}
	if *typePtr != "books" && *targetPtr == "" {
		return usagef("-target is required for '%s'", *typePtr)
	}
	if *typePtr == "node" && !graph.IsLabel(*labelPtr) {
		return usagef("unknown node label: %q", *labelPtr)
	}

	var provider query.GraphProvider
	provider, err = query.NewNeo4jProvider(cfg)
	if err != nil {
		return err
	}
	defer provider.Close()

	var result any
	switch *typePtr {
	case "books":
		result, err = provider.Books()
	case "verses":
		result, err = provider.VersesWithLemma(*targetPtr, *limitPtr)
	case "co-lemmas":
		result, err = provider.CoLemmas(*targetPtr, *limitPtr)
	case "following":
		result, err = provider.Following(*targetPtr, *depthPtr)
	case "node":
		result, err = provider.FindNode(*labelPtr, *targetPtr)
	}
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	return printJSON(result)
}
