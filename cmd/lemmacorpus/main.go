package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"lemmacorpus/internal/catalog"
	"lemmacorpus/internal/config"
)

const (
	exitFatal = 1
	exitUsage = 2
)

// usageError marks a bad invocation; it exits with exitUsage.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

var commands = map[string]func(args []string) error{
	"extract": handleExtract,
	"flatten": handleFlatten,
	"embed":   handleEmbed,
	"verses":  handleVerses,
	"cluster": handleCluster,
	"graph":   handleGraph,
	"load":    handleLoad,
	"query":   handleQuery,
}

func printUsage() {
	fmt.Println("Usage: lemmacorpus <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  extract [srcDir outDir]          convert OSIS manuscripts into lemma records")
	fmt.Println("  flatten [recordsDir outFile]     write the training corpus, one verse per line")
	fmt.Println("  embed <book> <chapter> <verse>   print the embedding of one verse")
	fmt.Println("  verses <book>                    list the verse records of a book")
	fmt.Println("  cluster <book>                   group the verses of a book by embedding")
	fmt.Println("  graph [book...]                  export the lemma graph as JSONL")
	fmt.Println("  load                             load a JSONL lemma graph into Neo4j")
	fmt.Println("  query                            query a loaded lemma graph")
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitUsage)
	}

	handler, ok := commands[os.Args[1]]
	if !ok {
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(exitUsage)
	}

	if err := handler(os.Args[2:]); err != nil {
		os.Exit(report(err))
	}
}

// report prints err and returns the exit code for it.
func report(err error) int {
	var usage *usageError
	var unknown *catalog.UnknownBookError
	switch {
	case errors.Is(err, flag.ErrHelp):
		return exitUsage
	case errors.As(err, &usage):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	case errors.As(err, &unknown):
		fmt.Fprintf(os.Stderr, "Error: book %q not recognized. Acceptable book names are:\n", unknown.Stub)
		fmt.Fprintln(os.Stderr, unknown.Available)
		return exitUsage
	default:
		log.Printf("Error: %v", err)
		return exitFatal
	}
}

// newFlagSet returns a flag set with the shared -config flag.
func newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to YAML config file (optional)")
	return fs, cfgPath
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return &usageError{msg: err.Error()}
	}
	return nil
}

func loadConfig(path string) (config.Config, error) {
	if err := config.LoadEnv(); err != nil {
		log.Printf("Warning: failed to load .env: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
