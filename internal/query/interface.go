package query

import "lemmacorpus/internal/graph"

// VerseResult is a verse node matched by a lemma query.
type VerseResult struct {
	ID     string `json:"id"`
	Book   string `json:"book"`
	Record string `json:"record"`
}

// LemmaCount is a lemma with the number of verses it shares with the target.
type LemmaCount struct {
	Strongs string `json:"strongs"`
	Verses  int64  `json:"verses"`
}

// BookSummary describes a loaded book.
type BookSummary struct {
	Name     string `json:"name"`
	Chapters int64  `json:"chapters"`
	Verses   int64  `json:"verses"`
}

// GraphProvider defines the read side of a loaded lemma graph.
type GraphProvider interface {
	Close() error

	FindNode(label string, id string) (*graph.Node, error)
	Books() ([]*BookSummary, error)
	VersesWithLemma(strongs string, limit int) ([]*VerseResult, error)
	CoLemmas(strongs string, limit int) ([]*LemmaCount, error)
	Following(verseID string, depth int) ([]*VerseResult, error)
}
