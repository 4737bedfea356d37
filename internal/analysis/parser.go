package analysis

import "lemmacorpus/internal/lemma"

// Extractor turns one manuscript document into a book lemma index.
type Extractor interface {
	Extract(name string, content []byte) (*lemma.Index, error)
}

var extractors = make(map[string]Extractor)

// RegisterExtractor registers an extractor for a file extension (e.g., ".xml").
func RegisterExtractor(ext string, e Extractor) {
	extractors[ext] = e
}

// GetExtractor retrieves the extractor for the given extension.
func GetExtractor(ext string) (Extractor, bool) {
	e, ok := extractors[ext]
	return e, ok
}
