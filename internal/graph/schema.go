package graph

// Node labels of the lemma graph.
const (
	LabelBook  = "Book"
	LabelVerse = "Verse"
	LabelLemma = "Lemma"
)

// IsLabel reports whether label is one of the node labels above.
func IsLabel(label string) bool {
	switch label {
	case LabelBook, LabelVerse, LabelLemma:
		return true
	}
	return false
}

// Edge types of the lemma graph.
const (
	EdgeInBook   = "IN_BOOK"
	EdgeHasLemma = "HAS_LEMMA"
	EdgeNext     = "NEXT"
)

type Node struct {
	ID         string                 `json:"id"`
	Label      string                 `json:"label"`
	Properties map[string]interface{} `json:"properties"`
}

type Edge struct {
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
	Type     string `json:"type"`
}
