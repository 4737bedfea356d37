package graph

import (
	"strings"

	"lemmacorpus/internal/lemma"
)

// LemmaID is the node id of a Strong's number.
func LemmaID(strongs string) string {
	return "lemma:" + strongs
}

// BookID is the node id of a book stub.
func BookID(stub string) string {
	return "book:" + stub
}

// BuildBookGraph turns one book index into Book, Verse and Lemma nodes.
// Verses point at their book (IN_BOOK), at every distinct lemma they
// contain (HAS_LEMMA) and at the following verse in stored order (NEXT).
// Lemma nodes are returned once per book; loaders MERGE them across books.
func BuildBookGraph(stub string, index *lemma.Index) ([]Node, []Edge) {
	book := Node{
		ID:    BookID(stub),
		Label: LabelBook,
		Properties: map[string]interface{}{
			"name":     stub,
			"chapters": len(index.Chapters),
			"verses":   index.Len(),
		},
	}

	nodes := []Node{book}
	var edges []Edge
	seenLemmas := make(map[string]bool)
	position := 0
	prev := ""

	index.Each(func(chapter string, v lemma.Verse) {
		nodes = append(nodes, Node{
			ID:    v.ID,
			Label: LabelVerse,
			Properties: map[string]interface{}{
				"book":     stub,
				"chapter":  chapter,
				"record":   v.Record,
				"position": position,
			},
		})
		position++

		edges = append(edges, Edge{SourceID: v.ID, TargetID: book.ID, Type: EdgeInBook})
		if prev != "" {
			edges = append(edges, Edge{SourceID: prev, TargetID: v.ID, Type: EdgeNext})
		}
		prev = v.ID

		inVerse := make(map[string]bool)
		for _, strongs := range strings.Fields(v.Record) {
			if !seenLemmas[strongs] {
				seenLemmas[strongs] = true
				nodes = append(nodes, Node{
					ID:         LemmaID(strongs),
					Label:      LabelLemma,
					Properties: map[string]interface{}{"strongs": strongs},
				})
			}
			if !inVerse[strongs] {
				inVerse[strongs] = true
				edges = append(edges, Edge{SourceID: v.ID, TargetID: LemmaID(strongs), Type: EdgeHasLemma})
			}
		}
	})

	return nodes, edges
}
