package storage

import (
	"fmt"

	"lemmacorpus/internal/graph"
)

// Emitter receives lemma graph nodes and edges.
type Emitter interface {
	EmitNode(node *graph.Node) error
	EmitEdge(edge *graph.Edge) error
	Close() error
}

// EmitGraph writes nodes then edges to e, stopping at the first failure.
func EmitGraph(e Emitter, nodes []graph.Node, edges []graph.Edge) error {
	for i := range nodes {
		if err := e.EmitNode(&nodes[i]); err != nil {
			return fmt.Errorf("failed to emit node %s: %w", nodes[i].ID, err)
		}
	}
	for i := range edges {
		if err := e.EmitEdge(&edges[i]); err != nil {
			return fmt.Errorf("failed to emit edge %s-[%s]->%s: %w", edges[i].SourceID, edges[i].Type, edges[i].TargetID, err)
		}
	}
	return nil
}
