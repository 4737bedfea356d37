package loader

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"lemmacorpus/internal/graph"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// DefaultBatchSize bounds the rows sent in one UNWIND.
const DefaultBatchSize = 1000

// endpoints names the labels an edge type connects, so edge queries can
// match through the id constraints instead of scanning every node.
var endpoints = map[string][2]string{
	graph.EdgeInBook:   {graph.LabelVerse, graph.LabelBook},
	graph.EdgeHasLemma: {graph.LabelVerse, graph.LabelLemma},
	graph.EdgeNext:     {graph.LabelVerse, graph.LabelVerse},
}

// Neo4jLoader handles batch loading of the lemma graph into Neo4j.
type Neo4jLoader struct {
	Driver    neo4j.DriverWithContext
	DBName    string
	BatchSize int
}

// NewNeo4jLoader creates a new loader instance.
func NewNeo4jLoader(driver neo4j.DriverWithContext, dbName string) *Neo4jLoader {
	return &Neo4jLoader{
		Driver:    driver,
		DBName:    dbName,
		BatchSize: DefaultBatchSize,
	}
}

// Load applies constraints, then merges nodes before edges.
func (l *Neo4jLoader) Load(ctx context.Context, nodes []graph.Node, edges []graph.Edge) error {
	if err := l.ApplyConstraints(ctx); err != nil {
		return err
	}
	if err := l.BatchLoadNodes(ctx, nodes); err != nil {
		return err
	}
	return l.BatchLoadEdges(ctx, edges)
}

// BatchLoadNodes merges nodes by id, one UNWIND per label and chunk.
func (l *Neo4jLoader) BatchLoadNodes(ctx context.Context, nodes []graph.Node) error {
	if len(nodes) == 0 {
		return nil
	}

	batches := groupNodesByLabel(nodes)

	session := l.Driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: l.DBName})
	defer session.Close(ctx)

	for _, label := range sortedKeys(batches) {
		query := buildNodeQuery(label)
		for _, chunk := range chunks(batches[label], l.BatchSize) {
			_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
				return tx.Run(ctx, query, map[string]any{"batch": chunk})
			})
			if err != nil {
				return fmt.Errorf("failed to load nodes for label %s: %w", label, err)
			}
		}
	}

	return nil
}

// BatchLoadEdges merges edges between already loaded nodes.
func (l *Neo4jLoader) BatchLoadEdges(ctx context.Context, edges []graph.Edge) error {
	if len(edges) == 0 {
		return nil
	}

	batches := groupEdgesByType(edges)

	session := l.Driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: l.DBName})
	defer session.Close(ctx)

	for _, relType := range sortedKeys(batches) {
		query := buildEdgeQuery(relType)
		for _, chunk := range chunks(batches[relType], l.BatchSize) {
			_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
				return tx.Run(ctx, query, map[string]any{"batch": chunk})
			})
			if err != nil {
				return fmt.Errorf("failed to load edges for type %s: %w", relType, err)
			}
		}
	}

	return nil
}

// Wipe deletes all data from the database.
func (l *Neo4jLoader) Wipe(ctx context.Context) error {
	session := l.Driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: l.DBName})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, buildWipeQuery(), nil)
	})
	return err
}

// ApplyConstraints creates id uniqueness constraints and the strongs index.
func (l *Neo4jLoader) ApplyConstraints(ctx context.Context) error {
	session := l.Driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: l.DBName})
	defer session.Close(ctx)

	for _, query := range constraintQueries() {
		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			return tx.Run(ctx, query, nil)
		})
		if err != nil {
			return fmt.Errorf("failed to apply constraint '%s': %w", query, err)
		}
	}
	return nil
}

func constraintQueries() []string {
	return []string{
		fmt.Sprintf("CREATE CONSTRAINT IF NOT EXISTS FOR (n:%s) REQUIRE n.id IS UNIQUE", graph.LabelBook),
		fmt.Sprintf("CREATE CONSTRAINT IF NOT EXISTS FOR (n:%s) REQUIRE n.id IS UNIQUE", graph.LabelVerse),
		fmt.Sprintf("CREATE CONSTRAINT IF NOT EXISTS FOR (n:%s) REQUIRE n.id IS UNIQUE", graph.LabelLemma),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS FOR (n:%s) ON (n.strongs)", graph.LabelLemma),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS FOR (n:%s) ON (n.book)", graph.LabelVerse),
	}
}

func groupNodesByLabel(nodes []graph.Node) map[string][]map[string]any {
	batches := make(map[string][]map[string]any)
	for _, n := range nodes {
		label := n.Label
		if label == "" {
			label = "Generic"
		}

		props := make(map[string]any, len(n.Properties)+1)
		for k, v := range n.Properties {
			props[k] = v
		}
		props["id"] = n.ID

		batches[label] = append(batches[label], props)
	}
	return batches
}

func buildNodeQuery(label string) string {
	return fmt.Sprintf(`
			UNWIND $batch AS row
			MERGE (n:%s {id: row.id})
			SET n += row
		`, sanitizeLabel(label))
}

func groupEdgesByType(edges []graph.Edge) map[string][]map[string]any {
	batches := make(map[string][]map[string]any)
	for _, e := range edges {
		relType := e.Type
		if relType == "" {
			relType = "RELATED_TO"
		}

		row := map[string]any{
			"sourceId": e.SourceID,
			"targetId": e.TargetID,
		}
		batches[relType] = append(batches[relType], row)
	}
	return batches
}

func buildEdgeQuery(relType string) string {
	source, target := "", ""
	if ends, ok := endpoints[relType]; ok {
		source, target = ":"+ends[0], ":"+ends[1]
	}
	return fmt.Sprintf(`
			UNWIND $batch AS row
			MATCH (source%s {id: row.sourceId})
			MATCH (target%s {id: row.targetId})
			MERGE (source)-[r:%s]->(target)
		`, source, target, sanitizeLabel(relType))
}

func buildWipeQuery() string {
	return "MATCH (n) DETACH DELETE n"
}

func chunks(rows []map[string]any, size int) [][]map[string]any {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var out [][]map[string]any
	for len(rows) > size {
		out = append(out, rows[:size])
		rows = rows[size:]
	}
	if len(rows) > 0 {
		out = append(out, rows)
	}
	return out
}

func sortedKeys(m map[string][]map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sanitizeLabel(label string) string {
	return strings.ReplaceAll(label, "`", "")
}
