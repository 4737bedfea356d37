package query

import (
	"context"
	"errors"
	"fmt"

	"lemmacorpus/internal/config"
	"lemmacorpus/internal/graph"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Connect opens a driver for cfg and verifies connectivity.
func Connect(ctx context.Context, cfg config.Config) (neo4j.DriverWithContext, error) {
	if cfg.Neo4jURI == "" {
		return nil, fmt.Errorf("NEO4J_URI is not set")
	}
	auth := neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, "")

	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify connectivity to neo4j: %w", err)
	}
	return driver, nil
}

// ErrUnknownLabel is returned for a node label outside the lemma graph schema.
var ErrUnknownLabel = errors.New("unknown node label")

var _ GraphProvider = (*Neo4jProvider)(nil)

// Neo4jProvider implements GraphProvider using the official Neo4j Go driver.
type Neo4jProvider struct {
	driver neo4j.DriverWithContext
	ctx    context.Context
}

// NewNeo4jProvider creates a new connection to Neo4j.
func NewNeo4jProvider(cfg config.Config) (*Neo4jProvider, error) {
	ctx := context.Background()
	driver, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Neo4jProvider{
		driver: driver,
		ctx:    ctx,
	}, nil
}

// Close closes the Neo4j driver connection.
func (p *Neo4jProvider) Close() error {
	return p.driver.Close(p.ctx)
}

// FindNode returns the node with the given label and id, or nil.
func (p *Neo4jProvider) FindNode(label string, id string) (*graph.Node, error) {
	if !graph.IsLabel(label) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	result, err := neo4j.ExecuteQuery(p.ctx, p.driver, buildFindNodeQuery(label), map[string]any{
		"id": id,
	}, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, fmt.Errorf("failed to find node: %w", err)
	}
	if len(result.Records) == 0 {
		return nil, nil
	}

	props, _, err := neo4j.GetRecordValue[map[string]any](result.Records[0], "props")
	if err != nil {
		return nil, fmt.Errorf("failed to read node properties: %w", err)
	}
	node := &graph.Node{ID: id, Label: label, Properties: make(map[string]any)}
	for k, v := range props {
		if k != "id" {
			node.Properties[k] = v
		}
	}
	return node, nil
}

// Books lists the loaded books by name.
func (p *Neo4jProvider) Books() ([]*BookSummary, error) {
	result, err := neo4j.ExecuteQuery(p.ctx, p.driver, buildBooksQuery(), nil, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	books := make([]*BookSummary, 0, len(result.Records))
	for _, record := range result.Records {
		name, _, err := neo4j.GetRecordValue[string](record, "name")
		if err != nil {
			continue
		}
		chapters, _, _ := neo4j.GetRecordValue[int64](record, "chapters")
		verses, _, _ := neo4j.GetRecordValue[int64](record, "verses")
		books = append(books, &BookSummary{Name: name, Chapters: chapters, Verses: verses})
	}
	return books, nil
}

// VersesWithLemma returns verses containing the Strong's number.
func (p *Neo4jProvider) VersesWithLemma(strongs string, limit int) ([]*VerseResult, error) {
	result, err := neo4j.ExecuteQuery(p.ctx, p.driver, buildVersesWithLemmaQuery(), map[string]any{
		"strongs": strongs,
		"limit":   limit,
	}, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, fmt.Errorf("failed to execute VersesWithLemma query: %w", err)
	}
	return verseResults(result.Records), nil
}

// CoLemmas ranks lemmas by the number of verses they share with strongs.
func (p *Neo4jProvider) CoLemmas(strongs string, limit int) ([]*LemmaCount, error) {
	result, err := neo4j.ExecuteQuery(p.ctx, p.driver, buildCoLemmasQuery(), map[string]any{
		"strongs": strongs,
		"limit":   limit,
	}, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, fmt.Errorf("failed to execute CoLemmas query: %w", err)
	}

	counts := make([]*LemmaCount, 0, len(result.Records))
	for _, record := range result.Records {
		s, _, err := neo4j.GetRecordValue[string](record, "strongs")
		if err != nil {
			continue
		}
		n, _, _ := neo4j.GetRecordValue[int64](record, "verses")
		counts = append(counts, &LemmaCount{Strongs: s, Verses: n})
	}
	return counts, nil
}

// Following walks NEXT edges up to depth verses after verseID.
func (p *Neo4jProvider) Following(verseID string, depth int) ([]*VerseResult, error) {
	if depth < 1 {
		depth = 1
	}
	result, err := neo4j.ExecuteQuery(p.ctx, p.driver, buildFollowingQuery(depth), map[string]any{
		"id": verseID,
	}, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, fmt.Errorf("failed to execute Following query: %w", err)
	}
	return verseResults(result.Records), nil
}

func verseResults(records []*neo4j.Record) []*VerseResult {
	verses := make([]*VerseResult, 0, len(records))
	for _, record := range records {
		id, _, err := neo4j.GetRecordValue[string](record, "id")
		if err != nil {
			continue
		}
		book, _, _ := neo4j.GetRecordValue[string](record, "book")
		rec, _, _ := neo4j.GetRecordValue[string](record, "record")
		verses = append(verses, &VerseResult{ID: id, Book: book, Record: rec})
	}
	return verses
}

func buildFindNodeQuery(label string) string {
	return fmt.Sprintf(`
		MATCH (n:%s {id: $id})
		RETURN properties(n) AS props
		LIMIT 1
	`, label)
}

func buildBooksQuery() string {
	return fmt.Sprintf(`
		MATCH (b:%s)
		RETURN b.name AS name, b.chapters AS chapters, b.verses AS verses
		ORDER BY name
	`, graph.LabelBook)
}

func buildVersesWithLemmaQuery() string {
	return fmt.Sprintf(`
		MATCH (v:%s)-[:%s]->(:%s {strongs: $strongs})
		RETURN v.id AS id, v.book AS book, v.record AS record
		ORDER BY v.book, v.position
		LIMIT $limit
	`, graph.LabelVerse, graph.EdgeHasLemma, graph.LabelLemma)
}

func buildCoLemmasQuery() string {
	return fmt.Sprintf(`
		MATCH (:%[3]s {strongs: $strongs})<-[:%[2]s]-(v:%[1]s)-[:%[2]s]->(other:%[3]s)
		WHERE other.strongs <> $strongs
		RETURN other.strongs AS strongs, count(DISTINCT v) AS verses
		ORDER BY verses DESC, strongs
		LIMIT $limit
	`, graph.LabelVerse, graph.EdgeHasLemma, graph.LabelLemma)
}

func buildFollowingQuery(depth int) string {
	return fmt.Sprintf(`
		MATCH path = (:%[1]s {id: $id})-[:%[2]s*1..%[3]d]->(v:%[1]s)
		RETURN v.id AS id, v.book AS book, v.record AS record
		ORDER BY length(path)
	`, graph.LabelVerse, graph.EdgeNext, depth)
}
