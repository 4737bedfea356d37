package query

import (
	"errors"
	"os"
	"strings"
	"testing"

	"lemmacorpus/internal/config"
	"lemmacorpus/internal/graph"
	"lemmacorpus/internal/lemma"
	"lemmacorpus/internal/loader"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

func TestBuildVersesWithLemmaQuery(t *testing.T) {
	query := buildVersesWithLemmaQuery()
	if !strings.Contains(query, "MATCH (v:Verse)-[:HAS_LEMMA]->(:Lemma {strongs: $strongs})") {
		t.Errorf("Unexpected match clause: %s", query)
	}
	if !strings.Contains(query, "LIMIT $limit") {
		t.Error("Missing LIMIT clause")
	}
}

func TestBuildCoLemmasQuery(t *testing.T) {
	query := buildCoLemmasQuery()
	if !strings.Contains(query, "(:Lemma {strongs: $strongs})<-[:HAS_LEMMA]-(v:Verse)-[:HAS_LEMMA]->(other:Lemma)") {
		t.Errorf("Unexpected match clause: %s", query)
	}
	if !strings.Contains(query, "count(DISTINCT v) AS verses") {
		t.Error("Missing verse count")
	}
}

func TestBuildFollowingQuery(t *testing.T) {
	query := buildFollowingQuery(3)
	if !strings.Contains(query, "(:Verse {id: $id})-[:NEXT*1..3]->(v:Verse)") {
		t.Errorf("Unexpected match clause: %s", query)
	}
}

func TestBuildFindNodeQuery(t *testing.T) {
	query := buildFindNodeQuery(graph.LabelBook)
	if !strings.Contains(query, "MATCH (n:Book {id: $id})") {
		t.Errorf("Unexpected match clause: %s", query)
	}
}

func TestFindNode_RejectsUnknownLabel(t *testing.T) {
	p := &Neo4jProvider{}
	for _, label := range []string{"Function", "Verse) DETACH DELETE n //", ""} {
		if _, err := p.FindNode(label, "verse:Gen.1.1"); !errors.Is(err, ErrUnknownLabel) {
			t.Errorf("FindNode(%q): expected ErrUnknownLabel, got %v", label, err)
		}
	}
}

func getProvider(t *testing.T) *Neo4jProvider {
	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("NEO4J_URI not set, skipping integration test")
	}

	cfg := config.Config{
		Neo4jURI:      uri,
		Neo4jUser:     os.Getenv("NEO4J_USER"),
		Neo4jPassword: os.Getenv("NEO4J_PASSWORD"),
	}

	provider, err := NewNeo4jProvider(cfg)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	return provider
}

const testBook = "ZzTest"

func cleanup(t *testing.T, p *Neo4jProvider) {
	_, err := neo4j.ExecuteQuery(p.ctx, p.driver, `
		MATCH (n) WHERE n.book = $book OR n.id = $bookId OR n.strongs IN ['99901', '99902', '99903'] DETACH DELETE n
	`, map[string]any{"book": testBook, "bookId": graph.BookID(testBook)}, neo4j.EagerResultTransformer)
	if err != nil {
		t.Logf("Failed to cleanup: %v", err)
	}
}

func loadFixture(t *testing.T, p *Neo4jProvider) {
	index := &lemma.Index{Chapters: []lemma.Chapter{
		{Key: "1", Verses: []lemma.Verse{
			{ID: "ZzTest.1.1", Record: "99901 99902"},
			{ID: "ZzTest.1.2", Record: "99901 99903 99902"},
			{ID: "ZzTest.1.3", Record: "99903"},
		}},
	}}
	nodes, edges := graph.BuildBookGraph(testBook, index)
	if err := loader.NewNeo4jLoader(p.driver, "").Load(p.ctx, nodes, edges); err != nil {
		t.Fatalf("Failed to load fixture: %v", err)
	}
}

func TestNeo4jConnection(t *testing.T) {
	p := getProvider(t)
	defer p.Close()
}

func TestVersesWithLemma(t *testing.T) {
	p := getProvider(t)
	defer p.Close()
	defer cleanup(t, p)
	loadFixture(t, p)

	verses, err := p.VersesWithLemma("99901", 10)
	if err != nil {
		t.Fatalf("VersesWithLemma failed: %v", err)
	}
	if len(verses) != 2 || verses[0].ID != "ZzTest.1.1" || verses[1].ID != "ZzTest.1.2" {
		t.Errorf("Expected [ZzTest.1.1 ZzTest.1.2], got %+v", verses)
	}
	if verses[0].Record != "99901 99902" || verses[0].Book != testBook {
		t.Errorf("Unexpected verse: %+v", verses[0])
	}
}

func TestCoLemmas(t *testing.T) {
	p := getProvider(t)
	defer p.Close()
	defer cleanup(t, p)
	loadFixture(t, p)

	counts, err := p.CoLemmas("99901", 10)
	if err != nil {
		t.Fatalf("CoLemmas failed: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("Expected 2 co-occurring lemmas, got %+v", counts)
	}
	if counts[0].Strongs != "99902" || counts[0].Verses != 2 {
		t.Errorf("Expected 99902 in 2 verses first, got %+v", counts[0])
	}
	if counts[1].Strongs != "99903" || counts[1].Verses != 1 {
		t.Errorf("Expected 99903 in 1 verse, got %+v", counts[1])
	}
}

func TestFollowing(t *testing.T) {
	p := getProvider(t)
	defer p.Close()
	defer cleanup(t, p)
	loadFixture(t, p)

	verses, err := p.Following("ZzTest.1.1", 2)
	if err != nil {
		t.Fatalf("Following failed: %v", err)
	}
	if len(verses) != 2 || verses[0].ID != "ZzTest.1.2" || verses[1].ID != "ZzTest.1.3" {
		t.Errorf("Expected [ZzTest.1.2 ZzTest.1.3], got %+v", verses)
	}
}

func TestFindNodeAndBooks(t *testing.T) {
	p := getProvider(t)
	defer p.Close()
	defer cleanup(t, p)
	loadFixture(t, p)

	node, err := p.FindNode(graph.LabelBook, graph.BookID(testBook))
	if err != nil {
		t.Fatalf("FindNode failed: %v", err)
	}
	if node == nil || node.Properties["name"] != testBook {
		t.Fatalf("Expected book node, got %+v", node)
	}

	missing, err := p.FindNode(graph.LabelBook, "book:Nope")
	if err != nil || missing != nil {
		t.Errorf("Expected no node, got %+v, %v", missing, err)
	}

	books, err := p.Books()
	if err != nil {
		t.Fatalf("Books failed: %v", err)
	}
	found := false
	for _, b := range books {
		if b.Name == testBook {
			found = true
			if b.Verses != 3 || b.Chapters != 1 {
				t.Errorf("Unexpected summary: %+v", b)
			}
		}
	}
	if !found {
		t.Error("Expected fixture book in Books()")
	}
}
