// Package cluster groups the verses of a book by the similarity of their
// embeddings.
package cluster

import (
	"fmt"
	"math/rand"

	"lemmacorpus/internal/embedding"
	"lemmacorpus/internal/lemma"
)

// VerseClusterer runs seeded K-Means over verse embeddings, so the same
// records and model always give the same grouping.
type VerseClusterer struct {
	Embedder      embedding.Embedder
	K             int // 0 picks roughly five verses per cluster
	MaxIterations int // 0 defaults to 50
	Seed          int64
}

// Name returns the key of cluster i.
func Name(i int) string {
	return fmt.Sprintf("cluster-%d", i)
}

// Cluster maps cluster names to the addresses of their verses, in the order
// the verses were given.
func (c *VerseClusterer) Cluster(verses []lemma.Verse) (map[string][]string, error) {
	if len(verses) == 0 {
		return nil, nil
	}

	k := c.K
	if k <= 0 {
		k = defaultK(len(verses))
	}
	if k > len(verses) {
		k = len(verses)
	}
	if k == 1 {
		ids := make([]string, len(verses))
		for i, v := range verses {
			ids[i] = v.ID
		}
		return map[string][]string{Name(0): ids}, nil
	}

	texts := make([]string, len(verses))
	for i, v := range verses {
		texts[i] = v.Record
	}
	vectors, err := c.Embedder.EmbedBatch(texts)
	if err != nil {
		return nil, fmt.Errorf("embedding for clustering failed: %w", err)
	}
	if len(vectors) != len(verses) {
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(verses), len(vectors))
	}

	maxIter := c.MaxIterations
	if maxIter <= 0 {
		maxIter = 50
	}
	assignments := kmeans(vectors, k, maxIter, rand.New(rand.NewSource(c.Seed)))

	clusters := make(map[string][]string)
	for i, idx := range assignments {
		key := Name(idx)
		clusters[key] = append(clusters[key], verses[i].ID)
	}
	return clusters, nil
}

func defaultK(n int) int {
	if n <= 3 {
		return 1
	}
	k := n / 5
	if k < 2 {
		k = 2
	}
	if k > n/2 {
		k = n / 2
	}
	return k
}
