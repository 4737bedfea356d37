package cluster

import (
	"math"
	"math/rand"
)

// kmeans runs K-Means clustering with cosine distance.
// Returns a slice of cluster assignments (one per input vector).
func kmeans(vectors [][]float32, k int, maxIterations int, rng *rand.Rand) []int {
	n := len(vectors)
	if n == 0 || k <= 0 {
		return nil
	}
	dim := len(vectors[0])

	centroids := kmeansppInit(vectors, k, rng)
	assignments := make([]int, n)

	for iter := 0; iter < maxIterations; iter++ {
		changed := false

		for i, v := range vectors {
			nearest := 0
			nearestDist := cosineDistance(v, centroids[0])
			for j := 1; j < k; j++ {
				d := cosineDistance(v, centroids[j])
				if d < nearestDist {
					nearestDist = d
					nearest = j
				}
			}
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed = true
			}
		}

		if !changed && iter > 0 {
			break
		}

		sums := make([][]float32, k)
		counts := make([]int, k)
		for j := range sums {
			sums[j] = make([]float32, dim)
		}
		for i, v := range vectors {
			c := assignments[i]
			counts[c]++
			for d := 0; d < dim; d++ {
				sums[c][d] += v[d]
			}
		}
		for j := 0; j < k; j++ {
			if counts[j] == 0 {
				continue
			}
			for d := 0; d < dim; d++ {
				sums[j][d] /= float32(counts[j])
			}
			centroids[j] = sums[j]
		}
	}

	return assignments
}

// kmeansppInit selects initial centroids using the K-Means++ rule.
func kmeansppInit(vectors [][]float32, k int, rng *rand.Rand) [][]float32 {
	n := len(vectors)
	centroids := make([][]float32, 0, k)
	centroids = append(centroids, vectors[rng.Intn(n)])

	for len(centroids) < k {
		dists := make([]float64, n)
		total := 0.0
		for i, v := range vectors {
			minDist := math.MaxFloat64
			for _, c := range centroids {
				if d := float64(cosineDistance(v, c)); d < minDist {
					minDist = d
				}
			}
			dists[i] = minDist * minDist
			total += dists[i]
		}

		r := rng.Float64() * total
		cumulative := 0.0
		chosen := 0
		for i, d := range dists {
			cumulative += d
			if d > 0 && cumulative >= r {
				chosen = i
				break
			}
		}
		centroids = append(centroids, vectors[chosen])
	}

	return centroids
}

// cosineDistance returns 1 - cosine_similarity between two vectors.
func cosineDistance(a, b []float32) float32 {
	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 1.0
	}
	sim := dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
	return 1.0 - sim
}
