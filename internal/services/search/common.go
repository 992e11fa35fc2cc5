package search

import (
	"math"
	"sort"
)

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns 0 for mismatched lengths or zero-magnitude vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// scored pairs an index with its similarity score
type scored struct {
	index int
	score float64
}

// topKIndices ranks candidate scores descending and returns the top k
func topKIndices(scores []scored, k int) []scored {
	sort.Slice(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})
	if k > 0 && len(scores) > k {
		scores = scores[:k]
	}
	return scores
}
