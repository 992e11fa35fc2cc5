package search

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        []float32
		b        []float32
		expected float64
	}{
		{"identical vectors", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal vectors", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite vectors", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"zero vector", []float32{0, 0, 0}, []float32{1, 2, 3}, 0.0},
		{"empty vectors", nil, nil, 0.0},
		{"mismatched lengths", []float32{1, 2}, []float32{1, 2, 3}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("CosineSimilarity(%v, %v) = %f, want %f", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestCosineSimilarityScaleInvariant(t *testing.T) {
	a := []float32{0.5, 0.25, 0.1}
	b := []float32{1.0, 0.5, 0.2}

	got := CosineSimilarity(a, b)
	if math.Abs(got-1.0) > 1e-6 {
		t.Errorf("scaled vectors should have similarity 1.0, got %f", got)
	}
}

func TestTopKIndices(t *testing.T) {
	scores := []scored{
		{index: 0, score: 0.2},
		{index: 1, score: 0.9},
		{index: 2, score: 0.5},
		{index: 3, score: 0.7},
	}

	top := topKIndices(scores, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 results, got %d", len(top))
	}
	if top[0].index != 1 || top[1].index != 3 {
		t.Errorf("unexpected ranking: %+v", top)
	}

	all := topKIndices(scores, 0)
	if len(all) != 4 {
		t.Errorf("k=0 should return all results, got %d", len(all))
	}
}
