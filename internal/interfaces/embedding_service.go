package interfaces

import (
	"context"

	"github.com/ternarybob/adhyayan/internal/models"
)

// EmbeddingService generates vector embeddings
type EmbeddingService interface {
	// Generate embedding for raw text
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// Generate and set embeddings for a paper's chunks
	EmbedChunks(ctx context.Context, chunks []*models.PaperChunk) error

	// Generate and set the summary embedding for a paper
	EmbedPaperSummary(ctx context.Context, paper *models.Paper) error

	// Generate query embedding (may have different prompt than document embedding)
	GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error)

	// Get model information
	ModelName() string
	Dimension() int

	// Check if service is available
	IsAvailable(ctx context.Context) bool
}
