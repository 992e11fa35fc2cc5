package embeddings

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/adhyayan/internal/models"
	"github.com/ternarybob/arbor"
)

// Service implements EmbeddingService interface
type Service struct {
	llmService interfaces.LLMService
	modelName  string
	logger     arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.EmbeddingService = (*Service)(nil)

// NewService creates a new embedding service
func NewService(llmService interfaces.LLMService, modelName string, logger arbor.ILogger) interfaces.EmbeddingService {
	return &Service{
		llmService: llmService,
		modelName:  modelName,
		logger:     logger,
	}
}

// GenerateEmbedding creates a vector embedding for text
func (s *Service) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	start := time.Now()
	embedding, err := s.llmService.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if len(embedding) == 0 {
		return nil, fmt.Errorf("LLM service returned empty embedding")
	}

	s.logger.Debug().
		Int("embedding_dim", len(embedding)).
		Dur("duration", time.Since(start)).
		Msg("Generated embedding")

	return embedding, nil
}

// EmbedChunks generates and sets embeddings for a paper's chunks.
// Chunks with empty text are skipped and keep a nil embedding.
func (s *Service) EmbedChunks(ctx context.Context, chunks []*models.PaperChunk) error {
	for i, chunk := range chunks {
		if chunk.Text == "" {
			continue
		}

		embedding, err := s.GenerateEmbedding(ctx, chunk.Text)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("chunk_id", chunk.ID).
				Int("index", i).
				Msg("Failed to embed chunk")
			return err
		}
		chunk.Embedding = embedding
	}

	return nil
}

// EmbedPaperSummary generates and sets the summary embedding for a paper
func (s *Service) EmbedPaperSummary(ctx context.Context, paper *models.Paper) error {
	if paper.Summary == "" {
		return fmt.Errorf("paper %s has no summary to embed", paper.ID)
	}

	embedding, err := s.GenerateEmbedding(ctx, paper.Summary)
	if err != nil {
		return fmt.Errorf("failed to embed paper summary: %w", err)
	}

	paper.SummaryEmbedding = embedding

	s.logger.Debug().
		Str("paper_id", paper.ID).
		Int("embedding_dim", len(embedding)).
		Msg("Generated summary embedding")

	return nil
}

// GenerateQueryEmbedding generates embedding for search query
func (s *Service) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	return s.GenerateEmbedding(ctx, query)
}

// ModelName returns the embedding model name
func (s *Service) ModelName() string {
	return s.modelName
}

// Dimension returns the embedding dimension
func (s *Service) Dimension() int {
	return s.llmService.EmbeddingDimension()
}

// IsAvailable checks if the embedding service can serve requests
func (s *Service) IsAvailable(ctx context.Context) bool {
	return s.llmService.HealthCheck(ctx) == nil
}
