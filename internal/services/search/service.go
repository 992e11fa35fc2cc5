package search

import (
	"context"
	"fmt"

	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/adhyayan/internal/models"
	"github.com/ternarybob/arbor"
)

// Service retrieves relevant chunks and papers by embedding similarity.
// Vectors are scored in memory against the query embedding; with paper
// collections in the hundreds a brute-force scan is fast enough that no
// index structure is needed.
type Service struct {
	storage   interfaces.StorageManager
	embedding interfaces.EmbeddingService
	logger    arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.SearchService = (*Service)(nil)

// NewService creates a new search service
func NewService(storage interfaces.StorageManager, embedding interfaces.EmbeddingService, logger arbor.ILogger) *Service {
	return &Service{
		storage:   storage,
		embedding: embedding,
		logger:    logger,
	}
}

// RetrieveChunks returns the topK chunks of a paper most similar to the query.
// A paper with no chunks yields an error rather than an empty LLM context.
func (s *Service) RetrieveChunks(ctx context.Context, paperID string, query string, topK int) ([]models.RetrievedChunk, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	paper, err := s.storage.PaperStorage().GetPaper(ctx, paperID)
	if err != nil {
		return nil, fmt.Errorf("failed to load paper %s: %w", paperID, err)
	}

	chunks, err := s.storage.ChunkStorage().GetChunksByPaper(ctx, paperID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks for paper %s: %w", paperID, err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("paper %s has no indexed content", paperID)
	}

	queryEmbedding, err := s.embedding.GenerateQueryEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	scores := make([]scored, 0, len(chunks))
	for i, chunk := range chunks {
		scores = append(scores, scored{
			index: i,
			score: CosineSimilarity(queryEmbedding, chunk.Embedding),
		})
	}

	top := topKIndices(scores, topK)
	results := make([]models.RetrievedChunk, 0, len(top))
	for _, sc := range top {
		results = append(results, models.RetrievedChunk{
			Chunk: *chunks[sc.index],
			Score: sc.score,
		})
	}

	s.logger.Debug().
		Str("paper_id", paper.ID).
		Int("chunk_count", len(chunks)).
		Int("retrieved", len(results)).
		Msg("Retrieved chunks for query")

	return results, nil
}

// SearchPapers ranks all papers against the query by summary embedding
// similarity. Papers without a summary embedding are skipped.
func (s *Service) SearchPapers(ctx context.Context, query string, limit int) ([]models.PaperSearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	papers, err := s.storage.PaperStorage().ListPapers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list papers: %w", err)
	}

	queryEmbedding, err := s.embedding.GenerateQueryEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	scores := make([]scored, 0, len(papers))
	for i, paper := range papers {
		if len(paper.SummaryEmbedding) == 0 {
			continue
		}
		scores = append(scores, scored{
			index: i,
			score: CosineSimilarity(queryEmbedding, paper.SummaryEmbedding),
		})
	}

	top := topKIndices(scores, limit)
	results := make([]models.PaperSearchResult, 0, len(top))
	for _, sc := range top {
		paper := papers[sc.index]
		results = append(results, models.PaperSearchResult{
			PaperID:  paper.ID,
			Title:    paper.Title,
			Filename: paper.Filename,
			Summary:  paper.Summary,
			Score:    sc.score,
		})
	}

	s.logger.Debug().
		Str("query", query).
		Int("paper_count", len(papers)).
		Int("returned", len(results)).
		Msg("Searched papers by summary similarity")

	return results, nil
}
