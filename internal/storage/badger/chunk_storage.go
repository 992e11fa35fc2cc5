package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/adhyayan/internal/models"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"
)

// ChunkStorage implements the ChunkStorage interface for Badger
type ChunkStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.ChunkStorage = (*ChunkStorage)(nil)

// NewChunkStorage creates a new ChunkStorage instance
func NewChunkStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ChunkStorage {
	return &ChunkStorage{
		db:     db,
		logger: logger,
	}
}

func (s *ChunkStorage) SaveChunks(ctx context.Context, chunks []*models.PaperChunk) error {
	for _, chunk := range chunks {
		if chunk.ID == "" {
			return fmt.Errorf("chunk ID is required")
		}
		if err := s.db.Store().Upsert(chunk.ID, chunk); err != nil {
			return fmt.Errorf("failed to save chunk %s: %w", chunk.ID, err)
		}
	}
	return nil
}

func (s *ChunkStorage) GetChunksByPaper(ctx context.Context, paperID string) ([]*models.PaperChunk, error) {
	var chunks []models.PaperChunk
	if err := s.db.Store().Find(&chunks, badgerhold.Where("PaperID").Eq(paperID).Index("PaperID").SortBy("ChunkIndex")); err != nil {
		return nil, fmt.Errorf("failed to get chunks for paper %s: %w", paperID, err)
	}

	result := make([]*models.PaperChunk, len(chunks))
	for i := range chunks {
		result[i] = &chunks[i]
	}
	return result, nil
}

func (s *ChunkStorage) DeleteChunksByPaper(ctx context.Context, paperID string) error {
	if err := s.db.Store().DeleteMatching(&models.PaperChunk{}, badgerhold.Where("PaperID").Eq(paperID).Index("PaperID")); err != nil {
		return fmt.Errorf("failed to delete chunks for paper %s: %w", paperID, err)
	}
	return nil
}

func (s *ChunkStorage) CountChunks(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.PaperChunk{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return int(count), nil
}
