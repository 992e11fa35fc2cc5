package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/adhyayan/internal/models"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"
)

// PaperStorage implements the PaperStorage interface for Badger
type PaperStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.PaperStorage = (*PaperStorage)(nil)

// NewPaperStorage creates a new PaperStorage instance
func NewPaperStorage(db *BadgerDB, logger arbor.ILogger) interfaces.PaperStorage {
	return &PaperStorage{
		db:     db,
		logger: logger,
	}
}

func (s *PaperStorage) SavePaper(ctx context.Context, paper *models.Paper) error {
	if paper.ID == "" {
		return fmt.Errorf("paper ID is required")
	}

	now := time.Now()
	if paper.CreatedAt.IsZero() {
		paper.CreatedAt = now
	}
	paper.UpdatedAt = now

	if err := s.db.Store().Upsert(paper.ID, paper); err != nil {
		return fmt.Errorf("failed to save paper: %w", err)
	}
	return nil
}

func (s *PaperStorage) GetPaper(ctx context.Context, id string) (*models.Paper, error) {
	var paper models.Paper
	if err := s.db.Store().Get(id, &paper); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get paper: %w", err)
	}
	return &paper, nil
}

func (s *PaperStorage) ListPapers(ctx context.Context) ([]*models.Paper, error) {
	var papers []models.Paper
	if err := s.db.Store().Find(&papers, badgerhold.Where("ID").Ne("").SortBy("CreatedAt").Reverse()); err != nil {
		return nil, fmt.Errorf("failed to list papers: %w", err)
	}

	result := make([]*models.Paper, len(papers))
	for i := range papers {
		result[i] = &papers[i]
	}
	return result, nil
}

func (s *PaperStorage) DeletePaper(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.Paper{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return interfaces.ErrNotFound
		}
		return fmt.Errorf("failed to delete paper: %w", err)
	}
	return nil
}

func (s *PaperStorage) CountPapers(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Paper{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count papers: %w", err)
	}
	return int(count), nil
}

func (s *PaperStorage) GetStats(ctx context.Context) (*models.PaperStats, error) {
	papers, err := s.ListPapers(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.PaperStats{
		TotalPapers:    len(papers),
		PapersByStatus: make(map[string]int),
		PapersBySize:   make(map[string]int),
		LastUpdated:    time.Now(),
	}

	for _, paper := range papers {
		stats.TotalChunks += paper.ChunkCount
		stats.TotalPages += paper.PageCount
		stats.PapersByStatus[paper.Status]++
		if paper.SizeCategory != "" {
			stats.PapersBySize[paper.SizeCategory]++
		}
	}

	return stats, nil
}
