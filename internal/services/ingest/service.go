package ingest

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/adhyayan/internal/common"
	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/adhyayan/internal/models"
	"github.com/ternarybob/adhyayan/internal/services/citations"
	"github.com/ternarybob/arbor"
)

// pdfMagic is the signature every valid PDF file starts with
var pdfMagic = []byte("%PDF-")

// Service runs the paper ingestion pipeline: extraction, chunking,
// summarization, embeddings, and citation extraction. IngestPaper
// returns quickly with a paper in processing state; the heavy work runs
// in a background goroutine and publishes progress events.
type Service struct {
	config     *common.Config
	storage    interfaces.StorageManager
	extractor  interfaces.PDFExtractor
	embedding  interfaces.EmbeddingService
	summarizer *Summarizer
	events     interfaces.EventService
	splitter   *Splitter
	logger     arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.IngestService = (*Service)(nil)

// NewService creates a new ingestion service
func NewService(
	config *common.Config,
	storage interfaces.StorageManager,
	extractor interfaces.PDFExtractor,
	embedding interfaces.EmbeddingService,
	llm interfaces.LLMService,
	events interfaces.EventService,
	logger arbor.ILogger,
) *Service {
	return &Service{
		config:     config,
		storage:    storage,
		extractor:  extractor,
		embedding:  embedding,
		summarizer: NewSummarizer(llm, config.Ingest.SummaryLimit, logger),
		events:     events,
		splitter:   NewSplitter(config.Ingest.ChunkSize, config.Ingest.ChunkOverlap),
		logger:     logger,
	}
}

// IngestPaper validates the upload, registers the paper in processing
// state, and kicks off background processing.
func (s *Service) IngestPaper(ctx context.Context, filename string, pdfContent []byte) (*models.Paper, error) {
	if len(pdfContent) == 0 {
		return nil, fmt.Errorf("empty PDF content")
	}
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, fmt.Errorf("file %s is not a PDF", filename)
	}
	if !bytes.HasPrefix(pdfContent, pdfMagic) {
		return nil, fmt.Errorf("file %s is not a valid PDF", filename)
	}
	if max := s.config.MaxUploadBytes(); int64(len(pdfContent)) > max {
		return nil, fmt.Errorf("file %s exceeds the %d MB upload limit", filename, s.config.Storage.Uploads.MaxSizeMB)
	}

	paper := &models.Paper{
		ID:       common.NewPaperID(),
		Filename: filename,
		Title:    titleFromFilename(filename),
		Status:   models.PaperStatusProcessing,
	}

	if s.config.Storage.Uploads.RetainFiles {
		uploadPath, err := s.saveUpload(paper.ID, filename, pdfContent)
		if err != nil {
			s.logger.Warn().Err(err).Str("filename", filename).Msg("Failed to retain upload file")
		} else {
			paper.UploadPath = uploadPath
		}
	}

	if err := s.storage.PaperStorage().SavePaper(ctx, paper); err != nil {
		return nil, fmt.Errorf("failed to save paper: %w", err)
	}

	s.events.Publish(interfaces.Event{
		Type:    interfaces.EventIngestStarted,
		PaperID: paper.ID,
		Message: fmt.Sprintf("Ingestion started for %s", filename),
	})

	s.logger.Info().
		Str("paper_id", paper.ID).
		Str("filename", filename).
		Int("bytes", len(pdfContent)).
		Msg("Paper accepted for ingestion")

	// Detach from the request context; ingestion outlives the upload request
	common.SafeGo(s.logger, "ingest-"+paper.ID, func() {
		s.process(context.Background(), paper, pdfContent)
	})

	return paper, nil
}

// process runs the full pipeline for one paper. Failures mark the paper
// failed and publish an event; they never panic the server.
func (s *Service) process(ctx context.Context, paper *models.Paper, pdfContent []byte) {
	defer func() {
		if r := recover(); r != nil {
			s.fail(ctx, paper, fmt.Errorf("ingestion panic: %v", r))
		}
	}()

	started := time.Now()

	extraction, err := s.extractor.ExtractWithMetadata(ctx, pdfContent)
	if err != nil {
		s.fail(ctx, paper, fmt.Errorf("text extraction failed: %w", err))
		return
	}
	if extraction.Metadata.IsEncrypted {
		s.fail(ctx, paper, fmt.Errorf("PDF is encrypted"))
		return
	}

	pages := extraction.Pages
	paper.PageCount = extraction.Metadata.PageCount
	s.progress(paper, fmt.Sprintf("Extracted %d pages", len(pages)))

	chunks, fullText := s.chunkPages(paper.ID, pages)
	if len(chunks) == 0 {
		// Scanned or image-only PDFs ingest with an empty index; queries
		// against them report the missing content instead
		paper.Summary = "no extractable text"
		s.complete(ctx, paper, started)
		return
	}
	paper.ChunkCount = len(chunks)
	paper.CharCount = len(fullText)
	paper.TokenCount = common.EstimateTokens(fullText)
	paper.SizeCategory = string(common.CategorizeDocument(paper.TokenCount))
	s.progress(paper, fmt.Sprintf("Split into %d chunks", len(chunks)))

	summary, err := s.summarizer.Summarize(ctx, fullText)
	if err != nil {
		s.fail(ctx, paper, fmt.Errorf("summarization failed: %w", err))
		return
	}
	paper.Summary = summary
	s.progress(paper, "Summary generated")

	if err := s.embedding.EmbedPaperSummary(ctx, paper); err != nil {
		s.fail(ctx, paper, fmt.Errorf("summary embedding failed: %w", err))
		return
	}
	if err := s.embedding.EmbedChunks(ctx, chunks); err != nil {
		s.fail(ctx, paper, fmt.Errorf("chunk embedding failed: %w", err))
		return
	}
	s.progress(paper, "Embeddings generated")

	paper.Citations = citations.ExtractCitations(fullText)
	paper.DOIs = citations.ExtractDOIs(fullText)

	if err := s.storage.ChunkStorage().SaveChunks(ctx, chunks); err != nil {
		s.fail(ctx, paper, fmt.Errorf("failed to save chunks: %w", err))
		return
	}

	s.complete(ctx, paper, started)
}

// complete marks the paper ready, persists it, and publishes the
// completion event
func (s *Service) complete(ctx context.Context, paper *models.Paper, started time.Time) {
	paper.Status = models.PaperStatusReady
	paper.Error = ""
	if err := s.storage.PaperStorage().SavePaper(ctx, paper); err != nil {
		s.fail(ctx, paper, fmt.Errorf("failed to save paper: %w", err))
		return
	}

	s.events.Publish(interfaces.Event{
		Type:    interfaces.EventIngestCompleted,
		PaperID: paper.ID,
		Message: fmt.Sprintf("Ingestion completed for %s", paper.Filename),
		Payload: map[string]interface{}{
			"chunk_count": paper.ChunkCount,
			"page_count":  paper.PageCount,
		},
	})

	s.logger.Info().
		Str("paper_id", paper.ID).
		Int("pages", paper.PageCount).
		Int("chunks", paper.ChunkCount).
		Str("size", paper.SizeCategory).
		Str("duration", time.Since(started).String()).
		Msg("Paper ingestion completed")
}

// chunkPages splits each page's text and assigns paper-wide chunk indexes
func (s *Service) chunkPages(paperID string, pages []interfaces.PDFPageContent) ([]*models.PaperChunk, string) {
	var chunks []*models.PaperChunk
	var fullText strings.Builder
	chunkIndex := 0

	for _, page := range pages {
		if fullText.Len() > 0 {
			fullText.WriteString("\n\n")
		}
		fullText.WriteString(page.Text)

		for _, text := range s.splitter.Split(page.Text) {
			chunks = append(chunks, &models.PaperChunk{
				ID:         common.NewChunkID(),
				PaperID:    paperID,
				Page:       page.PageNumber,
				ChunkIndex: chunkIndex,
				Text:       text,
			})
			chunkIndex++
		}
	}

	return chunks, fullText.String()
}

// DeletePaper removes a paper, its chunks, and its retained upload file
func (s *Service) DeletePaper(ctx context.Context, paperID string) error {
	paper, err := s.storage.PaperStorage().GetPaper(ctx, paperID)
	if err != nil {
		return fmt.Errorf("failed to load paper %s: %w", paperID, err)
	}

	if err := s.storage.ChunkStorage().DeleteChunksByPaper(ctx, paperID); err != nil {
		return fmt.Errorf("failed to delete chunks for paper %s: %w", paperID, err)
	}
	if err := s.storage.PaperStorage().DeletePaper(ctx, paperID); err != nil {
		return fmt.Errorf("failed to delete paper %s: %w", paperID, err)
	}

	if paper.UploadPath != "" {
		if err := os.Remove(paper.UploadPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", paper.UploadPath).Msg("Failed to remove upload file")
		}
	}

	s.events.Publish(interfaces.Event{
		Type:    interfaces.EventPaperDeleted,
		PaperID: paperID,
		Message: fmt.Sprintf("Paper %s deleted", paper.Filename),
	})

	s.logger.Info().Str("paper_id", paperID).Msg("Paper deleted")
	return nil
}

func (s *Service) saveUpload(paperID, filename string, content []byte) (string, error) {
	dir := s.config.Storage.Uploads.Dir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	// Prefix with the paper ID so repeated uploads of the same file never collide
	path := filepath.Join(dir, paperID+"_"+filepath.Base(filename))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	return path, nil
}

// fail marks the paper failed, persists the error, and publishes an event
func (s *Service) fail(ctx context.Context, paper *models.Paper, err error) {
	s.logger.Error().Err(err).Str("paper_id", paper.ID).Msg("Paper ingestion failed")

	paper.Status = models.PaperStatusFailed
	paper.Error = err.Error()
	if saveErr := s.storage.PaperStorage().SavePaper(ctx, paper); saveErr != nil {
		s.logger.Error().Err(saveErr).Str("paper_id", paper.ID).Msg("Failed to persist failure state")
	}

	s.events.Publish(interfaces.Event{
		Type:    interfaces.EventIngestFailed,
		PaperID: paper.ID,
		Message: err.Error(),
	})
}

func (s *Service) progress(paper *models.Paper, message string) {
	s.events.Publish(interfaces.Event{
		Type:    interfaces.EventIngestProgress,
		PaperID: paper.ID,
		Message: message,
	})
}

// titleFromFilename derives a readable title from the upload filename
func titleFromFilename(filename string) string {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return strings.TrimSpace(name)
}
