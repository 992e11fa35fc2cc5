// -----------------------------------------------------------------------
// PDF Extractor Service - Extract text content from PDF documents
// Uses pdfcpu for Go-native PDF processing
// -----------------------------------------------------------------------

package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/arbor"
)

// Extractor implements the PDFExtractor interface using pdfcpu
type Extractor struct {
	logger  arbor.ILogger
	tempDir string
}

// Compile-time interface assertion
var _ interfaces.PDFExtractor = (*Extractor)(nil)

// NewExtractor creates a new PDF extractor service
func NewExtractor(logger arbor.ILogger) *Extractor {
	// Create a temp directory for PDF processing
	tempDir := filepath.Join(os.TempDir(), "adhyayan-pdf")
	os.MkdirAll(tempDir, 0755)

	return &Extractor{
		logger:  logger,
		tempDir: tempDir,
	}
}

// ExtractPages extracts text content by page from PDF bytes.
func (e *Extractor) ExtractPages(ctx context.Context, pdfContent []byte) ([]interfaces.PDFPageContent, error) {
	// Write to temp file for pdfcpu processing
	tempFile := filepath.Join(e.tempDir, fmt.Sprintf("extract_%d_%d.pdf", os.Getpid(), time.Now().UnixNano()))
	if err := os.WriteFile(tempFile, pdfContent, 0644); err != nil {
		return nil, fmt.Errorf("failed to write temp PDF file: %w", err)
	}
	defer os.Remove(tempFile)

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	pageCount := pdfCtx.PageCount
	pages := make([]interfaces.PDFPageContent, 0, pageCount)

	// pdfcpu has no direct text extraction API; extract per-page content
	// streams to a temp dir and read them back
	outDir := filepath.Join(e.tempDir, fmt.Sprintf("pages_%d_%d", os.Getpid(), time.Now().UnixNano()))
	os.MkdirAll(outDir, 0755)
	defer os.RemoveAll(outDir)

	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		e.logger.Warn().Err(err).Msg("Failed to extract PDF content")
		// If extraction fails, return pages with empty text
		for pageNum := 1; pageNum <= pageCount; pageNum++ {
			pages = append(pages, interfaces.PDFPageContent{
				PageNumber: pageNum,
				Text:       "",
			})
		}
		return pages, nil
	}

	// Read extracted content files
	files, _ := os.ReadDir(outDir)
	pageTexts := make(map[int]string)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(file.Name(), "Content_page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(content)
		} else if _, err := fmt.Sscanf(file.Name(), "page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(content)
		}
	}

	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		pages = append(pages, interfaces.PDFPageContent{
			PageNumber: pageNum,
			Text:       pageTexts[pageNum],
		})
	}

	return pages, nil
}

// ExtractWithMetadata performs full extraction including metadata, pages, and text.
func (e *Extractor) ExtractWithMetadata(ctx context.Context, pdfContent []byte) (*interfaces.PDFExtractionResult, error) {
	metadata, err := e.GetMetadata(ctx, pdfContent)
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}

	pages, err := e.ExtractPages(ctx, pdfContent)
	if err != nil {
		return nil, fmt.Errorf("failed to extract pages: %w", err)
	}

	var fullText strings.Builder
	for i, page := range pages {
		if i > 0 {
			fullText.WriteString("\n\n")
		}
		fullText.WriteString(page.Text)
	}

	return &interfaces.PDFExtractionResult{
		Metadata: *metadata,
		Pages:    pages,
		FullText: fullText.String(),
	}, nil
}

// GetMetadata retrieves PDF metadata without extracting text content.
func (e *Extractor) GetMetadata(ctx context.Context, pdfContent []byte) (*interfaces.PDFMetadata, error) {
	tempFile := filepath.Join(e.tempDir, fmt.Sprintf("meta_%d_%d.pdf", os.Getpid(), time.Now().UnixNano()))
	if err := os.WriteFile(tempFile, pdfContent, 0644); err != nil {
		return nil, fmt.Errorf("failed to write temp PDF file: %w", err)
	}
	defer os.Remove(tempFile)

	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	// Document info (title, author) is stored behind indirect references in
	// pdfcpu; page count and encryption state are what ingestion needs
	metadata := &interfaces.PDFMetadata{
		PageCount:   pdfCtx.PageCount,
		FileSize:    int64(len(pdfContent)),
		IsEncrypted: pdfCtx.Encrypt != nil,
	}

	e.logger.Debug().
		Int("page_count", metadata.PageCount).
		Int64("file_size", metadata.FileSize).
		Bool("encrypted", metadata.IsEncrypted).
		Msg("Extracted PDF metadata")

	return metadata, nil
}
