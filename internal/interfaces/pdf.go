package interfaces

import (
	"context"
)

// PDFPageContent represents extracted content from a single PDF page
type PDFPageContent struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

// PDFMetadata contains metadata about a PDF document
type PDFMetadata struct {
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
	PageCount   int    `json:"page_count"`
	FileSize    int64  `json:"file_size"`
	IsEncrypted bool   `json:"is_encrypted"`
}

// PDFExtractionResult contains the complete extraction result
type PDFExtractionResult struct {
	Metadata PDFMetadata      `json:"metadata"`
	Pages    []PDFPageContent `json:"pages"`
	FullText string           `json:"full_text"`
}

// PDFExtractor defines the interface for extracting content from PDF documents.
// This interface abstracts the PDF extraction implementation, allowing different
// backends to be used interchangeably.
type PDFExtractor interface {
	// ExtractPages extracts text content by page from PDF bytes.
	// Returns a slice of PDFPageContent with 1-based page numbers.
	ExtractPages(ctx context.Context, pdfContent []byte) ([]PDFPageContent, error)

	// ExtractWithMetadata performs full extraction including metadata, pages, and text
	ExtractWithMetadata(ctx context.Context, pdfContent []byte) (*PDFExtractionResult, error)

	// GetMetadata retrieves PDF metadata without extracting text content
	GetMetadata(ctx context.Context, pdfContent []byte) (*PDFMetadata, error)
}

// PDFService handles PDF generation from various formats
type PDFService interface {
	// ConvertMarkdownToPDF converts markdown content to a PDF byte slice
	ConvertMarkdownToPDF(markdown, title string) ([]byte, error)
}
