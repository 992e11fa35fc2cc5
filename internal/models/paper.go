package models

import (
	"time"
)

const (
	// PaperStatusProcessing indicates ingestion is still running
	PaperStatusProcessing = "processing"
	// PaperStatusReady indicates the paper is fully ingested and queryable
	PaperStatusReady = "ready"
	// PaperStatusFailed indicates ingestion failed; Error holds the reason
	PaperStatusFailed = "failed"
)

// Paper represents an ingested research paper
type Paper struct {
	// Identity
	ID       string `json:"id" badgerhold:"key"` // paper_{uuid}
	Filename string `json:"filename"`            // Original upload filename
	Title    string `json:"title"`               // Derived from PDF metadata or filename

	// Analysis
	Summary          string    `json:"summary"`           // LLM topic summary of the full text
	SummaryEmbedding []float32 `json:"summary_embedding"` // Embedding of the summary, used for library search and discovery re-ranking
	Citations        []string  `json:"citations"`         // Extracted reference entries
	DOIs             []string  `json:"dois"`              // Extracted DOI identifiers

	// Size accounting
	PageCount    int    `json:"page_count"`
	ChunkCount   int    `json:"chunk_count"`
	CharCount    int    `json:"char_count"`
	TokenCount   int    `json:"token_count"`   // Estimated (chars/4)
	SizeCategory string `json:"size_category"` // small, medium, large

	// Upload tracking
	UploadPath string `json:"upload_path,omitempty"` // Path of the retained PDF on disk

	// Lifecycle
	Status string `json:"status"` // processing, ready, failed
	Error  string `json:"error,omitempty"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PaperChunk is a contiguous slice of a paper's text with its embedding
type PaperChunk struct {
	ID         string    `json:"id" badgerhold:"key"` // chunk_{uuid}
	PaperID    string    `json:"paper_id" badgerhold:"index"`
	Page       int       `json:"page"`        // 1-based source page
	ChunkIndex int       `json:"chunk_index"` // Position within the paper
	Text       string    `json:"text"`
	Embedding  []float32 `json:"embedding"`
}

// PaperStats represents aggregate statistics for the paper library
type PaperStats struct {
	TotalPapers    int            `json:"total_papers"`
	TotalChunks    int            `json:"total_chunks"`
	TotalPages     int            `json:"total_pages"`
	PapersByStatus map[string]int `json:"papers_by_status"`
	PapersBySize   map[string]int `json:"papers_by_size"`
	LastUpdated    time.Time      `json:"last_updated"`
}

// RelatedPaper is a discovery result from an external paper index
type RelatedPaper struct {
	Title     string   `json:"title"`
	Authors   []string `json:"authors,omitempty"`
	Year      int      `json:"year,omitempty"`
	Abstract  string   `json:"abstract,omitempty"`
	URL       string   `json:"url"`
	Source    string   `json:"source"` // "arxiv" or "semanticscholar"
	Citations int      `json:"citations,omitempty"`
	Score     float64  `json:"score"` // Cosine similarity against the paper summary embedding
}

// RetrievedChunk pairs a chunk with its similarity score for a query
type RetrievedChunk struct {
	Chunk PaperChunk `json:"chunk"`
	Score float64    `json:"score"`
}

// PaperSearchResult is a library search hit over summary embeddings
type PaperSearchResult struct {
	PaperID  string  `json:"paper_id"`
	Title    string  `json:"title"`
	Filename string  `json:"filename"`
	Summary  string  `json:"summary"`
	Score    float64 `json:"score"`
}
