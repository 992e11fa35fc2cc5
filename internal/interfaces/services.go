package interfaces

import (
	"context"

	"github.com/ternarybob/adhyayan/internal/models"
)

// IngestService runs the paper ingestion pipeline
type IngestService interface {
	// IngestPaper processes an uploaded PDF end to end: text extraction,
	// chunking, summarization, embeddings, citation extraction, persistence.
	// The returned paper is in processing state; ingestion continues in the
	// background and progress is published via the event service.
	IngestPaper(ctx context.Context, filename string, pdfContent []byte) (*models.Paper, error)

	// DeletePaper removes a paper, its chunks, and its retained upload
	DeletePaper(ctx context.Context, paperID string) error
}

// SearchService retrieves chunks and papers by embedding similarity
type SearchService interface {
	// RetrieveChunks returns the topK most similar chunks of a paper for a query
	RetrieveChunks(ctx context.Context, paperID string, query string, topK int) ([]models.RetrievedChunk, error)

	// SearchPapers searches the library over summary embeddings
	SearchPapers(ctx context.Context, query string, limit int) ([]models.PaperSearchResult, error)
}

// AskRequest represents a question about an ingested paper
type AskRequest struct {
	PaperID  string    `json:"paper_id"`
	Question string    `json:"question"`
	History  []Message `json:"history,omitempty"`
}

// Answer is the response to an AskRequest
type Answer struct {
	Text   string                  `json:"text"`
	Chunks []models.RetrievedChunk `json:"chunks,omitempty"`
	Model  string                  `json:"model"`
}

// QAService answers questions over ingested papers
type QAService interface {
	// AskQuestion retrieves relevant chunks and generates a cited answer
	AskQuestion(ctx context.Context, req *AskRequest) (*Answer, error)

	// HealthCheck verifies the underlying LLM service is operational
	HealthCheck(ctx context.Context) error
}

// DiscoveryService finds related papers via external indexes
type DiscoveryService interface {
	// FindRelated queries arXiv and Semantic Scholar seeded from the paper
	// summary and returns results re-ranked by embedding similarity.
	// Returns an empty slice (not an error) when both sources fail.
	FindRelated(ctx context.Context, paper *models.Paper) ([]models.RelatedPaper, error)
}

// AuthService manages Google OAuth login and server-side sessions
type AuthService interface {
	// LoginURL builds the Google authorization URL for the given state
	LoginURL(state string) string

	// HandleCallback exchanges the authorization code and creates a session
	HandleCallback(ctx context.Context, code string) (*models.UserSession, error)

	// ValidateSession returns the session for an ID, enforcing expiry
	ValidateSession(ctx context.Context, sessionID string) (*models.UserSession, error)

	// Logout deletes the session
	Logout(ctx context.Context, sessionID string) error

	// Enabled reports whether auth is configured and enforced
	Enabled() bool
}

// EventType represents different event types in the system
type EventType string

const (
	EventIngestStarted   EventType = "ingest_started"
	EventIngestProgress  EventType = "ingest_progress"
	EventIngestCompleted EventType = "ingest_completed"
	EventIngestFailed    EventType = "ingest_failed"
	EventPaperDeleted    EventType = "paper_deleted"
)

// Event represents a system event broadcast to websocket clients
type Event struct {
	Type    EventType   `json:"type"`
	PaperID string      `json:"paper_id,omitempty"`
	Message string      `json:"message,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// EventService broadcasts events to connected clients
type EventService interface {
	// Publish sends an event to all connected clients
	Publish(event Event)

	// Close shuts down the event service
	Close() error
}
