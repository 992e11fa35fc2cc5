package interfaces

import (
	"context"
)

// LLMMode represents the operational mode of the LLM service
type LLMMode string

const (
	// LLMModeCloud indicates the service uses cloud-based LLM APIs
	LLMModeCloud LLMMode = "cloud"

	// LLMModeDisabled indicates no provider is configured
	LLMModeDisabled LLMMode = "disabled"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// LLMService defines the interface for language model operations including
// embeddings generation and chat completions. Chat is routed to the
// configured default provider; embeddings always use the embedding provider.
type LLMService interface {
	// Embed generates an embedding vector for the given text. The vector
	// dimension is fixed per deployment and reported by EmbeddingDimension.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Chat generates a completion response based on the conversation history.
	// The messages slice should contain the full conversation context including
	// system prompts, user messages, and previous assistant responses.
	Chat(ctx context.Context, messages []Message) (string, error)

	// EmbeddingDimension returns the configured embedding vector dimension
	EmbeddingDimension() int

	// HealthCheck verifies the LLM service is operational and can handle requests
	HealthCheck(ctx context.Context) error

	// GetMode returns the current operational mode of the LLM service
	GetMode() LLMMode

	// Close releases resources and performs cleanup operations
	Close() error
}
