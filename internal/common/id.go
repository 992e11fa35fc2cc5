package common

import (
	"github.com/google/uuid"
)

// NewPaperID generates a unique paper ID with the "paper_" prefix
// Format: paper_<uuid>
func NewPaperID() string {
	return "paper_" + uuid.New().String()
}

// NewChunkID generates a unique chunk ID with the "chunk_" prefix
// Format: chunk_<uuid>
func NewChunkID() string {
	return "chunk_" + uuid.New().String()
}
