package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/adhyayan/internal/models"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// PaperStorage - interface for paper persistence
type PaperStorage interface {
	SavePaper(ctx context.Context, paper *models.Paper) error
	GetPaper(ctx context.Context, id string) (*models.Paper, error)
	ListPapers(ctx context.Context) ([]*models.Paper, error)
	DeletePaper(ctx context.Context, id string) error
	CountPapers(ctx context.Context) (int, error)
	GetStats(ctx context.Context) (*models.PaperStats, error)
}

// ChunkStorage - interface for paper chunk persistence
type ChunkStorage interface {
	SaveChunks(ctx context.Context, chunks []*models.PaperChunk) error
	GetChunksByPaper(ctx context.Context, paperID string) ([]*models.PaperChunk, error)
	DeleteChunksByPaper(ctx context.Context, paperID string) error
	CountChunks(ctx context.Context) (int, error)
}

// SessionStorage - interface for login session persistence
type SessionStorage interface {
	SaveSession(ctx context.Context, session *models.UserSession) error
	GetSession(ctx context.Context, id string) (*models.UserSession, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)
}

// ErrKeyNotFound is returned when a key is not found in the key/value store
var ErrKeyNotFound = errors.New("key not found")

// KeyValuePair represents a single key/value pair with metadata
type KeyValuePair struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// KeyValueStorage defines operations for generic key/value storage.
// Used for API keys and runtime settings; keys are case-insensitive.
type KeyValueStorage interface {
	// Get retrieves a value by key, returns ErrKeyNotFound if missing
	Get(ctx context.Context, key string) (string, error)

	// Set inserts or updates a key/value pair with optional description
	Set(ctx context.Context, key string, value string, description string) error

	// Delete removes a key/value pair, returns ErrKeyNotFound if missing
	Delete(ctx context.Context, key string) error

	// List returns all key/value pairs ordered by updated_at DESC
	List(ctx context.Context) ([]KeyValuePair, error)

	// GetAll returns all key/value pairs as a map
	GetAll(ctx context.Context) (map[string]string, error)
}

// StorageManager - composite interface for all storage operations
type StorageManager interface {
	PaperStorage() PaperStorage
	ChunkStorage() ChunkStorage
	SessionStorage() SessionStorage
	KeyValueStorage() KeyValueStorage
	DB() interface{}
	Close() error
}
