package badger

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/adhyayan/internal/models"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"
)

func newTestDB(t *testing.T) *BadgerDB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "badger-test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	options := badgerhold.DefaultOptions
	options.Dir = tmpDir
	options.ValueDir = tmpDir
	options.Logger = nil

	store, err := badgerhold.Open(options)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return &BadgerDB{store: store, logger: arbor.NewLogger()}
}

func TestPaperStorageRoundTrip(t *testing.T) {
	db := newTestDB(t)
	storage := NewPaperStorage(db, arbor.NewLogger())
	ctx := context.Background()

	paper := &models.Paper{
		ID:           "paper_test-1",
		Filename:     "attention.pdf",
		Title:        "Attention Is All You Need",
		Summary:      "Transformer architectures for sequence transduction.",
		PageCount:    11,
		ChunkCount:   42,
		TokenCount:   12000,
		SizeCategory: "medium",
		Status:       models.PaperStatusReady,
	}

	require.NoError(t, storage.SavePaper(ctx, paper))
	assert.False(t, paper.CreatedAt.IsZero(), "SavePaper sets CreatedAt")

	got, err := storage.GetPaper(ctx, "paper_test-1")
	require.NoError(t, err)
	assert.Equal(t, paper.Title, got.Title)
	assert.Equal(t, paper.ChunkCount, got.ChunkCount)

	count, err := storage.CountPapers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, storage.DeletePaper(ctx, "paper_test-1"))

	_, err = storage.GetPaper(ctx, "paper_test-1")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestPaperStorageStats(t *testing.T) {
	db := newTestDB(t)
	storage := NewPaperStorage(db, arbor.NewLogger())
	ctx := context.Background()

	papers := []*models.Paper{
		{ID: "paper_a", Status: models.PaperStatusReady, SizeCategory: "small", PageCount: 5, ChunkCount: 10},
		{ID: "paper_b", Status: models.PaperStatusReady, SizeCategory: "large", PageCount: 30, ChunkCount: 90},
		{ID: "paper_c", Status: models.PaperStatusFailed, SizeCategory: "small", PageCount: 2},
	}
	for _, p := range papers {
		require.NoError(t, storage.SavePaper(ctx, p))
	}

	stats, err := storage.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalPapers)
	assert.Equal(t, 100, stats.TotalChunks)
	assert.Equal(t, 37, stats.TotalPages)
	assert.Equal(t, 2, stats.PapersByStatus[models.PaperStatusReady])
	assert.Equal(t, 1, stats.PapersByStatus[models.PaperStatusFailed])
	assert.Equal(t, 2, stats.PapersBySize["small"])
}

func TestChunkStorageByPaper(t *testing.T) {
	db := newTestDB(t)
	storage := NewChunkStorage(db, arbor.NewLogger())
	ctx := context.Background()

	chunks := []*models.PaperChunk{
		{ID: "chunk_1", PaperID: "paper_a", Page: 1, ChunkIndex: 0, Text: "first"},
		{ID: "chunk_2", PaperID: "paper_a", Page: 1, ChunkIndex: 1, Text: "second"},
		{ID: "chunk_3", PaperID: "paper_b", Page: 2, ChunkIndex: 0, Text: "other paper"},
	}
	require.NoError(t, storage.SaveChunks(ctx, chunks))

	got, err := storage.GetChunksByPaper(ctx, "paper_a")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, "second", got[1].Text)

	require.NoError(t, storage.DeleteChunksByPaper(ctx, "paper_a"))

	got, err = storage.GetChunksByPaper(ctx, "paper_a")
	require.NoError(t, err)
	assert.Empty(t, got)

	count, err := storage.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSessionStorageExpiry(t *testing.T) {
	db := newTestDB(t)
	storage := NewSessionStorage(db, arbor.NewLogger())
	ctx := context.Background()

	expired := &models.UserSession{
		ID:        "sess-expired",
		Email:     "old@example.com",
		CreatedAt: time.Now().Add(-48 * time.Hour),
		ExpiresAt: time.Now().Add(-24 * time.Hour),
	}
	active := &models.UserSession{
		ID:        "sess-active",
		Email:     "now@example.com",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, storage.SaveSession(ctx, expired))
	require.NoError(t, storage.SaveSession(ctx, active))

	deleted, err := storage.DeleteExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = storage.GetSession(ctx, "sess-expired")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	got, err := storage.GetSession(ctx, "sess-active")
	require.NoError(t, err)
	assert.Equal(t, "now@example.com", got.Email)
}

func TestKVStorageCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	storage := NewKVStorage(db, arbor.NewLogger())
	ctx := context.Background()

	require.NoError(t, storage.Set(ctx, "Groq_API_Key", "gsk_test", "test key"))

	value, err := storage.Get(ctx, "groq_api_key")
	require.NoError(t, err)
	assert.Equal(t, "gsk_test", value)

	value, err = storage.Get(ctx, "  GROQ_API_KEY  ")
	require.NoError(t, err)
	assert.Equal(t, "gsk_test", value)

	_, err = storage.Get(ctx, "missing")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)

	require.NoError(t, storage.Delete(ctx, "GROQ_API_KEY"))
	_, err = storage.Get(ctx, "groq_api_key")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}
