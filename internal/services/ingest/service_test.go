package ingest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/adhyayan/internal/common"
	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/adhyayan/internal/models"
	"github.com/ternarybob/arbor"
)

type stubExtractor struct {
	pages     []interfaces.PDFPageContent
	encrypted bool
	err       error
}

func (s *stubExtractor) ExtractPages(ctx context.Context, pdfContent []byte) ([]interfaces.PDFPageContent, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.pages, nil
}

func (s *stubExtractor) ExtractWithMetadata(ctx context.Context, pdfContent []byte) (*interfaces.PDFExtractionResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &interfaces.PDFExtractionResult{
		Metadata: interfaces.PDFMetadata{
			PageCount:   len(s.pages),
			FileSize:    int64(len(pdfContent)),
			IsEncrypted: s.encrypted,
		},
		Pages: s.pages,
	}, nil
}

func (s *stubExtractor) GetMetadata(ctx context.Context, pdfContent []byte) (*interfaces.PDFMetadata, error) {
	return &interfaces.PDFMetadata{PageCount: len(s.pages), IsEncrypted: s.encrypted}, nil
}

type stubEmbedding struct{}

func (s *stubEmbedding) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (s *stubEmbedding) EmbedChunks(ctx context.Context, chunks []*models.PaperChunk) error {
	for _, chunk := range chunks {
		chunk.Embedding = []float32{1, 0, 0}
	}
	return nil
}

func (s *stubEmbedding) EmbedPaperSummary(ctx context.Context, paper *models.Paper) error {
	paper.SummaryEmbedding = []float32{1, 0, 0}
	return nil
}

func (s *stubEmbedding) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (s *stubEmbedding) ModelName() string                    { return "stub" }
func (s *stubEmbedding) Dimension() int                       { return 3 }
func (s *stubEmbedding) IsAvailable(ctx context.Context) bool { return true }

type stubLLM struct {
	response string
	calls    []string
}

func (s *stubLLM) Embed(ctx context.Context, text string) ([]float32, error) { return nil, nil }
func (s *stubLLM) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	s.calls = append(s.calls, messages[len(messages)-1].Content)
	return s.response, nil
}
func (s *stubLLM) EmbeddingDimension() int               { return 3 }
func (s *stubLLM) HealthCheck(ctx context.Context) error { return nil }
func (s *stubLLM) GetMode() interfaces.LLMMode           { return interfaces.LLMModeCloud }
func (s *stubLLM) Close() error                          { return nil }

type stubEvents struct {
	events []interfaces.Event
}

func (s *stubEvents) Publish(event interfaces.Event) { s.events = append(s.events, event) }
func (s *stubEvents) Close() error                   { return nil }

func (s *stubEvents) types() []interfaces.EventType {
	types := make([]interfaces.EventType, 0, len(s.events))
	for _, e := range s.events {
		types = append(types, e.Type)
	}
	return types
}

type memPapers struct {
	papers map[string]*models.Paper
}

func (m *memPapers) SavePaper(ctx context.Context, paper *models.Paper) error {
	m.papers[paper.ID] = paper
	return nil
}

func (m *memPapers) GetPaper(ctx context.Context, id string) (*models.Paper, error) {
	paper, ok := m.papers[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return paper, nil
}

func (m *memPapers) ListPapers(ctx context.Context) ([]*models.Paper, error) {
	papers := make([]*models.Paper, 0, len(m.papers))
	for _, p := range m.papers {
		papers = append(papers, p)
	}
	return papers, nil
}

func (m *memPapers) DeletePaper(ctx context.Context, id string) error {
	delete(m.papers, id)
	return nil
}

func (m *memPapers) CountPapers(ctx context.Context) (int, error) { return len(m.papers), nil }
func (m *memPapers) GetStats(ctx context.Context) (*models.PaperStats, error) {
	return &models.PaperStats{TotalPapers: len(m.papers)}, nil
}

type memChunks struct {
	chunks []*models.PaperChunk
}

func (m *memChunks) SaveChunks(ctx context.Context, chunks []*models.PaperChunk) error {
	m.chunks = append(m.chunks, chunks...)
	return nil
}

func (m *memChunks) GetChunksByPaper(ctx context.Context, paperID string) ([]*models.PaperChunk, error) {
	var result []*models.PaperChunk
	for _, c := range m.chunks {
		if c.PaperID == paperID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *memChunks) DeleteChunksByPaper(ctx context.Context, paperID string) error {
	var kept []*models.PaperChunk
	for _, c := range m.chunks {
		if c.PaperID != paperID {
			kept = append(kept, c)
		}
	}
	m.chunks = kept
	return nil
}

func (m *memChunks) CountChunks(ctx context.Context) (int, error) { return len(m.chunks), nil }

type memStorage struct {
	papers *memPapers
	chunks *memChunks
}

func newMemStorage() *memStorage {
	return &memStorage{
		papers: &memPapers{papers: make(map[string]*models.Paper)},
		chunks: &memChunks{},
	}
}

func (m *memStorage) PaperStorage() interfaces.PaperStorage       { return m.papers }
func (m *memStorage) ChunkStorage() interfaces.ChunkStorage       { return m.chunks }
func (m *memStorage) SessionStorage() interfaces.SessionStorage   { return nil }
func (m *memStorage) KeyValueStorage() interfaces.KeyValueStorage { return nil }
func (m *memStorage) DB() interface{}                             { return nil }
func (m *memStorage) Close() error                                { return nil }

func newTestService(t *testing.T, extractor *stubExtractor, llm *stubLLM) (*Service, *memStorage, *stubEvents) {
	t.Helper()

	config := common.NewDefaultConfig()
	config.Storage.Uploads.RetainFiles = false

	storage := newMemStorage()
	events := &stubEvents{}
	service := NewService(config, storage, extractor, &stubEmbedding{}, llm, events, arbor.NewLogger())
	return service, storage, events
}

func testPaper() *models.Paper {
	return &models.Paper{
		ID:       common.NewPaperID(),
		Filename: "paper.pdf",
		Title:    "paper",
		Status:   models.PaperStatusProcessing,
	}
}

func TestProcessIngestsPaperWithText(t *testing.T) {
	extractor := &stubExtractor{
		pages: []interfaces.PDFPageContent{
			{PageNumber: 1, Text: "Transformers rely on attention.\n\nWe evaluate on WMT 2014."},
			{PageNumber: 2, Text: "Results exceed prior baselines."},
		},
	}
	llm := &stubLLM{response: "A paper about attention."}
	service, storage, events := newTestService(t, extractor, llm)

	paper := testPaper()
	service.process(context.Background(), paper, []byte("%PDF-1.4"))

	assert.Equal(t, models.PaperStatusReady, paper.Status)
	assert.Equal(t, "A paper about attention.", paper.Summary)
	assert.Equal(t, 2, paper.PageCount)
	assert.NotEmpty(t, paper.SummaryEmbedding)

	chunks, err := storage.chunks.GetChunksByPaper(context.Background(), paper.ID)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Equal(t, paper.ChunkCount, len(chunks))
	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk.Embedding)
	}

	assert.Contains(t, events.types(), interfaces.EventIngestCompleted)
}

func TestProcessZeroExtractableTextStillIngests(t *testing.T) {
	extractor := &stubExtractor{
		pages: []interfaces.PDFPageContent{
			{PageNumber: 1, Text: ""},
			{PageNumber: 2, Text: "   "},
		},
	}
	llm := &stubLLM{response: "should not be called"}
	service, storage, events := newTestService(t, extractor, llm)

	paper := testPaper()
	service.process(context.Background(), paper, []byte("%PDF-1.4"))

	assert.Equal(t, models.PaperStatusReady, paper.Status)
	assert.Equal(t, "no extractable text", paper.Summary)
	assert.Zero(t, paper.ChunkCount)
	assert.Empty(t, llm.calls)

	chunks, err := storage.chunks.GetChunksByPaper(context.Background(), paper.ID)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	assert.Contains(t, events.types(), interfaces.EventIngestCompleted)
	assert.NotContains(t, events.types(), interfaces.EventIngestFailed)
}

func TestProcessExtractionFailureMarksPaperFailed(t *testing.T) {
	extractor := &stubExtractor{err: fmt.Errorf("corrupt xref table")}
	service, _, events := newTestService(t, extractor, &stubLLM{})

	paper := testPaper()
	service.process(context.Background(), paper, []byte("%PDF-1.4"))

	assert.Equal(t, models.PaperStatusFailed, paper.Status)
	assert.Contains(t, paper.Error, "corrupt xref table")
	assert.Contains(t, events.types(), interfaces.EventIngestFailed)
}

func TestProcessRejectsEncryptedPDF(t *testing.T) {
	extractor := &stubExtractor{
		pages:     []interfaces.PDFPageContent{{PageNumber: 1, Text: "hidden"}},
		encrypted: true,
	}
	llm := &stubLLM{}
	service, storage, events := newTestService(t, extractor, llm)

	paper := testPaper()
	service.process(context.Background(), paper, []byte("%PDF-1.4"))

	assert.Equal(t, models.PaperStatusFailed, paper.Status)
	assert.Contains(t, paper.Error, "encrypted")
	assert.Empty(t, llm.calls)
	assert.Empty(t, storage.chunks.chunks)
	assert.Contains(t, events.types(), interfaces.EventIngestFailed)
}

func TestIngestPaperValidation(t *testing.T) {
	service, _, _ := newTestService(t, &stubExtractor{}, &stubLLM{})
	ctx := context.Background()

	_, err := service.IngestPaper(ctx, "paper.pdf", nil)
	assert.Error(t, err)

	_, err = service.IngestPaper(ctx, "notes.txt", []byte("%PDF-1.4 content"))
	assert.Error(t, err)

	_, err = service.IngestPaper(ctx, "paper.pdf", []byte("plain text, not a pdf"))
	assert.Error(t, err)
}
