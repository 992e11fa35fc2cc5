package qa

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/adhyayan/internal/common"
	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/adhyayan/internal/models"
	"github.com/ternarybob/arbor"
)

type stubSearch struct {
	chunks []models.RetrievedChunk
	err    error
	query  string
}

func (s *stubSearch) RetrieveChunks(ctx context.Context, paperID, query string, topK int) ([]models.RetrievedChunk, error) {
	s.query = query
	return s.chunks, s.err
}

func (s *stubSearch) SearchPapers(ctx context.Context, query string, limit int) ([]models.PaperSearchResult, error) {
	return nil, nil
}

type stubLLM struct {
	response string
	err      error
	messages []interfaces.Message
}

func (s *stubLLM) Embed(ctx context.Context, text string) ([]float32, error) { return nil, nil }
func (s *stubLLM) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	s.messages = messages
	return s.response, s.err
}
func (s *stubLLM) EmbeddingDimension() int               { return 768 }
func (s *stubLLM) HealthCheck(ctx context.Context) error { return nil }
func (s *stubLLM) GetMode() interfaces.LLMMode           { return interfaces.LLMModeCloud }
func (s *stubLLM) Close() error                          { return nil }

func newTestService(search *stubSearch, llm *stubLLM) *Service {
	config := common.NewDefaultConfig()
	return NewService(config, search, llm, arbor.NewLogger())
}

func TestAskQuestionCitesChunks(t *testing.T) {
	search := &stubSearch{
		chunks: []models.RetrievedChunk{
			{Chunk: models.PaperChunk{ChunkIndex: 3, Page: 5, Text: "The ablation study shows attention heads matter."}, Score: 0.91},
			{Chunk: models.PaperChunk{ChunkIndex: 7, Page: 8, Text: "Results on WMT 2014 exceed prior baselines."}, Score: 0.84},
		},
	}
	llm := &stubLLM{response: "Attention heads matter [Chunk 3 page=5]."}
	service := newTestService(search, llm)

	answer, err := service.AskQuestion(context.Background(), &interfaces.AskRequest{
		PaperID:  "paper_1",
		Question: "What does the ablation study show?",
	})

	require.NoError(t, err)
	assert.Equal(t, "Attention heads matter [Chunk 3 page=5].", answer.Text)
	assert.Len(t, answer.Chunks, 2)
	assert.NotEmpty(t, answer.Model)

	// System prompt first, labeled context in the final user message
	require.GreaterOrEqual(t, len(llm.messages), 2)
	assert.Equal(t, "system", llm.messages[0].Role)
	last := llm.messages[len(llm.messages)-1]
	assert.Equal(t, "user", last.Role)
	assert.Contains(t, last.Content, "[Chunk 3 page=5]")
	assert.Contains(t, last.Content, "[Chunk 7 page=8]")
	assert.Contains(t, last.Content, "What does the ablation study show?")
}

func TestAskQuestionValidation(t *testing.T) {
	service := newTestService(&stubSearch{}, &stubLLM{})

	_, err := service.AskQuestion(context.Background(), nil)
	assert.Error(t, err)

	_, err = service.AskQuestion(context.Background(), &interfaces.AskRequest{PaperID: "paper_1", Question: "  "})
	assert.Error(t, err)

	_, err = service.AskQuestion(context.Background(), &interfaces.AskRequest{Question: "What?"})
	assert.Error(t, err)
}

func TestAskQuestionIncludesHistory(t *testing.T) {
	search := &stubSearch{
		chunks: []models.RetrievedChunk{
			{Chunk: models.PaperChunk{ChunkIndex: 0, Page: 1, Text: "Intro text."}, Score: 0.5},
		},
	}
	llm := &stubLLM{response: "Follow-up answer."}
	service := newTestService(search, llm)

	_, err := service.AskQuestion(context.Background(), &interfaces.AskRequest{
		PaperID:  "paper_1",
		Question: "And what about the decoder?",
		History: []interfaces.Message{
			{Role: "user", Content: "What is the encoder?"},
			{Role: "assistant", Content: "A stack of six layers."},
		},
	})

	require.NoError(t, err)
	require.Len(t, llm.messages, 4)
	assert.Equal(t, "What is the encoder?", llm.messages[1].Content)
	assert.Equal(t, "A stack of six layers.", llm.messages[2].Content)
}

func TestAskQuestionTruncatesHistory(t *testing.T) {
	search := &stubSearch{
		chunks: []models.RetrievedChunk{
			{Chunk: models.PaperChunk{ChunkIndex: 0, Page: 1, Text: "Text."}, Score: 0.5},
		},
	}
	llm := &stubLLM{response: "ok"}
	service := newTestService(search, llm)

	history := make([]interfaces.Message, 30)
	for i := range history {
		history[i] = interfaces.Message{Role: "user", Content: "old"}
	}

	_, err := service.AskQuestion(context.Background(), &interfaces.AskRequest{
		PaperID:  "paper_1",
		Question: "Latest?",
		History:  history,
	})

	require.NoError(t, err)
	// system + capped history + question
	assert.Len(t, llm.messages, maxHistoryMessages+2)
}
