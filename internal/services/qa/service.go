package qa

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/adhyayan/internal/common"
	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/arbor"
)

// maxHistoryMessages bounds how much prior conversation is replayed to
// the model; the labeled context carries the paper content either way.
const maxHistoryMessages = 10

// Service answers questions about ingested papers by retrieving the
// most relevant chunks and asking the LLM for a cited answer.
type Service struct {
	config *common.Config
	search interfaces.SearchService
	llm    interfaces.LLMService
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.QAService = (*Service)(nil)

// NewService creates a new question answering service
func NewService(config *common.Config, search interfaces.SearchService, llm interfaces.LLMService, logger arbor.ILogger) *Service {
	return &Service{
		config: config,
		search: search,
		llm:    llm,
		logger: logger,
	}
}

// AskQuestion retrieves the most relevant chunks for the question and
// generates an answer citing chunk labels.
func (s *Service) AskQuestion(ctx context.Context, req *interfaces.AskRequest) (*interfaces.Answer, error) {
	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, fmt.Errorf("question cannot be empty")
	}
	if req.PaperID == "" {
		return nil, fmt.Errorf("paper_id is required")
	}

	chunks, err := s.search.RetrieveChunks(ctx, req.PaperID, question, s.config.Ingest.TopK)
	if err != nil {
		return nil, fmt.Errorf("chunk retrieval failed: %w", err)
	}

	messages := make([]interfaces.Message, 0, len(req.History)+2)
	messages = append(messages, interfaces.Message{Role: "system", Content: answerSystemPrompt})

	history := req.History
	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}
	messages = append(messages, history...)

	messages = append(messages, interfaces.Message{
		Role:    "user",
		Content: buildQuestionPrompt(question, chunks),
	})

	answer, err := s.llm.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("answer generation failed: %w", err)
	}

	model := s.config.LLM.DefaultModel()

	s.logger.Debug().
		Str("paper_id", req.PaperID).
		Int("chunks", len(chunks)).
		Str("model", model).
		Msg("Answered question")

	return &interfaces.Answer{
		Text:   strings.TrimSpace(answer),
		Chunks: chunks,
		Model:  model,
	}, nil
}

// HealthCheck verifies the underlying LLM service is reachable
func (s *Service) HealthCheck(ctx context.Context) error {
	return s.llm.HealthCheck(ctx)
}
