package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/adhyayan/internal/common"
	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

// Service implements the LLMService interface over the provider factory.
// Chat goes to the configured default provider; embeddings go to Gemini.
type Service struct {
	config   *common.LLMConfig
	factory  *ProviderFactory
	logger   arbor.ILogger
	limiters map[ProviderType]*rate.Limiter
}

// Compile-time interface assertion
var _ interfaces.LLMService = (*Service)(nil)

// NewService creates a new LLM service
func NewService(config *common.LLMConfig, kvStorage interfaces.KeyValueStorage, logger arbor.ILogger) *Service {
	factory := NewProviderFactory(config, kvStorage, logger)

	limiters := map[ProviderType]*rate.Limiter{
		ProviderGroq:   newLimiter(config.Groq.RateLimit, 2*time.Second),
		ProviderGemini: newLimiter(config.Gemini.RateLimit, 4*time.Second),
		ProviderClaude: newLimiter(config.Claude.RateLimit, time.Second),
	}

	return &Service{
		config:   config,
		factory:  factory,
		logger:   logger,
		limiters: limiters,
	}
}

func newLimiter(interval string, fallback time.Duration) *rate.Limiter {
	d, err := time.ParseDuration(interval)
	if err != nil || d <= 0 {
		d = fallback
	}
	return rate.NewLimiter(rate.Every(d), 1)
}

// wait blocks until the provider's rate limiter grants a slot
func (s *Service) wait(ctx context.Context, provider ProviderType) error {
	limiter, ok := s.limiters[provider]
	if !ok {
		return nil
	}
	return limiter.Wait(ctx)
}

// Embed generates an embedding vector via the Gemini embedding model
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}
	if err := s.wait(ctx, ProviderGemini); err != nil {
		return nil, err
	}
	return s.factory.EmbedText(ctx, text)
}

// Chat generates a completion using the configured default provider
func (s *Service) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("cannot chat with no messages")
	}

	provider := ProviderType(s.config.DefaultProvider)
	if err := s.wait(ctx, provider); err != nil {
		return "", err
	}

	resp, err := s.factory.GenerateContent(ctx, &ContentRequest{
		Messages: messages,
		Model:    s.factory.GetDefaultModel(provider),
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// EmbeddingDimension returns the configured embedding vector dimension
func (s *Service) EmbeddingDimension() int {
	return s.config.Gemini.EmbeddingDim
}

// HealthCheck verifies the default chat provider is reachable
func (s *Service) HealthCheck(ctx context.Context) error {
	switch ProviderType(s.config.DefaultProvider) {
	case ProviderGroq:
		client, err := s.factory.GetGroqClient(ctx)
		if err != nil {
			return err
		}
		return client.HealthCheck(ctx)
	case ProviderGemini:
		_, err := s.factory.GetGeminiClient(ctx)
		return err
	case ProviderClaude:
		_, err := s.factory.GetClaudeClient(ctx)
		return err
	default:
		return fmt.Errorf("unknown provider: %s", s.config.DefaultProvider)
	}
}

// GetMode returns the current operational mode
func (s *Service) GetMode() interfaces.LLMMode {
	if s.config.DefaultProvider == "" {
		return interfaces.LLMModeDisabled
	}
	return interfaces.LLMModeCloud
}

// Close releases provider clients
func (s *Service) Close() error {
	return s.factory.Close()
}
