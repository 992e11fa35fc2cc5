package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/arbor"
)

// GroqClient is a minimal client for the Groq OpenAI-compatible
// chat completions API. Groq exposes no embedding endpoint; embeddings
// are always served by Gemini.
type GroqClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
}

// NewGroqClient creates a new Groq API client
func NewGroqClient(baseURL, apiKey string, timeout time.Duration, logger arbor.ILogger) *GroqClient {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &GroqClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type groqChatRequest struct {
	Model       string            `json:"model"`
	Messages    []groqChatMessage `json:"messages"`
	Temperature float32           `json:"temperature"`
	MaxTokens   int               `json:"max_tokens,omitempty"`
}

type groqChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqChatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// ChatCompletion sends a chat completion request and returns the first choice
func (c *GroqClient) ChatCompletion(ctx context.Context, model string, messages []interfaces.Message, temperature float32, maxTokens int) (string, error) {
	reqBody := groqChatRequest{
		Model:       model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	for _, msg := range messages {
		reqBody.Messages = append(reqBody.Messages, groqChatMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("groq request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return "", fmt.Errorf("failed to read groq response: %w", err)
	}

	var chatResp groqChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to decode groq response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if chatResp.Error != nil {
			return "", fmt.Errorf("groq API error %d (%s): %s", resp.StatusCode, chatResp.Error.Code, chatResp.Error.Message)
		}
		return "", fmt.Errorf("groq API error %d: %s", resp.StatusCode, string(body))
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from groq API")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// HealthCheck verifies the API is reachable by listing models
func (c *GroqClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("groq health check failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("groq health check returned status %d", resp.StatusCode)
	}
	return nil
}
