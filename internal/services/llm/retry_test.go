package llm

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRateLimitError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"429 status", errors.New("Error 429, too many requests"), true},
		{"resource exhausted", errors.New("Status: RESOURCE_EXHAUSTED"), true},
		{"groq rate limit", errors.New("rate_limit_exceeded: please try again in 2.5s"), true},
		{"quota message", errors.New("quota exceeded for this project"), true},
		{"unrelated error", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRateLimitError(tt.err))
		})
	}
}

func TestExtractRetryDelay(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected time.Duration
	}{
		{"nil error", nil, 0},
		{"no delay in message", errors.New("Error 429"), 0},
		{
			"gemini style",
			errors.New("Error 429, Message: quota exceeded. Please retry in 45.387061394s., Status: RESOURCE_EXHAUSTED"),
			time.Duration(45.387061394 * float64(time.Second)),
		},
		{"retryDelay field", errors.New("retryDelay: 30s"), 30 * time.Second},
		{"groq style", errors.New("rate_limit_exceeded: try again in 7.5s"), 7500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractRetryDelay(tt.err))
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	config := NewDefaultRetryConfig()

	// First attempt with no API hint uses the initial backoff
	assert.Equal(t, DefaultInitialBackoff, config.CalculateBackoff(0, 0))

	// API-provided delay gets a small buffer
	assert.Equal(t, 15*time.Second, config.CalculateBackoff(0, 10*time.Second))

	// Later attempts grow by the multiplier
	second := config.CalculateBackoff(1, 10*time.Second)
	assert.Equal(t, time.Duration(float64(15*time.Second)*1.5), second)

	// Backoff never exceeds the cap
	assert.Equal(t, DefaultMaxBackoff, config.CalculateBackoff(10, 60*time.Second))
}
