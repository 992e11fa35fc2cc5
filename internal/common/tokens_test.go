package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"empty", "", 0},
		{"short", "abcd", 1},
		{"under four chars", "abc", 0},
		{"hundred chars", strings.Repeat("a", 100), 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EstimateTokens(tt.text))
		})
	}
}

func TestCategorizeDocument(t *testing.T) {
	tests := []struct {
		name     string
		tokens   int
		expected DocumentSize
	}{
		{"zero", 0, DocumentSizeSmall},
		{"just under small limit", 4999, DocumentSizeSmall},
		{"at small limit", 5000, DocumentSizeMedium},
		{"just under medium limit", 14999, DocumentSizeMedium},
		{"at medium limit", 15000, DocumentSizeLarge},
		{"huge", 1000000, DocumentSizeLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CategorizeDocument(tt.tokens))
		})
	}
}

func TestTruncateToTokens(t *testing.T) {
	text := strings.Repeat("x", 100)

	assert.Equal(t, text, TruncateToTokens(text, 25), "text at limit is unchanged")
	assert.Equal(t, text, TruncateToTokens(text, 100), "text under limit is unchanged")
	assert.Len(t, TruncateToTokens(text, 10), 40)
	assert.Equal(t, "", TruncateToTokens(text, 0))
}

func TestSplitByChars(t *testing.T) {
	assert.Nil(t, SplitByChars("", 10))
	assert.Nil(t, SplitByChars("abc", 0))

	sections := SplitByChars(strings.Repeat("a", 25), 10)
	assert.Len(t, sections, 3)
	assert.Len(t, sections[0], 10)
	assert.Len(t, sections[1], 10)
	assert.Len(t, sections[2], 5)

	sections = SplitByChars("short", 10)
	assert.Equal(t, []string{"short"}, sections)
}
