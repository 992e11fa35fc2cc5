package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitterShortText(t *testing.T) {
	s := NewSplitter(800, 100)

	chunks := s.Split("A short paragraph that fits in a single chunk.")

	assert.Len(t, chunks, 1)
	assert.Equal(t, "A short paragraph that fits in a single chunk.", chunks[0])
}

func TestSplitterEmptyText(t *testing.T) {
	s := NewSplitter(800, 100)

	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\n  "))
}

func TestSplitterRespectsChunkSize(t *testing.T) {
	s := NewSplitter(200, 40)

	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("The quick brown fox jumps over the lazy dog. ")
	}

	chunks := s.Split(b.String())

	assert.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 200, "chunk %d exceeds size: %d chars", i, len(chunk))
		assert.NotEmpty(t, chunk)
	}
}

func TestSplitterPrefersParagraphBoundaries(t *testing.T) {
	s := NewSplitter(100, 20)

	text := "First paragraph with some content here.\n\nSecond paragraph with different content.\n\nThird paragraph closes it out."

	chunks := s.Split(text)

	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 100)
	}
	assert.Contains(t, chunks[0], "First paragraph")
}

func TestSplitterOverlap(t *testing.T) {
	s := NewSplitter(100, 30)

	words := make([]string, 60)
	for i := range words {
		words[i] = "word"
	}
	text := strings.Join(words, " ")

	chunks := s.Split(text)
	assert.Greater(t, len(chunks), 1)

	// Adjacent chunks should share trailing/leading content
	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1][len(chunks[i-1])-10:]
		assert.Contains(t, chunks[i], strings.TrimSpace(prevTail))
	}
}

func TestSplitterNoSeparators(t *testing.T) {
	s := NewSplitter(50, 10)

	text := strings.Repeat("x", 180)

	chunks := s.Split(text)

	assert.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 50)
	}
}
