package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestSummarizeShortTextSingleCall(t *testing.T) {
	llm := &stubLLM{response: "A short summary."}
	summarizer := NewSummarizer(llm, 100, arbor.NewLogger())

	summary, err := summarizer.Summarize(context.Background(), "Attention is all you need.")
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", summary)
	require.Len(t, llm.calls, 1)
	assert.Contains(t, llm.calls[0], "Attention is all you need.")
}

func TestSummarizeEmptyTextFails(t *testing.T) {
	llm := &stubLLM{}
	summarizer := NewSummarizer(llm, 100, arbor.NewLogger())

	_, err := summarizer.Summarize(context.Background(), "   \n\t ")
	assert.Error(t, err)
	assert.Empty(t, llm.calls)
}

func TestSummarizeLargeTextCapsSections(t *testing.T) {
	llm := &stubLLM{response: "section summary"}
	limit := 100
	summarizer := NewSummarizer(llm, limit, arbor.NewLogger())

	// Five sections' worth of text; only the first three are summarized
	// before the combine call, so the trailing marker never reaches the LLM.
	text := strings.Repeat("a", 4*limit) + " tail marker never summarized"
	summary, err := summarizer.Summarize(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, "section summary", summary)

	// Three section calls plus one combine call
	require.Len(t, llm.calls, 4)
	for _, call := range llm.calls {
		assert.NotContains(t, call, "tail marker")
	}
	assert.Contains(t, llm.calls[3], "Section 3 summary")
	assert.NotContains(t, llm.calls[3], "Section 4 summary")
}
