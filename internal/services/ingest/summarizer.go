package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/adhyayan/internal/common"
	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/arbor"
)

// maxSummarySections bounds the map phase for very large papers; the
// opening sections carry the abstract, introduction, and methods, which
// is what the summary needs.
const maxSummarySections = 3

const summarySystemPrompt = "You are a research assistant. You summarize academic papers accurately and concisely, focusing on the research question, methods, and key findings."

// Summarizer produces topic summaries of paper text, splitting large
// papers into sections and combining the per-section summaries.
type Summarizer struct {
	llm    interfaces.LLMService
	limit  int
	logger arbor.ILogger
}

// NewSummarizer creates a summarizer. limit is the maximum number of
// characters sent to the LLM in a single call.
func NewSummarizer(llm interfaces.LLMService, limit int, logger arbor.ILogger) *Summarizer {
	return &Summarizer{
		llm:    llm,
		limit:  limit,
		logger: logger,
	}
}

// Summarize generates a concise topic summary of the paper text.
// Text longer than the single-call limit is split into sections, the
// leading sections are summarized individually, and the results are
// combined in a final call.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no text to summarize")
	}

	if len(text) <= s.limit {
		return s.summarizeSection(ctx, text)
	}

	sections := common.SplitByChars(text, s.limit)
	if len(sections) > maxSummarySections {
		sections = sections[:maxSummarySections]
	}

	s.logger.Debug().
		Int("total_chars", len(text)).
		Int("sections", len(sections)).
		Msg("Summarizing large paper in sections")

	sectionSummaries := make([]string, 0, len(sections))
	for i, section := range sections {
		summary, err := s.summarizeSection(ctx, section)
		if err != nil {
			return "", fmt.Errorf("failed to summarize section %d: %w", i+1, err)
		}
		sectionSummaries = append(sectionSummaries, summary)
	}

	if len(sectionSummaries) == 1 {
		return sectionSummaries[0], nil
	}

	return s.combineSummaries(ctx, sectionSummaries)
}

func (s *Summarizer) summarizeSection(ctx context.Context, text string) (string, error) {
	messages := []interfaces.Message{
		{Role: "system", Content: summarySystemPrompt},
		{Role: "user", Content: "Summarize the main topics, methods, and findings of the following research paper text in one concise paragraph:\n\n" + text},
	}

	summary, err := s.llm.Chat(ctx, messages)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(summary), nil
}

func (s *Summarizer) combineSummaries(ctx context.Context, summaries []string) (string, error) {
	var b strings.Builder
	b.WriteString("The following are summaries of consecutive sections of one research paper. Combine them into a single concise paragraph describing the paper's topics, methods, and findings:\n")
	for i, summary := range summaries {
		fmt.Fprintf(&b, "\nSection %d summary:\n%s\n", i+1, summary)
	}

	messages := []interfaces.Message{
		{Role: "system", Content: summarySystemPrompt},
		{Role: "user", Content: b.String()},
	}

	combined, err := s.llm.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to combine section summaries: %w", err)
	}
	return strings.TrimSpace(combined), nil
}
