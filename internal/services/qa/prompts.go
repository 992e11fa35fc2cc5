package qa

import (
	"fmt"
	"strings"

	"github.com/ternarybob/adhyayan/internal/models"
)

const answerSystemPrompt = `You are a research assistant answering questions about a specific academic paper.
Answer using ONLY the provided context excerpts. Each excerpt is labeled like [Chunk 3 page=5].
Cite the chunk labels that support your answer, e.g. "... as shown in the ablation study [Chunk 3 page=5]."
If the context does not contain the answer, say so plainly instead of guessing.`

// buildContext renders retrieved chunks as labeled excerpts for the prompt
func buildContext(chunks []models.RetrievedChunk) string {
	var b strings.Builder
	for i, rc := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[Chunk %d page=%d]\n%s", rc.Chunk.ChunkIndex, rc.Chunk.Page, rc.Chunk.Text)
	}
	return b.String()
}

// buildQuestionPrompt combines the labeled context with the user's question
func buildQuestionPrompt(question string, chunks []models.RetrievedChunk) string {
	var b strings.Builder
	b.WriteString("Context excerpts from the paper:\n\n")
	b.WriteString(buildContext(chunks))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
