package citations

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCitationsFromReferencesSection(t *testing.T) {
	text := `Introduction text with some findings.

References
[1] Vaswani, A. (2017) Attention is all you need. NeurIPS.
[2] Devlin, J. (2019) BERT: pre-training of deep bidirectional transformers.
`

	citations := ExtractCitations(text)

	assert.NotEmpty(t, citations)
	assert.Contains(t, citations[0], "Vaswani")

	joined := strings.Join(citations, "\n")
	assert.Contains(t, joined, "Devlin")
}

func TestExtractCitationsAuthorYear(t *testing.T) {
	text := `Bibliography
Bahdanau et al. (2015). Neural machine translation by jointly learning to align and translate.
Sutskever, I. (2014). Sequence to sequence learning with neural networks.
`

	citations := ExtractCitations(text)

	joined := strings.Join(citations, "\n")
	assert.Contains(t, joined, "Bahdanau")
	assert.Contains(t, joined, "Sutskever")
}

func TestExtractCitationsInText(t *testing.T) {
	text := "Prior work (Vaswani, 2017) and follow-ups (Devlin et al., 2019) improved results."

	citations := ExtractCitations(text)

	joined := strings.Join(citations, "\n")
	assert.Contains(t, joined, "Vaswani, 2017")
	assert.Contains(t, joined, "Devlin et al., 2019")
}

func TestExtractCitationsDedupeAndCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("References\n")
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "[%d] Author%d, A. (2020) Paper number %d with a long enough title.\n", i+1, i, i)
	}
	// Duplicate entry should not be counted twice
	b.WriteString("[1] Author0, A. (2020) Paper number 0 with a long enough title.\n")

	citations := ExtractCitations(b.String())

	assert.Len(t, citations, MaxCitations)

	seen := make(map[string]bool)
	for _, c := range citations {
		assert.False(t, seen[strings.ToLower(c)], "duplicate citation: %s", c)
		seen[strings.ToLower(c)] = true
	}
}

func TestExtractCitationsEmpty(t *testing.T) {
	assert.Nil(t, ExtractCitations(""))
	assert.Empty(t, ExtractCitations("No references here at all."))
}

func TestExtractDOIs(t *testing.T) {
	text := `See https://doi.org/10.48550/arXiv.1706.03762 and 10.1038/nature14539.
Also repeated: 10.48550/arXiv.1706.03762`

	dois := ExtractDOIs(text)

	assert.Equal(t, []string{"10.48550/arXiv.1706.03762", "10.1038/nature14539"}, dois)
}

func TestExtractDOIsCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "10.1234/paper.%d ", i)
	}

	dois := ExtractDOIs(b.String())

	assert.Len(t, dois, MaxDOIs)
}
