package common

// Token estimation helpers. The service never tokenizes precisely; a
// chars/4 approximation is enough to size prompts and pick a summarization
// strategy per document.

// DocumentSize categorizes a document by estimated token count
type DocumentSize string

const (
	DocumentSizeSmall  DocumentSize = "small"  // < 5,000 tokens
	DocumentSizeMedium DocumentSize = "medium" // < 15,000 tokens
	DocumentSizeLarge  DocumentSize = "large"
)

const (
	smallTokenLimit  = 5000
	mediumTokenLimit = 15000
)

// EstimateTokens approximates the token count of text as len/4
func EstimateTokens(text string) int {
	return len(text) / 4
}

// CategorizeDocument returns the size category for an estimated token count
func CategorizeDocument(tokens int) DocumentSize {
	switch {
	case tokens < smallTokenLimit:
		return DocumentSizeSmall
	case tokens < mediumTokenLimit:
		return DocumentSizeMedium
	default:
		return DocumentSizeLarge
	}
}

// TruncateToTokens truncates text so its estimated token count does not
// exceed maxTokens. Returns the text unchanged when it already fits.
func TruncateToTokens(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	maxChars := maxTokens * 4
	if len(text) <= maxChars {
		return text
	}
	return text[:maxChars]
}

// SplitByChars splits text into sections of at most maxChars characters.
// Used by map/reduce summarization for large documents.
func SplitByChars(text string, maxChars int) []string {
	if maxChars <= 0 || text == "" {
		return nil
	}
	var sections []string
	for len(text) > maxChars {
		sections = append(sections, text[:maxChars])
		text = text[maxChars:]
	}
	if len(text) > 0 {
		sections = append(sections, text)
	}
	return sections
}
