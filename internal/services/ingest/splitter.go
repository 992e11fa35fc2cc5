package ingest

import (
	"strings"
)

// separators are tried in order; paragraph breaks first, then lines,
// then words, then a hard character split as the last resort.
var separators = []string{"\n\n", "\n", " ", ""}

// Splitter breaks text into overlapping chunks, preferring to split on
// paragraph and line boundaries before falling back to words.
type Splitter struct {
	chunkSize int
	overlap   int
}

// NewSplitter creates a splitter with the given chunk size and overlap
// in characters. Overlap must be smaller than the chunk size.
func NewSplitter(chunkSize, overlap int) *Splitter {
	return &Splitter{
		chunkSize: chunkSize,
		overlap:   overlap,
	}
}

// Split breaks text into chunks of at most chunkSize characters with the
// configured overlap between adjacent chunks.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.splitRecursive(text, separators)
}

func (s *Splitter) splitRecursive(text string, seps []string) []string {
	// Pick the first separator that actually occurs in the text
	sep := seps[len(seps)-1]
	rest := []string{}
	for i, candidate := range seps {
		if candidate == "" || strings.Contains(text, candidate) {
			sep = candidate
			rest = seps[i+1:]
			break
		}
	}

	pieces := splitKeepingSeparator(text, sep)

	var chunks []string
	var pending []string
	for _, piece := range pieces {
		if len(piece) <= s.chunkSize {
			pending = append(pending, piece)
			continue
		}
		// Flush accumulated small pieces before descending
		if len(pending) > 0 {
			chunks = append(chunks, s.merge(pending, sep)...)
			pending = nil
		}
		if len(rest) == 0 {
			chunks = append(chunks, piece)
		} else {
			chunks = append(chunks, s.splitRecursive(piece, rest)...)
		}
	}
	if len(pending) > 0 {
		chunks = append(chunks, s.merge(pending, sep)...)
	}

	return chunks
}

// merge packs small pieces into chunks up to chunkSize, carrying the
// trailing pieces forward so adjacent chunks share up to overlap characters.
func (s *Splitter) merge(pieces []string, sep string) []string {
	var chunks []string
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunk := strings.TrimSpace(strings.Join(current, sep))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		// Retain a tail of pieces as the overlap for the next chunk
		for currentLen > s.overlap && len(current) > 1 {
			currentLen -= len(current[0]) + len(sep)
			current = current[1:]
		}
		if currentLen > s.overlap {
			current = nil
			currentLen = 0
		}
	}

	for _, piece := range pieces {
		pieceLen := len(piece)
		if pieceLen == 0 {
			continue
		}
		if currentLen > 0 && currentLen+len(sep)+pieceLen > s.chunkSize {
			flush()
		}
		current = append(current, piece)
		currentLen += pieceLen
		if len(current) > 1 {
			currentLen += len(sep)
		}
	}
	if len(current) > 0 {
		chunk := strings.TrimSpace(strings.Join(current, sep))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	return chunks
}

// splitKeepingSeparator splits text on sep; an empty sep splits into
// chunkSize-agnostic single characters handled by the caller's hard split.
func splitKeepingSeparator(text, sep string) []string {
	if sep == "" {
		return hardSplit(text)
	}
	parts := strings.Split(text, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// hardSplit breaks text into single characters so merge can repack them.
// Only reached for pathological input with no separators at all.
func hardSplit(text string) []string {
	runes := []rune(text)
	result := make([]string, 0, len(runes))
	for _, r := range runes {
		result = append(result, string(r))
	}
	return result
}
