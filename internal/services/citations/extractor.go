// Package citations extracts reference entries and DOIs from research
// paper text using pattern matching. No external calls are made; the
// extraction is best-effort over whatever text the PDF layer produced.
package citations

import (
	"regexp"
	"strings"
)

const (
	// MaxCitations caps the number of extracted reference entries
	MaxCitations = 15
	// MaxDOIs caps the number of extracted DOI identifiers
	MaxDOIs = 10
	// minCitationLength filters out fragments that are too short to be references
	minCitationLength = 10
)

var (
	// referencesSectionRegex locates the references/bibliography section heading
	referencesSectionRegex = regexp.MustCompile(`(?is)(?:references|bibliography|works cited)\s*\n(.+)`)

	// authorYearRegex matches entries like "Vaswani et al. (2017). Attention is all you need."
	authorYearRegex = regexp.MustCompile(`[A-Z][A-Za-z\-']+(?:,?\s+(?:[A-Z]\.|and|et\s+al\.?|[A-Z][A-Za-z\-']+))*\s*\((?:19|20)\d{2}\)\.?\s+[^.\n]+\.`)

	// numberedRegex matches entries like "[12] Vaswani, A. (2017) ..."
	numberedRegex = regexp.MustCompile(`\[\d+\]\s+[^\[\n]+?\((?:19|20)\d{2}\)[^\[\n]*`)

	// inTextRegex matches in-text citations like "(Vaswani, 2017)" or "(Devlin et al., 2019)"
	inTextRegex = regexp.MustCompile(`\(([A-Z][A-Za-z\-']+(?:\s+(?:et\s+al\.?|and\s+[A-Z][A-Za-z\-']+))?,\s*(?:19|20)\d{2}[a-z]?)\)`)

	// doiRegex matches DOI identifiers
	doiRegex = regexp.MustCompile(`10\.\d{4,9}/[-._;()/:A-Za-z0-9]+`)
)

// ExtractCitations extracts reference entries from paper text.
// The references section is searched first; author-year and numbered
// patterns over the whole text fill in the rest. Results are deduplicated
// and capped at MaxCitations.
func ExtractCitations(text string) []string {
	if text == "" {
		return nil
	}

	var candidates []string

	// Prefer the references section when present
	if m := referencesSectionRegex.FindStringSubmatch(text); len(m) > 1 {
		section := m[1]
		candidates = append(candidates, numberedRegex.FindAllString(section, -1)...)
		candidates = append(candidates, authorYearRegex.FindAllString(section, -1)...)
	}

	candidates = append(candidates, numberedRegex.FindAllString(text, -1)...)
	candidates = append(candidates, authorYearRegex.FindAllString(text, -1)...)

	// In-text citations as a fallback signal
	for _, m := range inTextRegex.FindAllStringSubmatch(text, -1) {
		if len(m) > 1 {
			candidates = append(candidates, m[1])
		}
	}

	seen := make(map[string]bool)
	var citations []string
	for _, candidate := range candidates {
		cleaned := strings.TrimSpace(strings.Join(strings.Fields(candidate), " "))
		if len(cleaned) < minCitationLength {
			continue
		}
		key := strings.ToLower(cleaned)
		if seen[key] {
			continue
		}
		seen[key] = true
		citations = append(citations, cleaned)
		if len(citations) >= MaxCitations {
			break
		}
	}

	return citations
}

// ExtractDOIs extracts DOI identifiers from paper text, deduplicated
// and capped at MaxDOIs.
func ExtractDOIs(text string) []string {
	if text == "" {
		return nil
	}

	seen := make(map[string]bool)
	var dois []string
	for _, match := range doiRegex.FindAllString(text, -1) {
		// Strip trailing punctuation picked up by the character class
		cleaned := strings.TrimRight(match, ".,;)")
		key := strings.ToLower(cleaned)
		if seen[key] {
			continue
		}
		seen[key] = true
		dois = append(dois, cleaned)
		if len(dois) >= MaxDOIs {
			break
		}
	}

	return dois
}
