package discovery

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ternarybob/adhyayan/internal/models"
	"github.com/ternarybob/arbor"
)

// atomFeed models the subset of the arXiv Atom response we consume
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title     string       `xml:"title"`
	Summary   string       `xml:"summary"`
	Published string       `xml:"published"`
	Authors   []atomAuthor `xml:"author"`
	Links     []atomLink   `xml:"link"`
	ID        string       `xml:"id"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

// ArxivClient queries the arXiv Atom API for related papers
type ArxivClient struct {
	baseURL    string
	httpClient *http.Client
	logger     arbor.ILogger
}

// NewArxivClient creates a client for the arXiv export API
func NewArxivClient(baseURL string, timeout time.Duration, logger arbor.ILogger) *ArxivClient {
	return &ArxivClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Search queries arXiv for papers matching the query text
func (c *ArxivClient) Search(ctx context.Context, query string, maxResults int) ([]models.RelatedPaper, error) {
	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("max_results", fmt.Sprintf("%d", maxResults))

	requestURL := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create arXiv request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("arXiv returned status %d: %s", resp.StatusCode, string(body))
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode arXiv feed: %w", err)
	}

	papers := make([]models.RelatedPaper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		papers = append(papers, entryToRelatedPaper(entry))
	}

	c.logger.Debug().
		Int("results", len(papers)).
		Msg("arXiv search completed")

	return papers, nil
}

func entryToRelatedPaper(entry atomEntry) models.RelatedPaper {
	authors := make([]string, 0, len(entry.Authors))
	for _, a := range entry.Authors {
		if a.Name != "" {
			authors = append(authors, a.Name)
		}
	}

	// Prefer the abstract-page link, fall back to the entry ID URL
	link := entry.ID
	for _, l := range entry.Links {
		if l.Rel == "alternate" && l.Href != "" {
			link = l.Href
			break
		}
	}

	year := 0
	if len(entry.Published) >= 4 {
		fmt.Sscanf(entry.Published[:4], "%d", &year)
	}

	return models.RelatedPaper{
		Title:    normalizeWhitespace(entry.Title),
		Authors:  authors,
		Year:     year,
		Abstract: normalizeWhitespace(entry.Summary),
		URL:      link,
		Source:   "arxiv",
	}
}

// normalizeWhitespace collapses the hard-wrapped whitespace arXiv feeds carry
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
