package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ternarybob/adhyayan/internal/models"
	"github.com/ternarybob/arbor"
)

// semanticSearchResponse models the Graph API paper search response
type semanticSearchResponse struct {
	Total int             `json:"total"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID       string           `json:"paperId"`
	Title         string           `json:"title"`
	Abstract      string           `json:"abstract"`
	Year          int              `json:"year"`
	URL           string           `json:"url"`
	CitationCount int              `json:"citationCount"`
	Authors       []semanticAuthor `json:"authors"`
}

type semanticAuthor struct {
	Name string `json:"name"`
}

// SemanticScholarClient queries the Semantic Scholar Graph API
type SemanticScholarClient struct {
	baseURL    string
	httpClient *http.Client
	logger     arbor.ILogger
}

// NewSemanticScholarClient creates a client for the Graph API
func NewSemanticScholarClient(baseURL string, timeout time.Duration, logger arbor.ILogger) *SemanticScholarClient {
	return &SemanticScholarClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Search queries Semantic Scholar for papers matching the query text
func (c *SemanticScholarClient) Search(ctx context.Context, query string, maxResults int) ([]models.RelatedPaper, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", fmt.Sprintf("%d", maxResults))
	params.Set("fields", "title,abstract,year,url,citationCount,authors")

	requestURL := c.baseURL + "/paper/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Semantic Scholar request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("Semantic Scholar returned status %d: %s", resp.StatusCode, string(body))
	}

	var result semanticSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode Semantic Scholar response: %w", err)
	}

	papers := make([]models.RelatedPaper, 0, len(result.Data))
	for _, p := range result.Data {
		authors := make([]string, 0, len(p.Authors))
		for _, a := range p.Authors {
			if a.Name != "" {
				authors = append(authors, a.Name)
			}
		}
		papers = append(papers, models.RelatedPaper{
			Title:     p.Title,
			Authors:   authors,
			Year:      p.Year,
			Abstract:  p.Abstract,
			URL:       p.URL,
			Source:    "semanticscholar",
			Citations: p.CitationCount,
		})
	}

	c.logger.Debug().
		Int("results", len(papers)).
		Msg("Semantic Scholar search completed")

	return papers, nil
}
