package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/adhyayan/internal/common"
	"github.com/ternarybob/adhyayan/internal/models"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const arxivFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/1706.03762v7</id>
    <title>Attention Is All You Need</title>
    <summary>The dominant sequence transduction models are based on complex
      recurrent or convolutional neural networks.</summary>
    <published>2017-06-12T17:57:34Z</published>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
    <link href="http://arxiv.org/abs/1706.03762v7" rel="alternate" type="text/html"/>
  </entry>
</feed>`

const semanticResponse = `{
  "total": 1,
  "data": [
    {
      "paperId": "abc123",
      "title": "BERT: Pre-training of Deep Bidirectional Transformers",
      "abstract": "We introduce a new language representation model called BERT.",
      "year": 2019,
      "url": "https://www.semanticscholar.org/paper/abc123",
      "citationCount": 90000,
      "authors": [{"name": "Jacob Devlin"}]
    }
  ]
}`

type fixedEmbedding struct {
	vectors map[string][]float32
}

func (f *fixedEmbedding) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	for key, vec := range f.vectors {
		if strings.HasPrefix(text, key) {
			return vec, nil
		}
	}
	return []float32{0, 1}, nil
}
func (f *fixedEmbedding) EmbedChunks(ctx context.Context, chunks []*models.PaperChunk) error { return nil }
func (f *fixedEmbedding) EmbedPaperSummary(ctx context.Context, paper *models.Paper) error   { return nil }
func (f *fixedEmbedding) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	return f.GenerateEmbedding(ctx, query)
}
func (f *fixedEmbedding) ModelName() string                    { return "test-embedding" }
func (f *fixedEmbedding) Dimension() int                       { return 2 }
func (f *fixedEmbedding) IsAvailable(ctx context.Context) bool { return true }

func newTestService(t *testing.T, arxivURL, semanticURL string) *Service {
	t.Helper()

	config := common.NewDefaultConfig()
	config.Discovery.ArxivBaseURL = arxivURL
	config.Discovery.SemanticScholarBaseURL = semanticURL
	config.Discovery.MaxResults = 7

	logger := arbor.NewLogger()
	service := &Service{
		config:          config,
		arxiv:           NewArxivClient(arxivURL, 5*time.Second, logger),
		semanticScholar: NewSemanticScholarClient(semanticURL, 5*time.Second, logger),
		embedding: &fixedEmbedding{vectors: map[string][]float32{
			"Attention": {1, 0},
			"BERT":      {0.9, 0.1},
		}},
		arxivLimiter:    rate.NewLimiter(rate.Inf, 1),
		semanticLimiter: rate.NewLimiter(rate.Inf, 1),
		logger:          logger,
	}
	return service
}

func TestFindRelatedMergesAndRanks(t *testing.T) {
	arxivServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("search_query"), "all:")
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(arxivFeed))
	}))
	defer arxivServer.Close()

	semanticServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/paper/search")
		assert.NotEmpty(t, r.URL.Query().Get("fields"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(semanticResponse))
	}))
	defer semanticServer.Close()

	service := newTestService(t, arxivServer.URL, semanticServer.URL)

	paper := &models.Paper{
		ID:               "paper_1",
		Summary:          "Transformer architectures for sequence transduction tasks.",
		SummaryEmbedding: []float32{1, 0},
	}

	related, err := service.FindRelated(context.Background(), paper)

	require.NoError(t, err)
	require.Len(t, related, 2)
	// The arXiv entry embeds closest to the summary embedding
	assert.Equal(t, "Attention Is All You Need", related[0].Title)
	assert.Equal(t, "arxiv", related[0].Source)
	assert.Equal(t, 2017, related[0].Year)
	assert.Equal(t, []string{"Ashish Vaswani", "Noam Shazeer"}, related[0].Authors)
	assert.Equal(t, "BERT: Pre-training of Deep Bidirectional Transformers", related[1].Title)
	assert.Equal(t, 90000, related[1].Citations)
	assert.Greater(t, related[0].Score, related[1].Score)
}

func TestFindRelatedBothSourcesFail(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	service := newTestService(t, failing.URL, failing.URL)

	paper := &models.Paper{
		ID:               "paper_1",
		Summary:          "Some summary text.",
		SummaryEmbedding: []float32{1, 0},
	}

	related, err := service.FindRelated(context.Background(), paper)

	require.NoError(t, err)
	assert.NotNil(t, related)
	assert.Empty(t, related)
}

func TestFindRelatedDedupesByTitle(t *testing.T) {
	arxivServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(arxivFeed))
	}))
	defer arxivServer.Close()

	// Same title as the arXiv entry, different casing
	duplicate := `{"total":1,"data":[{"paperId":"x","title":"ATTENTION IS ALL YOU NEED","abstract":"","year":2017,"url":"https://example.com","citationCount":1,"authors":[]}]}`
	semanticServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(duplicate))
	}))
	defer semanticServer.Close()

	service := newTestService(t, arxivServer.URL, semanticServer.URL)

	paper := &models.Paper{
		ID:               "paper_1",
		Summary:          "Transformers.",
		SummaryEmbedding: []float32{1, 0},
	}

	related, err := service.FindRelated(context.Background(), paper)

	require.NoError(t, err)
	assert.Len(t, related, 1)
}

func TestSeedQuery(t *testing.T) {
	longSummary := ""
	for i := 0; i < 50; i++ {
		longSummary += "word "
	}

	paper := &models.Paper{Summary: longSummary}
	query := seedQuery(paper)
	assert.Len(t, strings.Fields(query), seedQueryWords)

	paper = &models.Paper{Title: "Fallback Title"}
	assert.Equal(t, "Fallback Title", seedQuery(paper))

	paper = &models.Paper{}
	assert.Equal(t, "", seedQuery(paper))
}

