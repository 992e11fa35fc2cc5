package discovery

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/adhyayan/internal/common"
	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/adhyayan/internal/models"
	"github.com/ternarybob/adhyayan/internal/services/search"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

// seedQueryWords caps how much of the summary seeds the search query;
// external APIs reject overlong query strings.
const seedQueryWords = 30

// searcher is the common shape of the external paper index clients
type searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]models.RelatedPaper, error)
}

// Service finds papers related to an ingested paper by querying external
// indexes and re-ranking candidates against the paper's summary embedding.
type Service struct {
	config          *common.Config
	arxiv           searcher
	semanticScholar searcher
	embedding       interfaces.EmbeddingService
	arxivLimiter    *rate.Limiter
	semanticLimiter *rate.Limiter
	logger          arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.DiscoveryService = (*Service)(nil)

// NewService creates a discovery service with clients for both indexes
func NewService(config *common.Config, embedding interfaces.EmbeddingService, logger arbor.ILogger) *Service {
	timeout := parseDurationOr(config.Discovery.RequestTimeout, 15*time.Second)

	return &Service{
		config:          config,
		arxiv:           NewArxivClient(config.Discovery.ArxivBaseURL, timeout, logger),
		semanticScholar: NewSemanticScholarClient(config.Discovery.SemanticScholarBaseURL, timeout, logger),
		embedding:       embedding,
		arxivLimiter:    newLimiter(config.Discovery.ArxivRateLimit, 3*time.Second),
		semanticLimiter: newLimiter(config.Discovery.SemanticRateLimit, time.Second),
		logger:          logger,
	}
}

// FindRelated queries both indexes seeded from the paper summary, embeds
// each candidate, and returns the top results by similarity to the paper's
// summary embedding. Both sources failing yields an empty slice, not an
// error; discovery is best-effort.
func (s *Service) FindRelated(ctx context.Context, paper *models.Paper) ([]models.RelatedPaper, error) {
	query := seedQuery(paper)
	if query == "" {
		return []models.RelatedPaper{}, nil
	}

	maxResults := s.config.Discovery.MaxResults
	// Over-fetch so re-ranking and deduplication have candidates to drop
	fetchCount := maxResults * 2

	var candidates []models.RelatedPaper

	if err := s.arxivLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	arxivResults, err := s.arxiv.Search(ctx, query, fetchCount)
	if err != nil {
		s.logger.Warn().Err(err).Msg("arXiv search failed")
	} else {
		candidates = append(candidates, arxivResults...)
	}

	if err := s.semanticLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	semanticResults, err := s.semanticScholar.Search(ctx, query, fetchCount)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Semantic Scholar search failed")
	} else {
		candidates = append(candidates, semanticResults...)
	}

	if len(candidates) == 0 {
		return []models.RelatedPaper{}, nil
	}

	s.scoreCandidates(ctx, paper, candidates)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	ranked := dedupeByTitle(candidates)
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	s.logger.Info().
		Str("paper_id", paper.ID).
		Int("candidates", len(candidates)).
		Int("returned", len(ranked)).
		Msg("Related paper discovery completed")

	return ranked, nil
}

// scoreCandidates embeds each candidate's title and abstract and scores
// it against the paper's summary embedding. Candidates that fail to embed
// keep a zero score rather than failing the whole discovery.
func (s *Service) scoreCandidates(ctx context.Context, paper *models.Paper, candidates []models.RelatedPaper) {
	if len(paper.SummaryEmbedding) == 0 {
		return
	}

	for i := range candidates {
		text := strings.TrimSpace(candidates[i].Title + "\n" + candidates[i].Abstract)
		if text == "" {
			continue
		}
		embedding, err := s.embedding.GenerateEmbedding(ctx, text)
		if err != nil {
			s.logger.Warn().Err(err).Str("title", candidates[i].Title).Msg("Failed to embed discovery candidate")
			continue
		}
		candidates[i].Score = search.CosineSimilarity(paper.SummaryEmbedding, embedding)
	}
}

// seedQuery builds the search query from the leading words of the summary,
// falling back to the title for papers without one
func seedQuery(paper *models.Paper) string {
	source := paper.Summary
	if strings.TrimSpace(source) == "" {
		source = paper.Title
	}
	words := strings.Fields(source)
	if len(words) > seedQueryWords {
		words = words[:seedQueryWords]
	}
	return strings.Join(words, " ")
}

// dedupeByTitle drops candidates whose normalized title was already seen.
// Callers sort by score first so the best-scored duplicate survives.
func dedupeByTitle(candidates []models.RelatedPaper) []models.RelatedPaper {
	seen := make(map[string]bool)
	result := make([]models.RelatedPaper, 0, len(candidates))
	for _, c := range candidates {
		key := normalizeTitle(c.Title)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, c)
	}
	return result
}

func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

func newLimiter(interval string, fallback time.Duration) *rate.Limiter {
	return rate.NewLimiter(rate.Every(parseDurationOr(interval, fallback)), 1)
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
