package topics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/querylens/topicforge/internal/domain"
	"github.com/querylens/topicforge/internal/metrics"
	"github.com/querylens/topicforge/internal/usecase/cluster"
	"github.com/querylens/topicforge/internal/usecase/normalize"
	"github.com/querylens/topicforge/internal/usecase/scoring"
)

// Service orchestrates the full pipeline: normalize, embed, score, cluster,
// aggregate, label. It owns no I/O beyond the embedder and labeler
// collaborators; given identical inputs and vectors, two runs produce
// identical topics.
type Service struct {
	normalizer *normalize.Service
	scorer     *scoring.Service
	clusterer  *cluster.Service
	embedder   Embedder
	labeler    Labeler
	params     domain.Params
	logger     *zap.Logger
}

// New creates the pipeline service. embedder and labeler may be nil; both
// absences degrade to deterministic fallbacks rather than failing runs.
func New(embedder Embedder, labeler Labeler, params domain.Params, logger *zap.Logger) *Service {
	params.ApplyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		normalizer: normalize.New(),
		scorer:     scoring.New(scoring.DefaultWeights(), params.BrandFloor),
		clusterer:  cluster.New(params),
		embedder:   embedder,
		labeler:    labeler,
		params:     params,
		logger:     logger,
	}
}

// WithWeights overrides the default scoring weights.
func (s *Service) WithWeights(w scoring.Weights) *Service {
	s.scorer = scoring.New(w, s.params.BrandFloor)
	return s
}

// ClusterAndRank turns candidate queries into labeled, ranked topics.
// The only hard error is an input that normalizes to nothing; every
// collaborator failure degrades to a neutral value or a fallback path.
func (s *Service) ClusterAndRank(
	ctx context.Context, queries []domain.QueryRecord, company domain.CompanyProfile,
) ([]domain.Topic, error) {
	start := time.Now()

	records, stats := s.normalizer.Run(queries)
	if len(records) == 0 {
		metrics.PipelineRunsTotal.WithLabelValues("none", "empty_input").Inc()
		return nil, domain.ErrEmptyInput
	}
	if stats.DroppedEmpty > 0 || stats.Merged > 0 {
		s.logger.Debug("Normalized query batch",
			zap.Int("surviving", len(records)),
			zap.Int("dropped_empty", stats.DroppedEmpty),
			zap.Int("merged_duplicates", stats.Merged),
		)
	}

	companyRef := s.embedCompany(ctx, &company)
	s.embedQueries(ctx, records)

	scored := s.scorer.Score(records, companyRef)
	clusters := s.clusterer.Run(scored)
	topics := s.aggregate(ctx, clusters)

	mode := "vector"
	if len(clusters) > 0 && clusters[0].Label != "" {
		mode = "keyword"
	}
	metrics.PipelineRunsTotal.WithLabelValues(mode, "success").Inc()
	metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	metrics.PipelineQueriesTotal.Add(float64(len(records)))
	metrics.PipelineTopicsPerRun.Observe(float64(len(topics)))

	s.logger.Info("Pipeline run completed",
		zap.String("mode", mode),
		zap.Int("queries", len(records)),
		zap.Int("topics", len(topics)),
		zap.Duration("duration", time.Since(start)),
	)

	return topics, nil
}

// embedCompany builds the company reference vector, once per run. Returns
// nil when the embedder is absent, the profile is empty, or the provider
// fails; downstream relevance then degrades to neutral.
func (s *Service) embedCompany(ctx context.Context, company *domain.CompanyProfile) []float32 {
	if s.embedder == nil || company.IsEmpty() {
		return nil
	}

	res, err := s.embedder.Embed(ctx, company.ReferenceText())
	if err != nil {
		s.logger.Warn("Company reference embedding failed, relevance degrades to neutral",
			zap.Error(err))
		return nil
	}
	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)
	return res.Embedding
}

// embedQueries fills missing vectors in place. Returned vectors are
// re-associated by original index, never by response order. A provider
// failure leaves the batch vectorless and the run falls back to keyword
// clustering.
func (s *Service) embedQueries(ctx context.Context, records []domain.QueryRecord) {
	if s.embedder == nil {
		return
	}

	var missing []int
	for i := range records {
		if len(records[i].Vector) == 0 {
			missing = append(missing, i)
		}
	}
	if len(missing) == 0 {
		return
	}

	texts := make([]string, len(missing))
	for i, idx := range missing {
		texts[i] = records[idx].TextNormalized
	}

	result, err := s.batchEmbed(ctx, texts)
	if err != nil {
		s.logger.Warn("Query embedding failed, batch proceeds without vectors",
			zap.Int("missing", len(missing)),
			zap.Error(err),
		)
		return
	}
	domain.UsageFromContext(ctx).AddTokens(result.TotalTokens)
	if len(result.Embeddings) != len(missing) {
		s.logger.Warn("Embedding count mismatch, batch proceeds without vectors",
			zap.Int("want", len(missing)),
			zap.Int("got", len(result.Embeddings)),
		)
		return
	}

	for i, idx := range missing {
		records[idx].Vector = result.Embeddings[i]
	}
}

func (s *Service) batchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if be, ok := s.embedder.(domain.BatchEmbedder); ok {
		return be.BatchEmbed(ctx, texts)
	}
	return domain.BatchFallback(ctx, embedderAdapter{s.embedder}, texts)
}

// embedderAdapter lifts the local consumer interface to domain.Embedder for
// BatchFallback.
type embedderAdapter struct{ e Embedder }

func (a embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	return a.e.Embed(ctx, text)
}
