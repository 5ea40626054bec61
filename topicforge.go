package topicforge

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/querylens/topicforge/internal/db"
	dbRedis "github.com/querylens/topicforge/internal/db/redis"
	"github.com/querylens/topicforge/internal/domain"
	"github.com/querylens/topicforge/internal/metrics"
	"github.com/querylens/topicforge/internal/repository/embcache"
	topicsuc "github.com/querylens/topicforge/internal/usecase/topics"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheTTL         = 30 * 24 * time.Hour
)

// Engine is the embedded pipeline entry point.
type Engine struct {
	store    db.Store
	pipeline *topicsuc.Service
}

// New creates an Engine. The provided context is used for the cache
// readiness check when a cache is configured.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	cfg := &engineConfig{cacheTTL: defaultCacheTTL}
	for _, o := range opts {
		o.apply(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	params := domainParams(cfg.params)
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("topicforge: %w", err)
	}

	var store db.Store
	if len(cfg.cacheAddrs) > 0 {
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.cacheAddrs,
			Username: cfg.cacheUsername,
			Password: cfg.cachePassword,
			DB:       cfg.cacheDB,
		})
		if err != nil {
			return nil, fmt.Errorf("topicforge: create cache store: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("topicforge: cache not ready: %w", err)
		}
		store = s
	}

	var domEmb domain.Embedder
	if cfg.embedder != nil {
		domEmb = &embedderAdapter{inner: cfg.embedder}
		if store != nil {
			domEmb = embcache.New(domEmb, store, cfg.cacheTTL, metrics.EmbeddingCacheTotal, logger)
		}
	}

	var domLab domain.Labeler
	if cfg.labeler != nil {
		domLab = cfg.labeler
	}

	return &Engine{
		store:    store,
		pipeline: topicsuc.New(domEmb, domLab, params, logger),
	}, nil
}

// Close releases the cache connection, if any.
func (e *Engine) Close() {
	if e.store != nil {
		e.store.Close()
	}
}

// Ping checks cache connectivity. Returns nil when no cache is configured.
func (e *Engine) Ping(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	if err := e.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// ClusterAndRank turns candidate queries into labeled, ranked topics.
// Given identical inputs and vectors, two calls produce identical output.
func (e *Engine) ClusterAndRank(
	ctx context.Context, company Company, queries []Query,
) ([]Topic, error) {
	records := make([]domain.QueryRecord, 0, len(queries))
	for _, q := range queries {
		records = append(records, recordFromQuery(q))
	}

	topics, err := e.pipeline.ClusterAndRank(ctx, records, profileFromCompany(company))
	if err != nil {
		return nil, err
	}

	out := make([]Topic, 0, len(topics))
	for i := range topics {
		out = append(out, topicFromDomain(&topics[i]))
	}
	return out, nil
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// BatchEmbed uses the inner batch API when available, falling back to
// per-text calls otherwise.
func (a *embedderAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if be, ok := a.inner.(BatchEmbedder); ok {
		r, err := be.BatchEmbed(ctx, texts)
		if err != nil {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
		}
		return domain.BatchEmbeddingResult{
			Embeddings:   r.Embeddings,
			PromptTokens: r.PromptTokens,
			TotalTokens:  r.TotalTokens,
		}, nil
	}
	return domain.BatchFallback(ctx, a, texts)
}

func domainParams(p Params) domain.Params {
	params := domain.Params{
		SimilarityThreshold: p.SimilarityThreshold,
		ClusterCap:          p.ClusterCap,
		CentroidAcceptance:  p.CentroidAcceptance,
		BrandFloor:          p.BrandFloor,
		TopQueriesPerTopic:  p.TopQueriesPerTopic,
		TopicScoreMembers:   p.TopicScoreMembers,
		MaxTopics:           p.MaxTopics,
	}
	params.ApplyDefaults()
	return params
}

func recordFromQuery(q Query) domain.QueryRecord {
	rec := domain.QueryRecord{
		TextOriginal:   q.Text,
		Source:         domain.Source(q.Source),
		Intent:         domain.Intent(q.Intent),
		DemandProvider: q.DemandProvider,
	}
	if !rec.Source.IsValid() {
		rec.Source = domain.SourceGenerated
	}
	if rec.Intent == "" {
		rec.Intent = domain.IntentUnknown
	}
	if q.Demand != nil {
		rec.Demand = *q.Demand
		rec.HasDemand = true
	}
	if q.Brand != nil {
		rec.Brand = &domain.BrandAffinity{
			Score: q.Brand.Score,
			Class: domain.BrandClass(q.Brand.Class),
		}
	}
	return rec
}

func profileFromCompany(c Company) domain.CompanyProfile {
	return domain.CompanyProfile{
		Name:        c.Name,
		Products:    c.Products,
		Services:    c.Services,
		Categories:  c.Categories,
		Audience:    c.Audience,
		SiteExcerpt: c.SiteExcerpt,
	}
}

func topicFromDomain(t *domain.Topic) Topic {
	top := make([]RankedQuery, 0, len(t.TopQueries))
	for i := range t.TopQueries {
		top = append(top, rankedFromScored(&t.TopQueries[i]))
	}
	return Topic{
		ID:             t.ID,
		Label:          t.Label,
		Score:          t.Score,
		Confidence:     t.Confidence,
		VolumeCoverage: t.VolumeCoverage,
		QueryCount:     t.MemberCount(),
		TopQueries:     top,
	}
}

func rankedFromScored(q *domain.ScoredQuery) RankedQuery {
	rq := RankedQuery{
		Text:       q.TextOriginal,
		Normalized: q.TextNormalized,
		Source:     string(q.Source),
		Intent:     string(q.Intent),
		Score:      q.QueryScore,
		Confidence: q.Confidence,
		Provenance: q.Provenance,
	}
	if q.HasDemand {
		d := q.Demand
		rq.Demand = &d
	}
	return rq
}
