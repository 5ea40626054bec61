package chi

import (
	"time"

	"github.com/querylens/topicforge/internal/domain"
	domusage "github.com/querylens/topicforge/internal/domain/usage"
)

// TopicsRequest is the body of POST /v1/topics.
type TopicsRequest struct {
	Company CompanyDTO `json:"company"`
	Queries []QueryDTO `json:"queries"`
}

// CompanyDTO describes the company the queries are evaluated against.
// All fields are optional; an empty profile disables relevance scoring.
type CompanyDTO struct {
	Name        string   `json:"name,omitempty"`
	Products    []string `json:"products,omitempty"`
	Services    []string `json:"services,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Audience    string   `json:"audience,omitempty"`
	SiteExcerpt string   `json:"site_excerpt,omitempty"`
}

// QueryDTO is one candidate query with its upstream annotations. Demand is
// a pointer so the API can tell "zero searches" from "no data".
type QueryDTO struct {
	Text           string    `json:"text"`
	Source         string    `json:"source,omitempty"`
	Intent         string    `json:"intent,omitempty"`
	Demand         *int64    `json:"demand,omitempty"`
	DemandProvider string    `json:"demand_provider,omitempty"`
	Brand          *BrandDTO `json:"brand,omitempty"`
}

// BrandDTO carries the result of an external brand-presence check.
type BrandDTO struct {
	Score float64 `json:"score"`
	Class string  `json:"class,omitempty"`
}

// TopicsResponse is the body of a successful POST /v1/topics.
type TopicsResponse struct {
	Topics []TopicDTO `json:"topics"`
}

// TopicDTO is one labeled, ranked topic.
type TopicDTO struct {
	ID             string           `json:"id"`
	Label          string           `json:"label"`
	Score          float64          `json:"score"`
	Confidence     float64          `json:"confidence"`
	VolumeCoverage float64          `json:"volume_coverage"`
	QueryCount     int              `json:"query_count"`
	TopQueries     []ScoredQueryDTO `json:"top_queries"`
}

// ScoredQueryDTO is one ranked topic member with its scoring breakdown.
type ScoredQueryDTO struct {
	Text       string   `json:"text"`
	Normalized string   `json:"normalized"`
	Source     string   `json:"source"`
	Intent     string   `json:"intent"`
	Demand     *int64   `json:"demand,omitempty"`
	Score      float64  `json:"score"`
	Confidence float64  `json:"confidence"`
	Provenance []string `json:"provenance,omitempty"`
}

// UsageReportDTO is the body of GET /v1/usage.
type UsageReportDTO struct {
	Period      string          `json:"period"`
	PeriodStart string          `json:"period_start"`
	PeriodEnd   string          `json:"period_end"`
	Provider    string          `json:"provider,omitempty"`
	Metrics     UsageMetricsDTO `json:"metrics"`
	Budget      UsageBudgetDTO  `json:"budget"`
}

// UsageMetricsDTO holds embedding API call counts for the period.
type UsageMetricsDTO struct {
	EmbeddingRequests int `json:"embedding_requests"`
	Tokens            int `json:"tokens"`
}

// UsageBudgetDTO holds token budget status for the period.
type UsageBudgetDTO struct {
	TokensLimit     int    `json:"tokens_limit"`
	TokensRemaining int    `json:"tokens_remaining"`
	IsExhausted     bool   `json:"is_exhausted"`
	ResetsAt        string `json:"resets_at,omitempty"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned in ErrorResponse.Code.
const (
	codeBadRequest             = "bad_request"
	codeValidationFailed       = "validation_failed"
	codeEmbeddingQuotaExceeded = "embedding_quota_exceeded"
	codeEmbeddingProviderError = "embedding_provider_error"
	codeInternalError          = "internal_error"
)

func companyFromDTO(c CompanyDTO) domain.CompanyProfile {
	return domain.CompanyProfile{
		Name:        c.Name,
		Products:    c.Products,
		Services:    c.Services,
		Categories:  c.Categories,
		Audience:    c.Audience,
		SiteExcerpt: c.SiteExcerpt,
	}
}

func queryFromDTO(q QueryDTO) domain.QueryRecord {
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

func topicToDTO(t domain.Topic) TopicDTO {
	top := make([]ScoredQueryDTO, 0, len(t.TopQueries))
	for i := range t.TopQueries {
		top = append(top, scoredQueryToDTO(&t.TopQueries[i]))
	}
	return TopicDTO{
		ID:             t.ID,
		Label:          t.Label,
		Score:          t.Score,
		Confidence:     t.Confidence,
		VolumeCoverage: t.VolumeCoverage,
		QueryCount:     t.MemberCount(),
		TopQueries:     top,
	}
}

func scoredQueryToDTO(q *domain.ScoredQuery) ScoredQueryDTO {
	dto := ScoredQueryDTO{
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
		dto.Demand = &d
	}
	return dto
}

func usageReportToDTO(r *domusage.Report) UsageReportDTO {
	m := r.Metrics()
	b := r.Budget()
	dto := UsageReportDTO{
		Period:      string(r.Period()),
		PeriodStart: millisToRFC3339(r.PeriodStart()),
		PeriodEnd:   millisToRFC3339(r.PeriodEnd()),
		Provider:    r.Provider(),
		Metrics: UsageMetricsDTO{
			EmbeddingRequests: m.EmbeddingRequests(),
			Tokens:            m.Tokens(),
		},
		Budget: UsageBudgetDTO{
			TokensLimit:     b.TokensLimit(),
			TokensRemaining: b.TokensRemaining(),
			IsExhausted:     b.IsExhausted(),
		},
	}
	if b.ResetsAt() > 0 {
		dto.Budget.ResetsAt = millisToRFC3339(b.ResetsAt())
	}
	return dto
}

func millisToRFC3339(ms int64) string {
	if ms <= 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
