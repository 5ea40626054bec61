package sdk

// TopicsRequest is the body of POST /v1/topics.
type TopicsRequest struct {
	Company Company `json:"company"`
	Queries []Query `json:"queries"`
}

// Company describes the business the queries are evaluated against.
type Company struct {
	Name        string   `json:"name,omitempty"`
	Products    []string `json:"products,omitempty"`
	Services    []string `json:"services,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Audience    string   `json:"audience,omitempty"`
	SiteExcerpt string   `json:"site_excerpt,omitempty"`
}

// Query is one candidate search query. A nil Demand means "no volume data".
type Query struct {
	Text           string `json:"text"`
	Source         string `json:"source,omitempty"`
	Intent         string `json:"intent,omitempty"`
	Demand         *int64 `json:"demand,omitempty"`
	DemandProvider string `json:"demand_provider,omitempty"`
	Brand          *Brand `json:"brand,omitempty"`
}

// Brand carries an external brand-presence check result.
type Brand struct {
	Score float64 `json:"score"`
	Class string  `json:"class,omitempty"`
}

// TopicsResponse is the body of a successful POST /v1/topics.
type TopicsResponse struct {
	Topics []Topic `json:"topics"`
}

// Topic is one labeled, ranked topic.
type Topic struct {
	ID             string        `json:"id"`
	Label          string        `json:"label"`
	Score          float64       `json:"score"`
	Confidence     float64       `json:"confidence"`
	VolumeCoverage float64       `json:"volume_coverage"`
	QueryCount     int           `json:"query_count"`
	TopQueries     []ScoredQuery `json:"top_queries"`
}

// ScoredQuery is one ranked topic member.
type ScoredQuery struct {
	Text       string   `json:"text"`
	Normalized string   `json:"normalized"`
	Source     string   `json:"source"`
	Intent     string   `json:"intent"`
	Demand     *int64   `json:"demand,omitempty"`
	Score      float64  `json:"score"`
	Confidence float64  `json:"confidence"`
	Provenance []string `json:"provenance,omitempty"`
}

// UsageReport is the body of GET /v1/usage.
type UsageReport struct {
	Period      string       `json:"period"`
	PeriodStart string       `json:"period_start"`
	PeriodEnd   string       `json:"period_end"`
	Provider    string       `json:"provider,omitempty"`
	Metrics     UsageMetrics `json:"metrics"`
	Budget      UsageBudget  `json:"budget"`
}

// UsageMetrics holds embedding API call counts for the period.
type UsageMetrics struct {
	EmbeddingRequests int `json:"embedding_requests"`
	Tokens            int `json:"tokens"`
}

// UsageBudget holds token budget status for the period.
type UsageBudget struct {
	TokensLimit     int    `json:"tokens_limit"`
	TokensRemaining int    `json:"tokens_remaining"`
	IsExhausted     bool   `json:"is_exhausted"`
	ResetsAt        string `json:"resets_at,omitempty"`
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            `json:"status"` // "ok", "degraded", "error"
	Checks map[string]string `json:"checks"` // component -> "ok"/"error"
}
