package topicforge

// Query is one candidate search query with its upstream annotations.
// Only Text is required. A nil Demand means "no volume data", which ranks
// below an explicit zero.
type Query struct {
	Text           string
	Source         string // "generated" (default) or "discovered"
	Intent         string // "transactional", "informational", ...
	Demand         *int64
	DemandProvider string
	Brand          *Brand
}

// Brand carries the result of an external brand-presence check.
type Brand struct {
	Score float64 // 0..1
	Class string
}

// Company describes the business the queries are evaluated against.
// All fields are optional; an empty profile disables relevance scoring.
type Company struct {
	Name        string
	Products    []string
	Services    []string
	Categories  []string
	Audience    string
	SiteExcerpt string
}

// Topic is one labeled, ranked cluster of queries.
type Topic struct {
	ID             string
	Label          string
	Score          float64
	Confidence     float64
	VolumeCoverage float64
	QueryCount     int
	TopQueries     []RankedQuery
}

// RankedQuery is one topic member with its scoring breakdown.
type RankedQuery struct {
	Text       string
	Normalized string
	Source     string
	Intent     string
	Demand     *int64
	Score      float64
	Confidence float64
	Provenance []string
}

// Params holds the clustering and ranking knobs. Zero-valued fields fall
// back to defaults.
type Params struct {
	SimilarityThreshold float64
	ClusterCap          int
	CentroidAcceptance  float64
	BrandFloor          float64
	TopQueriesPerTopic  int
	TopicScoreMembers   int
	MaxTopics           int
}
