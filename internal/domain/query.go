package domain

// Source tells where a candidate query came from.
type Source string

// Discovery source constants.
const (
	// SourceGenerated marks queries produced by a generative model.
	SourceGenerated Source = "generated"
	// SourceDiscovered marks queries surfaced from real user-query evidence
	// (query suggestions, "People Also Ask" and similar).
	SourceDiscovered Source = "discovered"
)

// IsValid checks if the source is one of the supported values.
func (s Source) IsValid() bool {
	return s == SourceGenerated || s == SourceDiscovered
}

// Intent is the search intent classification of a query.
type Intent string

// Intent constants, ordered by commercial weight.
const (
	IntentTransactional   Intent = "transactional"
	IntentNavigational    Intent = "navigational"
	IntentComparison      Intent = "comparison"
	IntentDiscovery       Intent = "discovery"
	IntentInformational   Intent = "informational"
	IntentTroubleshooting Intent = "troubleshooting"
	IntentUnknown         Intent = "unknown"
)

// intentWeights is the fixed ranking weight per intent. Transactional and
// navigational queries carry the clearest commercial signal.
var intentWeights = map[Intent]float64{
	IntentTransactional:   1.0,
	IntentNavigational:    0.9,
	IntentComparison:      0.8,
	IntentDiscovery:       0.7,
	IntentInformational:   0.6,
	IntentTroubleshooting: 0.5,
}

// Weight returns the ranking weight for the intent. Unknown intents
// (including empty strings) default to 0.5.
func (i Intent) Weight() float64 {
	if w, ok := intentWeights[i]; ok {
		return w
	}
	return 0.5
}

// IsClear reports whether the intent is unambiguous enough to count as
// confidence evidence.
func (i Intent) IsClear() bool {
	return i == IntentTransactional || i == IntentNavigational
}

// BrandClass classifies how a brand relates to a query's search results.
type BrandClass string

// Brand classification constants.
const (
	BrandIntent         BrandClass = "brand_intent"
	CategoryOpportunity BrandClass = "category_opportunity"
	LowRelevance        BrandClass = "low_relevance"
)

// BrandAffinity is the result of an external brand-presence check.
type BrandAffinity struct {
	Score float64 // 0..1
	Class BrandClass
}

// QueryRecord is one candidate search query with its upstream annotations.
// Demand, Vector and Brand are optional; Source and Intent always carry a
// value (defaulted when upstream data is missing).
type QueryRecord struct {
	TextOriginal   string
	TextNormalized string
	Source         Source
	Intent         Intent

	// Demand is the estimated monthly search volume. HasDemand distinguishes
	// "demand is zero" from "no demand data".
	Demand    int64
	HasDemand bool
	// DemandProvider names the volume data source for provenance. Empty or
	// "fallback" means the value is a heuristic estimate.
	DemandProvider string

	// Vector is the semantic embedding of TextNormalized. Nil when the
	// embedding collaborator failed or was skipped.
	Vector []float32

	Brand *BrandAffinity
}

// DemandKey returns the demand value used for dedup collision ordering.
// Absent demand compares as -1, so present-but-zero beats absent.
func (q *QueryRecord) DemandKey() int64 {
	if !q.HasDemand {
		return -1
	}
	return q.Demand
}

// ScoredQuery is a QueryRecord with its scoring components attached.
// QueryScore is the composite ranking signal; Confidence is a pure function
// of the record's own fields so it can be averaged per topic.
type ScoredQuery struct {
	QueryRecord

	VolumeScore    float64
	RelevanceScore float64
	SourceBonus    float64
	IntentWeight   float64
	QueryScore     float64
	Confidence     float64
	Provenance     []string
}
