package scoring

import (
	"math"

	"github.com/querylens/topicforge/internal/domain"
)

// Weights control the composite score mix. Volume must dominate: ranking is
// real demand first, everything else breaks ties, so the combined weight of
// the tie-breaker signals stays at least two orders of magnitude below the
// volume weight.
type Weights struct {
	Volume    float64
	Relevance float64
	Source    float64
	Intent    float64
}

// DefaultWeights returns the production weight mix.
func DefaultWeights() Weights {
	return Weights{
		Volume:    1.0,
		Relevance: 0.005,
		Source:    0.003,
		Intent:    0.002,
	}
}

// Confidence model: a base value plus independent additive bonuses, capped
// at 1. Each bonus corresponds to one piece of evidence about the record.
const (
	confidenceBase        = 0.5
	confidenceDemandBonus = 0.2
	confidenceSourceBonus = 0.2
	confidenceIntentBonus = 0.1
)

// Service computes per-query composite scores against a company reference
// vector.
type Service struct {
	weights    Weights
	brandFloor float64
}

// New creates a scoring service. brandFloor keeps brand-gated scores
// strictly positive.
func New(weights Weights, brandFloor float64) *Service {
	return &Service{weights: weights, brandFloor: brandFloor}
}

// Score produces a ScoredQuery for every record. Records with missing
// demand, vectors, or brand data are never dropped: each missing signal
// degrades to its neutral value.
func (s *Service) Score(records []domain.QueryRecord, companyRef []float32) []domain.ScoredQuery {
	maxDemand := maxDemandIn(records)

	scored := make([]domain.ScoredQuery, len(records))
	for i, rec := range records {
		sq := domain.ScoredQuery{QueryRecord: rec}

		sq.VolumeScore = volumeScore(&rec, maxDemand)
		sq.RelevanceScore = relevanceScore(&rec, companyRef)
		sq.SourceBonus = sourceBonus(&rec)
		sq.IntentWeight = rec.Intent.Weight()

		sq.QueryScore = s.weights.Volume*sq.VolumeScore +
			s.weights.Relevance*sq.RelevanceScore +
			s.weights.Source*sq.SourceBonus +
			s.weights.Intent*sq.IntentWeight

		if rec.Brand != nil {
			sq.QueryScore *= s.brandGate(rec.Brand.Score)
		}

		sq.Confidence = confidence(&rec)
		sq.Provenance = domain.ProvenanceTags(&rec)

		scored[i] = sq
	}

	return scored
}

// brandGate maps brand affinity in [0,1] to a multiplier in [floor,1].
// Near-zero affinity suppresses the score heavily but never to exactly zero,
// which would break stable ordering downstream.
func (s *Service) brandGate(affinity float64) float64 {
	if affinity < 0 {
		affinity = 0
	} else if affinity > 1 {
		affinity = 1
	}
	return s.brandFloor + (1-s.brandFloor)*affinity
}

// volumeScore log-compresses heavy-tailed demand into [0,1] relative to the
// batch maximum. Records without demand data score 0 here, not a penalty
// elsewhere.
func volumeScore(rec *domain.QueryRecord, maxDemand int64) float64 {
	if !rec.HasDemand {
		return 0
	}
	demand := rec.Demand
	if demand < 0 {
		demand = 0
	}
	return math.Log1p(float64(demand)) / math.Log1p(float64(maxDemand))
}

func relevanceScore(rec *domain.QueryRecord, companyRef []float32) float64 {
	if len(rec.Vector) == 0 || len(companyRef) == 0 {
		return domain.NeutralRelevance
	}
	return domain.RelevanceFromCosine(domain.Cosine(rec.Vector, companyRef))
}

// sourceBonus rewards queries surfaced from real user-query evidence over
// purely generated ones.
func sourceBonus(rec *domain.QueryRecord) float64 {
	if rec.Source == domain.SourceDiscovered {
		return 1.0
	}
	return 0.0
}

// confidence is a pure function of the record's own fields so topic-level
// confidence can be computed as a plain average.
func confidence(rec *domain.QueryRecord) float64 {
	c := confidenceBase
	if rec.HasDemand {
		c += confidenceDemandBonus
	}
	if rec.Source == domain.SourceDiscovered {
		c += confidenceSourceBonus
	}
	if rec.Intent.IsClear() {
		c += confidenceIntentBonus
	}
	if c > 1 {
		c = 1
	}
	return c
}

// maxDemandIn returns the max demand across the batch, floored at 1 so the
// volume normalizer never divides by zero.
func maxDemandIn(records []domain.QueryRecord) int64 {
	var maxDemand int64 = 1
	for i := range records {
		if records[i].HasDemand && records[i].Demand > maxDemand {
			maxDemand = records[i].Demand
		}
	}
	return maxDemand
}
