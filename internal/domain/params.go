package domain

import "fmt"

// Params holds the tunable constants of the clustering and ranking pipeline.
// The defaults come from observed behavior, not a principled derivation, so
// every value is configuration rather than fixed law.
type Params struct {
	// SimilarityThreshold is the max cosine distance (1 - similarity) at
	// which an unclustered query attaches to a cluster seed.
	SimilarityThreshold float64
	// ClusterCap bounds the number of clusters formed in vector mode.
	ClusterCap int
	// CentroidAcceptance is the min centroid similarity required to join an
	// existing cluster once the cap is hit.
	CentroidAcceptance float64
	// BrandFloor keeps brand-gated scores strictly positive: a query with
	// zero brand affinity is multiplied by BrandFloor, never by zero.
	BrandFloor float64
	// TopQueriesPerTopic is the length of the ranked prefix exposed per topic.
	TopQueriesPerTopic int
	// TopicScoreMembers is how many top members contribute demand to the
	// topic score.
	TopicScoreMembers int
	// MaxTopics truncates the final topic list.
	MaxTopics int
}

// DefaultParams returns the pipeline defaults.
func DefaultParams() Params {
	return Params{
		SimilarityThreshold: 0.25,
		ClusterCap:          15,
		CentroidAcceptance:  0.5,
		BrandFloor:          0.25,
		TopQueriesPerTopic:  10,
		TopicScoreMembers:   5,
		MaxTopics:           10,
	}
}

// ApplyDefaults fills zero-valued fields with defaults.
func (p *Params) ApplyDefaults() {
	def := DefaultParams()
	if p.SimilarityThreshold <= 0 {
		p.SimilarityThreshold = def.SimilarityThreshold
	}
	if p.ClusterCap <= 0 {
		p.ClusterCap = def.ClusterCap
	}
	if p.CentroidAcceptance <= 0 {
		p.CentroidAcceptance = def.CentroidAcceptance
	}
	if p.BrandFloor <= 0 {
		p.BrandFloor = def.BrandFloor
	}
	if p.TopQueriesPerTopic <= 0 {
		p.TopQueriesPerTopic = def.TopQueriesPerTopic
	}
	if p.TopicScoreMembers <= 0 {
		p.TopicScoreMembers = def.TopicScoreMembers
	}
	if p.MaxTopics <= 0 {
		p.MaxTopics = def.MaxTopics
	}
}

// Validate checks the parameters for correctness.
func (p *Params) Validate() error {
	if p.SimilarityThreshold <= 0 || p.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity threshold must be in (0, 1], got %v",
			ErrInvalidParams, p.SimilarityThreshold)
	}
	if p.CentroidAcceptance < 0 || p.CentroidAcceptance > 1 {
		return fmt.Errorf("%w: centroid acceptance must be in [0, 1], got %v",
			ErrInvalidParams, p.CentroidAcceptance)
	}
	if p.BrandFloor <= 0 || p.BrandFloor >= 1 {
		return fmt.Errorf("%w: brand floor must be in (0, 1), got %v",
			ErrInvalidParams, p.BrandFloor)
	}
	if p.ClusterCap <= 0 {
		return fmt.Errorf("%w: cluster cap must be positive, got %d",
			ErrInvalidParams, p.ClusterCap)
	}
	if p.TopQueriesPerTopic <= 0 || p.TopicScoreMembers <= 0 || p.MaxTopics <= 0 {
		return fmt.Errorf("%w: top-N sizes must be positive", ErrInvalidParams)
	}
	return nil
}
