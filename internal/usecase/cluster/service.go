package cluster

import (
	"sort"

	"github.com/querylens/topicforge/internal/domain"
)

// Cluster is an intermediate group of scored queries. Label carries the
// keyword-bucket name in fallback mode and is empty in vector mode (vector
// clusters get labeled downstream).
type Cluster struct {
	Members []domain.ScoredQuery
	Label   string

	// centroid is the running mean of member vectors (vector mode only).
	centroid []float32
	vectors  [][]float32
}

// Seed returns the highest-scored member, the cluster's natural anchor.
func (c *Cluster) Seed() *domain.ScoredQuery {
	return &c.Members[0]
}

func (c *Cluster) add(q domain.ScoredQuery) {
	c.Members = append(c.Members, q)
	if len(q.Vector) > 0 {
		c.vectors = append(c.vectors, q.Vector)
		c.centroid = domain.MeanVector(c.vectors)
	}
}

// Service groups scored queries into clusters. Vector mode runs greedy
// single-link clustering over cosine distance; when no vectors are available
// at all, a deterministic keyword-bucket fallback takes over.
type Service struct {
	threshold  float64 // max cosine distance to the seed
	cap        int
	acceptance float64 // min centroid similarity once the cap is hit
}

// New creates a clustering service from pipeline params.
func New(params domain.Params) *Service {
	return &Service{
		threshold:  params.SimilarityThreshold,
		cap:        params.ClusterCap,
		acceptance: params.CentroidAcceptance,
	}
}

// Run clusters the queries. Every input query lands in exactly one cluster,
// no cluster is empty, and the cluster count never exceeds the cap. The
// result is deterministic for a fixed input: ties in score order are broken
// by normalized text.
func (s *Service) Run(queries []domain.ScoredQuery) []Cluster {
	if len(queries) == 0 {
		return nil
	}
	if !anyVector(queries) {
		return s.keywordFallback(queries)
	}
	return s.vectorMode(queries)
}

// vectorMode is greedy single-link clustering seeded in descending score
// order: the highest-value unclustered query opens each cluster and anchors
// its topic, then pulls in every remaining query within the distance
// threshold. Past the cap, leftovers join the most similar centroid, or the
// largest cluster as a last resort; nothing is ever discarded.
func (s *Service) vectorMode(queries []domain.ScoredQuery) []Cluster {
	ordered := make([]domain.ScoredQuery, len(queries))
	copy(ordered, queries)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].QueryScore != ordered[j].QueryScore {
			return ordered[i].QueryScore > ordered[j].QueryScore
		}
		return ordered[i].TextNormalized < ordered[j].TextNormalized
	})

	clusters := make([]Cluster, 0, s.cap)
	clustered := make([]bool, len(ordered))

	for i := range ordered {
		if clustered[i] {
			continue
		}

		if len(clusters) >= s.cap {
			s.assignOverflow(&clusters, ordered[i])
			clustered[i] = true
			continue
		}

		var cl Cluster
		cl.add(ordered[i])
		clustered[i] = true

		seedVec := ordered[i].Vector
		if len(seedVec) > 0 {
			for j := i + 1; j < len(ordered); j++ {
				if clustered[j] || len(ordered[j].Vector) == 0 {
					continue
				}
				dist := 1 - domain.Cosine(seedVec, ordered[j].Vector)
				if dist < s.threshold {
					cl.add(ordered[j])
					clustered[j] = true
				}
			}
		}

		clusters = append(clusters, cl)
	}

	return clusters
}

// assignOverflow places a query once the cluster cap is hit: best centroid
// match above the acceptance bar, else the currently largest cluster.
func (s *Service) assignOverflow(clusters *[]Cluster, q domain.ScoredQuery) {
	cls := *clusters

	best := -1
	bestSim := 0.0
	if len(q.Vector) > 0 {
		for i := range cls {
			sim := domain.Cosine(q.Vector, cls[i].centroid)
			if sim > bestSim {
				bestSim = sim
				best = i
			}
		}
	}

	if best >= 0 && bestSim >= s.acceptance {
		cls[best].add(q)
		return
	}

	largest := 0
	for i := range cls {
		if len(cls[i].Members) > len(cls[largest].Members) {
			largest = i
		}
	}
	cls[largest].add(q)
}

func anyVector(queries []domain.ScoredQuery) bool {
	for i := range queries {
		if len(queries[i].Vector) > 0 {
			return true
		}
	}
	return false
}
