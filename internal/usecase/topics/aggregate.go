package topics

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/querylens/topicforge/internal/domain"
	"github.com/querylens/topicforge/internal/usecase/cluster"
)

// neutralConfidence is reported when a topic has no computed member
// confidences, instead of NaN.
const neutralConfidence = 0.5

// aggregate turns clusters into final topics: ranked members, topic score,
// coverage, confidence, label. Topics come out sorted by score descending
// and truncated to the configured maximum.
func (s *Service) aggregate(ctx context.Context, clusters []cluster.Cluster) []domain.Topic {
	topics := make([]domain.Topic, 0, len(clusters))

	for i := range clusters {
		cl := &clusters[i]
		members := rankMembers(cl.Members)
		top := members
		if len(top) > s.params.TopQueriesPerTopic {
			top = top[:s.params.TopQueriesPerTopic]
		}

		topics = append(topics, domain.Topic{
			Label:          s.labelTopic(ctx, cl, top),
			Score:          topicScore(members, s.params.TopicScoreMembers),
			Confidence:     topicConfidence(top),
			VolumeCoverage: volumeCoverage(members),
			Queries:        members,
			TopQueries:     top,
		})
	}

	sort.SliceStable(topics, func(i, j int) bool {
		if topics[i].Score != topics[j].Score {
			return topics[i].Score > topics[j].Score
		}
		return topics[i].Label < topics[j].Label
	})

	if len(topics) > s.params.MaxTopics {
		topics = topics[:s.params.MaxTopics]
	}

	for i := range topics {
		topics[i].ID = fmt.Sprintf("topic-%02d", i+1)
	}

	return topics
}

// rankMembers sorts cluster members for external visibility: raw demand
// descending with demandless records after all records with demand (not
// interleaved by score), then composite score, then text for stable ties.
func rankMembers(members []domain.ScoredQuery) []domain.ScoredQuery {
	ranked := make([]domain.ScoredQuery, len(members))
	copy(ranked, members)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := &ranked[i], &ranked[j]
		if a.HasDemand != b.HasDemand {
			return a.HasDemand
		}
		if a.HasDemand && a.Demand != b.Demand {
			return a.Demand > b.Demand
		}
		if a.QueryScore != b.QueryScore {
			return a.QueryScore > b.QueryScore
		}
		return a.TextNormalized < b.TextNormalized
	})

	return ranked
}

// topicScore sums verified demand over the strongest members, so topics
// with a few high-volume queries outrank topics with many unknown-volume
// ones. Absent demand counts as zero.
func topicScore(ranked []domain.ScoredQuery, n int) float64 {
	if len(ranked) < n {
		n = len(ranked)
	}
	var sum float64
	for i := 0; i < n; i++ {
		if ranked[i].HasDemand {
			sum += float64(ranked[i].Demand)
		}
	}
	return sum
}

// topicConfidence is the mean confidence of the top queries (not all
// members), rounded to 2 decimals.
func topicConfidence(top []domain.ScoredQuery) float64 {
	if len(top) == 0 {
		return neutralConfidence
	}
	var sum float64
	for i := range top {
		sum += top[i].Confidence
	}
	return math.Round(sum/float64(len(top))*100) / 100
}

// volumeCoverage is the fraction of all members with demand data.
func volumeCoverage(members []domain.ScoredQuery) float64 {
	if len(members) == 0 {
		return 0
	}
	var n int
	for i := range members {
		if members[i].HasDemand {
			n++
		}
	}
	return float64(n) / float64(len(members))
}
