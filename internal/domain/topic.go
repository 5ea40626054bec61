package domain

// Topic is a cluster of semantically related queries with an aggregate
// score and label. Topics are immutable once emitted.
type Topic struct {
	ID    string
	Label string

	// Score is the sum of verified demand over the topic's strongest members.
	Score float64
	// Confidence is the mean confidence of TopQueries, rounded to 2 decimals.
	Confidence float64
	// VolumeCoverage is the fraction of members with demand data.
	VolumeCoverage float64

	// Queries holds all members, ranked by demand then composite score.
	Queries []ScoredQuery
	// TopQueries is the ordered prefix of Queries shown to callers.
	TopQueries []ScoredQuery
}

// MemberCount returns the number of queries assigned to the topic.
func (t *Topic) MemberCount() int { return len(t.Queries) }
