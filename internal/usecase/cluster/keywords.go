package cluster

import (
	"sort"
	"strings"

	"github.com/querylens/topicforge/internal/domain"
)

// keywordBucket maps a topic name to the substrings that pull a query into
// it.
type keywordBucket struct {
	label    string
	keywords []string
}

// keywordBuckets is the fallback clustering table. Order matters: buckets
// are tested first to last and the first match wins, so overlapping keywords
// ("store return" matches both returns and store-locator) resolve
// deterministically. Reordering this table changes topic assignment.
var keywordBuckets = []keywordBucket{
	{"Returns & Refunds", []string{"return", "refund", "exchange"}},
	{"Shipping & Delivery", []string{"shipping", "delivery", "ship to", "track", "arrive"}},
	{"Sizing & Fit", []string{"size", "sizing", "fit", "measurement"}},
	{"Discounts & Promotions", []string{"discount", "promo", "coupon", "sale", "voucher", "code"}},
	{"Store Locations", []string{"store", "near me", "location", "hours", "open"}},
	{"Quality & Reviews", []string{"review", "quality", "rating", "legit", "worth it"}},
	{"Comparisons", []string{" vs ", "versus", "compare", "comparison", "alternative"}},
	{"Products & Pricing", []string{"buy", "price", "cost", "cheap", "best"}},
	{"Account & Login", []string{"login", "log in", "account", "sign in", "password"}},
}

// catchAllLabel names the bucket for queries matching no keyword.
const catchAllLabel = "General"

// keywordFallback buckets queries by the fixed keyword table. Each query is
// tested against buckets in table order; non-matching queries form a single
// catch-all cluster. Output cluster order follows table order, catch-all
// last, and respects the cluster cap by folding trailing buckets into the
// catch-all.
func (s *Service) keywordFallback(queries []domain.ScoredQuery) []Cluster {
	buckets := make(map[string][]domain.ScoredQuery)

	for _, q := range queries {
		label := matchBucket(q.TextNormalized)
		buckets[label] = append(buckets[label], q)
	}

	clusters := make([]Cluster, 0, len(buckets))
	for _, b := range keywordBuckets {
		if members, ok := buckets[b.label]; ok {
			clusters = append(clusters, newKeywordCluster(b.label, members))
		}
	}
	if members, ok := buckets[catchAllLabel]; ok {
		clusters = append(clusters, newKeywordCluster(catchAllLabel, members))
	}

	return s.foldOverCap(clusters)
}

func matchBucket(text string) string {
	for _, b := range keywordBuckets {
		for _, kw := range b.keywords {
			if strings.Contains(text, kw) {
				return b.label
			}
		}
	}
	return catchAllLabel
}

func newKeywordCluster(label string, members []domain.ScoredQuery) Cluster {
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].QueryScore != members[j].QueryScore {
			return members[i].QueryScore > members[j].QueryScore
		}
		return members[i].TextNormalized < members[j].TextNormalized
	})
	return Cluster{Members: members, Label: label}
}

// foldOverCap merges trailing buckets into the last cluster when the bucket
// table produces more clusters than the configured cap.
func (s *Service) foldOverCap(clusters []Cluster) []Cluster {
	if len(clusters) <= s.cap {
		return clusters
	}

	kept := clusters[:s.cap]
	last := &kept[s.cap-1]
	last.Label = catchAllLabel
	for _, extra := range clusters[s.cap:] {
		last.Members = append(last.Members, extra.Members...)
	}
	return kept
}
