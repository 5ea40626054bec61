package cluster

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/querylens/topicforge/internal/domain"
)

func testParams() domain.Params {
	return domain.DefaultParams()
}

func sq(text string, score float64, vec []float32) domain.ScoredQuery {
	return domain.ScoredQuery{
		QueryRecord: domain.QueryRecord{TextNormalized: text, Vector: vec},
		QueryScore:  score,
	}
}

func memberCount(clusters []Cluster) int {
	n := 0
	for i := range clusters {
		n += len(clusters[i].Members)
	}
	return n
}

func TestRun_VectorMode_GroupsByThreshold(t *testing.T) {
	svc := New(testParams())
	// Two tight groups along orthogonal directions.
	queries := []domain.ScoredQuery{
		sq("return policy", 0.9, []float32{1, 0.05}),
		sq("refund time", 0.5, []float32{1, 0.1}),
		sq("shipping cost", 0.8, []float32{0, 1}),
		sq("delivery estimate", 0.4, []float32{0.05, 1}),
	}

	clusters := svc.Run(queries)

	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
	if clusters[0].Seed().TextNormalized != "return policy" {
		t.Errorf("highest-scored query must seed the first cluster, got %q",
			clusters[0].Seed().TextNormalized)
	}
	if memberCount(clusters) != len(queries) {
		t.Errorf("every query must land in exactly one cluster")
	}
}

func TestRun_VectorMode_Deterministic(t *testing.T) {
	svc := New(testParams())
	queries := []domain.ScoredQuery{
		sq("a", 0.5, []float32{1, 0}),
		sq("b", 0.5, []float32{0, 1}),
		sq("c", 0.5, []float32{0.9, 0.1}),
		sq("d", 0.5, []float32{0.1, 0.9}),
	}

	first := svc.Run(queries)
	second := svc.Run(queries)

	if !reflect.DeepEqual(first, second) {
		t.Error("clustering must be deterministic for identical input")
	}
}

func TestRun_VectorMode_EqualScoresTieBreakByText(t *testing.T) {
	svc := New(testParams())
	queries := []domain.ScoredQuery{
		sq("zebra", 0.5, []float32{1, 0}),
		sq("apple", 0.5, []float32{0, 1}),
	}

	clusters := svc.Run(queries)

	if clusters[0].Seed().TextNormalized != "apple" {
		t.Errorf("equal scores must seed in text order, got %q", clusters[0].Seed().TextNormalized)
	}
}

func TestRun_VectorMode_CapAssignsByCentroid(t *testing.T) {
	params := testParams()
	params.ClusterCap = 2
	svc := New(params)

	queries := []domain.ScoredQuery{
		sq("seed one", 0.9, []float32{1, 0}),
		sq("seed two", 0.8, []float32{0, 1}),
		// Outside the attach threshold of both seeds (cosine < 0.75 to each),
		// scored lowest so it arrives after the cap is hit. Leans toward seed
		// one, whose centroid passes the acceptance bar.
		sq("overflow", 0.1, []float32{0.72, 0.694}),
	}

	clusters := svc.Run(queries)

	if len(clusters) != 2 {
		t.Fatalf("cluster count must not exceed the cap, got %d", len(clusters))
	}
	if memberCount(clusters) != 3 {
		t.Error("overflow query must not be discarded")
	}
	if len(clusters[0].Members) != 2 {
		t.Errorf("overflow should join the most similar centroid (cluster 0), sizes: %d/%d",
			len(clusters[0].Members), len(clusters[1].Members))
	}
}

func TestRun_VectorMode_CapLastResortLargestCluster(t *testing.T) {
	params := testParams()
	params.ClusterCap = 2
	svc := New(params)

	queries := []domain.ScoredQuery{
		sq("seed one", 0.9, []float32{1, 0, 0}),
		sq("member one", 0.85, []float32{1, 0.05, 0}),
		sq("seed two", 0.8, []float32{0, 1, 0}),
		// Orthogonal to every centroid: below the acceptance bar everywhere,
		// so it merges into the largest cluster.
		sq("stray", 0.1, []float32{0, 0, 1}),
	}

	clusters := svc.Run(queries)

	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
	if len(clusters[0].Members) != 3 {
		t.Errorf("stray must merge into the largest cluster, sizes: %d/%d",
			len(clusters[0].Members), len(clusters[1].Members))
	}
}

func TestRun_VectorMode_VectorlessQueriesSurvive(t *testing.T) {
	svc := New(testParams())
	queries := []domain.ScoredQuery{
		sq("with vector", 0.9, []float32{1, 0}),
		sq("no vector", 0.5, nil),
	}

	clusters := svc.Run(queries)

	if memberCount(clusters) != 2 {
		t.Error("queries without vectors must still be clustered")
	}
}

func TestRun_KeywordFallback_NoVectorsAnywhere(t *testing.T) {
	svc := New(testParams())
	queries := []domain.ScoredQuery{
		sq("gymshark return policy", 0.9, nil),
		sq("how long does refund take", 0.5, nil),
		sq("shipping cost to canada", 0.8, nil),
		sq("something unrelated entirely", 0.2, nil),
	}

	clusters := svc.Run(queries)

	if len(clusters) != 3 {
		t.Fatalf("expected returns + shipping + catch-all, got %d clusters", len(clusters))
	}
	if clusters[0].Label != "Returns & Refunds" {
		t.Errorf("expected returns bucket first, got %q", clusters[0].Label)
	}
	if len(clusters[0].Members) != 2 {
		t.Errorf("both return/refund queries must share a bucket, got %d", len(clusters[0].Members))
	}
	if clusters[2].Label != "General" {
		t.Errorf("unmatched queries must form the catch-all, got %q", clusters[2].Label)
	}
	if memberCount(clusters) != len(queries) {
		t.Error("fallback must cover every query")
	}
}

func TestRun_KeywordFallback_FirstBucketWins(t *testing.T) {
	svc := New(testParams())
	// "store return" matches both Returns & Refunds and Store Locations;
	// table order resolves it to returns.
	clusters := svc.Run([]domain.ScoredQuery{sq("store return policy", 0.5, nil)})

	if len(clusters) != 1 || clusters[0].Label != "Returns & Refunds" {
		t.Errorf("overlapping keywords must resolve by table order, got %+v", clusters)
	}
}

func TestRun_KeywordFallback_ComparisonsBucket(t *testing.T) {
	svc := New(testParams())
	queries := []domain.ScoredQuery{
		sq("gymshark vs nike leggings", 0.9, nil),
		sq("compare gymshark and alphalete", 0.5, nil),
		sq("gymshark alternatives", 0.4, nil),
	}

	clusters := svc.Run(queries)

	if len(clusters) != 1 || clusters[0].Label != "Comparisons" {
		t.Fatalf("expected a single Comparisons bucket, got %+v", clusters)
	}
	if len(clusters[0].Members) != 3 {
		t.Errorf("all comparison queries must share the bucket, got %d", len(clusters[0].Members))
	}
}

func TestRun_KeywordFallback_ComparisonPrecedesPricing(t *testing.T) {
	svc := New(testParams())
	// "compare prices" matches both Comparisons and Products & Pricing;
	// table order resolves it to comparisons.
	clusters := svc.Run([]domain.ScoredQuery{sq("compare gymshark prices", 0.5, nil)})

	if len(clusters) != 1 || clusters[0].Label != "Comparisons" {
		t.Errorf("comparison keywords must win over pricing, got %+v", clusters)
	}
}

func TestRun_KeywordFallback_RespectsCap(t *testing.T) {
	params := testParams()
	params.ClusterCap = 3
	svc := New(params)

	queries := []domain.ScoredQuery{
		sq("return policy", 0.9, nil),
		sq("shipping time", 0.8, nil),
		sq("size guide", 0.7, nil),
		sq("discount code", 0.6, nil),
		sq("store near me", 0.5, nil),
	}

	clusters := svc.Run(queries)

	if len(clusters) > 3 {
		t.Fatalf("fallback must respect the cluster cap, got %d", len(clusters))
	}
	if memberCount(clusters) != len(queries) {
		t.Error("folding over-cap buckets must not lose queries")
	}
}

func TestRun_EmptyInput(t *testing.T) {
	svc := New(testParams())
	if got := svc.Run(nil); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestRun_CoverageLargeBatch(t *testing.T) {
	svc := New(testParams())
	var queries []domain.ScoredQuery
	for i := 0; i < 100; i++ {
		// Spread directions so several seeds form.
		angle := float32(i) / 100
		queries = append(queries, sq(
			fmt.Sprintf("query %03d", i),
			float64(100-i),
			[]float32{1 - angle, angle},
		))
	}

	clusters := svc.Run(queries)

	if len(clusters) > testParams().ClusterCap {
		t.Errorf("cluster count %d exceeds cap", len(clusters))
	}
	if memberCount(clusters) != 100 {
		t.Errorf("expected 100 members total, got %d", memberCount(clusters))
	}
	for i := range clusters {
		if len(clusters[i].Members) == 0 {
			t.Error("no cluster may be empty")
		}
	}
}
