// Package topicforge turns noisy candidate search queries about a company
// into labeled, ranked topics: normalization and dedup, embedding-based
// similarity, multi-signal scoring, greedy clustering with a keyword
// fallback, and topic aggregation with provenance and confidence.
//
// The engine runs in-process. All collaborators are optional: without an
// embedder clustering falls back to keyword buckets, without a labeler
// topics get extractive labels, without a cache embeddings are fetched
// fresh on every run.
//
//	engine, _ := topicforge.New(ctx,
//	    topicforge.WithEmbedder(myEmbedder),
//	    topicforge.WithRedis("localhost:6379", ""),
//	)
//	defer engine.Close()
//
//	topics, _ := engine.ClusterAndRank(ctx, company, queries)
//	for _, t := range topics {
//	    fmt.Println(t.Label, t.Score)
//	}
package topicforge
