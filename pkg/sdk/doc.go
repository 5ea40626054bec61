// Package sdk provides a Go client for the topicforge HTTP API.
//
//	client, _ := sdk.New("http://localhost:8080", sdk.WithAPIKey("secret"))
//
//	resp, err := client.ClusterTopics(ctx, sdk.TopicsRequest{
//	    Company: sdk.Company{Name: "Gymshark"},
//	    Queries: []sdk.Query{{Text: "gymshark refund policy"}},
//	})
//
// For in-process use without an HTTP hop, see the root topicforge package.
package sdk
