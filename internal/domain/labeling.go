package domain

import "context"

// Labeler produces a short natural-language topic name from the normalized
// texts of a topic's top queries. Implementations may be nondeterministic
// (LLM-backed); callers must validate the response and keep a deterministic
// fallback.
type Labeler interface {
	Label(ctx context.Context, texts []string) (string, error)
}
