package topics

import (
	"context"

	"github.com/querylens/topicforge/internal/domain"
)

// Embedder vectorizes text into embeddings. Optional: a nil embedder puts
// the whole pipeline into keyword-fallback mode.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Labeler produces a short topic name from top query texts. Optional: a nil
// labeler means every vector-mode topic gets an extractive label.
type Labeler interface {
	Label(ctx context.Context, texts []string) (string, error)
}
