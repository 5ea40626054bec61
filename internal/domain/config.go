package domain

// KeyPrefix namespaces all cache keys. Overridden from config at startup.
var KeyPrefix = "topicforge:"

// VectorConfig holds the vectorization settings a configured vectorizer
// falls back to when model or dimensions are left unset.
type VectorConfig struct {
	Model      string
	Dimensions int
}

// DefaultVectorConfig returns the default configuration tuned for
// text-embedding-3-small, which is cheap enough to embed whole query batches.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:      "text-embedding-3-small",
		Dimensions: 1536,
	}
}
