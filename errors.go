package topicforge

import "github.com/querylens/topicforge/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptyInput             = domain.ErrEmptyInput
	ErrInvalidParams          = domain.ErrInvalidParams
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrEmbeddingQuotaExceeded = domain.ErrEmbeddingQuotaExceeded
	ErrLabelerUnavailable     = domain.ErrLabelerUnavailable
)
