package domain

import "errors"

var (
	// ErrEmptyInput signals that no queries survived normalization.
	ErrEmptyInput = errors.New("no queries to process")
	// ErrInvalidParams signals invalid pipeline parameters.
	ErrInvalidParams = errors.New("invalid pipeline params")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrEmbeddingQuotaExceeded signals an exhausted embedding token budget.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	// ErrLabelerUnavailable signals a labeling collaborator failure. The
	// pipeline treats it as a soft error and falls back to extractive labels.
	ErrLabelerUnavailable = errors.New("labeler unavailable")
)
