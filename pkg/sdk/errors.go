package sdk

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by error code from the API.
// Use errors.Is() to check.
var (
	ErrValidation             = errors.New("validation failed")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// APIError is a non-2xx response from the topicforge API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("topicforge api: %s (%s, http %d)", e.Message, e.Code, e.StatusCode)
}

// Unwrap maps well-known error codes to sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "validation_failed":
		return ErrValidation
	case "embedding_quota_exceeded":
		return ErrEmbeddingQuotaExceeded
	case "embedding_provider_error":
		return ErrEmbeddingProviderError
	}
	if e.StatusCode == 401 {
		return ErrUnauthorized
	}
	return nil
}
