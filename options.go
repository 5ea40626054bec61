package topicforge

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Engine.
type Option interface {
	apply(*engineConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*engineConfig)

func (f optionFunc) apply(c *engineConfig) { f(c) }

type engineConfig struct {
	cacheAddrs    []string
	cacheUsername string
	cachePassword string
	cacheDB       int
	cacheTTL      time.Duration

	embedder Embedder
	labeler  Labeler
	params   Params
	logger   *zap.Logger
}

// WithRedis configures a Redis instance as the embedding cache.
// Optional: without a cache every run embeds its queries fresh.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *engineConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
	})
}

// WithValkey configures a Valkey instance as the embedding cache.
// Valkey speaks the same protocol as Redis for the commands used here.
func WithValkey(addr, password string) Option {
	return WithRedis(addr, password)
}

// WithCacheTTL sets the embedding cache entry lifetime.
// Default: 30 days. Zero or negative means entries never expire.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *engineConfig) {
		c.cacheTTL = ttl
	})
}

// WithEmbedder sets the text embedding provider.
// Without one the engine clusters by keyword buckets only.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *engineConfig) {
		c.embedder = e
	})
}

// WithLabeler sets the topic labeling provider.
// Without one vector-mode topics get extractive labels.
func WithLabeler(l Labeler) Option {
	return optionFunc(func(c *engineConfig) {
		c.labeler = l
	})
}

// WithParams overrides the clustering and ranking defaults.
func WithParams(p Params) Option {
	return optionFunc(func(c *engineConfig) {
		c.params = p
	})
}

// WithLogger enables structured logging for engine operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *engineConfig) {
		c.logger = l
	})
}
