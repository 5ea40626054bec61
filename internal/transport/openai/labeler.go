package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/querylens/topicforge/internal/domain"
	"github.com/querylens/topicforge/internal/metrics"
)

const labelSystemPrompt = "You name groups of search queries. " +
	"Given a list of queries, reply with one short human-readable topic name " +
	"(2-5 words, no quotes, no punctuation at the end) that covers them all."

// Labeler names query groups via an OpenAI-compatible chat completion API.
type Labeler struct {
	client   *openai.Client
	model    string
	provider string
	logger   *zap.Logger
}

// LabelerConfig holds the labeling provider settings.
type LabelerConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Provider string
	Logger   *zap.Logger
}

// NewLabeler creates an OpenAI-compatible topic labeler.
func NewLabeler(cfg *LabelerConfig) *Labeler {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL

	return &Labeler{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

// Label implements domain.Labeler. Temperature is pinned to zero so the same
// query group labels the same way across runs.
func (l *Labeler) Label(ctx context.Context, texts []string) (string, error) {
	if len(texts) == 0 {
		return "", fmt.Errorf("no texts to label: %w", domain.ErrLabelerUnavailable)
	}

	req := openai.ChatCompletionRequest{
		Model:       l.model,
		Temperature: 0,
		MaxTokens:   32,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: labelSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "- " + strings.Join(texts, "\n- ")},
		},
	}

	start := time.Now()

	resp, err := l.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.LabelingRequestsTotal.WithLabelValues(l.provider, l.model, "error").Inc()
		return "", fmt.Errorf("labeling request failed: %v: %w", err, domain.ErrLabelerUnavailable)
	}
	if len(resp.Choices) == 0 {
		metrics.LabelingRequestsTotal.WithLabelValues(l.provider, l.model, "error").Inc()
		return "", fmt.Errorf("empty labeling response: %w", domain.ErrLabelerUnavailable)
	}

	metrics.LabelingRequestsTotal.WithLabelValues(l.provider, l.model, "success").Inc()
	metrics.LabelingRequestDuration.WithLabelValues(l.provider, l.model).Observe(duration.Seconds())

	label := strings.TrimSpace(resp.Choices[0].Message.Content)
	label = strings.Trim(label, "\"'")
	return label, nil
}
