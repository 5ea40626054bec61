package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

type chatCompletionResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func labelerTestServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		resp := chatCompletionResponse{ID: "chatcmpl-test", Object: "chat.completion"}
		resp.Choices = append(resp.Choices, struct {
			Index   int `json:"index"`
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		}{
			Message: struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			}{Role: "assistant", Content: content},
			FinishReason: "stop",
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestLabeler_Label(t *testing.T) {
	server := labelerTestServer(t, "Returns & Refunds")
	defer server.Close()

	lbl := NewLabeler(&LabelerConfig{
		APIKey:   "test-key",
		BaseURL:  server.URL,
		Model:    "test-model",
		Provider: "test",
		Logger:   zap.NewNop(),
	})

	label, err := lbl.Label(context.Background(), []string{"return policy", "how to get a refund"})
	if err != nil {
		t.Fatalf("Label failed: %v", err)
	}
	if label != "Returns & Refunds" {
		t.Errorf("unexpected label: %q", label)
	}
}

func TestLabeler_LabelStripsQuotes(t *testing.T) {
	server := labelerTestServer(t, "\"Shipping & Delivery\"\n")
	defer server.Close()

	lbl := NewLabeler(&LabelerConfig{
		APIKey:   "test-key",
		BaseURL:  server.URL,
		Model:    "test-model",
		Provider: "test",
		Logger:   zap.NewNop(),
	})

	label, err := lbl.Label(context.Background(), []string{"shipping time"})
	if err != nil {
		t.Fatalf("Label failed: %v", err)
	}
	if label != "Shipping & Delivery" {
		t.Errorf("expected quotes and whitespace stripped, got %q", label)
	}
}

func TestLabeler_LabelEmptyInput(t *testing.T) {
	lbl := NewLabeler(&LabelerConfig{
		APIKey:   "test-key",
		BaseURL:  "http://unused",
		Model:    "test-model",
		Provider: "test",
		Logger:   zap.NewNop(),
	})

	if _, err := lbl.Label(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestLabeler_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "overloaded", "type": "server_error"},
		})
	}))
	defer server.Close()

	lbl := NewLabeler(&LabelerConfig{
		APIKey:   "test-key",
		BaseURL:  server.URL,
		Model:    "test-model",
		Provider: "test",
		Logger:   zap.NewNop(),
	})

	if _, err := lbl.Label(context.Background(), []string{"anything"}); err == nil {
		t.Fatal("expected error for 503 response")
	}
}
