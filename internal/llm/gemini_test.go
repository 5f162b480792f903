package llm

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestNewGeminiClient_ClassifierModelConfig(t *testing.T) {
	client, err := NewGeminiClient(context.Background(), GeminiConfig{APIKey: "test-key"}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewGeminiClient: %v", err)
	}
	defer client.Close()

	// JSON response mode must survive the GenerationConfig assignment,
	// otherwise the model answers in prose and every classify call fails
	// parsing.
	if client.model.ResponseMIMEType != "application/json" {
		t.Errorf("classifier ResponseMIMEType = %q, want application/json", client.model.ResponseMIMEType)
	}
	if client.model.Temperature == nil || *client.model.Temperature != 0 {
		t.Error("classifier temperature not pinned to 0")
	}
	if client.model.SystemInstruction == nil {
		t.Error("classifier system instruction not set")
	}

	if client.extractor.ResponseMIMEType != "" {
		t.Errorf("extractor ResponseMIMEType = %q, want plain text", client.extractor.ResponseMIMEType)
	}
	if client.extractor.MaxOutputTokens == nil || *client.extractor.MaxOutputTokens != 30 {
		t.Error("extractor output cap not set")
	}
}

func TestNewGeminiClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewGeminiClient(context.Background(), GeminiConfig{}, zap.NewNop()); err == nil {
		t.Fatal("want error when API key is empty")
	}
}
