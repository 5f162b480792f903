package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/BhargaviBandaru98/VNR-Wall/internal/models"
)

// GroqClient talks to the Groq OpenAI-compatible chat completions API.
type GroqClient struct {
	apiKey     string
	baseURL    string
	modelName  string
	httpClient *http.Client
	logger     *zap.Logger
}

// GroqConfig for the Groq client.
type GroqConfig struct {
	APIKey    string
	ModelName string // Default: "llama-3.3-70b-versatile"
	BaseURL   string // Overridden by tests
}

type groqRequest struct {
	Model          string          `json:"model"`
	Messages       []groqMessage   `json:"messages"`
	Stream         bool            `json:"stream"`
	Temperature    float32         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// NewGroqClient creates a new Groq client.
func NewGroqClient(cfg GroqConfig, logger *zap.Logger) (*GroqClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("groq API key is required")
	}
	if cfg.ModelName == "" {
		cfg.ModelName = "llama-3.3-70b-versatile"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}

	logger.Info("Groq client initialized", zap.String("model", cfg.ModelName))

	return &GroqClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		modelName:  cfg.ModelName,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

func (c *GroqClient) Name() string { return "groq/" + c.modelName }

func (c *GroqClient) Close() error { return nil }

// complete runs one chat completion and returns the raw assistant content.
// No retries here: the pipeline treats any failure as a stage fallback.
func (c *GroqClient) complete(ctx context.Context, req groqRequest) (string, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("groq API error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("groq API returned status %d: %s", resp.StatusCode, string(body))
	}

	var groqResp groqResponse
	if err := json.Unmarshal(body, &groqResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(groqResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from groq")
	}
	return groqResp.Choices[0].Message.Content, nil
}

// ExtractCompanyName asks the model to name the organization in a message.
func (c *GroqClient) ExtractCompanyName(ctx context.Context, text string) (string, error) {
	content, err := c.complete(ctx, groqRequest{
		Model: c.modelName,
		Messages: []groqMessage{
			{Role: "user", Content: BuildExtractPrompt(text)},
		},
		Temperature: 0,
		MaxTokens:   30,
	})
	if err != nil {
		return "", err
	}
	name := parseCompanyName(content)
	c.logger.Debug("Extracted company name", zap.String("name", name))
	return name, nil
}

// Classify runs the full fraud-analysis prompt.
func (c *GroqClient) Classify(ctx context.Context, in models.ClassifyInput) (*models.AIVerdict, error) {
	content, err := c.complete(ctx, groqRequest{
		Model: c.modelName,
		Messages: []groqMessage{
			{Role: "system", Content: SystemInstruction},
			{Role: "user", Content: BuildClassifyPrompt(in)},
		},
		Temperature:    0,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}

	verdict, err := parseVerdict(content)
	if err != nil {
		c.logger.Error("Failed to parse classifier response",
			zap.String("raw", content), zap.Error(err))
		return nil, err
	}

	c.logger.Debug("Message classified",
		zap.Int("scam_score", verdict.ScamScore),
		zap.Int("genuine_score", verdict.GenuineScore),
		zap.String("risk_level", string(verdict.RiskLevel)))
	return verdict, nil
}
