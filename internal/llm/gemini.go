package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/BhargaviBandaru98/VNR-Wall/internal/models"
)

// GeminiClient wraps the Gemini API as a secondary classification provider.
type GeminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	extractor *genai.GenerativeModel
	logger    *zap.Logger
	modelName string
}

// GeminiConfig for the Gemini client.
type GeminiConfig struct {
	APIKey    string
	ModelName string // Default: "gemini-2.0-flash-exp"
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.ModelName == "" {
		cfg.ModelName = "gemini-2.0-flash-exp"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.ModelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SystemInstruction)},
	}
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:      genai.Ptr[float32](0),
		MaxOutputTokens:  genai.Ptr[int32](800),
		ResponseMIMEType: "application/json",
	}

	extractor := client.GenerativeModel(cfg.ModelName)
	extractor.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr[float32](0),
		MaxOutputTokens: genai.Ptr[int32](30),
	}

	logger.Info("Gemini client initialized", zap.String("model", cfg.ModelName))

	return &GeminiClient{
		client:    client,
		model:     model,
		extractor: extractor,
		logger:    logger,
		modelName: cfg.ModelName,
	}, nil
}

func (c *GeminiClient) Name() string { return "gemini/" + c.modelName }

func (c *GeminiClient) Close() error { return c.client.Close() }

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response part type from gemini")
	}
	return string(text), nil
}

// ExtractCompanyName asks the model to name the organization in a message.
func (c *GeminiClient) ExtractCompanyName(ctx context.Context, text string) (string, error) {
	resp, err := c.extractor.GenerateContent(ctx, genai.Text(BuildExtractPrompt(text)))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	content, err := firstText(resp)
	if err != nil {
		return "", err
	}
	return parseCompanyName(content), nil
}

// Classify runs the full fraud-analysis prompt.
func (c *GeminiClient) Classify(ctx context.Context, in models.ClassifyInput) (*models.AIVerdict, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(BuildClassifyPrompt(in)))
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}
	content, err := firstText(resp)
	if err != nil {
		return nil, err
	}

	verdict, err := parseVerdict(content)
	if err != nil {
		c.logger.Error("Failed to parse classifier response",
			zap.String("raw", content), zap.Error(err))
		return nil, err
	}
	return verdict, nil
}
