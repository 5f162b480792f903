package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/BhargaviBandaru98/VNR-Wall/internal/config"
	"github.com/BhargaviBandaru98/VNR-Wall/internal/models"
)

// Failover tries each configured provider in order and returns the first
// successful answer. Per-call timeouts and fallbacks are the pipeline's
// concern; Failover only hides transient single-provider outages.
type Failover struct {
	providers []Provider
	logger    *zap.Logger
}

// NewFailover builds the provider chain from config. At least one provider
// must be configured.
func NewFailover(ctx context.Context, cfgs []config.LLMProviderConfig, logger *zap.Logger) (*Failover, error) {
	var providers []Provider
	for _, cfg := range cfgs {
		switch cfg.Type {
		case "groq":
			p, err := NewGroqClient(GroqConfig{APIKey: cfg.APIKey, ModelName: cfg.ModelName}, logger)
			if err != nil {
				logger.Warn("Skipping groq provider", zap.Error(err))
				continue
			}
			providers = append(providers, p)
		case "gemini":
			p, err := NewGeminiClient(ctx, GeminiConfig{APIKey: cfg.APIKey, ModelName: cfg.ModelName}, logger)
			if err != nil {
				logger.Warn("Skipping gemini provider", zap.Error(err))
				continue
			}
			providers = append(providers, p)
		default:
			logger.Warn("Unknown LLM provider type", zap.String("type", cfg.Type))
		}
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("no usable LLM provider configured")
	}
	return &Failover{providers: providers, logger: logger}, nil
}

// NewFailoverFromProviders is used by tests.
func NewFailoverFromProviders(logger *zap.Logger, providers ...Provider) *Failover {
	return &Failover{providers: providers, logger: logger}
}

func (f *Failover) Name() string {
	names := make([]string, len(f.providers))
	for i, p := range f.providers {
		names[i] = p.Name()
	}
	return strings.Join(names, ",")
}

func (f *Failover) Close() error {
	var firstErr error
	for _, p := range f.providers {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *Failover) ExtractCompanyName(ctx context.Context, text string) (string, error) {
	var lastErr error
	for _, p := range f.providers {
		name, err := p.ExtractCompanyName(ctx, text)
		if err == nil {
			return name, nil
		}
		lastErr = err
		f.logger.Warn("Provider failed to extract company name, trying next",
			zap.String("provider", p.Name()), zap.Error(err))
	}
	return "", fmt.Errorf("all providers failed: %w", lastErr)
}

func (f *Failover) Classify(ctx context.Context, in models.ClassifyInput) (*models.AIVerdict, error) {
	var lastErr error
	for _, p := range f.providers {
		verdict, err := p.Classify(ctx, in)
		if err == nil {
			return verdict, nil
		}
		lastErr = err
		f.logger.Warn("Provider failed to classify, trying next",
			zap.String("provider", p.Name()), zap.Error(err))
	}
	return nil, fmt.Errorf("all providers failed: %w", lastErr)
}
