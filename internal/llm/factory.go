package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/edumate/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and logging middleware.
// eventRepo may be nil, in which case requests are not recorded.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger *zap.Logger) (Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "groq":
		base, err = NewGroqProvider(cfg.Groq)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → retry → logging → base
	var p Provider = base
	if eventRepo != nil {
		p = WithLogging(p, eventRepo, logger)
	}
	return WithRetry(p, cfg.Retry, logger), nil
}

// NewVisionReader creates the OCR reader. It returns ErrVisionUnavailable
// when no vision key is configured so callers can degrade gracefully.
func NewVisionReader(ctx context.Context, cfg Config) (VisionReader, error) {
	if cfg.Provider == "mock" {
		return &MockVisionReader{Text: ""}, nil
	}
	if cfg.Vision.APIKey == "" {
		return nil, ErrVisionUnavailable
	}
	g, err := NewGeminiProvider(ctx, GeminiConfig{APIKey: cfg.Vision.APIKey, Model: cfg.Vision.Model})
	if err != nil {
		return nil, fmt.Errorf("initializing vision reader: %w", err)
	}
	return g, nil
}
