package embed

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Config selects and configures the embedder.
type Config struct {
	// Provider is one of "hugot", "openai", "gemini", "hash".
	Provider string
	Model    string

	// ModelDir holds downloaded hugot models.
	ModelDir string

	OpenAIKey     string
	OpenAIBaseURL string
	GeminiKey     string

	// RedisURL enables the vector cache when set.
	RedisURL string
	CacheTTL time.Duration

	// HashDims sets the vector size of the hash embedder.
	HashDims int
}

// DefaultConfig returns the local hugot setup.
func DefaultConfig() Config {
	return Config{
		Provider: "hugot",
		Model:    DefaultHugotModel,
		ModelDir: defaultModelDir(),
		CacheTTL: 30 * 24 * time.Hour,
		HashDims: DefaultHashDims,
	}
}

// ConfigFromEnv reads EDUMATE_EMBED_* variables over the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("EDUMATE_EMBED_PROVIDER"); v != "" {
		cfg.Provider = v
		cfg.Model = ""
	}
	if v := os.Getenv("EDUMATE_EMBED_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("EDUMATE_MODEL_DIR"); v != "" {
		cfg.ModelDir = v
	}
	cfg.OpenAIKey = firstEnv("EDUMATE_OPENAI_API_KEY", "OPENAI_API_KEY")
	cfg.OpenAIBaseURL = os.Getenv("EDUMATE_OPENAI_BASE_URL")
	cfg.GeminiKey = firstEnv("EDUMATE_GEMINI_API_KEY", "GEMINI_API_KEY")
	cfg.RedisURL = firstEnv("EDUMATE_REDIS_URL", "REDIS_URL")
	if v := os.Getenv("EDUMATE_EMBED_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CacheTTL = d
		}
	}
	return cfg
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func defaultModelDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "edumate", "models")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "edumate", "models")
	}
	return "models"
}

// Validate checks provider-specific requirements.
func (c Config) Validate() error {
	switch c.Provider {
	case "hugot":
		if c.ModelDir == "" {
			return fmt.Errorf("a model directory is required for the hugot embedder")
		}
	case "openai":
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for openai embeddings")
		}
	case "gemini":
		if c.GeminiKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for gemini embeddings")
		}
	case "hash":
	default:
		return fmt.Errorf("unknown embedding provider: %q", c.Provider)
	}
	return nil
}

// New builds the configured embedder, wrapped with the redis cache when a
// URL is set. The returned closer releases every resource and is never nil.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Embedder, io.Closer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	var (
		base    Embedder
		closers multiCloser
		err     error
	)
	switch cfg.Provider {
	case "hugot":
		var h *Hugot
		h, err = NewHugot(cfg.Model, cfg.ModelDir)
		if err == nil {
			base = h
			closers = append(closers, h)
		}
	case "openai":
		base, err = NewOpenAI(cfg.OpenAIKey, cfg.Model, cfg.OpenAIBaseURL)
	case "gemini":
		base, err = NewGemini(ctx, cfg.GeminiKey, cfg.Model)
	case "hash":
		base = NewHash(cfg.HashDims)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("initializing %s embedder: %w", cfg.Provider, err)
	}

	if cfg.RedisURL == "" {
		return base, closers, nil
	}

	rc, err := NewRedisCache(ctx, cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		// The cache is optional; run uncached rather than fail startup.
		logger.Warn("embedding cache disabled", zap.Error(err))
		return base, closers, nil
	}
	closers = append(closers, rc)
	return WithCache(base, rc, logger), closers, nil
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var first error
	for _, c := range m {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
