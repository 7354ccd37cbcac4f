// Package config assembles edumate's configuration from the environment
// and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/edumate/internal/embed"
	"github.com/abhisek/edumate/internal/llm"
)

// Config is the complete application configuration.
type Config struct {
	// DBPath is the SQLite file. Empty means the default XDG location.
	DBPath string

	// KnowledgeBase is a YAML file or directory of learning resources.
	// Empty loads the built-in sample set.
	KnowledgeBase string

	User   UserConfig
	Server ServerConfig
	Log    LogConfig
	LLM    llm.Config
	Embed  embed.Config
}

// UserConfig identifies who is using the CLI.
type UserConfig struct {
	ID   string
	Kind string // student or teacher
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // console or json
}

// Load reads .env files from envFiles (or ".env" when none are given),
// ignoring missing ones, then builds the config from the environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv never overrides variables already set.
		_ = godotenv.Load(f)
	}

	cfg := Config{
		DBPath:        os.Getenv("EDUMATE_DB"),
		KnowledgeBase: os.Getenv("EDUMATE_KNOWLEDGE_BASE"),
		User: UserConfig{
			ID:   getEnv("EDUMATE_USER", "teacher_1"),
			Kind: getEnv("EDUMATE_USER_KIND", "teacher"),
		},
		Server: ServerConfig{
			Addr:            getEnv("EDUMATE_HTTP_ADDR", "127.0.0.1:8080"),
			ReadTimeout:     getEnvAsDuration("EDUMATE_HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("EDUMATE_HTTP_WRITE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getEnvAsDuration("EDUMATE_HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
			AllowedOrigins:  getEnvAsList("EDUMATE_CORS_ORIGINS", []string{"http://localhost:*", "http://127.0.0.1:*"}),
		},
		Log: LogConfig{
			Level:  getEnv("EDUMATE_LOG_LEVEL", "info"),
			Format: getEnv("EDUMATE_LOG_FORMAT", "console"),
		},
		LLM:   llm.ConfigFromEnv(),
		Embed: embed.ConfigFromEnv(),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks settings that do not depend on credentials. A missing
// LLM key is not an error here; features degrade at runtime instead.
func (c Config) Validate() error {
	switch c.User.Kind {
	case "student", "teacher":
	default:
		return fmt.Errorf("EDUMATE_USER_KIND must be student or teacher, got %q", c.User.Kind)
	}
	if c.User.ID == "" {
		return fmt.Errorf("EDUMATE_USER must not be empty")
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("EDUMATE_LOG_FORMAT must be console or json, got %q", c.Log.Format)
	}
	if err := c.Embed.Validate(); err != nil {
		return err
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
