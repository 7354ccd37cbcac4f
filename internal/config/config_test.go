package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"EDUMATE_DB", "EDUMATE_KNOWLEDGE_BASE", "EDUMATE_USER", "EDUMATE_USER_KIND",
	"EDUMATE_HTTP_ADDR", "EDUMATE_HTTP_READ_TIMEOUT", "EDUMATE_CORS_ORIGINS",
	"EDUMATE_LOG_LEVEL", "EDUMATE_LOG_FORMAT", "EDUMATE_LLM_PROVIDER",
	"EDUMATE_EMBED_PROVIDER", "GROQ_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY",
	"ANTHROPIC_API_KEY", "OPENROUTER_API_KEY", "REDIS_URL",
}

// clearEnv blanks every variable Load reads. t.Setenv restores them.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("EDUMATE_EMBED_PROVIDER", "hash")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "teacher_1", cfg.User.ID)
	assert.Equal(t, "teacher", cfg.User.Kind)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "hash", cfg.Embed.Provider)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"EDUMATE_USER=ms_rivera\n"+
			"EDUMATE_CORS_ORIGINS=http://a.test, http://b.test\n"+
			"EDUMATE_HTTP_READ_TIMEOUT=5s\n"+
			"EDUMATE_EMBED_PROVIDER=hash\n"+
			"GROQ_API_KEY=gsk_test\n"), 0o600))

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "ms_rivera", cfg.User.ID)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "groq", cfg.LLM.Provider)
	assert.Equal(t, "gsk_test", cfg.LLM.Groq.APIKey)
}

func TestLoad_EnvironmentWinsOverDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("EDUMATE_USER", "from_env")
	t.Setenv("EDUMATE_EMBED_PROVIDER", "hash")
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("EDUMATE_USER=from_file\n"), 0o600))

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.User.ID)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	t.Setenv("EDUMATE_EMBED_PROVIDER", "hash")

	t.Setenv("EDUMATE_USER_KIND", "parent")
	_, err := Load(filepath.Join(t.TempDir(), "none"))
	assert.ErrorContains(t, err, "EDUMATE_USER_KIND")

	t.Setenv("EDUMATE_USER_KIND", "student")
	t.Setenv("EDUMATE_LOG_FORMAT", "xml")
	_, err = Load(filepath.Join(t.TempDir(), "none"))
	assert.ErrorContains(t, err, "EDUMATE_LOG_FORMAT")

	t.Setenv("EDUMATE_LOG_FORMAT", "json")
	t.Setenv("EDUMATE_EMBED_PROVIDER", "carrier-pigeon")
	_, err = Load(filepath.Join(t.TempDir(), "none"))
	assert.ErrorContains(t, err, "unknown embedding provider")
}
