package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err, "explicit missing path should fail")
	assert.Nil(t, cfg)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
addr = "0.0.0.0:9000"

[chunking]
size = 800
overlap = 50

[llm]
provider = "ollama"
model = "mistral"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.Equal(t, 800, cfg.Chunking.Size)
	assert.Equal(t, 50, cfg.Chunking.Overlap)
	assert.Equal(t, "mistral", cfg.LLM.Model)

	// Sections absent from the file keep their defaults.
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, "nomic-embed-text", cfg.Embedding.Model)
}

func TestEnvOverridesAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[embedding]
provider = "openai"
model = "text-embedding-3-small"

[llm]
provider = "openai"
model = "gpt-4o-mini"
api_key = "from-file"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	t.Setenv("OPENAI_API_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Embedding.APIKey)
	assert.Equal(t, "from-env", cfg.LLM.APIKey, "environment wins over the file")
}

func TestEnvIgnoredForOllama(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0600))
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Empty(t, cfg.Embedding.APIKey)
	assert.Empty(t, cfg.LLM.APIKey)
}

func TestSettingsConversion(t *testing.T) {
	cfg := Default()
	cfg.Embedding.Provider = "openai"
	cfg.Embedding.APIKey = "sk-test"

	settings := cfg.EmbeddingSettings()
	assert.Equal(t, domain.AIProviderOpenAI, settings.Provider)
	assert.True(t, settings.IsConfigured())

	llm := cfg.LLMSettings()
	assert.Equal(t, domain.AIProviderOllama, llm.Provider)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"defaults", func(*Config) {}, true},
		{"bad provider", func(c *Config) { c.LLM.Provider = "claude" }, false},
		{"zero chunk size", func(c *Config) { c.Chunking.Size = 0 }, false},
		{"overlap ge size", func(c *Config) { c.Chunking.Overlap = c.Chunking.Size }, false},
		{"zero top_k", func(c *Config) { c.Retrieval.TopK = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			}
		})
	}
}

func TestParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}
