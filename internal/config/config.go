// Package config loads the docqa configuration from a TOML file with
// environment variable overrides for secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig   `toml:"server"`
	Storage   StorageConfig  `toml:"storage"`
	Chunking  ChunkingConfig `toml:"chunking"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Embedding ProviderConfig `toml:"embedding"`
	LLM       ProviderConfig `toml:"llm"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address, host:port.
	Addr string `toml:"addr"`

	// AnswerRateLimit is the global requests-per-second cap on /qa/answer.
	// Zero disables the limit.
	AnswerRateLimit float64 `toml:"answer_rate_limit"`
}

// StorageConfig holds filesystem locations.
type StorageConfig struct {
	// UploadDir is where uploaded documents are saved.
	UploadDir string `toml:"upload_dir"`

	// DataDir holds the evaluation database and index snapshots.
	DataDir string `toml:"data_dir"`

	// PromptDir holds editable prompt templates.
	PromptDir string `toml:"prompt_dir"`
}

// ChunkingConfig holds document splitting settings.
type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// RetrievalConfig holds answer-time retrieval settings.
type RetrievalConfig struct {
	TopK int `toml:"top_k"`
}

// ProviderConfig holds an AI provider's settings. The API key is normally
// supplied via environment rather than the config file.
type ProviderConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".docqa")

	return &Config{
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			AnswerRateLimit: 10,
		},
		Storage: StorageConfig{
			UploadDir: filepath.Join(base, "uploads"),
			DataDir:   filepath.Join(base, "data"),
			PromptDir: filepath.Join(base, "prompts"),
		},
		Chunking: ChunkingConfig{
			Size:    1500,
			Overlap: 100,
		},
		Retrieval: RetrievalConfig{
			TopK: 3,
		},
		Embedding: ProviderConfig{
			Provider: "ollama",
			Model:    "nomic-embed-text",
			BaseURL:  "http://localhost:11434",
		},
		LLM: ProviderConfig{
			Provider: "ollama",
			Model:    "llama3.1",
			BaseURL:  "http://localhost:11434",
		},
	}
}

// DefaultPath returns the default config file location, ~/.docqa/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".docqa", "config.toml")
}

// Load reads the configuration. A .env file in the working directory is
// loaded first (best-effort), then the TOML file at path, then environment
// overrides. When path is empty the default location is used, and a missing
// file at either location falls back to defaults.
func Load(path string) (*Config, error) {
	// Secrets commonly live in .env during development. Absence is fine.
	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file yet, run on defaults.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays secret material from the environment. Environment
// values win over the config file so keys never need to be written to disk.
func (c *Config) applyEnv() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if c.Embedding.Provider == string(domain.AIProviderOpenAI) {
			c.Embedding.APIKey = key
		}
		if c.LLM.Provider == string(domain.AIProviderOpenAI) {
			c.LLM.APIKey = key
		}
	}
	if url := os.Getenv("OLLAMA_BASE_URL"); url != "" {
		if c.Embedding.Provider == string(domain.AIProviderOllama) {
			c.Embedding.BaseURL = url
		}
		if c.LLM.Provider == string(domain.AIProviderOllama) {
			c.LLM.BaseURL = url
		}
	}
	if addr := os.Getenv("DOCQA_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
}

// EmbeddingSettings converts the embedding section to domain settings.
func (c *Config) EmbeddingSettings() domain.EmbeddingSettings {
	return domain.EmbeddingSettings{
		Provider: domain.AIProvider(c.Embedding.Provider),
		Model:    c.Embedding.Model,
		BaseURL:  c.Embedding.BaseURL,
		APIKey:   c.Embedding.APIKey,
	}
}

// LLMSettings converts the llm section to domain settings.
func (c *Config) LLMSettings() domain.LLMSettings {
	return domain.LLMSettings{
		Provider: domain.AIProvider(c.LLM.Provider),
		Model:    c.LLM.Model,
		BaseURL:  c.LLM.BaseURL,
		APIKey:   c.LLM.APIKey,
	}
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if !domain.AIProvider(c.Embedding.Provider).IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidInput, c.Embedding.Provider)
	}
	if !domain.AIProvider(c.LLM.Provider).IsValid() {
		return fmt.Errorf("%w: unknown llm provider %q", domain.ErrInvalidInput, c.LLM.Provider)
	}
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("%w: chunking size must be positive", domain.ErrInvalidInput)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("%w: chunking overlap must be in [0, size)", domain.ErrInvalidInput)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: retrieval top_k must be positive", domain.ErrInvalidInput)
	}
	return nil
}
