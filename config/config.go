// Package config loads the assistant settings from a YAML file, the process
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ModeText       = "text"
	ModeStructured = "structured"

	BackendSearxNG    = "searxng"
	BackendDuckDuckGo = "duckduckgo"
	BackendNone       = "none"
)

// Config is the root of the settings tree
type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Embedder EmbedderConfig `yaml:"embedder"`
	VectorDB VectorDBConfig `yaml:"vectordb"`
	Tools    ToolsConfig    `yaml:"tools"`
	Agent    AgentConfig    `yaml:"agent"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Log      LogConfig      `yaml:"log"`
}

// LLMConfig the chat model used by the agent and the retrieval tool
type LLMConfig struct {
	Provider    string        `yaml:"provider"` // openai, anthropic or gemini
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"` // supports ${VAR}
	BaseURL     string        `yaml:"base_url"`
	Temperature float32       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// EmbedderConfig the embedding model of the retrieval index
type EmbedderConfig struct {
	Provider string `yaml:"provider"` // openai or gemini
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
}

type VectorDBConfig struct {
	Engine     string `yaml:"engine"` // memory, chromem or milvus
	Path       string `yaml:"path"`   // chromem persistence directory
	Compress   bool   `yaml:"compress"`
	Address    string `yaml:"address"` // milvus address
	Collection string `yaml:"collection"`
	TopK       int    `yaml:"top_k"`
}

type ToolsConfig struct {
	WebSearch  WebSearchConfig  `yaml:"web_search"`
	Wikipedia  WikipediaConfig  `yaml:"wikipedia"`
	Webscraper WebscraperConfig `yaml:"webscraper"`
}

type WebSearchConfig struct {
	Backend    string `yaml:"backend"` // searxng, duckduckgo or none
	BaseURL    string `yaml:"base_url"`
	Language   string `yaml:"language"`
	MaxResults int    `yaml:"max_results"`
}

type WikipediaConfig struct {
	Language string `yaml:"language"`
	MaxChars int    `yaml:"max_chars"`
	BaseURL  string `yaml:"base_url"`
}

type WebscraperConfig struct {
	Enabled bool `yaml:"enabled"`
}

type AgentConfig struct {
	Mode        string        `yaml:"mode"` // text or structured
	Timeout     time.Duration `yaml:"timeout"`
	ToolTimeout time.Duration `yaml:"tool_timeout"`
	Concurrency int           `yaml:"concurrency"`
	HistorySize int           `yaml:"history_size"`
}

type IngestConfig struct {
	Documents string `yaml:"documents"` // directory, s3://bucket/prefix or http(s) URL
	Glob      string `yaml:"glob"`
	ChunkSize int    `yaml:"chunk_size"`
	Overlap   int    `yaml:"overlap"`
	// Tokenizer counts chunk sizes: words, sentences or a tiktoken encoding
	Tokenizer string `yaml:"tokenizer"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Default returns the settings used when nothing is configured
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o",
			Timeout:  60 * time.Second,
		},
		Embedder: EmbedderConfig{
			Provider: "openai",
			Model:    "text-embedding-3-small",
		},
		VectorDB: VectorDBConfig{
			Engine:     "chromem",
			Path:       "chroma_db",
			Collection: "documents",
			TopK:       3,
		},
		Tools: ToolsConfig{
			WebSearch: WebSearchConfig{
				Backend:    BackendDuckDuckGo,
				Language:   "fr",
				MaxResults: 5,
			},
			Wikipedia: WikipediaConfig{
				Language: "fr",
				MaxChars: 2000,
			},
		},
		Agent: AgentConfig{
			Mode:        ModeText,
			Timeout:     60 * time.Second,
			ToolTimeout: 30 * time.Second,
			Concurrency: 4,
			HistorySize: 20,
		},
		Ingest: IngestConfig{
			Documents: "documents",
			Glob:      "*",
			ChunkSize: 250,
			Overlap:   25,
			Tokenizer: "words",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads .env when present, then path when not empty, on top of Default.
// ${VAR} references in the file are expanded and known environment variables override the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: .env: %w", err)
	}
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv fills settings from the environment
func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_MODEL"); v != "" && c.LLM.Provider == "openai" {
		c.LLM.Model = v
	}
	if v := os.Getenv("OPENAI_API_BASE_URL"); v != "" {
		if c.LLM.Provider == "openai" {
			c.LLM.BaseURL = v
		}
		if c.Embedder.Provider == "openai" {
			c.Embedder.BaseURL = v
		}
	}
	if v := os.Getenv("SEARXNG_URL"); v != "" {
		c.Tools.WebSearch.BaseURL = v
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = apiKey(c.LLM.Provider)
	}
	if c.Embedder.APIKey == "" {
		if c.Embedder.Provider == c.LLM.Provider {
			c.Embedder.APIKey = c.LLM.APIKey
		} else {
			c.Embedder.APIKey = apiKey(c.Embedder.Provider)
		}
	}
}

func apiKey(provider string) string {
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	}
	return ""
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	check(slices.Contains([]string{"openai", "anthropic", "gemini"}, c.LLM.Provider), "llm.provider: unsupported %q", c.LLM.Provider)
	check(c.LLM.Model != "", "llm.model: required")
	check(c.LLM.APIKey != "", "llm.api_key: required for %s", c.LLM.Provider)
	check(slices.Contains([]string{"openai", "gemini"}, c.Embedder.Provider), "embedder.provider: unsupported %q", c.Embedder.Provider)
	check(c.Embedder.APIKey != "", "embedder.api_key: required for %s", c.Embedder.Provider)
	switch c.VectorDB.Engine {
	case "memory":
	case "chromem":
		check(c.VectorDB.Path != "", "vectordb.path: required by chromem")
	case "milvus":
		check(c.VectorDB.Address != "", "vectordb.address: required by milvus")
	default:
		check(false, "vectordb.engine: unsupported %q", c.VectorDB.Engine)
	}
	check(c.VectorDB.Collection != "", "vectordb.collection: required")
	check(c.VectorDB.TopK > 0, "vectordb.top_k: must be positive")
	switch c.Tools.WebSearch.Backend {
	case BackendDuckDuckGo, BackendNone:
	case BackendSearxNG:
		check(c.Tools.WebSearch.BaseURL != "", "tools.web_search.base_url: required by searxng")
	default:
		check(false, "tools.web_search.backend: unsupported %q", c.Tools.WebSearch.Backend)
	}
	check(c.Tools.Wikipedia.MaxChars > 0, "tools.wikipedia.max_chars: must be positive")
	check(c.Agent.Mode == ModeText || c.Agent.Mode == ModeStructured, "agent.mode: unsupported %q", c.Agent.Mode)
	check(c.Ingest.ChunkSize > 0 && c.Ingest.Overlap >= 0 && c.Ingest.Overlap < c.Ingest.ChunkSize,
		"ingest: overlap must be within [0, chunk_size)")
	var level slog.Level
	check(level.UnmarshalText([]byte(c.Log.Level)) == nil, "log.level: unsupported %q", c.Log.Level)
	check(c.Log.Format == "text" || c.Log.Format == "json", "log.format: unsupported %q", c.Log.Format)
	return errors.Join(errs...)
}

// NewLogger builds the logger described by the settings
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
