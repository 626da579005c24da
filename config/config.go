// Package config manages configuration for the campusrag pipeline and
// server. Settings come from three layers, lowest to highest precedence:
//
//  1. Programmatic defaults
//  2. A JSON config file ($CAMPUSRAG_CONFIG, ~/.campusrag/config.json or
//     ./campusrag.json, first one found)
//  3. Environment variables
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/askcampus/campusrag/rag"
)

// Config holds every setting the commands need. Environment variable names
// follow the services they configure: the embedding key is OPENAI_API_KEY,
// the LLM key is GROQ_API_KEY.
type Config struct {
	// Crawler settings
	BaseURL           string   `json:"base_url" env:"BASE_URL"`
	Seeds             []string `json:"seeds" env:"CRAWL_SEEDS"`
	MaxPages          int      `json:"max_pages" env:"MAX_PAGES_TO_SCRAPE"`
	MinWords          int      `json:"min_words" env:"MIN_WORDS_PER_PAGE"`
	RequestsPerSecond float64  `json:"requests_per_second" env:"CRAWL_RPS"`
	UserAgent         string   `json:"user_agent" env:"USER_AGENT"`

	// Data paths
	PagesDir      string `json:"pages_dir" env:"PAGES_DIR"`
	AggregatePath string `json:"aggregate_path" env:"AGGREGATE_PATH"`
	StatsPath     string `json:"stats_path" env:"STATS_PATH"`
	ChunksPath    string `json:"chunks_path" env:"CHUNKS_PATH"`
	DocsDir       string `json:"docs_dir" env:"DOCS_DIR"`

	// Chunking settings
	ChunkSize     int    `json:"chunk_size" env:"CHUNK_SIZE"`
	ChunkOverlap  int    `json:"chunk_overlap" env:"CHUNK_OVERLAP"`
	TokenEncoding string `json:"token_encoding" env:"TOKEN_ENCODING"`

	// Vector store settings
	StoreType    string  `json:"store_type" env:"STORE_TYPE"`
	StoreAddress string  `json:"store_address" env:"STORE_ADDRESS"`
	Collection   string  `json:"collection" env:"COLLECTION"`
	Metric       string  `json:"metric" env:"METRIC"`
	BatchSize    int     `json:"batch_size" env:"UPSERT_BATCH_SIZE"`
	BatchRate    float64 `json:"batch_rate" env:"UPSERT_BATCH_RATE"`

	// Embedding settings
	EmbeddingProvider  string `json:"embedding_provider" env:"EMBEDDING_PROVIDER"`
	EmbeddingModel     string `json:"embedding_model" env:"EMBEDDING_MODEL"`
	EmbeddingAPIKey    string `json:"-" env:"OPENAI_API_KEY"`
	EmbeddingBaseURL   string `json:"embedding_base_url" env:"EMBEDDING_BASE_URL"`
	EmbeddingDimension int    `json:"embedding_dimension" env:"EMBEDDING_DIMENSION"`

	// LLM settings
	LLMAPIKey  string `json:"-" env:"GROQ_API_KEY"`
	LLMModel   string `json:"llm_model" env:"GROQ_MODEL"`
	LLMBaseURL string `json:"llm_base_url" env:"LLM_BASE_URL"`
	MaxTokens  int64  `json:"max_tokens" env:"LLM_MAX_TOKENS"`

	// Retrieval settings
	TopK     int     `json:"top_k" env:"TOP_K"`
	MinScore float64 `json:"min_score" env:"MIN_SCORE"`

	// Server settings
	ListenAddr string `json:"listen_addr" env:"LISTEN_ADDR"`
	IndexPath  string `json:"index_path" env:"INDEX_PATH"`

	// Logging
	LogLevel rag.LogLevel `json:"log_level" env:"LOG_LEVEL"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MaxPages:          500,
		MinWords:          30,
		RequestsPerSecond: 2,
		PagesDir:          "data/raw/pages",
		AggregatePath:     "data/raw/pages.json",
		StatsPath:         "data/raw/stats.json",
		ChunksPath:        "data/processed/chunks.json",
		ChunkSize:         200,
		ChunkOverlap:      50,
		StoreType:         "milvus",
		StoreAddress:      "localhost:19530",
		Collection:        "campus_content",
		Metric:            "L2",
		BatchSize:         50,
		BatchRate:         0.4,
		EmbeddingProvider: "openai",
		EmbeddingModel:    "text-embedding-3-small",
		LLMBaseURL:        "https://api.groq.com/openai/v1",
		LLMModel:          "llama-3.3-70b-versatile",
		MaxTokens:         600,
		TopK:              5,
		ListenAddr:        ":8000",
		IndexPath:         "web/index.html",
		LogLevel:          rag.LogLevelInfo,
	}
}

// Load builds the effective configuration from defaults, an optional JSON
// config file and environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := findConfigFile(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv("CAMPUSRAG_CONFIG"); path != "" {
		return path
	}
	candidates := []string{"campusrag.json"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".campusrag", "config.json"))
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// RequireCrawl validates the settings the crawl command needs.
func (c *Config) RequireCrawl() error {
	if c.BaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	return nil
}

// RequireEmbedding validates the settings any embedding user needs.
func (c *Config) RequireEmbedding() error {
	if c.EmbeddingAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	return nil
}

// RequireLLM validates the settings the ask and serve commands need.
func (c *Config) RequireLLM() error {
	if c.LLMAPIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required")
	}
	return nil
}
