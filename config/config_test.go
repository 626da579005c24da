package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/askcampus/campusrag/rag"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxPages != 500 || cfg.ChunkSize != 200 || cfg.ChunkOverlap != 50 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.StoreType != "milvus" || cfg.Collection != "campus_content" {
		t.Errorf("unexpected store defaults: %+v", cfg)
	}
	if cfg.TopK != 5 || cfg.BatchSize != 50 {
		t.Errorf("unexpected retrieval defaults: %+v", cfg)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("CAMPUSRAG_CONFIG", filepath.Join(t.TempDir(), "missing.json"))
	if _, err := Load(); err == nil {
		t.Error("expected error when CAMPUSRAG_CONFIG points at a missing file")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BASE_URL", "https://example.edu")
	t.Setenv("MAX_PAGES_TO_SCRAPE", "42")
	t.Setenv("GROQ_API_KEY", "llm-key")
	t.Setenv("OPENAI_API_KEY", "embed-key")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BaseURL != "https://example.edu" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.MaxPages != 42 {
		t.Errorf("MaxPages = %d, want 42", cfg.MaxPages)
	}
	if cfg.LLMAPIKey != "llm-key" || cfg.EmbeddingAPIKey != "embed-key" {
		t.Errorf("keys not read from environment")
	}
	if cfg.LogLevel != rag.LogLevelDebug {
		t.Errorf("LogLevel = %v, want DEBUG", cfg.LogLevel)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campusrag.json")
	content := `{"base_url": "https://file.example.edu", "max_pages": 7, "collection": "from_file"}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CAMPUSRAG_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BaseURL != "https://file.example.edu" || cfg.MaxPages != 7 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Collection != "from_file" {
		t.Errorf("Collection = %q", cfg.Collection)
	}
	// Untouched settings keep their defaults.
	if cfg.ChunkSize != 200 {
		t.Errorf("ChunkSize = %d, want default 200", cfg.ChunkSize)
	}
}

func TestEnvBeatsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campusrag.json")
	if err := os.WriteFile(path, []byte(`{"max_pages": 7}`), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CAMPUSRAG_CONFIG", path)
	t.Setenv("MAX_PAGES_TO_SCRAPE", "99")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxPages != 99 {
		t.Errorf("MaxPages = %d, want env value 99", cfg.MaxPages)
	}
}

func TestRequireValidation(t *testing.T) {
	cfg := Default()
	if err := cfg.RequireCrawl(); err == nil {
		t.Error("expected error without BASE_URL")
	}
	if err := cfg.RequireEmbedding(); err == nil {
		t.Error("expected error without OPENAI_API_KEY")
	}
	if err := cfg.RequireLLM(); err == nil {
		t.Error("expected error without GROQ_API_KEY")
	}

	cfg.BaseURL = "https://example.edu"
	cfg.EmbeddingAPIKey = "a"
	cfg.LLMAPIKey = "b"
	if err := cfg.RequireCrawl(); err != nil {
		t.Error(err)
	}
	if err := cfg.RequireEmbedding(); err != nil {
		t.Error(err)
	}
	if err := cfg.RequireLLM(); err != nil {
		t.Error(err)
	}
}
