package campusrag

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/askcampus/campusrag/rag"
)

type fakeRetriever struct {
	results []rag.SearchResult
	err     error
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string) ([]rag.SearchResult, error) {
	return f.results, f.err
}

func TestBuildContext(t *testing.T) {
	results := []rag.SearchResult{
		{Text: "First chunk.", Source: "https://example.edu/a", Score: 0.912},
		{Text: "Second chunk.", Source: "https://example.edu/b", Score: 0.455},
	}
	got := BuildContext(results)

	if !strings.Contains(got, "[1] (score=0.912) (source=https://example.edu/a)\nFirst chunk.") {
		t.Errorf("context missing first entry:\n%s", got)
	}
	if !strings.Contains(got, "[2] (score=0.455) (source=https://example.edu/b)\nSecond chunk.") {
		t.Errorf("context missing second entry:\n%s", got)
	}
	if !strings.Contains(got, "\n\n---\n\n") {
		t.Errorf("context missing divider:\n%s", got)
	}
}

func TestBuildContextEmpty(t *testing.T) {
	if got := BuildContext(nil); got != "" {
		t.Errorf("BuildContext(nil) = %q, want empty", got)
	}
}

func TestAskEmptyRetrievalShortCircuits(t *testing.T) {
	// No LLM endpoint is reachable in tests; an empty retrieval must answer
	// without attempting a completion at all.
	a, err := NewAssistant(&fakeRetriever{}, AssistantConfig{APIKey: "test"})
	if err != nil {
		t.Fatal(err)
	}

	answer, err := a.Ask(context.Background(), "what are the library hours?")
	if err != nil {
		t.Fatal(err)
	}
	if answer != FallbackAnswer {
		t.Errorf("answer = %q, want %q", answer, FallbackAnswer)
	}
}

func TestAskRetrievalError(t *testing.T) {
	a, err := NewAssistant(&fakeRetriever{err: fmt.Errorf("store offline")}, AssistantConfig{APIKey: "test"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Ask(context.Background(), "anything"); err == nil {
		t.Error("expected error when retrieval fails")
	}
}

func TestNewAssistantValidation(t *testing.T) {
	if _, err := NewAssistant(nil, AssistantConfig{APIKey: "k"}); err == nil {
		t.Error("expected error for nil retriever")
	}
	if _, err := NewAssistant(&fakeRetriever{}, AssistantConfig{}); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestNewAssistantDefaults(t *testing.T) {
	a, err := NewAssistant(&fakeRetriever{}, AssistantConfig{APIKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	if a.config.Model == "" || a.config.BaseURL == "" {
		t.Errorf("defaults not applied: %+v", a.config)
	}
	if a.config.MaxTokens != 600 {
		t.Errorf("MaxTokens = %d, want 600", a.config.MaxTokens)
	}
}
