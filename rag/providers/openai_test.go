package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewOpenAIEmbedderRequiresKey(t *testing.T) {
	if _, err := NewOpenAIEmbedder(map[string]interface{}{}); err == nil {
		t.Error("expected error for missing api key")
	}
}

func TestOpenAIEmbedderDimension(t *testing.T) {
	e, err := NewOpenAIEmbedder(map[string]interface{}{"api_key": "k", "model": "text-embedding-3-large"})
	if err != nil {
		t.Fatal(err)
	}
	dim, err := e.Dimension()
	if err != nil {
		t.Fatal(err)
	}
	if dim != 3072 {
		t.Errorf("dimension = %d, want 3072", dim)
	}

	e, err = NewOpenAIEmbedder(map[string]interface{}{"api_key": "k", "model": "custom-model", "dimension": 1024})
	if err != nil {
		t.Fatal(err)
	}
	dim, err = e.Dimension()
	if err != nil {
		t.Fatal(err)
	}
	if dim != 1024 {
		t.Errorf("dimension override = %d, want 1024", dim)
	}

	e, err = NewOpenAIEmbedder(map[string]interface{}{"api_key": "k", "model": "custom-model"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Dimension(); err == nil {
		t.Error("expected error for unknown model without override")
	}
}

func TestOpenAIEmbedderEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if len(req.Input) != 2 {
			t.Errorf("got %d inputs, want 2", len(req.Input))
		}
		// Return embeddings out of order; the client must reorder by index.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 1, "embedding": []float32{2, 2}},
				{"index": 0, "embedding": []float32{1, 1}},
			},
		})
	}))
	defer srv.Close()

	e, err := NewOpenAIEmbedder(map[string]interface{}{
		"api_key": "test-key",
		"api_url": srv.URL,
	})
	if err != nil {
		t.Fatal(err)
	}

	vectors, err := e.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vectors) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vectors))
	}
	if vectors[0][0] != 1 || vectors[1][0] != 2 {
		t.Errorf("vectors out of order: %v", vectors)
	}
}

func TestOpenAIEmbedderEmbedEmpty(t *testing.T) {
	e, err := NewOpenAIEmbedder(map[string]interface{}{"api_key": "k"})
	if err != nil {
		t.Fatal(err)
	}
	vectors, err := e.Embed(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if vectors != nil {
		t.Errorf("expected nil vectors, got %v", vectors)
	}
}

func TestOpenAIEmbedderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	e, err := NewOpenAIEmbedder(map[string]interface{}{
		"api_key": "test-key",
		"api_url": srv.URL,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Embed(context.Background(), []string{"text"}); err == nil {
		t.Error("expected error for 429 response")
	}
}

func TestOpenAIEmbedderCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 0, "embedding": []float32{1}},
			},
		})
	}))
	defer srv.Close()

	e, err := NewOpenAIEmbedder(map[string]interface{}{
		"api_key": "test-key",
		"api_url": srv.URL,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Error("expected error when response is short")
	}
}

func TestGetEmbedderFactory(t *testing.T) {
	if _, err := GetEmbedderFactory("openai"); err != nil {
		t.Errorf("openai factory not registered: %v", err)
	}
	if _, err := GetEmbedderFactory("missing"); err == nil {
		t.Error("expected error for unregistered factory")
	}
}
