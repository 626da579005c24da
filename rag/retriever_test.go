package rag

import (
	"context"
	"testing"
)

type searchStore struct {
	fakeStore
	results []SearchResult
	lastK   int
}

func (s *searchStore) Search(ctx context.Context, collection string, vector []float32, topK int) ([]SearchResult, error) {
	s.lastK = topK
	return s.results, nil
}

func TestRetrieverFiltersByScore(t *testing.T) {
	store := &searchStore{results: []SearchResult{
		{ID: "a", Text: "high", Score: 0.9},
		{ID: "b", Text: "mid", Score: 0.5},
		{ID: "c", Text: "low", Score: 0.1},
	}}
	r, err := NewRetriever(store, &fakeEmbedder{dim: 4},
		WithCollection("docs"),
		WithTopK(3),
		WithMinScore(0.4),
	)
	if err != nil {
		t.Fatal(err)
	}

	results, err := r.Retrieve(context.Background(), "question")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].ID != "a" || results[1].ID != "b" {
		t.Errorf("results = %+v", results)
	}
	if store.lastK != 3 {
		t.Errorf("searched with topK=%d, want 3", store.lastK)
	}
}

func TestRetrieverNoScoreFilter(t *testing.T) {
	store := &searchStore{results: []SearchResult{
		{ID: "a", Score: 2.5},
		{ID: "b", Score: 7.1},
	}}
	r, err := NewRetriever(store, &fakeEmbedder{dim: 4})
	if err != nil {
		t.Fatal(err)
	}
	results, err := r.Retrieve(context.Background(), "question")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2 (no filter)", len(results))
	}
}

func TestRetrieverEmptyCollection(t *testing.T) {
	r, err := NewRetriever(&searchStore{}, &fakeEmbedder{dim: 4})
	if err != nil {
		t.Fatal(err)
	}
	results, err := r.Retrieve(context.Background(), "question")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestRetrieverEmbedFailure(t *testing.T) {
	r, err := NewRetriever(&searchStore{}, &fakeEmbedder{dim: 4, fail: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Retrieve(context.Background(), "question"); err == nil {
		t.Error("expected error when embedding fails")
	}
}

func TestNewRetrieverValidation(t *testing.T) {
	if _, err := NewRetriever(nil, &fakeEmbedder{dim: 4}); err == nil {
		t.Error("expected error for nil store")
	}
	if _, err := NewRetriever(&searchStore{}, nil); err == nil {
		t.Error("expected error for nil embedder")
	}
	if _, err := NewRetriever(&searchStore{}, &fakeEmbedder{dim: 4}, WithTopK(0)); err == nil {
		t.Error("expected error for zero topK")
	}
}
