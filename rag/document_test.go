package rag

import (
	"path/filepath"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses whitespace", "a  b\t\nc", "a b c"},
		{"strips urls", "visit https://example.edu/page for info", "visit for info"},
		{"trims", "  padded  ", "padded"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPreprocess(t *testing.T) {
	pages := []Page{
		{URL: "https://example.edu/a", Title: "Page A", Content: "Sentence one. Sentence two. Sentence three."},
		{URL: "https://example.edu/empty", Title: "Empty", Content: "   "},
		{URL: "https://example.edu/untitled", Content: "Another page with content here."},
	}
	chunker, err := NewTextChunker()
	if err != nil {
		t.Fatal(err)
	}

	records := Preprocess(pages, chunker)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	seen := make(map[string]bool)
	for _, rec := range records {
		if rec.ID == "" {
			t.Error("record has empty ID")
		}
		if seen[rec.ID] {
			t.Errorf("duplicate record ID %q", rec.ID)
		}
		seen[rec.ID] = true
		if rec.Text == "" {
			t.Error("record has empty text")
		}
	}

	if records[0].Source != "https://example.edu/a" || records[0].Title != "Page A" {
		t.Errorf("record 0 = %+v", records[0])
	}
	if records[1].Title != "Untitled" {
		t.Errorf("untitled page got title %q, want Untitled", records[1].Title)
	}
}

func TestSaveAndLoadChunks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "chunks.json")
	records := []ChunkRecord{
		{ID: "1", Source: "https://example.edu", Title: "T", Text: "chunk text"},
	}

	if err := SaveChunks(path, records); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadChunks(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 || loaded[0] != records[0] {
		t.Errorf("loaded = %+v, want %+v", loaded, records)
	}
}

func TestLoadPagesMissingFile(t *testing.T) {
	if _, err := LoadPages(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
