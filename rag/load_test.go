package rag

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDocumentText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prospectus.txt")
	if err := os.WriteFile(path, []byte("Welcome to the university."), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := LoadDocument(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "prospectus" {
		t.Errorf("title = %q, want prospectus", doc.Title)
	}
	if doc.Content != "Welcome to the university." {
		t.Errorf("content = %q", doc.Content)
	}
	if doc.Source != path {
		t.Errorf("source = %q, want %q", doc.Source, path)
	}
}

func TestLoadDocumentUnsupported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.png")
	if err := os.WriteFile(path, []byte{0x89, 0x50}, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDocument(path); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestLoadDocumentDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.txt":      "text file",
		"b.md":       "markdown file",
		"ignore.png": "binary",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := LoadDocumentDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
}

func TestDocumentsToPages(t *testing.T) {
	docs := []Document{
		{Source: "/docs/a.txt", Title: "a", Content: "one two three"},
	}
	pages := DocumentsToPages(docs)
	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages))
	}
	if pages[0].WordCount != 3 {
		t.Errorf("word count = %d, want 3", pages[0].WordCount)
	}
	if pages[0].URL != "/docs/a.txt" || pages[0].Title != "a" {
		t.Errorf("page = %+v", pages[0])
	}
}
