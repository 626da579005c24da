package rag

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Page is a single scraped page as produced by the crawler.
type Page struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	WordCount   int    `json:"word_count"`
}

// ChunkRecord is one chunk of page text ready for embedding and upsert.
// The ID is a UUID assigned at preprocessing time and used as the vector
// store primary key, so re-running the preprocessor produces fresh records.
type ChunkRecord struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Title  string `json:"title"`
	Text   string `json:"text"`
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	urlRe        = regexp.MustCompile(`http\S+`)
)

// CleanText normalizes scraped text before chunking: bare URLs are stripped
// and whitespace runs collapse to single spaces.
func CleanText(text string) string {
	text = urlRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Preprocess cleans every page and splits it into chunk records. Pages whose
// cleaned content is empty are skipped.
func Preprocess(pages []Page, chunker Chunker) []ChunkRecord {
	var records []ChunkRecord
	for _, page := range pages {
		content := CleanText(page.Content)
		if content == "" {
			continue
		}
		title := page.Title
		if title == "" {
			title = "Untitled"
		}
		for _, chunk := range chunker.Chunk(content) {
			records = append(records, ChunkRecord{
				ID:     uuid.NewString(),
				Source: page.URL,
				Title:  title,
				Text:   chunk.Text,
			})
		}
	}
	return records
}

// LoadPages reads an aggregate pages file written by the crawler.
func LoadPages(path string) ([]Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pages file: %w", err)
	}
	var pages []Page
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("failed to parse pages file %s: %w", path, err)
	}
	return pages, nil
}

// SaveChunks writes chunk records as indented JSON, creating parent
// directories as needed.
func SaveChunks(path string, records []ChunkRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadChunks reads chunk records written by SaveChunks.
func LoadChunks(path string) ([]ChunkRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chunks file: %w", err)
	}
	var records []ChunkRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse chunks file %s: %w", path, err)
	}
	return records, nil
}
