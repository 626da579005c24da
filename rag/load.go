package rag

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Document is a locally ingested document: prospectus PDFs, exported notes
// and similar material that never appears on the crawled site.
type Document struct {
	Source  string
	Title   string
	Content string
}

// LoadDocument reads a single local document. Supported extensions: .txt and
// .md are read as plain text, .pdf is extracted page by page.
func LoadDocument(path string) (Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return Document{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return Document{
			Source:  path,
			Title:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Content: string(data),
		}, nil
	case ".pdf":
		content, err := extractPDFText(path)
		if err != nil {
			return Document{}, err
		}
		return Document{
			Source:  path,
			Title:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Content: content,
		}, nil
	default:
		return Document{}, fmt.Errorf("unsupported file type: %s", path)
	}
}

// LoadDocumentDir walks a directory and loads every supported document.
// Unsupported files are skipped; read errors on individual files are logged
// and skipped so one broken PDF does not abort an ingest run.
func LoadDocumentDir(dir string) ([]Document, error) {
	var docs []Document
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".md", ".pdf":
		default:
			return nil
		}
		doc, err := LoadDocument(path)
		if err != nil {
			GlobalLogger.Warn("skipping document", "path", path, "error", err)
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return docs, nil
}

// DocumentsToPages converts ingested documents into the crawler's page shape
// so the preprocessor can treat both sources the same way.
func DocumentsToPages(docs []Document) []Page {
	pages := make([]Page, 0, len(docs))
	for _, doc := range docs {
		pages = append(pages, Page{
			URL:       doc.Source,
			Title:     doc.Title,
			Content:   doc.Content,
			WordCount: len(strings.Fields(doc.Content)),
		})
	}
	return pages
}

func extractPDFText(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to get file info: %w", err)
	}

	reader, err := pdf.NewReader(file, fileInfo.Size())
	if err != nil {
		return "", fmt.Errorf("failed to create PDF reader: %w", err)
	}

	var textBuilder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	if textBuilder.Len() == 0 {
		return "", fmt.Errorf("no text extracted from %s", path)
	}
	return textBuilder.String(), nil
}
