package kb

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document is a single knowledge-base file. The title is the file name
// without extension; it becomes the cited source of every chunk.
type Document struct {
	Title   string
	Content string
}

// LoadDir reads all .txt and .md files from a directory.
func LoadDir(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge dir: %w", err)
	}

	var docs []Document
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		docs = append(docs, Document{
			Title:   strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			Content: string(data),
		})
	}
	return docs, nil
}
