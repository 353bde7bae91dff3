// Package extract supplies raw contract text from files, HTML, and
// URLs. It is the intake boundary: whatever the source, the output is
// a plain text string for the segmenter, or an extraction error.
package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document is extracted contract text plus where it came from
type Document struct {
	Text    string // Plain text, non-empty after trimming
	Subject string // Human-readable name derived from the source
	Source  string // Path or URL
}

// FromFile reads a document from disk. Text and Markdown files are
// used as-is; HTML is reduced to visible text. Binary formats are an
// extraction error -- PDF/OCR conversion happens upstream of this tool.
func FromFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var text string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text, err = HTMLToText(string(data))
		if err != nil {
			return nil, fmt.Errorf("extract HTML text: %w", err)
		}
	case ".pdf":
		return nil, fmt.Errorf("PDF extraction is not supported: convert %s to text first", filepath.Base(path))
	default:
		if bytes.ContainsRune(data, 0) {
			return nil, fmt.Errorf("%s does not look like a text document", filepath.Base(path))
		}
		text = string(data)
	}

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no text extracted from %s", filepath.Base(path))
	}

	return &Document{
		Text:    text,
		Subject: subjectFromPath(path),
		Source:  path,
	}, nil
}

// FromString wraps already-extracted text (e.g. stdin or pasted input)
func FromString(text, source string) (*Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("document text is empty")
	}
	return &Document{
		Text:    text,
		Subject: source,
		Source:  source,
	}, nil
}

// subjectFromPath turns "contracts/lease-2024.txt" into "lease 2024"
func subjectFromPath(path string) string {
	name := filepath.Base(path)
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}
