package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Parser extracts plain text from raw uploaded file bytes.
type Parser interface {
	// Parse extracts the text content of the file.
	// Returns ErrEmptyDocument when the file contains no usable text.
	Parse(fileName string, data []byte) (string, error)
}

// TextParser handles plain-text formats (.txt, .md and files with no
// recognized extension that decode as UTF-8).
type TextParser struct{}

var _ Parser = (*TextParser)(nil)

// NewTextParser creates a new TextParser.
func NewTextParser() *TextParser {
	return &TextParser{}
}

// Parse extracts the text content of the file.
func (p *TextParser) Parse(fileName string, data []byte) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".txt", ".md", ".text", "":
		// fall through to UTF-8 handling below
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrUnsupportedFormat, fileName)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}
