// Package extractor turns a file into a model-readable request and returns
// the plain text the model produced.
package extractor

import (
	"context"
	"fmt"
	"os"

	"github.com/feichai0017/file-organizer/internal/utils/validator"
)

// Document is one file handed to an Extractor.
type Document struct {
	Path      string
	Extension string // normalized, e.g. ".pdf"
	MimeType  string
	Content   []byte
}

// Extraction is the text pulled out of a Document plus call metadata.
type Extraction struct {
	Text     string
	Metadata map[string]interface{}
}

// Extractor is implemented by every extraction backend. Implementations never
// retry; callers decide what a failure means.
type Extractor interface {
	Extract(ctx context.Context, doc Document) (*Extraction, error)
	Name() string
}

// ExtractFile reads path and runs it through e. mimeType may be empty.
func ExtractFile(ctx context.Context, e Extractor, path, mimeType string) (*Extraction, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if mimeType == "" {
		mimeType = validator.GuessMimeType(path)
	}
	return e.Extract(ctx, Document{
		Path:      path,
		Extension: validator.Extension(path),
		MimeType:  mimeType,
		Content:   content,
	})
}
