package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/feichai0017/file-organizer/pkg/logger"
)

type Processor struct {
	logger logger.Logger
}

func NewProcessor(logger logger.Logger) *Processor {
	return &Processor{
		logger: logger,
	}
}

func (p *Processor) CanProbe(mimeType string) bool {
	return mimeType == "application/pdf"
}

// Probe reports the page count plus title and author from the Info dictionary.
func (p *Processor) Probe(ctx context.Context, content []byte) (map[string]interface{}, error) {
	reader := bytes.NewReader(content)
	pdfReader, err := pdf.NewReader(reader, reader.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	metadata := map[string]interface{}{
		"pages": pdfReader.NumPage(),
	}

	trailer := pdfReader.Trailer()
	if trailer.IsNull() {
		return metadata, nil
	}
	info := trailer.Key("Info")
	if info.IsNull() {
		return metadata, nil
	}
	for key, field := range map[string]string{"Title": "title", "Author": "author"} {
		v := info.Key(key)
		if v.IsNull() {
			continue
		}
		if s := strings.TrimSpace(v.Text()); s != "" {
			metadata[field] = s
		}
	}
	return metadata, nil
}
