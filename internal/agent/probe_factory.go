package agent

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/feichai0017/file-organizer/internal/agent/document"
	"github.com/feichai0017/file-organizer/internal/agent/document/image"
	"github.com/feichai0017/file-organizer/internal/agent/document/pdf"
	"github.com/feichai0017/file-organizer/internal/agent/document/sheet"
	"github.com/feichai0017/file-organizer/internal/utils/validator"
	"github.com/feichai0017/file-organizer/pkg/logger"
)

// ProbeFactory picks the metadata probe for a file extension.
type ProbeFactory struct {
	probes []document.Prober
	logger logger.Logger
}

func NewProbeFactory(log logger.Logger, probes ...document.Prober) *ProbeFactory {
	if len(probes) == 0 {
		probes = []document.Prober{
			pdf.NewProcessor(log),
			image.NewProcessor(log),
			sheet.NewProcessor(log),
		}
	}
	return &ProbeFactory{
		probes: probes,
		logger: log.Named("probe"),
	}
}

// GetProber returns the probe for ext, or nil when no probe handles it.
func (f *ProbeFactory) GetProber(ext string) document.Prober {
	mimeType := validator.MimeTypeForExt(ext)
	for _, p := range f.probes {
		if p.CanProbe(mimeType) {
			return p
		}
	}
	return nil
}

// Probe runs the matching probe over content. Failures are logged and yield
// nil; a file is never failed because its metadata could not be read.
func (f *ProbeFactory) Probe(ctx context.Context, ext string, content []byte) (metadata map[string]interface{}) {
	p := f.GetProber(ext)
	if p == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			f.logger.Warn("Metadata probe panicked",
				logger.String("extension", ext),
				logger.String("panic", fmt.Sprint(r)),
				logger.String("stack", string(debug.Stack())),
			)
			metadata = nil
		}
	}()

	md, err := p.Probe(ctx, content)
	if err != nil {
		f.logger.Warn("Metadata probe failed",
			logger.String("extension", ext),
			logger.Error(err),
		)
		return nil
	}
	return md
}
