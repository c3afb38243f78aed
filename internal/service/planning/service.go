// Package planning turns ingested files into proposed organization actions.
// Analysis is a fixed heuristic for now: every readable file is proposed for
// the first destination with a neutral confidence.
package planning

import (
	"context"

	"github.com/feichai0017/file-organizer/internal/models"
	"github.com/feichai0017/file-organizer/internal/service/batch"
	"github.com/feichai0017/file-organizer/pkg/converters"
	"github.com/feichai0017/file-organizer/pkg/logger"
)

const (
	defaultConfidence = 0.5
	defaultReason     = "Automatic organization (LLM not yet implemented)"

	previewRunes  = 200
	previewHeader = "Document preview:\n"
)

// Ingestor processes one file; the ingestion service satisfies it.
type Ingestor interface {
	ProcessOne(ctx context.Context, path string, opts models.IngestionOptions) *models.IngestionResult
}

type Service struct {
	ingestor    Ingestor
	logger      logger.Logger
	concurrency int
}

func NewService(ingestor Ingestor, log logger.Logger, concurrency int) *Service {
	return &Service{
		ingestor:    ingestor,
		logger:      log.Named("planning"),
		concurrency: concurrency,
	}
}

// PlanOne ingests path and proposes an action for it. Non-ok ingestion
// results are passed through unchanged and carry no action.
func (s *Service) PlanOne(ctx context.Context, path string, destinations []string, opts models.OrganizeOptions) *models.ItemResult {
	res := s.ingestor.ProcessOne(ctx, path, opts.IngestionOptions())
	item := converters.ItemFromIngestion(res)
	item.OriginPath = path
	if res.Status != models.StatusOK {
		return item
	}

	action := &models.PlanAction{
		Confidence: models.Float64Ptr(defaultConfidence),
		Reason:     models.StringPtr(defaultReason),
	}
	// TODO: choose the destination from the extracted content instead of the first one.
	if len(destinations) > 0 {
		action.Move = models.StringPtr(destinations[0])
	}
	if opts.MakeSummaries && res.ExtractedText != "" {
		action.Summary = models.StringPtr(previewHeader + Preview(res.ExtractedText))
	}

	item.Action = action
	return item
}

// PlanMany plans every path in order. Paths are not expanded; callers pass
// files, and a directory yields a "File not found" item.
func (s *Service) PlanMany(ctx context.Context, paths, destinations []string, opts models.OrganizeOptions) []*models.ItemResult {
	logger.FromContext(ctx, s.logger).Info("Organizing files",
		logger.Int("files", len(paths)),
		logger.Int("destinations", len(destinations)),
	)

	results := make([]*models.ItemResult, len(paths))
	batch.Run(ctx, len(paths), s.concurrency, func(ctx context.Context, i int) {
		results[i] = s.PlanOne(ctx, paths[i], destinations, opts)
	})
	return results
}

// Preview returns the first 200 characters of text, with "..." appended
// when text was cut.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes]) + "..."
}
