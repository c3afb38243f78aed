// Package ingestion validates input files, hashes them and runs text
// extraction, producing one IngestionResult per file.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/feichai0017/file-organizer/internal/agent/extractor"
	"github.com/feichai0017/file-organizer/internal/metrics"
	"github.com/feichai0017/file-organizer/internal/models"
	"github.com/feichai0017/file-organizer/internal/service/batch"
	"github.com/feichai0017/file-organizer/internal/utils/validator"
	"github.com/feichai0017/file-organizer/pkg/logger"
	"github.com/feichai0017/file-organizer/pkg/storage"
)

// Prober adds format-specific metadata. It must not fail the file.
type Prober interface {
	Probe(ctx context.Context, ext string, content []byte) map[string]interface{}
}

type Config struct {
	MaxFileSizeMB     int
	AllowedExtensions []string
	// Concurrency > 1 processes batch files on a bounded pool.
	Concurrency int
}

type Service struct {
	extractor extractor.Extractor
	prober    Prober
	logger    logger.Logger
	config    *Config
	local     source
	objects   map[storage.StorageType]source
}

type Option func(*Service)

// WithObjectStore makes URIs of the given scheme readable through store.
func WithObjectStore(typ storage.StorageType, store storage.Storage) Option {
	return func(s *Service) {
		s.objects[typ] = objectSource{store: store}
	}
}

// WithProber enables metadata probes on successfully extracted files.
func WithProber(p Prober) Option {
	return func(s *Service) {
		s.prober = p
	}
}

func NewService(ext extractor.Extractor, log logger.Logger, cfg *Config, opts ...Option) *Service {
	if cfg == nil {
		cfg = &Config{
			MaxFileSizeMB: 50,
			AllowedExtensions: []string{
				".pdf", ".docx", ".pptx", ".xlsx", ".txt", ".md",
				".jpg", ".jpeg", ".png", ".bmp", ".tiff",
			},
			Concurrency: 1,
		}
	}

	s := &Service{
		extractor: ext,
		logger:    log.Named("ingestion"),
		config:    cfg,
		local:     localSource{},
		objects:   make(map[storage.StorageType]source),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) sourceFor(path string) (source, error) {
	if !storage.IsURI(path) {
		return s.local, nil
	}
	loc, err := storage.ParseURI(path)
	if err != nil {
		return nil, err
	}
	src, ok := s.objects[loc.Type]
	if !ok {
		return nil, fmt.Errorf("no %s object store is configured", loc.Type)
	}
	return src, nil
}

// ProcessOne runs the ingestion pipeline for a single file. It never returns
// an error: every failure, including a panic, becomes a result with a status.
func (s *Service) ProcessOne(ctx context.Context, path string, opts models.IngestionOptions) (result *models.IngestionResult) {
	log := logger.FromContext(ctx, s.logger).With(logger.String("path", path))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("Unexpected panic while processing file",
				logger.String("panic", fmt.Sprint(r)),
				logger.Stack(),
			)
			result = failed(path, models.StatusError, fmt.Sprint(r))
		}
		metrics.RecordFile(string(result.Status))
		log.Debug("File processed",
			logger.String("status", string(result.Status)),
			logger.Duration("elapsed", time.Since(start)),
		)
	}()

	res, err := s.process(ctx, path, opts)
	if err == nil {
		return res
	}

	var se *stageError
	switch {
	case errors.Is(err, ErrUnsupported):
		log.Warn("Unsupported file type", logger.Error(err))
		return failed(path, models.StatusUnsupported, err.Error())
	case errors.Is(err, ErrDisabled):
		log.Info("Extraction disabled, skipping file")
		return failed(path, models.StatusSkipped, err.Error())
	case errors.As(err, &se):
		log.Warn("File rejected", logger.Error(err))
		return failed(path, models.StatusError, err.Error())
	default:
		log.Error("Error processing file", logger.Error(err), logger.Stack())
		return failed(path, models.StatusError, err.Error())
	}
}

func (s *Service) process(ctx context.Context, path string, opts models.IngestionOptions) (*models.IngestionResult, error) {
	src, err := s.sourceFor(path)
	if err != nil {
		return nil, err
	}

	info, err := src.stat(ctx, path)
	if errors.Is(err, ErrNotFound) || (err == nil && info.isDir) {
		return nil, stageErrorf(ErrNotFound, "File not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	maxSize := s.config.MaxFileSizeMB
	if opts.MaxFileSizeMB != nil && *opts.MaxFileSizeMB > 0 {
		maxSize = *opts.MaxFileSizeMB
	}
	if sizeMB := validator.BytesToMB(info.size); sizeMB > float64(maxSize) {
		return nil, stageErrorf(ErrTooLarge, "File size (%.2fMB) exceeds maximum (%dMB)", sizeMB, maxSize)
	}

	ext := validator.Extension(path)
	if !validator.IsAllowedExtension(path, s.config.AllowedExtensions) {
		return nil, stageErrorf(ErrUnsupported, "File type %s is not supported", ext)
	}

	if !opts.AllowVLMOCR {
		return nil, stageErrorf(ErrDisabled, "LLM OCR is disabled in options")
	}

	content, err := src.readFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	hash := validator.HashBytes(content)
	mimeType := validator.GuessMimeType(path)

	s.logger.Info("Using LLM-based extraction",
		logger.String("path", path),
		logger.String("backend", s.extractor.Name()),
	)
	extraction, err := s.extractor.Extract(ctx, extractor.Document{
		Path:      path,
		Extension: ext,
		MimeType:  mimeType,
		Content:   content,
	})
	if err != nil {
		return nil, err
	}

	metadata := models.Metadata{
		"mime_type":  mimeType,
		"size_bytes": int64(len(content)),
		"sha256":     hash,
		"extension":  ext,
	}
	metadata.Merge(extraction.Metadata)
	if s.prober != nil {
		metadata.Merge(s.prober.Probe(ctx, ext, content))
	}

	return &models.IngestionResult{
		FileHash:      hash,
		OriginPath:    path,
		Status:        models.StatusOK,
		Metadata:      metadata,
		ExtractedText: extraction.Text,
	}, nil
}

func failed(path string, status models.Status, msg string) *models.IngestionResult {
	return &models.IngestionResult{
		OriginPath: path,
		Status:     status,
		Error:      models.StringPtr(msg),
	}
}

// ExpandPaths turns the request's paths into the list of files to process.
// Files are kept as given, whatever their extension, so that unsupported
// files still get a result. Directories are walked when opts.TraverseFolders
// is set, keeping only allow-listed files. Anything else is logged and
// dropped without a result.
func (s *Service) ExpandPaths(ctx context.Context, paths []string, opts models.IngestionOptions) []string {
	log := logger.FromContext(ctx, s.logger)

	var files []string
	for _, path := range paths {
		src, err := s.sourceFor(path)
		if err != nil {
			log.Warn("Skipping path", logger.String("path", path), logger.Error(err))
			continue
		}

		info, err := src.stat(ctx, path)
		switch {
		case err != nil:
			log.Warn("Skipping path (not a file or directory)",
				logger.String("path", path),
				logger.Error(err),
			)
		case !info.isDir:
			files = append(files, path)
		case !opts.TraverseFolders:
			log.Warn("Skipping directory, traversal disabled", logger.String("path", path))
		default:
			log.Info("Traversing directory", logger.String("path", path))
			found, err := src.walk(ctx, path)
			if err != nil {
				log.Warn("Failed to traverse directory",
					logger.String("path", path),
					logger.Error(err),
				)
				continue
			}
			for _, f := range found {
				if validator.IsAllowedExtension(f, s.config.AllowedExtensions) {
					files = append(files, f)
				}
			}
		}
	}
	return files
}

// ProcessMany expands paths and processes every resulting file. Results are
// in expansion order regardless of the configured concurrency.
func (s *Service) ProcessMany(ctx context.Context, paths []string, opts models.IngestionOptions) []*models.IngestionResult {
	files := s.ExpandPaths(ctx, paths, opts)
	logger.FromContext(ctx, s.logger).Info("Processing files",
		logger.Int("count", len(files)),
		logger.Int("concurrency", s.config.Concurrency),
	)

	results := make([]*models.IngestionResult, len(files))
	batch.Run(ctx, len(files), s.config.Concurrency, func(ctx context.Context, i int) {
		results[i] = s.ProcessOne(ctx, files[i], opts)
	})
	return results
}

// Concurrency is the pool size batch callers should use.
func (s *Service) Concurrency() int {
	return s.config.Concurrency
}
