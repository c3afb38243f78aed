// Package app builds the service graph shared by the HTTP server, the
// async worker and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/feichai0017/file-organizer/api/handlers"
	"github.com/feichai0017/file-organizer/config"
	"github.com/feichai0017/file-organizer/internal/agent"
	"github.com/feichai0017/file-organizer/internal/agent/extractor"
	"github.com/feichai0017/file-organizer/internal/service/ingestion"
	"github.com/feichai0017/file-organizer/internal/service/planning"
	"github.com/feichai0017/file-organizer/pkg/logger"
	"github.com/feichai0017/file-organizer/pkg/queue"
	"github.com/feichai0017/file-organizer/pkg/storage"
	"github.com/feichai0017/file-organizer/pkg/storage/minio"
	"github.com/feichai0017/file-organizer/pkg/storage/s3"
)

// App holds the wired services. Queue is nil when Redis is not configured.
type App struct {
	Config    *config.Config
	Extractor extractor.Extractor
	Ingestion *ingestion.Service
	Planning  *planning.Service
	Queue     *queue.AsynqQueue

	logger logger.Logger
}

type options struct {
	withQueue bool
}

type Option func(*options)

// WithQueue connects the asynq queue when Redis is configured.
func WithQueue() Option {
	return func(o *options) { o.withQueue = true }
}

// NewLogger builds the process logger from the log section of cfg.
func NewLogger(cfg config.LogConfig, name string) (logger.Logger, error) {
	log, err := logger.NewLogger(
		logger.WithLevel(cfg.Level),
		logger.WithEncoding(cfg.Encoding()),
		logger.WithOutputPaths(cfg.OutputPaths),
	)
	if err != nil {
		return nil, err
	}
	return log.Named(name), nil
}

// New wires extractor, probes, object sources and both orchestrators.
func New(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	ext, err := newExtractor(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize extractor: %w", err)
	}

	ingestOpts := []ingestion.Option{
		ingestion.WithProber(agent.NewProbeFactory(log)),
	}
	stores, err := newObjectStores(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	for typ, store := range stores {
		ingestOpts = append(ingestOpts, ingestion.WithObjectStore(typ, store))
	}

	ing := ingestion.NewService(ext, log, &ingestion.Config{
		MaxFileSizeMB:     cfg.Files.MaxFileSizeMB,
		AllowedExtensions: cfg.Files.AllowedExtensions,
		Concurrency:       cfg.Extraction.Concurrency,
	}, ingestOpts...)

	a := &App{
		Config:    cfg,
		Extractor: ext,
		Ingestion: ing,
		Planning:  planning.NewService(ing, log, cfg.Extraction.Concurrency),
		logger:    log,
	}

	if o.withQueue && cfg.Redis.Enabled() {
		q, err := queue.NewAsynqQueue(&queue.QueueConfig{
			RedisAddr: cfg.Redis.Addr,
			RedisDB:   cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize queue: %w", err)
		}
		if err := q.Ping(ctx); err != nil {
			log.Warn("Redis is not reachable, async jobs will fail until it is",
				logger.String("addr", cfg.Redis.Addr),
				logger.Error(err),
			)
		}
		a.Queue = q
	}

	log.Info("Services initialized",
		logger.String("backend", ext.Name()),
		logger.Int("concurrency", ing.Concurrency()),
		logger.Int("object_stores", len(stores)),
		logger.Bool("queue", a.Queue != nil),
	)
	return a, nil
}

func newExtractor(ctx context.Context, cfg *config.Config, log logger.Logger) (extractor.Extractor, error) {
	switch cfg.Extraction.Backend {
	case "textract":
		return extractor.NewTextractExtractor(ctx, extractor.TextractConfig{
			Region:        cfg.Textract.Region,
			Endpoint:      cfg.Textract.Endpoint,
			AccessKey:     cfg.Textract.AccessKey,
			SecretKey:     cfg.Textract.SecretKey,
			MinConfidence: cfg.Textract.MinConfidence,
			EnableTables:  cfg.Textract.EnableTables,
		}, log)
	case "ollama", "":
		return extractor.NewOllamaExtractor(extractor.OllamaConfig{
			BaseURL: cfg.Ollama.BaseURL,
			Model:   cfg.Ollama.Model,
			Timeout: cfg.Ollama.Timeout,
		}, log), nil
	default:
		return nil, fmt.Errorf("unknown extractor backend %q", cfg.Extraction.Backend)
	}
}

func newObjectStores(ctx context.Context, cfg *config.Config, log logger.Logger) (map[storage.StorageType]storage.Storage, error) {
	stores := make(map[storage.StorageType]storage.Storage)
	if cfg.S3.Enabled() {
		store, err := s3.NewS3Storage(ctx, s3.Config{
			BucketName: cfg.S3.BucketName,
			Region:     cfg.S3.Region,
			Endpoint:   cfg.S3.Endpoint,
			AccessKey:  cfg.S3.AccessKey,
			SecretKey:  cfg.S3.SecretKey,
		}, log)
		if err != nil {
			return nil, err
		}
		stores[storage.StorageTypeS3] = store
	}
	if cfg.Minio.Enabled() {
		store, err := minio.NewMinioStorage(ctx, minio.Config{
			AccessKey:  cfg.Minio.AccessKey,
			SecretKey:  cfg.Minio.SecretKey,
			Endpoint:   cfg.Minio.Endpoint,
			UseSSL:     cfg.Minio.UseSSL,
			Region:     cfg.Minio.Region,
			BucketName: cfg.Minio.BucketName,
		}, log)
		if err != nil {
			return nil, err
		}
		stores[storage.StorageTypeMinio] = store
	}
	return stores, nil
}

// Deps returns the handler dependencies for the HTTP server.
func (a *App) Deps() handlers.Deps {
	d := handlers.Deps{
		Planner:  a.Planning,
		Ingestor: a.Ingestion,
		Health: handlers.HealthInfo{
			Model:     a.Config.Ollama.Model,
			OllamaURL: a.Config.Ollama.BaseURL,
			Backend:   a.Extractor.Name(),
		},
		Logger: a.logger,
	}
	// a typed nil would defeat the handlers' nil check
	if a.Queue != nil {
		d.Queue = a.Queue
	}
	return d
}

// CheckBackend pings Ollama when it is the active backend. Failure is only
// reported; requests will surface per-file errors instead.
func (a *App) CheckBackend(ctx context.Context) {
	ollama, ok := a.Extractor.(*extractor.OllamaExtractor)
	if !ok {
		return
	}
	if err := ollama.Ping(ctx); err != nil {
		a.logger.Warn("Ollama is not reachable",
			logger.String("url", a.Config.Ollama.BaseURL),
			logger.Error(err),
		)
		return
	}
	a.logger.Info("Ollama is reachable", logger.String("model", ollama.Model()))
}

func (a *App) Close() error {
	var errs []error
	if c, ok := a.Extractor.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if a.Queue != nil {
		errs = append(errs, a.Queue.Close())
	}
	return errors.Join(errs...)
}
