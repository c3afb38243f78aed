// Package worker runs queued organize jobs.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hibiken/asynq"

	"github.com/feichai0017/file-organizer/pkg/logger"
	"github.com/feichai0017/file-organizer/pkg/queue"
)

type Worker interface {
	Start(ctx context.Context) error
	Stop() error
}

type Config struct {
	RedisAddr   string
	RedisDB     int
	Concurrency int
	Queues      map[string]int
	// ShutdownTimeout bounds how long Stop waits for running jobs.
	ShutdownTimeout time.Duration
}

// DefaultQueues weights the three priority queues.
func DefaultQueues() map[string]int {
	return map[string]int{
		queue.QueueCritical: 6,
		queue.QueueDefault:  3,
		queue.QueueLow:      1,
	}
}

type BaseWorker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	logger   logger.Logger
	stopOnce sync.Once
}

func newBaseWorker(cfg *Config, log logger.Logger) *BaseWorker {
	queues := cfg.Queues
	if len(queues) == 0 {
		queues = DefaultQueues()
	}
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB},
		asynq.Config{
			Concurrency:     cfg.Concurrency,
			Queues:          queues,
			ShutdownTimeout: cfg.ShutdownTimeout,
			Logger:          &asynqLogger{log: log.Named("asynq")},
		},
	)
	return &BaseWorker{
		server: server,
		mux:    asynq.NewServeMux(),
		logger: log,
	}
}

func (w *BaseWorker) Start(ctx context.Context) error {
	if err := w.server.Start(w.mux); err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		w.Stop()
	}()
	return nil
}

func (w *BaseWorker) Stop() error {
	w.stopOnce.Do(func() {
		w.server.Shutdown()
	})
	return nil
}

// asynqLogger routes asynq's own logging through our logger.
type asynqLogger struct {
	log logger.Logger
}

func (l *asynqLogger) Debug(args ...interface{}) { l.log.Debug(sprint(args)) }
func (l *asynqLogger) Info(args ...interface{})  { l.log.Info(sprint(args)) }
func (l *asynqLogger) Warn(args ...interface{})  { l.log.Warn(sprint(args)) }
func (l *asynqLogger) Error(args ...interface{}) { l.log.Error(sprint(args)) }
func (l *asynqLogger) Fatal(args ...interface{}) { l.log.Fatal(sprint(args)) }

func sprint(args []interface{}) string {
	return fmt.Sprint(args...)
}
