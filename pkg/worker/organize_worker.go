package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/feichai0017/file-organizer/internal/metrics"
	"github.com/feichai0017/file-organizer/internal/models"
	"github.com/feichai0017/file-organizer/pkg/converters"
	"github.com/feichai0017/file-organizer/pkg/logger"
	"github.com/feichai0017/file-organizer/pkg/queue"
)

// Planner produces plans for a batch of files.
type Planner interface {
	PlanMany(ctx context.Context, paths, destinations []string, opts models.OrganizeOptions) []*models.ItemResult
}

// OrganizeHandler processes organize:plan tasks.
type OrganizeHandler struct {
	planner Planner
	queue   queue.Queue
	logger  logger.Logger
}

func NewOrganizeHandler(planner Planner, q queue.Queue, log logger.Logger) *OrganizeHandler {
	return &OrganizeHandler{
		planner: planner,
		queue:   q,
		logger:  log,
	}
}

// ProcessTask implements asynq.Handler. Failures are final: SkipRetry keeps
// asynq from re-running a job.
func (h *OrganizeHandler) ProcessTask(ctx context.Context, t *asynq.Task) (err error) {
	var task queue.Task
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		h.logger.Error("Failed to unmarshal task",
			logger.Error(err),
			logger.String("payload", string(t.Payload())),
		)
		return fmt.Errorf("failed to unmarshal task: %v: %w", err, asynq.SkipRetry)
	}

	var job models.OrganizeJob
	if err := json.Unmarshal(task.Payload, &job); err != nil || task.ID == "" {
		if err == nil {
			err = fmt.Errorf("missing task id")
		}
		h.fail(ctx, &task, err)
		return fmt.Errorf("invalid task data: %v: %w", err, asynq.SkipRetry)
	}

	defer func() {
		if r := recover(); r != nil {
			perr := fmt.Errorf("panic while planning: %v", r)
			h.logger.Error("Panic in organize task",
				logger.String("taskId", task.ID),
				logger.Error(perr),
				logger.Stack(),
			)
			h.fail(ctx, &task, perr)
			err = fmt.Errorf("%v: %w", perr, asynq.SkipRetry)
		}
	}()

	ctx = logger.WithRequestID(ctx, job.RequestID)
	log := logger.FromContext(ctx, h.logger).With(logger.String("taskId", task.ID))
	log.Info("Processing organize task",
		logger.Int("files", len(job.Files)),
		logger.Int("destinations", len(job.Destinations)),
	)

	started := time.Now()
	h.saveStatus(ctx, &queue.TaskStatus{
		TaskID:    task.ID,
		Status:    queue.StatusRunning,
		StartedAt: started,
	})

	results := h.planner.PlanMany(ctx, job.Files, job.Destinations, job.Options)
	data, err := json.Marshal(converters.BuildEnvelope(job.RequestID, results))
	if err != nil {
		h.fail(ctx, &task, err)
		return fmt.Errorf("failed to marshal result: %v: %w", err, asynq.SkipRetry)
	}
	if err := h.queue.SaveResult(ctx, task.ID, data); err != nil {
		h.fail(ctx, &task, err)
		return fmt.Errorf("failed to store result: %v: %w", err, asynq.SkipRetry)
	}

	h.saveStatus(ctx, &queue.TaskStatus{
		TaskID:     task.ID,
		Status:     queue.StatusCompleted,
		Progress:   1.0,
		StartedAt:  started,
		FinishedAt: time.Now(),
	})
	metrics.RecordTask(queue.TaskTypeOrganizePlan, queue.StatusCompleted)

	counts := converters.CountStatuses(results)
	log.Info("Organize task completed",
		logger.Int("total", len(results)),
		logger.Int("successful", counts[models.StatusOK]),
		logger.Int("failed", counts[models.StatusError]),
		logger.Duration("elapsed", time.Since(started)),
	)
	return nil
}

func (h *OrganizeHandler) fail(ctx context.Context, task *queue.Task, err error) {
	h.logger.Error("Organize task failed",
		logger.String("taskId", task.ID),
		logger.Error(err),
	)
	metrics.RecordTask(queue.TaskTypeOrganizePlan, queue.StatusFailed)
	if task.ID == "" {
		return
	}
	h.saveStatus(ctx, &queue.TaskStatus{
		TaskID:     task.ID,
		Status:     queue.StatusFailed,
		Error:      err.Error(),
		StartedAt:  task.CreatedAt,
		FinishedAt: time.Now(),
	})
}

func (h *OrganizeHandler) saveStatus(ctx context.Context, status *queue.TaskStatus) {
	if err := h.queue.SaveFinalStatus(ctx, status); err != nil {
		h.logger.Error("Failed to save task status",
			logger.String("taskId", status.TaskID),
			logger.String("status", status.Status),
			logger.Error(err),
		)
	}
}

// OrganizeWorker serves organize:plan tasks from Redis.
type OrganizeWorker struct {
	*BaseWorker
	handler *OrganizeHandler
}

func NewOrganizeWorker(cfg *Config, planner Planner, q queue.Queue, log logger.Logger) (*OrganizeWorker, error) {
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	w := &OrganizeWorker{
		BaseWorker: newBaseWorker(cfg, log),
		handler:    NewOrganizeHandler(planner, q, log),
	}
	w.mux.Handle(queue.TaskTypeOrganizePlan, w.handler)
	return w, nil
}
