package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/file-organizer/internal/models"
	"github.com/feichai0017/file-organizer/pkg/logger"
	"github.com/feichai0017/file-organizer/pkg/queue"
)

// Planner produces organize plans; the planning service satisfies it.
type Planner interface {
	PlanMany(ctx context.Context, paths, destinations []string, opts models.OrganizeOptions) []*models.ItemResult
}

// Ingestor runs extraction over a batch; the ingestion service satisfies it.
type Ingestor interface {
	ProcessMany(ctx context.Context, paths []string, opts models.IngestionOptions) []*models.IngestionResult
}

type Handlers struct {
	Organize *OrganizeHandler
	Ingest   *IngestHandler
	Tasks    *TaskHandler
	Health   *HealthHandler
}

type Deps struct {
	Planner  Planner
	Ingestor Ingestor
	// Queue is nil when Redis is not configured; async routes then answer 503.
	Queue  queue.Queue
	Health HealthInfo
	Logger logger.Logger
}

func NewHandlers(d Deps) *Handlers {
	return &Handlers{
		Organize: NewOrganizeHandler(d.Planner, d.Logger),
		Ingest:   NewIngestHandler(d.Ingestor, d.Logger),
		Tasks:    NewTaskHandler(d.Queue, d.Logger),
		Health:   NewHealthHandler(d.Health),
	}
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Error  string `json:"error,omitempty"`
}

// handleError logs and writes a uniform error body.
func handleError(c *gin.Context, log logger.Logger, status int, message string, err error) {
	fields := []logger.Field{
		logger.String("path", c.Request.URL.Path),
		logger.Int("status", status),
	}
	if err != nil {
		fields = append(fields, logger.Error(err))
	}
	log = logger.FromContext(c.Request.Context(), log)
	if status >= http.StatusInternalServerError {
		log.Error(message, fields...)
	} else {
		log.Warn(message, fields...)
	}

	response := ErrorResponse{Detail: message}
	if err != nil {
		response.Error = err.Error()
	}
	c.AbortWithStatusJSON(status, response)
}

// guard runs fn and turns a panic into an error so a batch failure can be
// reported as a critical boundary error.
func guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	fn()
	return nil
}
