package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/feichai0017/file-organizer/api/handlers"
	"github.com/feichai0017/file-organizer/api/middleware"
	"github.com/feichai0017/file-organizer/internal/metrics"
	"github.com/feichai0017/file-organizer/pkg/logger"
)

// SetupRoutes registers every route on r.
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, log logger.Logger) {
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestLogger(log.Named("http")))
	r.Use(middleware.CORS())

	r.GET("/health", h.Health.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/v1")
	{
		v1.POST("/organize", h.Organize.Organize)
		v1.POST("/ingest", h.Ingest.Ingest)
		v1.POST("/organize/async", h.Tasks.SubmitOrganize)
	}

	tasks := v1.Group("/tasks")
	{
		tasks.GET("/:taskId", h.Tasks.GetStatus)
		tasks.GET("/:taskId/result", h.Tasks.GetResult)
		tasks.DELETE("/:taskId", h.Tasks.CancelTask)
	}
}
