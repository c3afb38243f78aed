package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/file-organizer/internal/models"
	"github.com/feichai0017/file-organizer/pkg/converters"
	"github.com/feichai0017/file-organizer/pkg/logger"
)

type IngestHandler struct {
	ingestor Ingestor
	logger   logger.Logger
}

func NewIngestHandler(ingestor Ingestor, log logger.Logger) *IngestHandler {
	return &IngestHandler{
		ingestor: ingestor,
		logger:   log.Named("ingest"),
	}
}

// Ingest answers POST /v1/ingest with the extraction result of every file
// found under the given paths.
func (h *IngestHandler) Ingest(c *gin.Context) {
	var req models.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Invalid ingest request", err)
		return
	}

	requestID := converters.NewRequestID(converters.IngestRequestPrefix)
	ctx := logger.WithRequestID(c.Request.Context(), requestID)
	log := logger.FromContext(ctx, h.logger)
	c.Header(requestIDHeader, requestID)

	log.Info("Starting ingest request",
		logger.Int("path_count", len(req.Files)),
		logger.Any("options", req.Options),
	)

	var results []*models.IngestionResult
	if err := guard(func() {
		results = h.ingestor.ProcessMany(ctx, req.Paths(), req.Options)
	}); err != nil {
		log.Error("Critical error during ingestion", logger.Error(err), logger.Stack())
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Detail: "Internal server error during ingestion: " + err.Error(),
		})
		return
	}

	resp := converters.BuildIngestResponse(requestID, results)
	log.Info("Ingestion complete",
		logger.Int("total", resp.TotalFiles),
		logger.Int("successful", resp.Successful),
		logger.Int("failed", resp.Failed),
	)
	c.JSON(http.StatusOK, resp)
}
