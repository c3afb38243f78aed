package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/file-organizer/internal/models"
	"github.com/feichai0017/file-organizer/pkg/converters"
	"github.com/feichai0017/file-organizer/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

type OrganizeHandler struct {
	planner Planner
	logger  logger.Logger
}

func NewOrganizeHandler(planner Planner, log logger.Logger) *OrganizeHandler {
	return &OrganizeHandler{
		planner: planner,
		logger:  log.Named("organize"),
	}
}

// Organize answers POST /v1/organize with one plan item per file. The
// worker only proposes actions; the caller performs them.
func (h *OrganizeHandler) Organize(c *gin.Context) {
	var req models.OrganizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Invalid organize request", err)
		return
	}

	requestID := converters.NewRequestID(converters.OrganizeRequestPrefix)
	ctx := logger.WithRequestID(c.Request.Context(), requestID)
	log := logger.FromContext(ctx, h.logger)
	c.Header(requestIDHeader, requestID)

	log.Info("Starting organize request",
		logger.Int("file_count", len(req.Files)),
		logger.Int("destinations_count", len(req.Destinations)),
		logger.Any("options", req.Options),
	)

	var results []*models.ItemResult
	if err := guard(func() {
		results = h.planner.PlanMany(ctx, req.Paths(), req.DestinationPaths(), req.Options)
	}); err != nil {
		log.Error("Critical error during organization", logger.Error(err), logger.Stack())
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Detail: "Internal server error during organization: " + err.Error(),
		})
		return
	}

	counts := converters.CountStatuses(results)
	log.Info("Organization complete",
		logger.Int("total", len(results)),
		logger.Int("successful", counts[models.StatusOK]),
		logger.Int("failed", counts[models.StatusError]),
	)

	c.JSON(http.StatusOK, converters.BuildEnvelope(requestID, results))
}
