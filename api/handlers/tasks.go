package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/file-organizer/internal/models"
	"github.com/feichai0017/file-organizer/pkg/converters"
	"github.com/feichai0017/file-organizer/pkg/logger"
	"github.com/feichai0017/file-organizer/pkg/queue"
)

const asyncPriority = 2

type TaskHandler struct {
	queue  queue.Queue
	logger logger.Logger
}

func NewTaskHandler(q queue.Queue, log logger.Logger) *TaskHandler {
	return &TaskHandler{
		queue:  q,
		logger: log.Named("tasks"),
	}
}

func (h *TaskHandler) available(c *gin.Context) bool {
	if h.queue == nil {
		handleError(c, h.logger, http.StatusServiceUnavailable, "Async jobs are disabled (no Redis configured)", nil)
		return false
	}
	return true
}

// SubmitOrganize queues an organize request and answers 202 with its task id.
func (h *TaskHandler) SubmitOrganize(c *gin.Context) {
	if !h.available(c) {
		return
	}

	var req models.OrganizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Invalid organize request", err)
		return
	}

	requestID := converters.NewRequestID(converters.OrganizeRequestPrefix)
	payload, err := json.Marshal(models.OrganizeJob{
		RequestID:    requestID,
		Files:        req.Paths(),
		Destinations: req.DestinationPaths(),
		Options:      req.Options,
	})
	if err != nil {
		handleError(c, h.logger, http.StatusInternalServerError, "Failed to encode job", err)
		return
	}

	task := &queue.Task{
		ID:       requestID,
		Type:     queue.TaskTypeOrganizePlan,
		Priority: asyncPriority,
		Payload:  payload,
		Metadata: map[string]string{
			"files":        strconv.Itoa(len(req.Files)),
			"destinations": strconv.Itoa(len(req.Destinations)),
		},
		CreatedAt: time.Now(),
	}
	if err := h.queue.Enqueue(c.Request.Context(), task); err != nil {
		handleError(c, h.logger, http.StatusInternalServerError, "Failed to enqueue task", err)
		return
	}

	h.logger.Info("Organize task queued",
		logger.String("taskId", task.ID),
		logger.Int("files", len(req.Files)),
	)
	c.Header(requestIDHeader, requestID)
	c.JSON(http.StatusAccepted, models.TaskAccepted{
		TaskID: task.ID,
		Status: queue.StatusPending,
	})
}

func (h *TaskHandler) GetStatus(c *gin.Context) {
	if !h.available(c) {
		return
	}
	taskID := c.Param("taskId")

	status, err := h.queue.GetTaskStatus(c.Request.Context(), taskID)
	if err != nil {
		h.taskError(c, "Failed to get status", err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// GetResult returns the stored organize envelope of a completed task.
func (h *TaskHandler) GetResult(c *gin.Context) {
	if !h.available(c) {
		return
	}
	taskID := c.Param("taskId")
	ctx := c.Request.Context()

	data, err := h.queue.GetResult(ctx, taskID)
	if err == nil {
		c.Data(http.StatusOK, "application/json; charset=utf-8", data)
		return
	}
	if !errors.Is(err, queue.ErrResultNotFound) {
		h.taskError(c, "Failed to get result", err)
		return
	}

	status, err := h.queue.GetTaskStatus(ctx, taskID)
	if err != nil {
		h.taskError(c, "Failed to get result", err)
		return
	}
	if status.Status == queue.StatusCompleted {
		// status outlived the result
		handleError(c, h.logger, http.StatusNotFound, "Result expired", nil)
		return
	}
	handleError(c, h.logger, http.StatusConflict, "Task is not completed",
		fmt.Errorf("task status is %s", status.Status))
}

func (h *TaskHandler) CancelTask(c *gin.Context) {
	if !h.available(c) {
		return
	}
	taskID := c.Param("taskId")

	if err := h.queue.CancelTask(c.Request.Context(), taskID); err != nil {
		h.taskError(c, "Failed to cancel task", err)
		return
	}

	h.logger.Info("Task cancelled", logger.String("taskId", taskID))
	c.JSON(http.StatusOK, gin.H{
		"message": "Task cancelled successfully",
		"taskId":  taskID,
	})
}

func (h *TaskHandler) taskError(c *gin.Context, message string, err error) {
	if errors.Is(err, queue.ErrTaskNotFound) {
		handleError(c, h.logger, http.StatusNotFound, "Task not found", err)
		return
	}
	handleError(c, h.logger, http.StatusInternalServerError, message, err)
}
