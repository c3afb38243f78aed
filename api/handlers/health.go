package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthInfo struct {
	Model     string
	OllamaURL string
	Backend   string
}

type HealthHandler struct {
	info HealthInfo
}

func NewHealthHandler(info HealthInfo) *HealthHandler {
	return &HealthHandler{info: info}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"model":      h.info.Model,
		"ollama_url": h.info.OllamaURL,
		"backend":    h.info.Backend,
	})
}
