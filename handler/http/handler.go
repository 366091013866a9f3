package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"localmind/src/core/ingest"
	"localmind/src/core/rag"
	"localmind/src/infrastructure/integrations/ollama"
	"localmind/src/storage/chroma"
)

type Handler struct {
	ingestService *ingest.Service
	ragService    *rag.Service
	store         *chroma.SDK
	ollamaClient  *ollama.Client
}

func NewHandler(ingestService *ingest.Service, ragService *rag.Service, store *chroma.SDK, ollamaClient *ollama.Client) *Handler {
	return &Handler{
		ingestService: ingestService,
		ragService:    ragService,
		store:         store,
		ollamaClient:  ollamaClient,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	// Document routes
	v1.POST("/documents", h.UploadDocuments)
	v1.POST("/documents/paths", h.IngestPaths)
	v1.GET("/documents/count", h.CountChunks)

	// Query routes
	v1.POST("/query", h.Query)

	// System routes
	r.GET("/health", h.CheckHealth)
}

// Common error response structure
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func sendError(c *gin.Context, status int, err error) {
	code := "INTERNAL_ERROR"
	if status == http.StatusBadRequest {
		code = "INVALID_REQUEST"
	}

	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

func sendJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// ComponentStatus represents the status of system components
type ComponentStatus string

const (
	StatusUp   ComponentStatus = "up"
	StatusDown ComponentStatus = "down"
)

// HealthStatus represents system health status
type HealthStatus struct {
	Status     string `json:"status"`
	Components struct {
		Chroma ComponentStatus `json:"chroma"`
		Ollama ComponentStatus `json:"ollama"`
	} `json:"components"`
}

// CheckHealth godoc
// @Summary Check system health
// @Tags system
// @Produce json
// @Success 200 {object} HealthStatus
// @Router /health [get]
func (h *Handler) CheckHealth(c *gin.Context) {
	status := &HealthStatus{Status: "healthy"}
	status.Components.Chroma = StatusDown
	status.Components.Ollama = StatusDown

	ctx := c.Request.Context()
	if _, err := h.store.Count(ctx); err == nil {
		status.Components.Chroma = StatusUp
	}
	if _, err := h.ollamaClient.Models(ctx); err == nil {
		status.Components.Ollama = StatusUp
	}

	if status.Components.Chroma == StatusDown || status.Components.Ollama == StatusDown {
		status.Status = "unhealthy"
	}

	sendJSON(c, http.StatusOK, status)
}
