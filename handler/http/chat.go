package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"localmind/src/core/rag"
)

type queryRequest struct {
	Question string `json:"question" binding:"required"`
	Stream   bool   `json:"stream"`
}

type queryResponse struct {
	ID      string               `json:"id"`
	Answer  string               `json:"answer"`
	Sources []rag.RetrievedChunk `json:"sources"`
}

// Query godoc
// @Summary Answer a question grounded on the ingested documents
// @Tags query
// @Accept json
// @Produce json
// @Param body body queryRequest true "Question parameters"
// @Success 200 {object} queryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /query [post]
func (h *Handler) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	if req.Stream {
		h.streamQuery(c, req.Question)
		return
	}

	answer, sources, err := h.ragService.Ask(c.Request.Context(), req.Question)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}
	if sources == nil {
		sources = []rag.RetrievedChunk{}
	}

	sendJSON(c, http.StatusOK, queryResponse{
		ID:      uuid.New().String(),
		Answer:  answer,
		Sources: sources,
	})
}

// streamQuery writes the answer fragments as plain text in arrival order.
// Cancellation of an in-flight response is the client's responsibility.
func (h *Handler) streamQuery(c *gin.Context, question string) {
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("X-Content-Type-Options", "nosniff")

	_, err := h.ragService.AskStream(c.Request.Context(), question, func(fragment string) error {
		if _, werr := c.Writer.WriteString(fragment); werr != nil {
			return werr
		}
		c.Writer.Flush()
		return nil
	})
	if err != nil {
		// Headers are already out; all we can do is cut the stream.
		c.Abort()
	}
}
