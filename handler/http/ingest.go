package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"localmind/src/core/ingest"
)

type ingestPathsRequest struct {
	Paths []string `json:"paths" binding:"required,min=1"`
}

// UploadDocuments godoc
// @Summary Ingest uploaded documents
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Documents to ingest"
// @Success 200 {object} ingest.Result
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /documents [post]
func (h *Handler) UploadDocuments(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		sendError(c, http.StatusBadRequest, fmt.Errorf("no files provided"))
		return
	}

	uploads := make([]ingest.Upload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			sendError(c, http.StatusBadRequest, fmt.Errorf("failed to open %s: %w", fh.Filename, err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			sendError(c, http.StatusBadRequest, fmt.Errorf("failed to read %s: %w", fh.Filename, err))
			return
		}
		uploads = append(uploads, ingest.Upload{Name: fh.Filename, Data: data})
	}

	result, err := h.ingestService.IngestUploads(c.Request.Context(), uploads)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, result)
}

// IngestPaths godoc
// @Summary Ingest documents from server-side paths
// @Tags documents
// @Accept json
// @Produce json
// @Param body body ingestPathsRequest true "Files or directories to ingest"
// @Success 200 {object} ingest.Result
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /documents/paths [post]
func (h *Handler) IngestPaths(c *gin.Context) {
	var req ingestPathsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	result, err := h.ingestService.IngestPaths(c.Request.Context(), req.Paths)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, result)
}

// CountChunks godoc
// @Summary Count stored chunks
// @Tags documents
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 500 {object} ErrorResponse
// @Router /documents/count [get]
func (h *Handler) CountChunks(c *gin.Context) {
	count, err := h.store.Count(c.Request.Context())
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, gin.H{"count": count})
}
