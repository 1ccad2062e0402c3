package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/http/response"
	"github.com/yungbote/vaktutor/internal/services"
)

type DownloadHandler struct {
	downloads services.DownloadService
}

func NewDownloadHandler(downloads services.DownloadService) *DownloadHandler {
	return &DownloadHandler{downloads: downloads}
}

// POST /api/downloads/
// body: { "content_type": "pdf", "topic": "...", "content": "...", "base_content": "..." }
func (h *DownloadHandler) Create(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req types.CreateDownloadRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.downloads.Create(c.Request.Context(), uid, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, view)
}

// GET /api/downloads/file/:id
func (h *DownloadHandler) File(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "not_found", err)
		return
	}
	f, err := h.downloads.Open(c.Request.Context(), uid, id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.FileAttachment(f.Path, f.Name)
}

// GET /api/downloads/mine
func (h *DownloadHandler) Mine(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	rows, err := h.downloads.List(c.Request.Context(), uid)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, rows)
}
