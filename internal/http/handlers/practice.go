package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/http/response"
	"github.com/yungbote/vaktutor/internal/learning/tasks"
	"github.com/yungbote/vaktutor/internal/services"
)

type PracticeHandler struct {
	practice services.PracticeService
}

func NewPracticeHandler(practice services.PracticeService) *PracticeHandler {
	return &PracticeHandler{practice: practice}
}

// GET /api/practice/tasks?topic=
func (h *PracticeHandler) Tasks(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.practice.Tasks(c.Request.Context(), uid, c.Query("topic"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/practice/default-tasks
func (h *PracticeHandler) DefaultTasks(c *gin.Context) {
	response.RespondOK(c, types.TasksResponse{Tasks: h.practice.DefaultTasks(), Source: tasks.SourceDefault})
}

// POST /api/practice/run
func (h *PracticeHandler) Run(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req types.RunRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.practice.Run(c.Request.Context(), uid, req.SourceCode)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/practice/submit
func (h *PracticeHandler) Submit(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req types.SubmitPracticeRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.practice.Submit(c.Request.Context(), uid, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/practice/mine
func (h *PracticeHandler) Mine(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	rows, err := h.practice.History(c.Request.Context(), uid)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if rows == nil {
		rows = []*types.PracticeActivity{}
	}
	response.RespondOK(c, rows)
}
