package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/http/response"
	"github.com/yungbote/vaktutor/internal/services"
)

type StyleHandler struct {
	styles services.StyleService
}

func NewStyleHandler(styles services.StyleService) *StyleHandler {
	return &StyleHandler{styles: styles}
}

// GET /api/style/questions
func (h *StyleHandler) Questions(c *gin.Context) {
	response.RespondOK(c, types.QuestionsResponse{
		Questions: h.styles.Questions(),
		Source:    services.QuestionSourceDefault,
	})
}

// POST /api/style/generate-questions
// body: { "question_count": 10, "interests": "football, music" }
func (h *StyleHandler) GenerateQuestions(c *gin.Context) {
	var req types.GenerateQuestionsRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	response.RespondOK(c, h.styles.GenerateQuestions(c.Request.Context(), req.Interests, req.QuestionCount))
}

// POST /api/style/submit-test
func (h *StyleHandler) SubmitTest(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req types.SubmitTestRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.styles.SubmitTest(c.Request.Context(), uid, req.Answers)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, view)
}

// POST /api/style/select
func (h *StyleHandler) Select(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req types.SelectStyleRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.styles.Select(c.Request.Context(), uid, req.LearningStyle)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, view)
}

// GET /api/style/mine
func (h *StyleHandler) Mine(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	view, err := h.styles.Get(c.Request.Context(), uid)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if view.LearningStyle == "" {
		response.RespondOK(c, gin.H{"learning_style": nil})
		return
	}
	response.RespondOK(c, view)
}

// DELETE /api/style/mine
func (h *StyleHandler) Clear(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	cleared, err := h.styles.Clear(c.Request.Context(), uid)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"cleared": cleared})
}
