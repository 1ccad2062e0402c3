package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/http/response"
	"github.com/yungbote/vaktutor/internal/services"
)

type ChatHandler struct {
	chat services.ChatService
}

func NewChatHandler(chat services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// POST /api/chat/
func (h *ChatHandler) Ask(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req types.AskRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.chat.Ask(c.Request.Context(), uid, req.Question)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, resp)
}

// GET /api/chat/history
func (h *ChatHandler) History(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	rows, err := h.chat.History(c.Request.Context(), uid)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if rows == nil {
		rows = []*types.ChatHistory{}
	}
	response.RespondOK(c, rows)
}

// DELETE /api/chat/history
func (h *ChatHandler) ClearHistory(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	n, err := h.chat.ClearHistory(c.Request.Context(), uid)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": n})
}

// POST /api/chat/feedback
// body: { "chat_id": "...", "rating": 1 | -1, "comment": "..." }
func (h *ChatHandler) Feedback(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req types.FeedbackRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.chat.Feedback(c.Request.Context(), uid, req); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/chat/suggestions?topic=
func (h *ChatHandler) Suggestions(c *gin.Context) {
	response.RespondOK(c, types.SuggestionsResponse{Prompts: h.chat.Suggestions(c.Query("topic"))})
}
