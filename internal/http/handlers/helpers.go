package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/vaktutor/internal/http/response"
	"github.com/yungbote/vaktutor/internal/platform/ctxutil"
)

// requireUser aborts with 401 when auth middleware did not run.
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	uid := ctxutil.UserID(c.Request.Context())
	if uid == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
		return uuid.Nil, false
	}
	return uid, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return false
	}
	return true
}
