package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vaktutor/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondErr writes err using its apierr status and code. Unclassified
// errors become a 500 without leaking their text.
func RespondErr(c *gin.Context, err error) {
	ae := apierr.From(err)
	_ = c.Error(err)
	if ae.Status >= http.StatusInternalServerError {
		RespondError(c, ae.Status, ae.Code, errInternal)
		return
	}
	RespondError(c, ae.Status, ae.Code, ae)
}

type internalError struct{}

func (internalError) Error() string { return "internal server error" }

var errInternal error = internalError{}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
