package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vaktutor/internal/platform/apierr"
)

func TestRespondErr(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"client", fmt.Errorf("wrap: %w", apierr.BadRequest("invalid_request", errors.New("question is required"))), http.StatusBadRequest, "invalid_request", "question is required"},
		{"forbidden", apierr.Forbidden("practice_forbidden", errors.New("nope")), http.StatusForbidden, "practice_forbidden", "nope"},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal_error", "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			RespondErr(c, tc.err)

			if rec.Code != tc.status {
				t.Fatalf("status: want=%d got=%d", tc.status, rec.Code)
			}
			var env ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != tc.code || env.Error.Message != tc.message {
				t.Fatalf("envelope: want=%s/%q got=%s/%q", tc.code, tc.message, env.Error.Code, env.Error.Message)
			}
		})
	}
}
