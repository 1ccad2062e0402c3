package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/vaktutor/internal/data/repos"
	"github.com/yungbote/vaktutor/internal/data/repos/testutil"
	types "github.com/yungbote/vaktutor/internal/domain"
	httpH "github.com/yungbote/vaktutor/internal/http/handlers"
	httpMW "github.com/yungbote/vaktutor/internal/http/middleware"
	"github.com/yungbote/vaktutor/internal/http/response"
	"github.com/yungbote/vaktutor/internal/services"
)

const testSecret = "test-secret"

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := testutil.Logger(t)
	r := repos.New(testutil.DB(t), log)

	auth, err := services.NewAuthService(log, testSecret)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	styles := services.NewStyleService(log, r.LearningStyle, services.NewQuestionGenerator(log, nil))
	downloads, err := services.NewDownloadService(log, t.TempDir(), styles, r.Download, nil)
	if err != nil {
		t.Fatalf("NewDownloadService: %v", err)
	}
	gen := services.NewTaskGenerator(log, nil)
	runner := services.NewLabRunner(log, services.Judge0Config{})

	engine := NewRouter(RouterConfig{
		Log:             log,
		AuthMiddleware:  httpMW.NewAuthMiddleware(log, auth),
		HealthHandler:   httpH.NewHealthHandler(nil),
		StyleHandler:    httpH.NewStyleHandler(styles),
		ChatHandler:     httpH.NewChatHandler(services.NewChatService(log, styles, r.ChatHistory, gen, downloads, nil)),
		PracticeHandler: httpH.NewPracticeHandler(services.NewPracticeService(log, styles, r.ChatHistory, r.PracticeActivity, gen, runner)),
		DownloadHandler: httpH.NewDownloadHandler(downloads),
	})
	return &testServer{t: t, engine: engine}
}

func token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, services.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func (s *testServer) do(method, path, tok string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func wantError(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status: want=%d got=%d body=%s", status, rec.Code, rec.Body.String())
	}
	env := decode[response.ErrorEnvelope](t, rec)
	if env.Error.Message != message {
		t.Fatalf("message: want=%q got=%q", message, env.Error.Message)
	}
}

func TestHealthAndTraceHeaders(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/healthcheck", "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("health: %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(httpMW.HeaderRequestID) == "" || rec.Header().Get(httpMW.HeaderTraceID) == "" {
		t.Fatalf("trace headers missing: %v", rec.Header())
	}
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)
	wantError(t, s.do(http.MethodGet, "/api/style/mine", "", nil), http.StatusUnauthorized, "missing or invalid token")

	rec := s.do(http.MethodGet, "/api/style/mine", "not-a-jwt", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: want=401 got=%d", rec.Code)
	}
}

func TestStyleEndpoints(t *testing.T) {
	s := newTestServer(t)
	tok := token(t, uuid.New())

	rec := s.do(http.MethodGet, "/api/style/mine", tok, nil)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"learning_style":null}` {
		t.Fatalf("no style: %d %s", rec.Code, rec.Body.String())
	}

	qs := decode[types.QuestionsResponse](t, s.do(http.MethodGet, "/api/style/questions", tok, nil))
	if len(qs.Questions) != 20 || qs.Source != "default" {
		t.Fatalf("questions: n=%d source=%s", len(qs.Questions), qs.Source)
	}

	wantError(t, s.do(http.MethodPost, "/api/style/submit-test", tok, types.SubmitTestRequest{Answers: []string{"visual"}}),
		http.StatusBadRequest, "answers must be between 10 and 30")

	answers := make([]string, 10)
	for i := range answers {
		answers[i] = "kinesthetic"
	}
	answers[0] = "visual"
	rec = s.do(http.MethodPost, "/api/style/submit-test", tok, types.SubmitTestRequest{Answers: answers})
	view := decode[types.StyleView](t, rec)
	if rec.Code != http.StatusOK || view.LearningStyle != "kinesthetic" || view.KinestheticScore != 9 || view.VisualScore != 1 {
		t.Fatalf("submit: %d %+v", rec.Code, view)
	}

	if rec = s.do(http.MethodDelete, "/api/style/mine", tok, nil); rec.Code != http.StatusOK {
		t.Fatalf("clear: %d", rec.Code)
	}
	rec = s.do(http.MethodGet, "/api/style/mine", tok, nil)
	if strings.TrimSpace(rec.Body.String()) != `{"learning_style":null}` {
		t.Fatalf("after clear: %s", rec.Body.String())
	}
}

func TestChatPracticeAndDownloads(t *testing.T) {
	s := newTestServer(t)
	tok := token(t, uuid.New())

	wantError(t, s.do(http.MethodPost, "/api/chat/", tok, types.AskRequest{Question: "What is finally?"}),
		http.StatusBadRequest, "learning style not found")
	wantError(t, s.do(http.MethodGet, "/api/practice/tasks", tok, nil), http.StatusBadRequest, "learning style not set")

	s.do(http.MethodPost, "/api/style/select", tok, types.SelectStyleRequest{LearningStyle: "visual"})
	wantError(t, s.do(http.MethodGet, "/api/practice/mine", tok, nil),
		http.StatusForbidden, "practice lab is available only for kinesthetic users")

	s.do(http.MethodPost, "/api/style/select", tok, types.SelectStyleRequest{LearningStyle: "kinesthetic"})
	rec := s.do(http.MethodPost, "/api/chat/", tok, types.AskRequest{Question: "How do I throw custom exceptions?"})
	resp := decode[types.ContentResponse](t, rec)
	if rec.Code != http.StatusOK || resp.Practice == nil || len(resp.Practice.Tasks) != 3 || resp.ChatID == uuid.Nil {
		t.Fatalf("ask: %d %s", rec.Code, rec.Body.String())
	}

	hist := decode[[]types.ChatHistory](t, s.do(http.MethodGet, "/api/chat/history", tok, nil))
	if len(hist) != 1 || hist[0].ID != resp.ChatID {
		t.Fatalf("history: %+v", hist)
	}

	if rec = s.do(http.MethodPost, "/api/chat/feedback", tok, types.FeedbackRequest{ChatID: resp.ChatID, Rating: 1}); rec.Code != http.StatusOK {
		t.Fatalf("feedback: %d %s", rec.Code, rec.Body.String())
	}

	tasksResp := decode[types.TasksResponse](t, s.do(http.MethodGet, "/api/practice/tasks", tok, nil))
	if tasksResp.Topic != "How do I throw custom exceptions?" || len(tasksResp.Tasks) != 3 {
		t.Fatalf("tasks: %+v", tasksResp)
	}

	run := decode[types.RunResult](t, s.do(http.MethodPost, "/api/practice/run", tok, types.RunRequest{SourceCode: tasksResp.Tasks[0].StarterCode}))
	if run.Runner == "" || run.Status == "" {
		t.Fatalf("run: %+v", run)
	}

	wantError(t, s.do(http.MethodPost, "/api/practice/submit", tok, types.SubmitPracticeRequest{}), http.StatusBadRequest, "task_name is required")
	if rec = s.do(http.MethodPost, "/api/practice/submit", tok, types.SubmitPracticeRequest{TaskName: tasksResp.Tasks[0].Name}); rec.Code != http.StatusOK {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}
	acts := decode[[]types.PracticeActivity](t, s.do(http.MethodGet, "/api/practice/mine", tok, nil))
	if len(acts) != 1 || acts[0].Status != "completed" {
		t.Fatalf("practice history: %+v", acts)
	}

	wantError(t, s.do(http.MethodPost, "/api/downloads/", tok, types.CreateDownloadRequest{ContentType: "pdf"}),
		http.StatusBadRequest, "pdf is not allowed for kinesthetic")
	rec = s.do(http.MethodPost, "/api/downloads/", tok, types.CreateDownloadRequest{ContentType: "task_sheet", Content: "sheet body"})
	dl := decode[types.DownloadView](t, rec)
	if rec.Code != http.StatusOK {
		t.Fatalf("create download: %d %s", rec.Code, rec.Body.String())
	}
	rec = s.do(http.MethodGet, dl.DownloadURL, tok, nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "sheet body" {
		t.Fatalf("file: %d %q", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "attachment") {
		t.Fatalf("file must be an attachment: %v", rec.Header())
	}
	wantError(t, s.do(http.MethodGet, dl.DownloadURL, token(t, uuid.New()), nil), http.StatusNotFound, "download not found")

	list := decode[[]types.DownloadView](t, s.do(http.MethodGet, "/api/downloads/mine", tok, nil))
	if len(list) != 1 || list[0].DownloadID != dl.DownloadID {
		t.Fatalf("downloads: %+v", list)
	}

	if rec = s.do(http.MethodDelete, "/api/chat/history", tok, nil); rec.Code != http.StatusOK {
		t.Fatalf("clear history: %d", rec.Code)
	}
	if hist = decode[[]types.ChatHistory](t, s.do(http.MethodGet, "/api/chat/history", tok, nil)); len(hist) != 0 {
		t.Fatalf("history after clear: %d", len(hist))
	}
}
