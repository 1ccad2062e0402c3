package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/vaktutor/internal/http/handlers"
	httpMW "github.com/yungbote/vaktutor/internal/http/middleware"
	"github.com/yungbote/vaktutor/internal/observability"
	"github.com/yungbote/vaktutor/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    string
	Metrics        *observability.Metrics
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler   *httpH.HealthHandler
	StyleHandler    *httpH.StyleHandler
	ChatHandler     *httpH.ChatHandler
	PracticeHandler *httpH.PracticeHandler
	DownloadHandler *httpH.DownloadHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}

	if h := cfg.StyleHandler; h != nil {
		api.GET("/style/questions", h.Questions)
		api.POST("/style/generate-questions", h.GenerateQuestions)
		api.POST("/style/submit-test", h.SubmitTest)
		api.POST("/style/select", h.Select)
		api.GET("/style/mine", h.Mine)
		api.DELETE("/style/mine", h.Clear)
	}

	if h := cfg.ChatHandler; h != nil {
		api.POST("/chat/", h.Ask)
		api.GET("/chat/history", h.History)
		api.DELETE("/chat/history", h.ClearHistory)
		api.POST("/chat/feedback", h.Feedback)
		api.GET("/chat/suggestions", h.Suggestions)
	}

	if h := cfg.PracticeHandler; h != nil {
		api.GET("/practice/tasks", h.Tasks)
		api.GET("/practice/default-tasks", h.DefaultTasks)
		api.POST("/practice/run", h.Run)
		api.POST("/practice/submit", h.Submit)
		api.GET("/practice/mine", h.Mine)
	}

	if h := cfg.DownloadHandler; h != nil {
		api.POST("/downloads/", h.Create)
		api.GET("/downloads/file/:id", h.File)
		api.GET("/downloads/mine", h.Mine)
	}

	return r
}
