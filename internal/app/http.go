package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vaktutor/internal/data/db"
	"github.com/yungbote/vaktutor/internal/http"
	httpH "github.com/yungbote/vaktutor/internal/http/handlers"
	httpMW "github.com/yungbote/vaktutor/internal/http/middleware"
	"github.com/yungbote/vaktutor/internal/observability"
	"github.com/yungbote/vaktutor/internal/platform/logger"
)

const serviceName = "vaktutor-api"

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health    *httpH.HealthHandler
	Style     *httpH.StyleHandler
	Chat      *httpH.ChatHandler
	Practice  *httpH.PracticeHandler
	Downloads *httpH.DownloadHandler
}

func wireHandlers(log *logger.Logger, database *db.Service, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(func(ctx context.Context) error {
			sqlDB, err := database.DB().DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
		Style:     httpH.NewStyleHandler(services.Style),
		Chat:      httpH.NewChatHandler(services.Chat),
		Practice:  httpH.NewPracticeHandler(services.Practice),
		Downloads: httpH.NewDownloadHandler(services.Downloads),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:             log,
		ServiceName:     serviceName,
		CORSOrigins:     cfg.CORSOrigins,
		Metrics:         metrics,
		AuthMiddleware:  middleware.Auth,
		HealthHandler:   handlers.Health,
		StyleHandler:    handlers.Style,
		ChatHandler:     handlers.Chat,
		PracticeHandler: handlers.Practice,
		DownloadHandler: handlers.Downloads,
	})
}
