package app

import (
	"github.com/yungbote/vaktutor/internal/platform/envutil"
	"github.com/yungbote/vaktutor/internal/platform/logger"
	"github.com/yungbote/vaktutor/internal/services"
)

type Config struct {
	Port         string
	Environment  string
	Version      string
	JWTSecretKey string
	DownloadDir  string
	CORSOrigins  string
	Judge0       services.Judge0Config
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:         envutil.String("PORT", "8080", log),
		Environment:  envutil.String("APP_ENV", "development", log),
		Version:      envutil.String("APP_VERSION", "dev", log),
		JWTSecretKey: envutil.String("JWT_SECRET_KEY", "", nil),
		DownloadDir:  envutil.String("DOWNLOAD_DIR", "downloads", log),
		CORSOrigins:  envutil.String("CORS_ORIGINS", "", log),
		Judge0:       services.Judge0ConfigFromEnv(log),
	}
}
