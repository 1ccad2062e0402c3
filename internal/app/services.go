package app

import (
	"errors"
	"fmt"

	"github.com/yungbote/vaktutor/internal/data/repos"
	"github.com/yungbote/vaktutor/internal/platform/logger"
	"github.com/yungbote/vaktutor/internal/platform/openai"
	"github.com/yungbote/vaktutor/internal/services"
)

type Services struct {
	Auth      services.AuthService
	Style     services.StyleService
	Chat      services.ChatService
	Practice  services.PracticeService
	Downloads services.DownloadService
}

// wireOpenAI returns nil when no key is configured; every AI feature then
// serves its fixed fallback content.
func wireOpenAI(log *logger.Logger) (openai.Client, error) {
	client, err := openai.NewClient(log)
	if errors.Is(err, openai.ErrNotConfigured) {
		log.Warn("OPENAI_API_KEY not set, AI generation disabled")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("init openai client: %w", err)
	}
	return client, nil
}

func wireServices(log *logger.Logger, cfg Config, r repos.Repos, ai openai.Client) (Services, error) {
	log.Info("Wiring services...")

	auth, err := services.NewAuthService(log, cfg.JWTSecretKey)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}
	styles := services.NewStyleService(log, r.LearningStyle, services.NewQuestionGenerator(log, ai))
	downloads, err := services.NewDownloadService(log, cfg.DownloadDir, styles, r.Download, ai)
	if err != nil {
		return Services{}, fmt.Errorf("init download service: %w", err)
	}
	taskGen := services.NewTaskGenerator(log, ai)
	runner := services.NewLabRunner(log, cfg.Judge0)
	if !cfg.Judge0.Usable() {
		log.Warn("Judge0 credentials missing, code runs use local java or simulation")
	}

	return Services{
		Auth:      auth,
		Style:     styles,
		Chat:      services.NewChatService(log, styles, r.ChatHistory, taskGen, downloads, ai),
		Practice:  services.NewPracticeService(log, styles, r.ChatHistory, r.PracticeActivity, taskGen, runner),
		Downloads: downloads,
	}, nil
}
