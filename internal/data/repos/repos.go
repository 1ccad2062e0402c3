package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/vaktutor/internal/data/repos/chat"
	"github.com/yungbote/vaktutor/internal/data/repos/downloads"
	"github.com/yungbote/vaktutor/internal/data/repos/learning"
	"github.com/yungbote/vaktutor/internal/platform/logger"
)

type LearningStyleRepo = learning.LearningStyleRepo
type PracticeActivityRepo = learning.PracticeActivityRepo
type ChatHistoryRepo = chat.ChatHistoryRepo
type DownloadRepo = downloads.DownloadRepo

type Repos struct {
	LearningStyle    LearningStyleRepo
	PracticeActivity PracticeActivityRepo
	ChatHistory      ChatHistoryRepo
	Download         DownloadRepo
}

func New(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		LearningStyle:    learning.NewLearningStyleRepo(db, log),
		PracticeActivity: learning.NewPracticeActivityRepo(db, log),
		ChatHistory:      chat.NewChatHistoryRepo(db, log),
		Download:         downloads.NewDownloadRepo(db, log),
	}
}
