package domain

import "github.com/yungbote/vaktutor/internal/domain/vak"

type (
	LearningStyle    = vak.LearningStyle
	ChatHistory      = vak.ChatHistory
	PracticeActivity = vak.PracticeActivity
	Download         = vak.Download

	Assets             = vak.Assets
	PracticeAssignment = vak.PracticeAssignment
	ContentResponse    = vak.ContentResponse
	StyleView          = vak.StyleView
	RunResult          = vak.RunResult
	DownloadView       = vak.DownloadView

	SubmitTestRequest        = vak.SubmitTestRequest
	SelectStyleRequest       = vak.SelectStyleRequest
	GenerateQuestionsRequest = vak.GenerateQuestionsRequest
	QuestionsResponse        = vak.QuestionsResponse
	AskRequest               = vak.AskRequest
	FeedbackRequest          = vak.FeedbackRequest
	SuggestionsResponse      = vak.SuggestionsResponse
	TasksResponse            = vak.TasksResponse
	RunRequest               = vak.RunRequest
	SubmitPracticeRequest    = vak.SubmitPracticeRequest
	SubmitPracticeResponse   = vak.SubmitPracticeResponse
	CreateDownloadRequest    = vak.CreateDownloadRequest
)

var StyleViewFromResult = vak.StyleViewFromResult

// AllModels lists every persisted model in migration order.
func AllModels() []any {
	return []any{
		&LearningStyle{},
		&ChatHistory{},
		&PracticeActivity{},
		&Download{},
	}
}
