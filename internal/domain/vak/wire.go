package vak

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/vaktutor/internal/learning/style"
	"github.com/yungbote/vaktutor/internal/learning/tasks"
)

// Assets are the style-specific extras attached to a tutor answer.
type Assets struct {
	Diagram            string   `json:"diagram,omitempty"`
	VideoURL           string   `json:"video_url,omitempty"`
	GIFURL             string   `json:"gif_url,omitempty"`
	AudioScript        string   `json:"audio_script,omitempty"`
	AudioURL           string   `json:"audio_url,omitempty"`
	StarterCode        string   `json:"starter_code,omitempty"`
	TaskSheet          string   `json:"task_sheet,omitempty"`
	SuggestedDownloads []string `json:"suggested_downloads,omitempty"`
}

// PracticeAssignment is the task bundle a chat answer hands to the lab.
type PracticeAssignment struct {
	Topic  string       `json:"topic"`
	Source tasks.Source `json:"source"`
	Tasks  []tasks.Task `json:"tasks"`
}

// ContentResponse is one adaptive tutor answer.
type ContentResponse struct {
	Text            string              `json:"text"`
	ResponseType    string              `json:"response_type"`
	Assets          Assets              `json:"assets"`
	Practice        *PracticeAssignment `json:"practice,omitempty"`
	ChatID          uuid.UUID           `json:"chat_id"`
	AudioDownloadID *uuid.UUID          `json:"audio_download_id,omitempty"`
	// AskedQuestion is filled client-side before caching.
	AskedQuestion string `json:"asked_question,omitempty"`
}

type SubmitTestRequest struct {
	Answers []string `json:"answers"`
}

type SelectStyleRequest struct {
	LearningStyle string `json:"learning_style"`
}

// StyleView is the stored style; LearningStyle is empty when none is set.
type StyleView struct {
	LearningStyle    string `json:"learning_style"`
	VisualScore      int    `json:"visual_score"`
	AuditoryScore    int    `json:"auditory_score"`
	KinestheticScore int    `json:"kinesthetic_score"`
	Source           string `json:"source,omitempty"`
}

func StyleViewFromResult(r style.Result, source string) StyleView {
	return StyleView{
		LearningStyle:    string(r.Dominant),
		VisualScore:      r.Visual,
		AuditoryScore:    r.Auditory,
		KinestheticScore: r.Kinesthetic,
		Source:           source,
	}
}

type GenerateQuestionsRequest struct {
	QuestionCount int    `json:"question_count"`
	Interests     string `json:"interests"`
}

type QuestionsResponse struct {
	Questions []style.Question `json:"questions"`
	// Source is "ai" or "default".
	Source string `json:"source"`
}

type AskRequest struct {
	Question string `json:"question"`
}

type FeedbackRequest struct {
	ChatID  uuid.UUID `json:"chat_id"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment"`
}

type SuggestionsResponse struct {
	Prompts []string `json:"prompts"`
}

type TasksResponse struct {
	Tasks  []tasks.Task `json:"tasks"`
	Source tasks.Source `json:"source"`
	Topic  string       `json:"topic"`
}

type RunRequest struct {
	SourceCode string `json:"source_code"`
}

type RunResult struct {
	// Status is "success" or "error".
	Status       string `json:"status"`
	Stdout       string `json:"stdout"`
	Stderr       string `json:"stderr"`
	Judge0Status string `json:"judge0_status"`
	// Runner is "judge0", "local-java" or "simulated".
	Runner string `json:"runner"`
	Note   string `json:"note"`
}

type SubmitPracticeRequest struct {
	TaskName      string `json:"task_name"`
	Status        string `json:"status"`
	CodeSubmitted string `json:"code_submitted"`
	TimeSpent     int    `json:"time_spent"`
}

type SubmitPracticeResponse struct {
	ActivityID uuid.UUID `json:"activity_id"`
}

type CreateDownloadRequest struct {
	ContentType string `json:"content_type"`
	Topic       string `json:"topic"`
	Content     string `json:"content"`
	BaseContent string `json:"base_content"`
}

type DownloadView struct {
	DownloadID  uuid.UUID `json:"download_id"`
	ContentType string    `json:"content_type"`
	Topic       string    `json:"topic,omitempty"`
	DownloadURL string    `json:"download_url"`
	Timestamp   time.Time `json:"timestamp"`
}
