package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/learning/style"
	"github.com/yungbote/vaktutor/internal/learning/tasks"
)

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthcheck", nil, nil, nil)
}

// ---- style ----

func (c *Client) Questions(ctx context.Context) ([]style.Question, error) {
	var out domain.QuestionsResponse
	if err := c.do(ctx, http.MethodGet, "/api/style/questions", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

func (c *Client) GenerateQuestions(ctx context.Context, count int, interests string) (domain.QuestionsResponse, error) {
	var out domain.QuestionsResponse
	err := c.do(ctx, http.MethodPost, "/api/style/generate-questions", nil,
		domain.GenerateQuestionsRequest{QuestionCount: count, Interests: interests}, &out)
	return out, err
}

func (c *Client) SubmitTest(ctx context.Context, answers []style.Label) (domain.StyleView, error) {
	raw := make([]string, len(answers))
	for i, a := range answers {
		raw[i] = string(a)
	}
	var out domain.StyleView
	err := c.do(ctx, http.MethodPost, "/api/style/submit-test", nil, domain.SubmitTestRequest{Answers: raw}, &out)
	return out, err
}

func (c *Client) SelectStyle(ctx context.Context, l style.Label) (domain.StyleView, error) {
	var out domain.StyleView
	err := c.do(ctx, http.MethodPost, "/api/style/select", nil, domain.SelectStyleRequest{LearningStyle: string(l)}, &out)
	return out, err
}

func (c *Client) MyStyle(ctx context.Context) (domain.StyleView, error) {
	var out domain.StyleView
	err := c.do(ctx, http.MethodGet, "/api/style/mine", nil, nil, &out)
	return out, err
}

func (c *Client) ClearStyle(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/style/mine", nil, nil, nil)
}

// ---- chat ----

func (c *Client) Ask(ctx context.Context, question string) (domain.ContentResponse, error) {
	var out domain.ContentResponse
	err := c.do(ctx, http.MethodPost, "/api/chat/", nil, domain.AskRequest{Question: question}, &out)
	return out, err
}

func (c *Client) History(ctx context.Context) ([]domain.ChatHistory, error) {
	var out []domain.ChatHistory
	err := c.do(ctx, http.MethodGet, "/api/chat/history", nil, nil, &out)
	return out, err
}

func (c *Client) ClearHistory(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/chat/history", nil, nil, nil)
}

func (c *Client) Feedback(ctx context.Context, chatID uuid.UUID, rating int, comment string) error {
	return c.do(ctx, http.MethodPost, "/api/chat/feedback", nil,
		domain.FeedbackRequest{ChatID: chatID, Rating: rating, Comment: comment}, nil)
}

func (c *Client) Suggestions(ctx context.Context, topic string) ([]string, error) {
	var out domain.SuggestionsResponse
	q := url.Values{}
	if topic != "" {
		q.Set("topic", topic)
	}
	err := c.do(ctx, http.MethodGet, "/api/chat/suggestions", q, nil, &out)
	return out.Prompts, err
}

// ---- practice ----

func (c *Client) TasksByTopic(ctx context.Context, topic string) (domain.TasksResponse, error) {
	var out domain.TasksResponse
	err := c.do(ctx, http.MethodGet, "/api/practice/tasks", url.Values{"topic": {topic}}, nil, &out)
	return out, err
}

func (c *Client) DefaultTasks(ctx context.Context) ([]tasks.Task, error) {
	var out domain.TasksResponse
	if err := c.do(ctx, http.MethodGet, "/api/practice/default-tasks", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

func (c *Client) SubmitPractice(ctx context.Context, req domain.SubmitPracticeRequest) (domain.SubmitPracticeResponse, error) {
	var out domain.SubmitPracticeResponse
	err := c.do(ctx, http.MethodPost, "/api/practice/submit", nil, req, &out)
	return out, err
}

func (c *Client) Run(ctx context.Context, sourceCode string) (domain.RunResult, error) {
	var out domain.RunResult
	err := c.do(ctx, http.MethodPost, "/api/practice/run", nil, domain.RunRequest{SourceCode: sourceCode}, &out)
	return out, err
}

func (c *Client) PracticeHistory(ctx context.Context) ([]domain.PracticeActivity, error) {
	var out []domain.PracticeActivity
	err := c.do(ctx, http.MethodGet, "/api/practice/mine", nil, nil, &out)
	return out, err
}

// ---- downloads ----

func (c *Client) CreateDownload(ctx context.Context, req domain.CreateDownloadRequest) (domain.DownloadView, error) {
	var out domain.DownloadView
	err := c.do(ctx, http.MethodPost, "/api/downloads/", nil, req, &out)
	return out, err
}

func (c *Client) FetchDownload(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return c.doRaw(ctx, http.MethodGet, "/api/downloads/file/"+id.String(), nil, nil)
}

func (c *Client) Downloads(ctx context.Context) ([]domain.DownloadView, error) {
	var out []domain.DownloadView
	err := c.do(ctx, http.MethodGet, "/api/downloads/mine", nil, nil, &out)
	return out, err
}
