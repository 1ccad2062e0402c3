package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/vaktutor/internal/data/repos"
	"github.com/yungbote/vaktutor/internal/data/repos/testutil"
	types "github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/platform/apierr"
	"github.com/yungbote/vaktutor/internal/platform/openai"
)

// fakeAI scripts model output. A nil func fails the call.
type fakeAI struct {
	json   func(schemaName string) (map[string]any, error)
	text   func(user string) (string, error)
	speech func(text string) ([]byte, error)
}

var errModelDown = errors.New("model down")

func (f *fakeAI) GenerateJSON(_ context.Context, _, _, schemaName string, _ map[string]any) (map[string]any, error) {
	if f.json == nil {
		return nil, errModelDown
	}
	return f.json(schemaName)
}

func (f *fakeAI) GenerateText(_ context.Context, _, user string) (string, error) {
	if f.text == nil {
		return "", errModelDown
	}
	return f.text(user)
}

func (f *fakeAI) Speech(_ context.Context, text string) ([]byte, error) {
	if f.speech == nil {
		return nil, errModelDown
	}
	return f.speech(text)
}

var _ openai.Client = (*fakeAI)(nil)

type testEnv struct {
	repos     repos.Repos
	styles    StyleService
	downloads DownloadService
	chat      ChatService
	practice  PracticeService
	runner    *stubRunner
}

type stubRunner struct{ calls int }

func (s *stubRunner) Run(_ context.Context, code string) types.RunResult {
	s.calls++
	return simulateJava(code, "stub")
}

func newEnv(t *testing.T, ai openai.Client) *testEnv {
	t.Helper()
	log := testutil.Logger(t)
	db := testutil.DB(t)
	r := repos.New(db, log)

	styles := NewStyleService(log, r.LearningStyle, NewQuestionGenerator(log, ai))
	downloads, err := NewDownloadService(log, t.TempDir(), styles, r.Download, ai)
	if err != nil {
		t.Fatalf("NewDownloadService: %v", err)
	}
	gen := NewTaskGenerator(log, ai)
	runner := &stubRunner{}
	return &testEnv{
		repos:     r,
		styles:    styles,
		downloads: downloads,
		chat:      NewChatService(log, styles, r.ChatHistory, gen, downloads, ai),
		practice:  NewPracticeService(log, styles, r.ChatHistory, r.PracticeActivity, gen, runner),
		runner:    runner,
	}
}

func (e *testEnv) userWithStyle(t *testing.T, label string) uuid.UUID {
	t.Helper()
	uid := uuid.New()
	if _, err := e.styles.Select(context.Background(), uid, label); err != nil {
		t.Fatalf("Select(%s): %v", label, err)
	}
	return uid
}

func wantStatus(t *testing.T, err error, status int) *apierr.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("want status %d, got nil error", status)
	}
	ae := apierr.From(err)
	if ae.Status != status {
		t.Fatalf("status: want=%d got=%d (%v)", status, ae.Status, err)
	}
	return ae
}
