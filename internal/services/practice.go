package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/vaktutor/internal/data/repos"
	types "github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/learning/style"
	"github.com/yungbote/vaktutor/internal/learning/tasks"
	"github.com/yungbote/vaktutor/internal/pkg/dbctx"
	"github.com/yungbote/vaktutor/internal/platform/apierr"
	"github.com/yungbote/vaktutor/internal/platform/logger"
)

const (
	PracticeStatusCompleted = "completed"
	catalogTaskCount        = 3
	practiceHistoryLimit    = 30
)

type PracticeService interface {
	// Tasks builds tasks for topic, or for the learner's latest chat
	// question when topic is blank.
	Tasks(ctx context.Context, userID uuid.UUID, topic string) (types.TasksResponse, error)
	DefaultTasks() []tasks.Task
	Run(ctx context.Context, userID uuid.UUID, sourceCode string) (types.RunResult, error)
	Submit(ctx context.Context, userID uuid.UUID, req types.SubmitPracticeRequest) (types.SubmitPracticeResponse, error)
	History(ctx context.Context, userID uuid.UUID) ([]*types.PracticeActivity, error)
}

type practiceService struct {
	log      *logger.Logger
	styles   StyleService
	chats    repos.ChatHistoryRepo
	activity repos.PracticeActivityRepo
	gen      *TaskGenerator
	runner   LabRunner
}

func NewPracticeService(
	log *logger.Logger,
	styles StyleService,
	chats repos.ChatHistoryRepo,
	activity repos.PracticeActivityRepo,
	gen *TaskGenerator,
	runner LabRunner,
) PracticeService {
	return &practiceService{
		log:      log.With("service", "PracticeService"),
		styles:   styles,
		chats:    chats,
		activity: activity,
		gen:      gen,
		runner:   runner,
	}
}

// requireKinesthetic gates the practice lab.
func (s *practiceService) requireKinesthetic(ctx context.Context, userID uuid.UUID) error {
	l, err := requireStyle(ctx, s.styles, userID)
	if err != nil {
		return err
	}
	if l != style.Kinesthetic {
		return apierr.Forbidden("practice_forbidden", errors.New("practice lab is available only for kinesthetic users"))
	}
	return nil
}

func (s *practiceService) Tasks(ctx context.Context, userID uuid.UUID, topic string) (types.TasksResponse, error) {
	if err := s.requireKinesthetic(ctx, userID); err != nil {
		return types.TasksResponse{}, err
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		latest, err := s.chats.LatestQuestion(dbctx.New(ctx), userID)
		if err != nil {
			return types.TasksResponse{}, fmt.Errorf("latest question: %w", err)
		}
		topic = strings.TrimSpace(latest)
	}
	if topic == "" {
		topic = DefaultPracticeTopic
	}
	list, source := s.gen.FromTopic(ctx, topic, catalogTaskCount)
	if source == tasks.SourceAI {
		source = tasks.SourceCatalog
	}
	return types.TasksResponse{Tasks: list, Source: source, Topic: topic}, nil
}

func (s *practiceService) DefaultTasks() []tasks.Task { return tasks.Defaults() }

func (s *practiceService) Run(ctx context.Context, userID uuid.UUID, sourceCode string) (types.RunResult, error) {
	if err := s.requireKinesthetic(ctx, userID); err != nil {
		return types.RunResult{}, err
	}
	if strings.TrimSpace(sourceCode) == "" {
		return types.RunResult{}, apierr.BadRequest("invalid_request", errors.New("source_code is required"))
	}
	res := s.runner.Run(ctx, sourceCode)
	s.log.Info("Code run", "user_id", userID.String(), "runner", res.Runner, "status", res.Status)
	return res, nil
}

func (s *practiceService) Submit(ctx context.Context, userID uuid.UUID, req types.SubmitPracticeRequest) (types.SubmitPracticeResponse, error) {
	if err := s.requireKinesthetic(ctx, userID); err != nil {
		return types.SubmitPracticeResponse{}, err
	}
	name := strings.TrimSpace(req.TaskName)
	if name == "" {
		return types.SubmitPracticeResponse{}, apierr.BadRequest("invalid_request", errors.New("task_name is required"))
	}
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = PracticeStatusCompleted
	}
	if req.TimeSpent < 0 {
		req.TimeSpent = 0
	}
	now := time.Now().UTC()
	row := &types.PracticeActivity{
		ID:            uuid.New(),
		UserID:        userID,
		TaskName:      name,
		Status:        status,
		CodeSubmitted: req.CodeSubmitted,
		TimeSpent:     req.TimeSpent,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := s.activity.Create(dbctx.New(ctx), []*types.PracticeActivity{row}); err != nil {
		return types.SubmitPracticeResponse{}, fmt.Errorf("save practice activity: %w", err)
	}
	s.log.Info("Practice submitted", "user_id", userID.String(), "task", name, "status", status)
	return types.SubmitPracticeResponse{ActivityID: row.ID}, nil
}

func (s *practiceService) History(ctx context.Context, userID uuid.UUID) ([]*types.PracticeActivity, error) {
	if err := s.requireKinesthetic(ctx, userID); err != nil {
		return nil, err
	}
	return s.activity.ListRecent(dbctx.New(ctx), userID, practiceHistoryLimit)
}
