package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/vaktutor/internal/data/repos"
	types "github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/learning/style"
	"github.com/yungbote/vaktutor/internal/observability"
	"github.com/yungbote/vaktutor/internal/pkg/dbctx"
	"github.com/yungbote/vaktutor/internal/platform/apierr"
	"github.com/yungbote/vaktutor/internal/platform/logger"
)

const (
	StyleSourceTest   = "test"
	StyleSourceSelect = "select"
)

type StyleService interface {
	Questions() []style.Question
	GenerateQuestions(ctx context.Context, interests string, count int) types.QuestionsResponse
	SubmitTest(ctx context.Context, userID uuid.UUID, answers []string) (types.StyleView, error)
	Select(ctx context.Context, userID uuid.UUID, label string) (types.StyleView, error)
	Get(ctx context.Context, userID uuid.UUID) (types.StyleView, error)
	// Current returns "" when the user has no style.
	Current(ctx context.Context, userID uuid.UUID) (style.Label, error)
	Clear(ctx context.Context, userID uuid.UUID) (bool, error)
}

type styleService struct {
	log       *logger.Logger
	repo      repos.LearningStyleRepo
	questions *QuestionGenerator
}

func NewStyleService(log *logger.Logger, repo repos.LearningStyleRepo, questions *QuestionGenerator) StyleService {
	return &styleService{
		log:       log.With("service", "StyleService"),
		repo:      repo,
		questions: questions,
	}
}

func (s *styleService) Questions() []style.Question { return style.DefaultQuestions() }

func (s *styleService) GenerateQuestions(ctx context.Context, interests string, count int) types.QuestionsResponse {
	qs, source := s.questions.Generate(ctx, interests, count)
	return types.QuestionsResponse{Questions: qs, Source: source}
}

// SubmitTest scores a full answer sheet. The sheet length is the question
// count, so between MinQuestions and MaxAnswers answers are required.
func (s *styleService) SubmitTest(ctx context.Context, userID uuid.UUID, answers []string) (types.StyleView, error) {
	if len(answers) == 0 {
		return types.StyleView{}, apierr.BadRequest("invalid_request", errors.New("answers list is required"))
	}
	if len(answers) < style.MinQuestions || len(answers) > style.MaxAnswers {
		return types.StyleView{}, apierr.BadRequest("invalid_request",
			fmt.Errorf("answers must be between %d and %d", style.MinQuestions, style.MaxAnswers))
	}
	labels, err := style.ParseAnswers(answers)
	if err != nil {
		return types.StyleView{}, apierr.BadRequest("invalid_answer", err)
	}
	res, err := style.Score(labels, len(labels))
	if err != nil {
		return types.StyleView{}, apierr.BadRequest("invalid_answer", err)
	}
	return s.save(ctx, userID, res, StyleSourceTest)
}

func (s *styleService) Select(ctx context.Context, userID uuid.UUID, label string) (types.StyleView, error) {
	l, err := style.ParseLabel(label)
	if err != nil {
		return types.StyleView{}, apierr.BadRequest("invalid_request", errors.New("invalid learning style"))
	}
	res, err := style.FromSelection(l, 0)
	if err != nil {
		return types.StyleView{}, apierr.BadRequest("invalid_request", err)
	}
	return s.save(ctx, userID, res, StyleSourceSelect)
}

func (s *styleService) save(ctx context.Context, userID uuid.UUID, res style.Result, source string) (types.StyleView, error) {
	row := &types.LearningStyle{
		UserID:           userID,
		LearningStyle:    string(res.Dominant),
		VisualScore:      res.Visual,
		AuditoryScore:    res.Auditory,
		KinestheticScore: res.Kinesthetic,
		Source:           source,
	}
	if err := s.repo.Upsert(dbctx.New(ctx), row); err != nil {
		return types.StyleView{}, fmt.Errorf("save learning style: %w", err)
	}
	observability.Current().IncStyleResult(string(res.Dominant), source)
	s.log.Info("Learning style saved", "user_id", userID.String(), "style", string(res.Dominant), "source", source)
	return types.StyleViewFromResult(res, source), nil
}

func (s *styleService) Get(ctx context.Context, userID uuid.UUID) (types.StyleView, error) {
	row, err := s.repo.GetByUser(dbctx.New(ctx), userID)
	if err != nil {
		return types.StyleView{}, err
	}
	if row == nil {
		return types.StyleView{}, nil
	}
	return types.StyleView{
		LearningStyle:    row.LearningStyle,
		VisualScore:      row.VisualScore,
		AuditoryScore:    row.AuditoryScore,
		KinestheticScore: row.KinestheticScore,
		Source:           row.Source,
	}, nil
}

func (s *styleService) Current(ctx context.Context, userID uuid.UUID) (style.Label, error) {
	row, err := s.repo.GetByUser(dbctx.New(ctx), userID)
	if err != nil || row == nil {
		return "", err
	}
	l, err := style.ParseLabel(row.LearningStyle)
	if err != nil {
		s.log.Warn("Stored learning style is invalid", "user_id", userID.String(), "style", row.LearningStyle)
		return "", nil
	}
	return l, nil
}

func (s *styleService) Clear(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.repo.DeleteByUser(dbctx.New(ctx), userID)
}

// requireStyle returns the caller's style or a 400 when none is set.
func requireStyle(ctx context.Context, styles StyleService, userID uuid.UUID) (style.Label, error) {
	l, err := styles.Current(ctx, userID)
	if err != nil {
		return "", err
	}
	if l == "" {
		return "", apierr.BadRequest("style_required", errors.New("learning style not set"))
	}
	return l, nil
}
