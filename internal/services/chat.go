package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/vaktutor/internal/data/repos"
	types "github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/learning/prompts"
	"github.com/yungbote/vaktutor/internal/learning/style"
	"github.com/yungbote/vaktutor/internal/learning/tasks"
	"github.com/yungbote/vaktutor/internal/pkg/dbctx"
	perrors "github.com/yungbote/vaktutor/internal/pkg/errors"
	"github.com/yungbote/vaktutor/internal/platform/apierr"
	"github.com/yungbote/vaktutor/internal/platform/logger"
	"github.com/yungbote/vaktutor/internal/platform/openai"
)

const (
	chatHistoryLimit = 30
	chatTaskCount    = 3
)

type ChatService interface {
	Ask(ctx context.Context, userID uuid.UUID, question string) (types.ContentResponse, error)
	History(ctx context.Context, userID uuid.UUID) ([]*types.ChatHistory, error)
	ClearHistory(ctx context.Context, userID uuid.UUID) (int64, error)
	Feedback(ctx context.Context, userID uuid.UUID, req types.FeedbackRequest) error
	Suggestions(topic string) []string
}

type chatService struct {
	log       *logger.Logger
	styles    StyleService
	repo      repos.ChatHistoryRepo
	tasks     *TaskGenerator
	downloads DownloadService
	ai        openai.Client
}

// NewChatService wires the tutor. downloads and ai may be nil; auditory
// answers then carry no pre-rendered audio and text comes from templates.
func NewChatService(
	log *logger.Logger,
	styles StyleService,
	repo repos.ChatHistoryRepo,
	taskGen *TaskGenerator,
	downloads DownloadService,
	ai openai.Client,
) ChatService {
	return &chatService{
		log:       log.With("service", "ChatService"),
		styles:    styles,
		repo:      repo,
		tasks:     taskGen,
		downloads: downloads,
		ai:        ai,
	}
}

func (s *chatService) Ask(ctx context.Context, userID uuid.UUID, question string) (types.ContentResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return types.ContentResponse{}, apierr.BadRequest("invalid_request", errors.New("question is required"))
	}
	l, err := s.styles.Current(ctx, userID)
	if err != nil {
		return types.ContentResponse{}, err
	}
	if l == "" {
		return types.ContentResponse{}, apierr.BadRequest("style_required", errors.New("learning style not found"))
	}

	resp := adaptiveTemplate(question, l)
	if text, err := s.tutorText(ctx, question, l); err == nil {
		resp.Text = text
	}

	if l == style.Kinesthetic && s.tasks != nil {
		list, _ := s.tasks.FromTopic(ctx, question, chatTaskCount)
		resp.Practice = &types.PracticeAssignment{Topic: question, Source: tasks.SourceChatAssigned, Tasks: list}
	}

	if l == style.Auditory && s.downloads != nil {
		dl, err := s.downloads.Create(ctx, userID, types.CreateDownloadRequest{
			ContentType: ContentAudio,
			Topic:       question,
			BaseContent: resp.Assets.AudioScript,
		})
		if err != nil {
			s.log.Warn("Audio asset skipped", "user_id", userID.String(), "error", err)
		} else {
			id := dl.DownloadID
			resp.AudioDownloadID = &id
		}
	}

	row := &types.ChatHistory{
		ID:                uuid.New(),
		UserID:            userID,
		Question:          question,
		Response:          resp.Text,
		ResponseType:      resp.ResponseType,
		LearningStyleUsed: string(l),
		Timestamp:         time.Now().UTC(),
	}
	if row.Assets, err = toJSON(resp.Assets); err != nil {
		return types.ContentResponse{}, err
	}
	if resp.Practice != nil {
		if row.Practice, err = toJSON(resp.Practice); err != nil {
			return types.ContentResponse{}, err
		}
	}
	if _, err := s.repo.Create(dbctx.New(ctx), []*types.ChatHistory{row}); err != nil {
		return types.ContentResponse{}, fmt.Errorf("save chat turn: %w", err)
	}
	resp.ChatID = row.ID
	s.log.Info("Tutor answered", "user_id", userID.String(), "chat_id", row.ID.String(), "style", string(l))
	return resp, nil
}

func (s *chatService) tutorText(ctx context.Context, question string, l style.Label) (string, error) {
	text, err := generateText(ctx, s.ai, prompts.PromptTutorAnswer, prompts.Input{
		Topic:            question,
		Style:            string(l),
		StyleInstruction: styleInstruction(l),
	})
	if err != nil {
		if !errors.Is(err, ErrAIUnavailable) {
			s.log.Warn("Tutor generation failed, using template", "error", err)
		}
		recordFallback("chat")
	}
	return text, err
}

func (s *chatService) History(ctx context.Context, userID uuid.UUID) ([]*types.ChatHistory, error) {
	return s.repo.ListRecent(dbctx.New(ctx), userID, chatHistoryLimit)
}

func (s *chatService) ClearHistory(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.repo.DeleteByUser(dbctx.New(ctx), userID)
	if err != nil {
		return 0, err
	}
	s.log.Info("Chat history cleared", "user_id", userID.String(), "rows", n)
	return n, nil
}

func (s *chatService) Feedback(ctx context.Context, userID uuid.UUID, req types.FeedbackRequest) error {
	if req.ChatID == uuid.Nil {
		return apierr.BadRequest("invalid_request", errors.New("chat_id is required"))
	}
	if req.Rating != 1 && req.Rating != -1 {
		return apierr.BadRequest("invalid_request", errors.New("rating must be 1 or -1"))
	}
	err := s.repo.SetFeedback(dbctx.New(ctx), userID, req.ChatID, req.Rating, strings.TrimSpace(req.Comment))
	if errors.Is(err, perrors.ErrNotFound) {
		return apierr.NotFound("not_found", errors.New("chat not found"))
	}
	return err
}

func (s *chatService) Suggestions(topic string) []string { return suggestionsFor(topic) }

func toJSON(v any) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
