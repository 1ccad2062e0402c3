package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/pkg/dbctx"
	perrors "github.com/yungbote/vaktutor/internal/pkg/errors"
	"github.com/yungbote/vaktutor/internal/platform/logger"
)

type ChatHistoryRepo interface {
	Create(dbc dbctx.Context, rows []*types.ChatHistory) ([]*types.ChatHistory, error)
	// ListRecent returns the user's turns, newest first.
	ListRecent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ChatHistory, error)
	// LatestQuestion returns "" when the user has never asked anything.
	LatestQuestion(dbc dbctx.Context, userID uuid.UUID) (string, error)
	SetFeedback(dbc dbctx.Context, userID, chatID uuid.UUID, rating int, comment string) error
	DeleteByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
}

type chatHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatHistoryRepo(db *gorm.DB, baseLog *logger.Logger) ChatHistoryRepo {
	return &chatHistoryRepo{db: db, log: baseLog.With("repo", "ChatHistoryRepo")}
}

func (r *chatHistoryRepo) Create(dbc dbctx.Context, rows []*types.ChatHistory) ([]*types.ChatHistory, error) {
	if len(rows) == 0 {
		return []*types.ChatHistory{}, nil
	}
	now := time.Now().UTC()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		if row.Timestamp.IsZero() {
			row.Timestamp = now
		}
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, perrors.MapDB(err)
	}
	return rows, nil
}

func (r *chatHistoryRepo) ListRecent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ChatHistory, error) {
	var out []*types.ChatHistory
	if userID == uuid.Nil {
		return out, nil
	}
	if limit <= 0 {
		limit = 30
	}
	if err := dbc.Conn(r.db).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, perrors.MapDB(err)
	}
	return out, nil
}

func (r *chatHistoryRepo) LatestQuestion(dbc dbctx.Context, userID uuid.UUID) (string, error) {
	rows, err := r.ListRecent(dbc, userID, 1)
	if err != nil || len(rows) == 0 {
		return "", err
	}
	return rows[0].Question, nil
}

func (r *chatHistoryRepo) SetFeedback(dbc dbctx.Context, userID, chatID uuid.UUID, rating int, comment string) error {
	res := dbc.Conn(r.db).
		Model(&types.ChatHistory{}).
		Where("id = ? AND user_id = ?", chatID, userID).
		Updates(map[string]any{
			"rating":           rating,
			"feedback_comment": comment,
		})
	if res.Error != nil {
		return perrors.MapDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return perrors.ErrNotFound
	}
	return nil
}

func (r *chatHistoryRepo) DeleteByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, nil
	}
	res := dbc.Conn(r.db).
		Where("user_id = ?", userID).
		Delete(&types.ChatHistory{})
	if res.Error != nil {
		return 0, perrors.MapDB(res.Error)
	}
	return res.RowsAffected, nil
}
