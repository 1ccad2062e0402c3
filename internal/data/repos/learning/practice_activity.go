package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/pkg/dbctx"
	perrors "github.com/yungbote/vaktutor/internal/pkg/errors"
	"github.com/yungbote/vaktutor/internal/platform/logger"
)

type PracticeActivityRepo interface {
	Create(dbc dbctx.Context, rows []*types.PracticeActivity) ([]*types.PracticeActivity, error)
	// ListRecent returns the user's activities, most recently updated first.
	ListRecent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.PracticeActivity, error)
}

type practiceActivityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPracticeActivityRepo(db *gorm.DB, baseLog *logger.Logger) PracticeActivityRepo {
	return &practiceActivityRepo{db: db, log: baseLog.With("repo", "PracticeActivityRepo")}
}

func (r *practiceActivityRepo) Create(dbc dbctx.Context, rows []*types.PracticeActivity) ([]*types.PracticeActivity, error) {
	if len(rows) == 0 {
		return []*types.PracticeActivity{}, nil
	}
	now := time.Now().UTC()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		if row.UpdatedAt.IsZero() {
			row.UpdatedAt = now
		}
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, perrors.MapDB(err)
	}
	return rows, nil
}

func (r *practiceActivityRepo) ListRecent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.PracticeActivity, error) {
	var out []*types.PracticeActivity
	if userID == uuid.Nil {
		return out, nil
	}
	if limit <= 0 {
		limit = 30
	}
	if err := dbc.Conn(r.db).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, perrors.MapDB(err)
	}
	return out, nil
}
