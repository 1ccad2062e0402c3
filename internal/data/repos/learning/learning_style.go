package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/pkg/dbctx"
	perrors "github.com/yungbote/vaktutor/internal/pkg/errors"
	"github.com/yungbote/vaktutor/internal/platform/logger"
)

type LearningStyleRepo interface {
	Upsert(dbc dbctx.Context, row *types.LearningStyle) error
	// GetByUser returns nil, nil when the user has no style.
	GetByUser(dbc dbctx.Context, userID uuid.UUID) (*types.LearningStyle, error)
	DeleteByUser(dbc dbctx.Context, userID uuid.UUID) (bool, error)
}

type learningStyleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningStyleRepo(db *gorm.DB, baseLog *logger.Logger) LearningStyleRepo {
	return &learningStyleRepo{db: db, log: baseLog.With("repo", "LearningStyleRepo")}
}

func (r *learningStyleRepo) Upsert(dbc dbctx.Context, row *types.LearningStyle) error {
	if row == nil || row.UserID == uuid.Nil {
		return perrors.ErrInvalidArgument
	}
	now := time.Now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	err := dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"learning_style",
				"visual_score",
				"auditory_score",
				"kinesthetic_score",
				"source",
				"updated_at",
			}),
		}).
		Create(row).Error
	return perrors.MapDB(err)
}

func (r *learningStyleRepo) GetByUser(dbc dbctx.Context, userID uuid.UUID) (*types.LearningStyle, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var rows []*types.LearningStyle
	if err := dbc.Conn(r.db).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, perrors.MapDB(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *learningStyleRepo) DeleteByUser(dbc dbctx.Context, userID uuid.UUID) (bool, error) {
	res := dbc.Conn(r.db).
		Where("user_id = ?", userID).
		Delete(&types.LearningStyle{})
	if res.Error != nil {
		return false, perrors.MapDB(res.Error)
	}
	return res.RowsAffected > 0, nil
}
